package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/service/s3"
)

type versaoStore interface {
	Create(ctx context.Context, v *domain.Versao) error
	GetByID(ctx context.Context, id int64) (*domain.Versao, error)
	ListByMonografia(ctx context.Context, monografiaID int64) ([]domain.Versao, error)
	CountByMonografia(ctx context.Context, monografiaID int64) (int64, error)
}

// NovaVersaoRequest é o corpo de POST /versoes
type NovaVersaoRequest struct {
	MonografiaID   int64  `json:"monografiaId"`
	Conteudo       string `json:"conteudo"`
	MensagemCommit string `json:"mensagemCommit"`
	Tag            string `json:"tag"`
}

func (r NovaVersaoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MonografiaID, validation.Required),
		validation.Field(&r.Conteudo, validation.Required),
		validation.Field(&r.MensagemCommit, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Tag, validation.Length(0, 100)),
	)
}

// VersaoService grava e lê snapshots imutáveis do conteúdo da monografia.
// Metadados ficam no Postgres; o HTML de cada versão vira um objeto no
// armazenamento de conteúdo.
type VersaoService struct {
	versoes     versaoStore
	users       userRefStore
	store       s3.ContentStore
	permissions *PermissionService
	audit       *AuditService
	sanitizer   *bluemonday.Policy
}

func NewVersaoService(versoes versaoStore, users userRefStore, store s3.ContentStore, permissions *PermissionService, audit *AuditService) *VersaoService {
	// Política UGC, estendida para preservar as âncoras de comentário que o
	// editor embute como spans
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class", "data-comment-anchor-id").OnElements("span")

	return &VersaoService{
		versoes:     versoes,
		users:       users,
		store:       store,
		permissions: permissions,
		audit:       audit,
		sanitizer:   sanitizer,
	}
}

func (s *VersaoService) ListByMonografia(ctx context.Context, identity *auth.Identity, monografiaID int64) ([]domain.Versao, error) {
	if _, err := s.permissions.CheckMonografia(ctx, monografiaID, identity, OperationView); err != nil {
		return nil, err
	}

	versoes, err := s.versoes.ListByMonografia(ctx, monografiaID)
	if err != nil {
		return nil, err
	}

	if err := s.attachCriadoPor(ctx, versoes); err != nil {
		return nil, err
	}

	return versoes, nil
}

func (s *VersaoService) Get(ctx context.Context, identity *auth.Identity, versaoID int64) (*domain.Versao, error) {
	v, err := s.versoes.GetByID(ctx, versaoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.permissions.CheckMonografia(ctx, v.MonografiaID, identity, OperationView); err != nil {
		return nil, err
	}

	single := []domain.Versao{*v}
	if err := s.attachCriadoPor(ctx, single); err != nil {
		return nil, err
	}

	return &single[0], nil
}

// GetConteudo devolve o HTML bruto gravado para a versão, sem qualquer
// processamento adicional.
func (s *VersaoService) GetConteudo(ctx context.Context, identity *auth.Identity, versaoID int64) (string, error) {
	v, err := s.versoes.GetByID(ctx, versaoID)
	if err != nil {
		return "", err
	}

	if _, err := s.permissions.CheckMonografia(ctx, v.MonografiaID, identity, OperationView); err != nil {
		return "", err
	}

	data, err := s.store.Load(ctx, v.CaminhoArquivo)
	if err != nil {
		return "", fmt.Errorf("erro ao ler conteúdo da versão: %w", err)
	}

	return string(data), nil
}

// Create grava um novo snapshot. O número da versão é sequencial por
// monografia (contagem + 1); o conteúdo é sanitizado antes do hash, de modo
// que o hash registrado corresponde exatamente aos bytes armazenados.
func (s *VersaoService) Create(ctx context.Context, identity *auth.Identity, req NovaVersaoRequest) (*domain.Versao, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.permissions.CheckMonografia(ctx, req.MonografiaID, identity, OperationEdit)
	if err != nil {
		return nil, err
	}

	conteudo := s.sanitizer.Sanitize(req.Conteudo)
	if strings.TrimSpace(conteudo) == "" {
		return nil, fmt.Errorf("conteúdo vazio após sanitização")
	}

	count, err := s.versoes.CountByMonografia(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	numeroVersao := fmt.Sprintf("%d.0", count+1)

	sum := sha256.Sum256([]byte(conteudo))
	nomeArquivo := fmt.Sprintf("monografia_%d_v%s.html", m.ID, numeroVersao)
	caminho := fmt.Sprintf("monografias/%d/%s", m.ID, nomeArquivo)

	if err := s.store.Save(ctx, caminho, []byte(conteudo)); err != nil {
		return nil, fmt.Errorf("erro ao salvar arquivo da versão: %w", err)
	}

	var tag *string
	if req.Tag != "" {
		tag = &req.Tag
	}

	v := &domain.Versao{
		MonografiaID:   m.ID,
		NumeroVersao:   numeroVersao,
		HashArquivo:    hex.EncodeToString(sum[:]),
		NomeArquivo:    nomeArquivo,
		CaminhoArquivo: caminho,
		MensagemCommit: req.MensagemCommit,
		Tag:            tag,
		CriadoPorID:    identity.UserID,
		TamanhoArquivo: int64(len(conteudo)),
	}

	if err := s.versoes.Create(ctx, v); err != nil {
		// Linha não gravada: o objeto fica órfão no bucket, removemos
		if delErr := s.store.Delete(ctx, caminho); delErr != nil {
			log.Printf("[Versao] Failed to clean up orphan object %s: %v", caminho, delErr)
		}
		return nil, err
	}

	v.CriadoPor = domain.UserRef{ID: identity.UserID, Nome: identity.Nome, Username: identity.Username}
	s.audit.Record(ctx, identity.Username, "NOVA_VERSAO",
		fmt.Sprintf("monografia %d, versão %s (%d bytes)", m.ID, numeroVersao, v.TamanhoArquivo))

	return v, nil
}

func (s *VersaoService) attachCriadoPor(ctx context.Context, versoes []domain.Versao) error {
	ids := make([]int64, 0, len(versoes))
	for _, v := range versoes {
		ids = append(ids, v.CriadoPorID)
	}

	refs, err := s.users.GetRefs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range versoes {
		versoes[i].CriadoPor = refs[versoes[i].CriadoPorID]
	}
	return nil
}
