package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tessera/internal/auth"
	"tessera/internal/domain"
)

type comentarioStore interface {
	Create(ctx context.Context, c *domain.Comentario) error
	GetByID(ctx context.Context, id int64) (*domain.Comentario, error)
	ListByVersao(ctx context.Context, versaoID int64) ([]domain.Comentario, error)
	UpdateResolvido(ctx context.Context, id int64, resolvido bool) error
	Delete(ctx context.Context, id int64) error
}

// NovoComentarioRequest é o corpo de POST /comentarios
type NovoComentarioRequest struct {
	VersaoID     int64  `json:"versaoId"`
	Comentario   string `json:"comentario"`
	PosicaoTexto string `json:"posicaoTexto"`
}

func (r NovoComentarioRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.VersaoID, validation.Required),
		validation.Field(&r.Comentario, validation.Required),
		validation.Field(&r.PosicaoTexto, validation.Length(0, 100)),
	)
}

// ComentarioService gerencia comentários por versão. A âncora (posicaoTexto)
// é atribuída na criação e nunca muda; respostas têm um único nível e não
// carregam âncora própria.
type ComentarioService struct {
	comentarios comentarioStore
	versoes     versaoStore
	users       userRefStore
	permissions *PermissionService
	audit       *AuditService
}

func NewComentarioService(comentarios comentarioStore, versoes versaoStore, users userRefStore, permissions *PermissionService, audit *AuditService) *ComentarioService {
	return &ComentarioService{
		comentarios: comentarios,
		versoes:     versoes,
		users:       users,
		permissions: permissions,
		audit:       audit,
	}
}

func (s *ComentarioService) ListByVersao(ctx context.Context, identity *auth.Identity, versaoID int64) ([]domain.Comentario, error) {
	if _, err := s.versaoMonografia(ctx, identity, versaoID, OperationView); err != nil {
		return nil, err
	}

	comentarios, err := s.comentarios.ListByVersao(ctx, versaoID)
	if err != nil {
		return nil, err
	}

	if err := s.attachAutores(ctx, comentarios); err != nil {
		return nil, err
	}

	return comentarios, nil
}

func (s *ComentarioService) Create(ctx context.Context, identity *auth.Identity, req NovoComentarioRequest) (*domain.Comentario, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.versaoMonografia(ctx, identity, req.VersaoID, OperationComment); err != nil {
		return nil, err
	}

	var posicao *string
	if req.PosicaoTexto != "" {
		posicao = &req.PosicaoTexto
	}

	c := &domain.Comentario{
		VersaoID:     req.VersaoID,
		AutorID:      identity.UserID,
		Comentario:   req.Comentario,
		PosicaoTexto: posicao,
	}

	if err := s.comentarios.Create(ctx, c); err != nil {
		return nil, err
	}

	c.Autor = domain.UserRef{ID: identity.UserID, Nome: identity.Nome, Username: identity.Username}
	return c, nil
}

// Responder cria um comentário vinculado ao pai, herdando a versão dele.
// Responder a uma resposta é rejeitado: a thread tem um nível só.
func (s *ComentarioService) Responder(ctx context.Context, identity *auth.Identity, parentID int64, texto string) (*domain.Comentario, error) {
	if texto == "" {
		return nil, fmt.Errorf("o comentário não pode ser vazio")
	}

	parent, err := s.comentarios.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, ErrRespostaAninhada
	}

	if _, err := s.versaoMonografia(ctx, identity, parent.VersaoID, OperationComment); err != nil {
		return nil, err
	}

	c := &domain.Comentario{
		VersaoID:   parent.VersaoID,
		AutorID:    identity.UserID,
		Comentario: texto,
		ParentID:   &parentID,
	}

	if err := s.comentarios.Create(ctx, c); err != nil {
		return nil, err
	}

	c.Autor = domain.UserRef{ID: identity.UserID, Nome: identity.Nome, Username: identity.Username}
	return c, nil
}

func (s *ComentarioService) Resolver(ctx context.Context, identity *auth.Identity, comentarioID int64, resolvido bool) (*domain.Comentario, error) {
	c, err := s.comentarios.GetByID(ctx, comentarioID)
	if err != nil {
		return nil, err
	}

	if !CanResolverComentario(identity, c) {
		return nil, ErrForbidden
	}

	if err := s.comentarios.UpdateResolvido(ctx, comentarioID, resolvido); err != nil {
		return nil, err
	}

	c.Resolvido = resolvido
	single := []domain.Comentario{*c}
	if err := s.attachAutores(ctx, single); err != nil {
		return nil, err
	}

	return &single[0], nil
}

// Excluir remove o comentário e, por cascata, as respostas
func (s *ComentarioService) Excluir(ctx context.Context, identity *auth.Identity, comentarioID int64) error {
	c, err := s.comentarios.GetByID(ctx, comentarioID)
	if err != nil {
		return err
	}

	if !CanDeleteComentario(identity, c) {
		return ErrForbidden
	}

	if err := s.comentarios.Delete(ctx, comentarioID); err != nil {
		return err
	}

	s.audit.Record(ctx, identity.Username, "EXCLUSAO_COMENTARIO",
		fmt.Sprintf("comentário %d da versão %d", comentarioID, c.VersaoID))
	return nil
}

func (s *ComentarioService) versaoMonografia(ctx context.Context, identity *auth.Identity, versaoID int64, op OperationType) (*domain.Versao, error) {
	v, err := s.versoes.GetByID(ctx, versaoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.permissions.CheckMonografia(ctx, v.MonografiaID, identity, op); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *ComentarioService) attachAutores(ctx context.Context, comentarios []domain.Comentario) error {
	ids := make([]int64, 0, len(comentarios))
	for _, c := range comentarios {
		ids = append(ids, c.AutorID)
	}

	refs, err := s.users.GetRefs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range comentarios {
		comentarios[i].Autor = refs[comentarios[i].AutorID]
	}
	return nil
}
