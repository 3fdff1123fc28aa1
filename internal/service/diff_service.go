package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/service/s3"
)

// DiffService compara duas versões linha a linha. O resultado é derivado e
// nunca persistido.
type DiffService struct {
	versoes     versaoStore
	users       userRefStore
	store       s3.ContentStore
	permissions *PermissionService
}

func NewDiffService(versoes versaoStore, users userRefStore, store s3.ContentStore, permissions *PermissionService) *DiffService {
	return &DiffService{versoes: versoes, users: users, store: store, permissions: permissions}
}

func (s *DiffService) Comparar(ctx context.Context, identity *auth.Identity, versaoBaseID, versaoNovaID int64) (*domain.DiffResponse, error) {
	if versaoBaseID == versaoNovaID {
		return nil, ErrMesmaVersao
	}

	base, err := s.versoes.GetByID(ctx, versaoBaseID)
	if err != nil {
		return nil, err
	}
	nova, err := s.versoes.GetByID(ctx, versaoNovaID)
	if err != nil {
		return nil, err
	}
	if base.MonografiaID != nova.MonografiaID {
		return nil, fmt.Errorf("versões pertencem a monografias diferentes")
	}

	if _, err := s.permissions.CheckMonografia(ctx, base.MonografiaID, identity, OperationView); err != nil {
		return nil, err
	}

	conteudoBase, err := s.store.Load(ctx, base.CaminhoArquivo)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler conteúdo da versão base: %w", err)
	}
	conteudoNovo, err := s.store.Load(ctx, nova.CaminhoArquivo)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler conteúdo da versão nova: %w", err)
	}

	refs, err := s.users.GetRefs(ctx, []int64{base.CriadoPorID, nova.CriadoPorID})
	if err != nil {
		return nil, err
	}
	base.CriadoPor = refs[base.CriadoPorID]
	nova.CriadoPor = refs[nova.CriadoPorID]

	segments, added, removed, modified := calcularDiff(string(conteudoBase), string(conteudoNovo))

	return &domain.DiffResponse{
		VersaoBase: base,
		VersaoNova: nova,
		Diffs:      segments,
		HTMLDiff:   renderHTMLDiff(segments),
		Added:      added,
		Removed:    removed,
		Modified:   modified,
	}, nil
}

// calcularDiff produz o diff por linhas. Um bloco removido imediatamente
// seguido de um bloco inserido conta como modificação nas linhas pareadas;
// o excedente conta como remoção ou adição pura.
func calcularDiff(textoBase, textoNovo string) (segments []domain.DiffSegment, added, removed, modified int) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(textoBase, textoNovo)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	segments = []domain.DiffSegment{}

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for _, linha := range splitLines(d.Text) {
				segments = append(segments, domain.DiffSegment{Value: linha})
			}

		case diffmatchpatch.DiffDelete:
			removidas := splitLines(d.Text)

			// Bloco inserido logo em seguida vira modificação pareada
			var inseridas []string
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				inseridas = splitLines(diffs[i+1].Text)
				i++
			}

			for _, linha := range removidas {
				segments = append(segments, domain.DiffSegment{Value: linha, Removed: true})
			}
			for _, linha := range inseridas {
				segments = append(segments, domain.DiffSegment{Value: linha, Added: true})
			}

			pares := len(removidas)
			if len(inseridas) < pares {
				pares = len(inseridas)
			}
			modified += pares
			removed += len(removidas) - pares
			added += len(inseridas) - pares

		case diffmatchpatch.DiffInsert:
			for _, linha := range splitLines(d.Text) {
				segments = append(segments, domain.DiffSegment{Value: linha, Added: true})
			}
			added += len(splitLines(d.Text))
		}
	}

	return segments, added, removed, modified
}

// renderHTMLDiff monta a visualização pré-renderizada consumida pelo
// frontend: uma div por linha, classificada pelo tipo do trecho.
func renderHTMLDiff(segments []domain.DiffSegment) string {
	if len(segments) == 0 {
		return "<div class='diff-container'><p class='diff-empty'>Não há diferenças significativas entre as versões.</p></div>"
	}

	var sb strings.Builder
	sb.WriteString("<div class='diff-container'>")

	for _, seg := range segments {
		switch {
		case seg.Removed:
			sb.WriteString("<div class='diff-line diff-removed'>")
		case seg.Added:
			sb.WriteString("<div class='diff-line diff-added'>")
		default:
			sb.WriteString("<div class='diff-line diff-context'>")
		}
		sb.WriteString(html.EscapeString(seg.Value))
		sb.WriteString("</div>")
	}

	sb.WriteString("</div>")
	return sb.String()
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
