package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tessera/internal/domain"
	"tessera/internal/service/s3"
)

func TestCalcularDiffLinhaModificada(t *testing.T) {
	base := "primeira linha\nsegunda linha\nterceira linha\n"
	novo := "primeira linha\nsegunda linha revisada\nterceira linha\n"

	segments, added, removed, modified := calcularDiff(base, novo)

	if modified != 1 || added != 0 || removed != 0 {
		t.Fatalf("calcularDiff() added=%d removed=%d modified=%d, want 0/0/1", added, removed, modified)
	}

	var temRemovida, temAdicionada bool
	for _, seg := range segments {
		if seg.Removed && seg.Value == "segunda linha" {
			temRemovida = true
		}
		if seg.Added && seg.Value == "segunda linha revisada" {
			temAdicionada = true
		}
	}
	if !temRemovida || !temAdicionada {
		t.Errorf("segmentos não refletem a troca da linha: %+v", segments)
	}
}

func TestCalcularDiffAdicaoPura(t *testing.T) {
	base := "primeira linha\n"
	novo := "primeira linha\nsegunda linha\nterceira linha\n"

	_, added, removed, modified := calcularDiff(base, novo)

	if added != 2 || removed != 0 || modified != 0 {
		t.Fatalf("calcularDiff() added=%d removed=%d modified=%d, want 2/0/0", added, removed, modified)
	}
}

// Invertendo os argumentos a polaridade troca: o que era adição vira remoção.
func TestCalcularDiffPolaridadeInvertida(t *testing.T) {
	base := "linha comum\nlinha antiga\n"
	novo := "linha comum\nlinha nova\n"

	direto, _, _, _ := calcularDiff(base, novo)
	inverso, _, _, _ := calcularDiff(novo, base)

	polaridade := func(segments []domain.DiffSegment, valor string) (added, removed bool) {
		for _, seg := range segments {
			if seg.Value == valor {
				return seg.Added, seg.Removed
			}
		}
		return false, false
	}

	if added, removed := polaridade(direto, "linha nova"); !added || removed {
		t.Errorf("diff direto: 'linha nova' added=%v removed=%v, want added", added, removed)
	}
	if added, removed := polaridade(inverso, "linha nova"); added || !removed {
		t.Errorf("diff inverso: 'linha nova' added=%v removed=%v, want removed", added, removed)
	}
}

func TestRenderHTMLDiffVazio(t *testing.T) {
	got := renderHTMLDiff(nil)
	if !strings.Contains(got, "Não há diferenças significativas entre as versões.") {
		t.Errorf("renderHTMLDiff(nil) = %q, want mensagem de diff vazio", got)
	}
}

func newDiffFixture(t *testing.T) (*DiffService, *fakeVersaoStore, *s3.MemoryStore) {
	t.Helper()

	monografias := &fakeMonografiaGetter{monografias: map[int64]*domain.Monografia{
		1: {ID: 1, AutorPrincipalID: 10, OrientadorPrincipalID: 20},
	}}
	versoes := &fakeVersaoStore{versoes: map[int64]*domain.Versao{
		1: {ID: 1, MonografiaID: 1, CriadoPorID: 10, CaminhoArquivo: "monografias/1/v1.html"},
		2: {ID: 2, MonografiaID: 1, CriadoPorID: 10, CaminhoArquivo: "monografias/1/v2.html"},
		3: {ID: 3, MonografiaID: 2, CriadoPorID: 30, CaminhoArquivo: "monografias/2/v1.html"},
	}}

	store := s3.NewMemoryStore()
	ctx := context.Background()
	store.Save(ctx, "monografias/1/v1.html", []byte("<p>original</p>\n"))
	store.Save(ctx, "monografias/1/v2.html", []byte("<p>revisado</p>\n"))

	svc := NewDiffService(versoes, fakeUserRefStore{}, store, NewPermissionService(monografias))
	return svc, versoes, store
}

func TestCompararMesmaVersao(t *testing.T) {
	svc, _, _ := newDiffFixture(t)

	_, err := svc.Comparar(context.Background(), identidade(10, domain.RoleAluno), 5, 5)
	if !errors.Is(err, ErrMesmaVersao) {
		t.Fatalf("Comparar() error = %v, want ErrMesmaVersao", err)
	}
}

func TestCompararMonografiasDiferentes(t *testing.T) {
	svc, _, _ := newDiffFixture(t)

	if _, err := svc.Comparar(context.Background(), identidade(10, domain.RoleAluno), 1, 3); err == nil {
		t.Fatal("Comparar() com versões de monografias diferentes deveria falhar")
	}
}

func TestCompararSemVinculo(t *testing.T) {
	svc, _, _ := newDiffFixture(t)

	_, err := svc.Comparar(context.Background(), identidade(99, domain.RoleAluno), 1, 2)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Comparar() error = %v, want ErrForbidden", err)
	}
}

func TestComparar(t *testing.T) {
	svc, _, _ := newDiffFixture(t)

	resp, err := svc.Comparar(context.Background(), identidade(10, domain.RoleAluno), 1, 2)
	if err != nil {
		t.Fatalf("Comparar() error = %v", err)
	}

	if resp.VersaoBase.ID != 1 || resp.VersaoNova.ID != 2 {
		t.Errorf("versões na resposta: base=%d nova=%d, want 1/2", resp.VersaoBase.ID, resp.VersaoNova.ID)
	}
	if resp.VersaoBase.CriadoPor.Nome == "" {
		t.Error("CriadoPor da versão base não foi resolvido")
	}
	if resp.Modified != 1 {
		t.Errorf("Modified = %d, want 1", resp.Modified)
	}
	if !strings.Contains(resp.HTMLDiff, "diff-container") {
		t.Errorf("HTMLDiff não contém o container: %q", resp.HTMLDiff)
	}
}
