package diffview

import (
	"strings"
	"testing"

	"tessera/internal/domain"
)

func TestRenderUsaHTMLPreRenderizado(t *testing.T) {
	resp := &domain.DiffResponse{
		HTMLDiff: "<div class='diff-container'><div class='diff-line diff-added'>nova</div></div>",
		Diffs:    []domain.DiffSegment{{Value: "ignorado"}},
	}

	if got := Render(resp); got != resp.HTMLDiff {
		t.Errorf("Render() = %q, want o HTML do servidor sem alteração", got)
	}
}

func TestRenderSegmentosNaOrdem(t *testing.T) {
	resp := &domain.DiffResponse{
		Diffs: []domain.DiffSegment{
			{Value: "contexto"},
			{Value: "removida", Removed: true},
			{Value: "adicionada", Added: true},
			{Value: "mais contexto"},
		},
	}

	got := Render(resp)

	want := "<div class='diff-container'>" +
		"<span class='diff-context'>contexto</span>" +
		"<span class='diff-removed'>removida</span>" +
		"<span class='diff-added'>adicionada</span>" +
		"<span class='diff-context'>mais contexto</span>" +
		"</div>"
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEscapaConteudo(t *testing.T) {
	resp := &domain.DiffResponse{
		Diffs: []domain.DiffSegment{{Value: "<script>alert(1)</script>", Added: true}},
	}

	got := Render(resp)
	if strings.Contains(got, "<script>") {
		t.Errorf("Render() não escapou o conteúdo: %q", got)
	}
}

func TestRenderDiffVazio(t *testing.T) {
	if got := Render(&domain.DiffResponse{}); got != MensagemSemDiferencas {
		t.Errorf("Render() = %q, want a mensagem de diff vazio", got)
	}
	if got := Render(nil); got != MensagemSemDiferencas {
		t.Errorf("Render(nil) = %q, want a mensagem de diff vazio", got)
	}
}
