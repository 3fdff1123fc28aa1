package anchor

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"tessera/internal/domain"
)

func ancorado(id string) domain.Comentario {
	return domain.Comentario{PosicaoTexto: &id}
}

func TestGenerateAnchorIDFormato(t *testing.T) {
	re := regexp.MustCompile(`^comment-anchor-\d+-[0-9a-z]+$`)

	id := GenerateAnchorID()
	if !re.MatchString(id) {
		t.Errorf("GenerateAnchorID() = %q, formato inesperado", id)
	}
}

func TestAnnotate(t *testing.T) {
	content := "<p>Texto com Introdução revisada no meio</p>"

	got, err := Annotate(content, "Introdução revisada", "comment-anchor-1-abc")
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	want := `<span class="comment-highlight" data-comment-anchor-id="comment-anchor-1-abc">Introdução revisada</span>`
	if !strings.Contains(got, want) {
		t.Errorf("Annotate() = %q, não contém o span da âncora", got)
	}
	if !strings.Contains(got, "Texto com ") || !strings.Contains(got, " no meio") {
		t.Errorf("Annotate() = %q, texto ao redor foi perdido", got)
	}
}

func TestAnnotateSelecaoInexistente(t *testing.T) {
	if _, err := Annotate("<p>outro texto</p>", "não está aqui", "id"); !errors.Is(err, ErrSelecaoNaoEncontrada) {
		t.Fatalf("Annotate() error = %v, want ErrSelecaoNaoEncontrada", err)
	}
}

func TestAnnotateIgnoraSpansExistentes(t *testing.T) {
	content := `<p><span class="comment-highlight" data-comment-anchor-id="a1">trecho</span> e outro trecho</p>`

	got, err := Annotate(content, "trecho", "a2")
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	// A nova âncora vai para o texto fora do span já ancorado
	if !strings.Contains(got, `data-comment-anchor-id="a2"`) {
		t.Fatalf("Annotate() = %q, âncora nova ausente", got)
	}
	if strings.Count(got, `data-comment-anchor-id="a1"`) != 1 {
		t.Errorf("Annotate() alterou o span existente: %q", got)
	}
}

func TestHighlightIdempotente(t *testing.T) {
	content := `<p>Texto <span class="comment-highlight" data-comment-anchor-id="a1">ancorado</span></p>`
	comentarios := []domain.Comentario{ancorado("a1")}

	primeira, err := Highlight(content, comentarios)
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	segunda, err := Highlight(primeira, comentarios)
	if err != nil {
		t.Fatalf("Highlight() segunda passada: error = %v", err)
	}

	if segunda != primeira {
		t.Errorf("Highlight() não é idempotente:\n%q\n%q", primeira, segunda)
	}
	if n := strings.Count(segunda, `data-comment-anchor-id="a1"`); n != 1 {
		t.Errorf("spans para a1 = %d, want exatamente 1", n)
	}
	if !strings.Contains(segunda, "has-comment") {
		t.Errorf("Highlight() não marcou has-comment: %q", segunda)
	}
}

func TestHighlightRemoveSpanOrfao(t *testing.T) {
	content := `<p>Texto <span class="comment-highlight" data-comment-anchor-id="morto">antes ancorado</span> segue</p>`

	got, err := Highlight(content, nil)
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}

	if strings.Contains(got, "data-comment-anchor-id") {
		t.Errorf("Highlight() manteve span órfão: %q", got)
	}
	if !strings.Contains(got, "antes ancorado") {
		t.Errorf("Highlight() perdeu o texto do span removido: %q", got)
	}
}

func TestHighlightColapsaDuplicatas(t *testing.T) {
	content := `<p><span data-comment-anchor-id="a1">um</span> e <span data-comment-anchor-id="a1">dois</span></p>`
	comentarios := []domain.Comentario{ancorado("a1")}

	got, err := Highlight(content, comentarios)
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}

	if n := strings.Count(got, `data-comment-anchor-id="a1"`); n != 1 {
		t.Errorf("spans para a1 = %d, want 1 após o colapso", n)
	}
	if !strings.Contains(got, "um") || !strings.Contains(got, "dois") {
		t.Errorf("Highlight() perdeu texto ao colapsar: %q", got)
	}
}
