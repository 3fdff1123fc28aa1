package anchor

import (
	"testing"
	"time"

	"tessera/internal/domain"
)

func comentarioTeste(id int64, resolvido bool, posicao string, criado time.Time) domain.Comentario {
	c := domain.Comentario{ID: id, Resolvido: resolvido, DataCriacao: criado}
	if posicao != "" {
		c.PosicaoTexto = &posicao
	}
	return c
}

func TestFiltrarParticiona(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	comentarios := []domain.Comentario{
		comentarioTeste(1, true, "a1", base),
		comentarioTeste(2, false, "", base.Add(time.Minute)),
		comentarioTeste(3, true, "", base.Add(2*time.Minute)),
		comentarioTeste(4, false, "a2", base.Add(3*time.Minute)),
		comentarioTeste(5, false, "", base.Add(4*time.Minute)),
	}

	resolvidos := Filtrar(comentarios, FiltroResolvidos, "")
	naoResolvidos := Filtrar(comentarios, FiltroNaoResolvidos, "")
	todos := Filtrar(comentarios, FiltroTodos, "")

	if len(resolvidos) != 2 {
		t.Errorf("resolvidos = %d, want 2", len(resolvidos))
	}
	if len(naoResolvidos) != 3 {
		t.Errorf("não resolvidos = %d, want 3", len(naoResolvidos))
	}
	if len(todos) != len(resolvidos)+len(naoResolvidos) {
		t.Errorf("todos = %d, want N+M = %d", len(todos), len(resolvidos)+len(naoResolvidos))
	}
}

func TestFiltrarAncoraAtual(t *testing.T) {
	base := time.Now()
	comentarios := []domain.Comentario{
		comentarioTeste(1, false, "a1", base),
		comentarioTeste(2, false, "a2", base),
		comentarioTeste(3, false, "", base),
	}

	got := Filtrar(comentarios, FiltroAncoraAtual, "a2")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Filtrar(ancora-atual) = %+v, want apenas o comentário da âncora a2", got)
	}
}

func TestOrdenar(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	comentarios := []domain.Comentario{
		comentarioTeste(1, false, "", base),
		comentarioTeste(2, false, "", base.Add(time.Hour)),
		comentarioTeste(3, false, "", base.Add(30*time.Minute)),
	}

	recentes := Ordenar(comentarios, OrdemRecentes)
	if recentes[0].ID != 2 || recentes[2].ID != 1 {
		t.Errorf("OrdemRecentes: got %d,%d,%d want 2,3,1", recentes[0].ID, recentes[1].ID, recentes[2].ID)
	}

	antigos := Ordenar(comentarios, OrdemAntigos)
	if antigos[0].ID != 1 || antigos[2].ID != 2 {
		t.Errorf("OrdemAntigos: got %d,%d,%d want 1,3,2", antigos[0].ID, antigos[1].ID, antigos[2].ID)
	}

	// Entrada intacta
	if comentarios[0].ID != 1 {
		t.Error("Ordenar() modificou a fatia de entrada")
	}
}

func TestThreads(t *testing.T) {
	parent := int64(1)
	comentarios := []domain.Comentario{
		{ID: 1, Comentario: "raiz"},
		{ID: 2, Comentario: "resposta", ParentID: &parent},
		{ID: 3, Comentario: "outra raiz"},
	}

	threads := Threads(comentarios)
	if len(threads) != 2 {
		t.Fatalf("len(threads) = %d, want 2", len(threads))
	}
	if threads[0].Comentario.ID != 1 || len(threads[0].Respostas) != 1 {
		t.Errorf("thread 1 = %+v, want raiz 1 com uma resposta", threads[0])
	}
	if threads[1].Comentario.ID != 3 || len(threads[1].Respostas) != 0 {
		t.Errorf("thread 2 = %+v, want raiz 3 sem respostas", threads[1])
	}
}

func TestPermissoesDoPainel(t *testing.T) {
	c := domain.Comentario{Autor: domain.UserRef{ID: 10}}

	if !PodeExcluir(c, 10, domain.RoleAluno) {
		t.Error("autor deveria poder excluir")
	}
	if !PodeExcluir(c, 99, domain.RoleAdmin) {
		t.Error("admin deveria poder excluir")
	}
	if PodeExcluir(c, 20, domain.RoleProfessor) {
		t.Error("professor não autor não deveria poder excluir")
	}

	if !PodeResolver(c, 20, domain.RoleProfessor) {
		t.Error("professor deveria poder resolver")
	}
	if PodeResolver(c, 11, domain.RoleAluno) {
		t.Error("aluno não autor não deveria poder resolver")
	}
}
