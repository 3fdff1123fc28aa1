package anchor

import (
	"sort"

	"tessera/internal/domain"
)

// Filtro seleciona quais comentários o painel exibe. Os três primeiros são
// mutuamente exclusivos; FiltroAncoraAtual é transiente, ativado quando uma
// thread é aberta a partir do conteúdo.
type Filtro string

const (
	FiltroTodos         Filtro = "todos"
	FiltroNaoResolvidos Filtro = "nao-resolvidos"
	FiltroResolvidos    Filtro = "resolvidos"
	FiltroAncoraAtual   Filtro = "ancora-atual"
)

type Ordem string

const (
	OrdemRecentes Ordem = "recentes"
	OrdemAntigos  Ordem = "antigos"
)

// Filtrar devolve os comentários aceitos pelo filtro, na ordem de entrada.
// ancoraAtual só é consultada por FiltroAncoraAtual.
func Filtrar(comentarios []domain.Comentario, filtro Filtro, ancoraAtual string) []domain.Comentario {
	out := make([]domain.Comentario, 0, len(comentarios))
	for _, c := range comentarios {
		switch filtro {
		case FiltroNaoResolvidos:
			if c.Resolvido {
				continue
			}
		case FiltroResolvidos:
			if !c.Resolvido {
				continue
			}
		case FiltroAncoraAtual:
			if c.PosicaoTexto == nil || *c.PosicaoTexto != ancoraAtual {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// Ordenar devolve uma cópia ordenada por data de criação, estável para
// preservar a ordem de inserção em empates.
func Ordenar(comentarios []domain.Comentario, ordem Ordem) []domain.Comentario {
	out := make([]domain.Comentario, len(comentarios))
	copy(out, comentarios)

	sort.SliceStable(out, func(i, j int) bool {
		if ordem == OrdemAntigos {
			return out[i].DataCriacao.Before(out[j].DataCriacao)
		}
		return out[i].DataCriacao.After(out[j].DataCriacao)
	})
	return out
}

// Thread agrupa um comentário raiz com suas respostas de um nível.
type Thread struct {
	Comentario domain.Comentario
	Respostas  []domain.Comentario
}

// Threads agrupa a lista plana vinda do servidor em threads, preservando a
// ordem dos comentários raiz.
func Threads(comentarios []domain.Comentario) []Thread {
	byParent := make(map[int64][]domain.Comentario)
	for _, c := range comentarios {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var threads []Thread
	for _, c := range comentarios {
		if c.ParentID == nil {
			threads = append(threads, Thread{Comentario: c, Respostas: byParent[c.ID]})
		}
	}
	return threads
}

// PodeExcluir e PodeResolver são dicas de interface, não autoritativas: a
// verificação que vale é a do servidor.

func PodeExcluir(c domain.Comentario, userID int64, role domain.Role) bool {
	return c.Autor.ID == userID || role == domain.RoleAdmin
}

func PodeResolver(c domain.Comentario, userID int64, role domain.Role) bool {
	return c.Autor.ID == userID || role == domain.RoleAdmin || role == domain.RoleProfessor
}
