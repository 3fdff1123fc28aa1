package domain

import (
	"time"
)

type Monografia struct {
	ID                    int64      `json:"id" db:"id"`
	Titulo                string     `json:"titulo" db:"titulo"`
	Descricao             string     `json:"descricao" db:"descricao"`
	AutorPrincipalID      int64      `json:"autorPrincipalId" db:"autor_principal_id"`
	OrientadorPrincipalID int64      `json:"orientadorPrincipalId" db:"orientador_principal_id"`
	DataCriacao           time.Time  `json:"dataCriacao" db:"data_criacao"`
	DataAtualizacao       *time.Time `json:"dataAtualizacao,omitempty" db:"data_atualizacao"`

	// Preenchidos fora da tabela principal
	CoAutores      []UserRef `json:"coAutores" db:"-"`
	CoOrientadores []UserRef `json:"coOrientadores" db:"-"`
}

// Participantes devolve os IDs de todos os usuários com vínculo de autoria
// ou orientação sobre a monografia.
func (m *Monografia) Participantes() []int64 {
	ids := []int64{m.AutorPrincipalID, m.OrientadorPrincipalID}
	for _, u := range m.CoAutores {
		ids = append(ids, u.ID)
	}
	for _, u := range m.CoOrientadores {
		ids = append(ids, u.ID)
	}
	return ids
}

// TemParticipante verifica se o usuário pertence ao conjunto autor/orientador
func (m *Monografia) TemParticipante(userID int64) bool {
	for _, id := range m.Participantes() {
		if id == userID {
			return true
		}
	}
	return false
}
