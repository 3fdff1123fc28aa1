package domain

import (
	"time"
)

// Role define o papel do usuário no sistema
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleAluno     Role = "ALUNO"
)

// AccountStatus define o estado da conta após o cadastro
type AccountStatus string

const (
	StatusPendente  AccountStatus = "PENDENTE"
	StatusAtivo     AccountStatus = "ATIVO"
	StatusInativo   AccountStatus = "INATIVO"
	StatusBloqueado AccountStatus = "BLOQUEADO"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleAluno:
		return true
	}
	return false
}

type User struct {
	ID            int64         `json:"id" db:"id"`
	Nome          string        `json:"nome" db:"nome"`
	Username      string        `json:"username" db:"username"`
	Email         string        `json:"email" db:"email"`
	Password      string        `json:"-" db:"password"`
	Institution   string        `json:"institution" db:"institution"`
	Role          Role          `json:"role" db:"role"`
	Status        AccountStatus `json:"status" db:"status"`
	Enabled       bool          `json:"enabled" db:"enabled"`
	AdminComments *string       `json:"adminComments,omitempty" db:"admin_comments"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}

// PodeAutenticar indica se a conta está apta a receber tokens
func (u *User) PodeAutenticar() bool {
	return u.Enabled && u.Status == StatusAtivo
}

// UserRef é a projeção pública do usuário embutida em versões e comentários
type UserRef struct {
	ID       int64  `json:"id" db:"id"`
	Nome     string `json:"nome" db:"nome"`
	Username string `json:"username" db:"username"`
}
