package service

import (
	"context"

	"tessera/internal/auth"
	"tessera/internal/domain"
)

// OperationType define o tipo de operação sobre uma monografia
type OperationType string

const (
	OperationView    OperationType = "view"
	OperationEdit    OperationType = "edit"
	OperationComment OperationType = "comment"
)

type monografiaGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Monografia, error)
}

// PermissionService verifica o vínculo do usuário com a monografia antes das
// operações de versão e comentário. A checagem de comentários individuais
// (excluir/resolver) fica nos helpers CanDelete/CanResolver.
type PermissionService struct {
	monografias monografiaGetter
}

func NewPermissionService(monografias monografiaGetter) *PermissionService {
	return &PermissionService{monografias: monografias}
}

// CheckMonografia carrega a monografia e valida a operação; devolve a
// monografia para evitar uma segunda busca no chamador.
func (s *PermissionService) CheckMonografia(ctx context.Context, monografiaID int64, identity *auth.Identity, op OperationType) (*domain.Monografia, error) {
	m, err := s.monografias.GetByID(ctx, monografiaID)
	if err != nil {
		return nil, err
	}

	if identity.Role == domain.RoleAdmin {
		return m, nil
	}

	switch op {
	case OperationView, OperationComment:
		if m.TemParticipante(identity.UserID) {
			return m, nil
		}

	case OperationEdit:
		// Orientadores também editam; a restrição fina (quem pode salvar
		// versão) é o mesmo conjunto autor/orientador
		if m.TemParticipante(identity.UserID) {
			return m, nil
		}
	}

	return nil, ErrForbidden
}

// CanDeleteComentario: autor do comentário ou administrador
func CanDeleteComentario(identity *auth.Identity, c *domain.Comentario) bool {
	if identity.Role == domain.RoleAdmin {
		return true
	}
	return c.AutorID == identity.UserID
}

// CanResolverComentario: autor, administrador ou qualquer orientador
func CanResolverComentario(identity *auth.Identity, c *domain.Comentario) bool {
	if identity.Role == domain.RoleAdmin || identity.Role == domain.RoleProfessor {
		return true
	}
	return c.AutorID == identity.UserID
}
