package service

import (
	"context"
	"fmt"

	"tessera/internal/auth"
	"tessera/internal/domain"
)

type userAdminStore interface {
	ListAll(ctx context.Context) ([]domain.User, error)
	ListPendentes(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateApproval(ctx context.Context, id int64, status domain.AccountStatus, enabled bool, role domain.Role, adminComments string) error
	UpdateEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}

// UserService expõe as operações administrativas sobre contas
type UserService struct {
	users userAdminStore
	audit *AuditService
}

func NewUserService(users userAdminStore, audit *AuditService) *UserService {
	return &UserService{users: users, audit: audit}
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

func (s *UserService) ListPendentes(ctx context.Context) ([]domain.User, error) {
	return s.users.ListPendentes(ctx)
}

// Approve aplica a decisão do administrador: aprovação ativa a conta com o
// papel definitivo; rejeição deixa a conta INATIVO e desabilitada.
func (s *UserService) Approve(ctx context.Context, admin *auth.Identity, userID int64, approved bool, role domain.Role, adminComments string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = user.Role
	}
	if !role.Valid() {
		return nil, fmt.Errorf("papel inválido: %s", role)
	}

	status := domain.StatusAtivo
	enabled := true
	action := "APROVACAO_CONTA"
	if !approved {
		status = domain.StatusInativo
		enabled = false
		action = "REJEICAO_CONTA"
	}

	if err := s.users.UpdateApproval(ctx, userID, status, enabled, role, adminComments); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, admin.Username, action, fmt.Sprintf("usuário %s (id %d), papel %s", user.Username, userID, role))
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) UpdateStatus(ctx context.Context, admin *auth.Identity, userID int64, enabled bool) (*domain.User, error) {
	if err := s.users.UpdateEnabled(ctx, userID, enabled); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, admin.Username, "ALTERACAO_STATUS", fmt.Sprintf("usuário id %d, enabled=%t", userID, enabled))
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) Delete(ctx context.Context, admin *auth.Identity, userID int64) error {
	if admin.UserID == userID {
		return fmt.Errorf("administrador não pode excluir a própria conta")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, admin.Username, "EXCLUSAO_CONTA", fmt.Sprintf("usuário id %d", userID))
	return nil
}
