package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"tessera/internal/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (nome, username, email, password, institution, role, status, enabled)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		user.Nome,
		user.Username,
		user.Email,
		user.Password,
		user.Institution,
		user.Role,
		user.Status,
		user.Enabled,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE username = $1`

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, wrapNotFound(err)
	}

	return &user, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	if err := r.db.GetContext(ctx, &exists, query, username, email); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users ORDER BY created_at DESC, id DESC`

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) ListPendentes(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT * FROM users WHERE status = $1 ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &users, query, domain.StatusPendente); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateApproval aplica a decisão do administrador sobre uma conta pendente
func (r *UserRepository) UpdateApproval(ctx context.Context, id int64, status domain.AccountStatus, enabled bool, role domain.Role, adminComments string) error {
	query := `
        UPDATE users
        SET status = $1,
            enabled = $2,
            role = $3,
            admin_comments = $4,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, status, enabled, role, adminComments, id)
	if err != nil {
		return fmt.Errorf("failed to update user approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdateEnabled(ctx context.Context, id int64, enabled bool) error {
	status := domain.StatusAtivo
	if !enabled {
		status = domain.StatusInativo
	}

	query := `
        UPDATE users
        SET enabled = $1, status = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, enabled, status, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

// GetRefs devolve as projeções públicas dos usuários informados
func (r *UserRepository) GetRefs(ctx context.Context, ids []int64) (map[int64]domain.UserRef, error) {
	refs := make(map[int64]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	query, args, err := sqlx.In(`SELECT id, nome, username FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []domain.UserRef
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, ref := range rows {
		refs[ref.ID] = ref
	}

	return refs, nil
}
