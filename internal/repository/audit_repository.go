package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"tessera/internal/domain"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	query := `
        INSERT INTO audit_log (username, action, details)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, entry.Username, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	query := `SELECT * FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`

	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}

	return entries, nil
}
