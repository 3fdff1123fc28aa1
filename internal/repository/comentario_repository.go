package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"tessera/internal/domain"
)

type ComentarioRepository struct {
	db *sqlx.DB
}

func NewComentarioRepository(db *sqlx.DB) *ComentarioRepository {
	return &ComentarioRepository{db: db}
}

func (r *ComentarioRepository) Create(ctx context.Context, c *domain.Comentario) error {
	query := `
        INSERT INTO comentarios (versao_id, autor_id, comentario, posicao_texto, parent_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, resolvido, data_criacao`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		c.VersaoID,
		c.AutorID,
		c.Comentario,
		c.PosicaoTexto,
		c.ParentID,
	).Scan(&c.ID, &c.Resolvido, &c.DataCriacao)
	if err != nil {
		return fmt.Errorf("failed to create comentario: %w", err)
	}

	return nil
}

func (r *ComentarioRepository) GetByID(ctx context.Context, id int64) (*domain.Comentario, error) {
	var c domain.Comentario
	query := `SELECT * FROM comentarios WHERE id = $1`

	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, wrapNotFound(err)
	}

	return &c, nil
}

func (r *ComentarioRepository) ListByVersao(ctx context.Context, versaoID int64) ([]domain.Comentario, error) {
	var comentarios []domain.Comentario
	query := `
        SELECT * FROM comentarios
        WHERE versao_id = $1
        ORDER BY data_criacao DESC, id DESC`

	if err := r.db.SelectContext(ctx, &comentarios, query, versaoID); err != nil {
		return nil, err
	}

	return comentarios, nil
}

func (r *ComentarioRepository) UpdateResolvido(ctx context.Context, id int64, resolvido bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comentarios SET resolvido = $1 WHERE id = $2`, resolvido, id)
	if err != nil {
		return fmt.Errorf("failed to update comentario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete remove o comentário; as respostas caem junto pelo ON DELETE CASCADE
func (r *ComentarioRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comentarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comentario: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return nil
}
