package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"tessera/internal/domain"
)

type MonografiaRepository struct {
	db *sqlx.DB
}

func NewMonografiaRepository(db *sqlx.DB) *MonografiaRepository {
	return &MonografiaRepository{db: db}
}

func (r *MonografiaRepository) Create(ctx context.Context, m *domain.Monografia) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO monografias (titulo, descricao, autor_principal_id, orientador_principal_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, data_criacao`

	err = tx.QueryRowxContext(
		ctx,
		query,
		m.Titulo,
		m.Descricao,
		m.AutorPrincipalID,
		m.OrientadorPrincipalID,
	).Scan(&m.ID, &m.DataCriacao)
	if err != nil {
		return fmt.Errorf("failed to create monografia: %w", err)
	}

	if err := r.replaceCoAutores(ctx, tx, m.ID, userRefIDs(m.CoAutores)); err != nil {
		return err
	}
	if err := r.replaceCoOrientadores(ctx, tx, m.ID, userRefIDs(m.CoOrientadores)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *MonografiaRepository) GetByID(ctx context.Context, id int64) (*domain.Monografia, error) {
	var m domain.Monografia
	query := `SELECT * FROM monografias WHERE id = $1`

	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, wrapNotFound(err)
	}

	if err := r.loadParticipantes(ctx, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// ListByParticipante devolve as monografias nas quais o usuário figura como
// autor, co-autor, orientador ou co-orientador.
func (r *MonografiaRepository) ListByParticipante(ctx context.Context, userID int64) ([]domain.Monografia, error) {
	var monografias []domain.Monografia
	query := `
        SELECT DISTINCT m.* FROM monografias m
        LEFT JOIN monografia_co_autores ca ON ca.monografia_id = m.id
        LEFT JOIN monografia_co_orientadores co ON co.monografia_id = m.id
        WHERE m.autor_principal_id = $1
           OR m.orientador_principal_id = $1
           OR ca.co_autor_id = $1
           OR co.co_orientador_id = $1
        ORDER BY m.data_criacao DESC`

	if err := r.db.SelectContext(ctx, &monografias, query, userID); err != nil {
		return nil, err
	}

	for i := range monografias {
		if err := r.loadParticipantes(ctx, &monografias[i]); err != nil {
			return nil, err
		}
	}

	return monografias, nil
}

func (r *MonografiaRepository) Update(ctx context.Context, m *domain.Monografia) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        UPDATE monografias
        SET titulo = $1, descricao = $2, data_atualizacao = CURRENT_TIMESTAMP
        WHERE id = $3`

	res, err := tx.ExecContext(ctx, query, m.Titulo, m.Descricao, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update monografia: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := r.replaceCoAutores(ctx, tx, m.ID, userRefIDs(m.CoAutores)); err != nil {
		return err
	}
	if err := r.replaceCoOrientadores(ctx, tx, m.ID, userRefIDs(m.CoOrientadores)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *MonografiaRepository) loadParticipantes(ctx context.Context, m *domain.Monografia) error {
	coAutores := []domain.UserRef{}
	query := `
        SELECT u.id, u.nome, u.username FROM users u
        JOIN monografia_co_autores ca ON ca.co_autor_id = u.id
        WHERE ca.monografia_id = $1
        ORDER BY u.nome`
	if err := r.db.SelectContext(ctx, &coAutores, query, m.ID); err != nil {
		return err
	}

	coOrientadores := []domain.UserRef{}
	query = `
        SELECT u.id, u.nome, u.username FROM users u
        JOIN monografia_co_orientadores co ON co.co_orientador_id = u.id
        WHERE co.monografia_id = $1
        ORDER BY u.nome`
	if err := r.db.SelectContext(ctx, &coOrientadores, query, m.ID); err != nil {
		return err
	}

	m.CoAutores = coAutores
	m.CoOrientadores = coOrientadores
	return nil
}

func (r *MonografiaRepository) replaceCoAutores(ctx context.Context, tx *sqlx.Tx, monografiaID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM monografia_co_autores WHERE monografia_id = $1`, monografiaID); err != nil {
		return fmt.Errorf("failed to clear co-autores: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monografia_co_autores (monografia_id, co_autor_id) VALUES ($1, $2)`,
			monografiaID, id); err != nil {
			return fmt.Errorf("failed to insert co-autor %d: %w", id, err)
		}
	}
	return nil
}

func (r *MonografiaRepository) replaceCoOrientadores(ctx context.Context, tx *sqlx.Tx, monografiaID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM monografia_co_orientadores WHERE monografia_id = $1`, monografiaID); err != nil {
		return fmt.Errorf("failed to clear co-orientadores: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monografia_co_orientadores (monografia_id, co_orientador_id) VALUES ($1, $2)`,
			monografiaID, id); err != nil {
			return fmt.Errorf("failed to insert co-orientador %d: %w", id, err)
		}
	}
	return nil
}

func userRefIDs(refs []domain.UserRef) []int64 {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}
