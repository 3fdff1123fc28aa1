package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"tessera/internal/domain"
)

type VersaoRepository struct {
	db *sqlx.DB
}

func NewVersaoRepository(db *sqlx.DB) *VersaoRepository {
	return &VersaoRepository{db: db}
}

func (r *VersaoRepository) Create(ctx context.Context, v *domain.Versao) error {
	query := `
        INSERT INTO versoes
            (monografia_id, numero_versao, hash_arquivo, nome_arquivo, caminho_arquivo,
             mensagem_commit, tag, criado_por_id, tamanho_arquivo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, data_criacao`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		v.MonografiaID,
		v.NumeroVersao,
		v.HashArquivo,
		v.NomeArquivo,
		v.CaminhoArquivo,
		v.MensagemCommit,
		v.Tag,
		v.CriadoPorID,
		v.TamanhoArquivo,
	).Scan(&v.ID, &v.DataCriacao)
	if err != nil {
		return fmt.Errorf("failed to create versao: %w", err)
	}

	return nil
}

func (r *VersaoRepository) GetByID(ctx context.Context, id int64) (*domain.Versao, error) {
	var v domain.Versao
	query := `SELECT * FROM versoes WHERE id = $1`

	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, wrapNotFound(err)
	}

	return &v, nil
}

// ListByMonografia devolve as versões da mais recente para a mais antiga.
// Empates de timestamp são desfeitos pelo id, de modo que a última inserção
// fica sempre em primeiro.
func (r *VersaoRepository) ListByMonografia(ctx context.Context, monografiaID int64) ([]domain.Versao, error) {
	var versoes []domain.Versao
	query := `
        SELECT * FROM versoes
        WHERE monografia_id = $1
        ORDER BY data_criacao DESC, id DESC`

	if err := r.db.SelectContext(ctx, &versoes, query, monografiaID); err != nil {
		return nil, err
	}

	return versoes, nil
}

func (r *VersaoRepository) CountByMonografia(ctx context.Context, monografiaID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM versoes WHERE monografia_id = $1`

	if err := r.db.GetContext(ctx, &count, query, monografiaID); err != nil {
		return 0, err
	}

	return count, nil
}
