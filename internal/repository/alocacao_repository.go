package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// AlocacaoRepository persists allocations and their room memberships.
type AlocacaoRepository struct {
	db *sqlx.DB
}

// NewAlocacaoRepository constructs the repository.
func NewAlocacaoRepository(db *sqlx.DB) *AlocacaoRepository {
	return &AlocacaoRepository{db: db}
}

func (r *AlocacaoRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns allocations, newest first.
func (r *AlocacaoRepository) List(ctx context.Context) ([]models.Alocacao, error) {
	const query = `SELECT id, nome, descricao, created_at, updated_at FROM alocacoes ORDER BY created_at DESC, id ASC`
	alocacoes := make([]models.Alocacao, 0)
	if err := r.db.SelectContext(ctx, &alocacoes, query); err != nil {
		return nil, fmt.Errorf("list alocacoes: %w", err)
	}
	return alocacoes, nil
}

// FindByID loads an allocation by id.
func (r *AlocacaoRepository) FindByID(ctx context.Context, id string) (*models.Alocacao, error) {
	const query = `SELECT id, nome, descricao, created_at, updated_at FROM alocacoes WHERE id = $1`
	var alocacao models.Alocacao
	if err := r.db.GetContext(ctx, &alocacao, query, id); err != nil {
		return nil, err
	}
	return &alocacao, nil
}

// Create inserts an allocation.
func (r *AlocacaoRepository) Create(ctx context.Context, alocacao *models.Alocacao) error {
	if alocacao.ID == "" {
		alocacao.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	alocacao.CreatedAt = now
	alocacao.UpdatedAt = now

	const query = `INSERT INTO alocacoes (id, nome, descricao, created_at, updated_at) VALUES (:id, :nome, :descricao, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, alocacao); err != nil {
		return fmt.Errorf("insert alocacao: %w", err)
	}
	return nil
}

// Update changes name and description.
func (r *AlocacaoRepository) Update(ctx context.Context, alocacao *models.Alocacao) error {
	alocacao.UpdatedAt = time.Now().UTC()
	const query = `UPDATE alocacoes SET nome = :nome, descricao = :descricao, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, alocacao)
	if err != nil {
		return fmt.Errorf("update alocacao: %w", err)
	}
	return expectAffected(result, "alocacao")
}

// Delete removes an allocation. Time-slots, memberships and results go with it;
// rooms and classes stay.
func (r *AlocacaoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alocacoes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alocacao: %w", err)
	}
	return expectAffected(result, "alocacao")
}

// AddSala attaches a room to an allocation.
func (r *AlocacaoRepository) AddSala(ctx context.Context, exec sqlx.ExtContext, alocacaoID, salaID string) error {
	const query = `INSERT INTO alocacao_salas (alocacao_id, sala_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.exec(exec).ExecContext(ctx, query, alocacaoID, salaID, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert alocacao sala: %w", err)
	}
	return nil
}

// RemoveSala detaches a room from an allocation.
func (r *AlocacaoRepository) RemoveSala(ctx context.Context, alocacaoID, salaID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alocacao_salas WHERE alocacao_id = $1 AND sala_id = $2`, alocacaoID, salaID)
	if err != nil {
		return fmt.Errorf("delete alocacao sala: %w", err)
	}
	return expectAffected(result, "alocacao sala")
}
