package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

const salaColumns = "id, nome, capacidade_total, localizacao, status, cadeiras_moveis, cadeiras_especiais, created_at, updated_at"

// SalaRepository persists rooms.
type SalaRepository struct {
	db *sqlx.DB
}

// NewSalaRepository constructs the repository.
func NewSalaRepository(db *sqlx.DB) *SalaRepository {
	return &SalaRepository{db: db}
}

func (r *SalaRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns rooms ordered by name.
func (r *SalaRepository) List(ctx context.Context, filter models.SalaFilter) ([]models.Sala, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(nome ILIKE $%d OR localizacao ILIKE $%d)", len(args), len(args)))
	}

	query := "SELECT " + salaColumns + " FROM salas"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY nome ASC, id ASC"

	salas := make([]models.Sala, 0)
	if err := r.db.SelectContext(ctx, &salas, query, args...); err != nil {
		return nil, fmt.Errorf("list salas: %w", err)
	}
	return salas, nil
}

// FindByID loads a room by id.
func (r *SalaRepository) FindByID(ctx context.Context, id string) (*models.Sala, error) {
	query := "SELECT " + salaColumns + " FROM salas WHERE id = $1"
	var sala models.Sala
	if err := r.db.GetContext(ctx, &sala, query, id); err != nil {
		return nil, err
	}
	return &sala, nil
}

// Create inserts a room.
func (r *SalaRepository) Create(ctx context.Context, exec sqlx.ExtContext, sala *models.Sala) error {
	if sala.ID == "" {
		sala.ID = uuid.NewString()
	}
	if sala.Status == "" {
		sala.Status = models.SalaStatusAtiva
	}
	now := time.Now().UTC()
	sala.CreatedAt = now
	sala.UpdatedAt = now

	const query = `
INSERT INTO salas (id, nome, capacidade_total, localizacao, status, cadeiras_moveis, cadeiras_especiais, created_at, updated_at)
VALUES (:id, :nome, :capacidade_total, :localizacao, :status, :cadeiras_moveis, :cadeiras_especiais, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, sala); err != nil {
		return fmt.Errorf("insert sala: %w", err)
	}
	return nil
}

// Update overwrites the mutable attributes of a room.
func (r *SalaRepository) Update(ctx context.Context, sala *models.Sala) error {
	sala.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE salas SET nome = :nome, capacidade_total = :capacidade_total, localizacao = :localizacao, status = :status,
cadeiras_moveis = :cadeiras_moveis, cadeiras_especiais = :cadeiras_especiais, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, sala)
	if err != nil {
		return fmt.Errorf("update sala: %w", err)
	}
	return expectAffected(result, "sala")
}

// Delete removes a room. Allocation memberships are dropped by the foreign key cascade.
func (r *SalaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM salas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sala: %w", err)
	}
	return expectAffected(result, "sala")
}

// ListByAlocacao returns the rooms attached to an allocation ordered by id.
func (r *SalaRepository) ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Sala, error) {
	const query = `SELECT s.id, s.nome, s.capacidade_total, s.localizacao, s.status, s.cadeiras_moveis, s.cadeiras_especiais, s.created_at, s.updated_at
FROM salas s JOIN alocacao_salas a ON a.sala_id = s.id
WHERE a.alocacao_id = $1 ORDER BY s.id ASC`
	salas := make([]models.Sala, 0)
	if err := r.db.SelectContext(ctx, &salas, query, alocacaoID); err != nil {
		return nil, fmt.Errorf("list salas by alocacao: %w", err)
	}
	return salas, nil
}

// ListByAlocacoes returns room memberships for several allocations at once.
func (r *SalaRepository) ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.AlocacaoSala, error) {
	rows := make([]models.AlocacaoSala, 0)
	if len(alocacaoIDs) == 0 {
		return rows, nil
	}
	const query = `SELECT a.alocacao_id, s.id, s.nome, s.capacidade_total, s.localizacao, s.status, s.cadeiras_moveis, s.cadeiras_especiais, s.created_at, s.updated_at
FROM salas s JOIN alocacao_salas a ON a.sala_id = s.id
WHERE a.alocacao_id = ANY($1) ORDER BY a.alocacao_id ASC, s.nome ASC, s.id ASC`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(alocacaoIDs)); err != nil {
		return nil, fmt.Errorf("list salas by alocacoes: %w", err)
	}
	return rows, nil
}

func expectAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
