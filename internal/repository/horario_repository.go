package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// HorarioRepository persists time-slots and their class memberships.
type HorarioRepository struct {
	db *sqlx.DB
}

// NewHorarioRepository constructs the repository.
func NewHorarioRepository(db *sqlx.DB) *HorarioRepository {
	return &HorarioRepository{db: db}
}

func (r *HorarioRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID loads a time-slot.
func (r *HorarioRepository) FindByID(ctx context.Context, id string) (*models.Horario, error) {
	const query = `SELECT id, alocacao_id, dia_semana, periodo, created_at FROM horarios WHERE id = $1`
	var horario models.Horario
	if err := r.db.GetContext(ctx, &horario, query, id); err != nil {
		return nil, err
	}
	return &horario, nil
}

// ListByAlocacao returns the time-slots of one allocation.
func (r *HorarioRepository) ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Horario, error) {
	return r.ListByAlocacoes(ctx, []string{alocacaoID})
}

// ListByAlocacoes returns the time-slots of several allocations.
func (r *HorarioRepository) ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.Horario, error) {
	horarios := make([]models.Horario, 0)
	if len(alocacaoIDs) == 0 {
		return horarios, nil
	}
	const query = `SELECT id, alocacao_id, dia_semana, periodo, created_at FROM horarios WHERE alocacao_id = ANY($1) ORDER BY alocacao_id ASC, id ASC`
	if err := r.db.SelectContext(ctx, &horarios, query, pq.Array(alocacaoIDs)); err != nil {
		return nil, fmt.Errorf("list horarios: %w", err)
	}
	return horarios, nil
}

// Create inserts a time-slot. A repeated (alocacao, dia, periodo) violates
// horarios_alocacao_dia_periodo_key.
func (r *HorarioRepository) Create(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error {
	if horario.ID == "" {
		horario.ID = uuid.NewString()
	}
	horario.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO horarios (id, alocacao_id, dia_semana, periodo, created_at) VALUES (:id, :alocacao_id, :dia_semana, :periodo, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, horario); err != nil {
		return fmt.Errorf("insert horario: %w", err)
	}
	return nil
}

// Delete removes a time-slot and its class memberships.
func (r *HorarioRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM horarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete horario: %w", err)
	}
	return expectAffected(result, "horario")
}

// AddTurma attaches a class to a time-slot.
func (r *HorarioRepository) AddTurma(ctx context.Context, horarioID, turmaID string) error {
	const query = `INSERT INTO horario_turmas (horario_id, turma_id, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, horarioID, turmaID, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert horario turma: %w", err)
	}
	return nil
}

// RemoveTurma detaches a class from a time-slot.
func (r *HorarioRepository) RemoveTurma(ctx context.Context, horarioID, turmaID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM horario_turmas WHERE horario_id = $1 AND turma_id = $2`, horarioID, turmaID)
	if err != nil {
		return fmt.Errorf("delete horario turma: %w", err)
	}
	return expectAffected(result, "horario turma")
}

// CopyTurmas duplicates the class memberships of one slot into another and
// returns how many were copied.
func (r *HorarioRepository) CopyTurmas(ctx context.Context, exec sqlx.ExtContext, fromID, toID string) (int64, error) {
	const query = `INSERT INTO horario_turmas (horario_id, turma_id, created_at)
SELECT $2, turma_id, $3 FROM horario_turmas WHERE horario_id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, fromID, toID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("copy horario turmas: %w", err)
	}
	copied, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("copy horario turmas rows affected: %w", err)
	}
	return copied, nil
}
