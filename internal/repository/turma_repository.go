package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

const turmaColumns = "id, nome, alunos, duracao_min, esp_necessarias, localizacao_preferida, created_at, updated_at"

// TurmaRepository persists classes.
type TurmaRepository struct {
	db *sqlx.DB
}

// NewTurmaRepository constructs the repository.
func NewTurmaRepository(db *sqlx.DB) *TurmaRepository {
	return &TurmaRepository{db: db}
}

// List returns classes ordered by name.
func (r *TurmaRepository) List(ctx context.Context, filter models.TurmaFilter) ([]models.Turma, error) {
	query := "SELECT " + turmaColumns + " FROM turmas"
	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query += " WHERE nome ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY nome ASC, id ASC"

	turmas := make([]models.Turma, 0)
	if err := r.db.SelectContext(ctx, &turmas, query, args...); err != nil {
		return nil, fmt.Errorf("list turmas: %w", err)
	}
	return turmas, nil
}

// FindByID loads a class by id.
func (r *TurmaRepository) FindByID(ctx context.Context, id string) (*models.Turma, error) {
	var turma models.Turma
	if err := r.db.GetContext(ctx, &turma, "SELECT "+turmaColumns+" FROM turmas WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &turma, nil
}

// Create inserts a class.
func (r *TurmaRepository) Create(ctx context.Context, turma *models.Turma) error {
	if turma.ID == "" {
		turma.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	turma.CreatedAt = now
	turma.UpdatedAt = now

	const query = `
INSERT INTO turmas (id, nome, alunos, duracao_min, esp_necessarias, localizacao_preferida, created_at, updated_at)
VALUES (:id, :nome, :alunos, :duracao_min, :esp_necessarias, :localizacao_preferida, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, turma); err != nil {
		return fmt.Errorf("insert turma: %w", err)
	}
	return nil
}

// Update overwrites the mutable attributes of a class.
func (r *TurmaRepository) Update(ctx context.Context, turma *models.Turma) error {
	turma.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE turmas SET nome = :nome, alunos = :alunos, duracao_min = :duracao_min, esp_necessarias = :esp_necessarias,
localizacao_preferida = :localizacao_preferida, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, turma)
	if err != nil {
		return fmt.Errorf("update turma: %w", err)
	}
	return expectAffected(result, "turma")
}

// Delete removes a class and, through the cascade, its slot memberships.
func (r *TurmaRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM turmas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete turma: %w", err)
	}
	return expectAffected(result, "turma")
}

// ListByHorarios returns the classes of several time-slots.
func (r *TurmaRepository) ListByHorarios(ctx context.Context, horarioIDs []string) ([]models.HorarioTurma, error) {
	rows := make([]models.HorarioTurma, 0)
	if len(horarioIDs) == 0 {
		return rows, nil
	}
	const query = `SELECT ht.horario_id, t.id, t.nome, t.alunos, t.duracao_min, t.esp_necessarias, t.localizacao_preferida, t.created_at, t.updated_at
FROM turmas t JOIN horario_turmas ht ON ht.turma_id = t.id
WHERE ht.horario_id = ANY($1) ORDER BY ht.horario_id ASC, t.id ASC`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(horarioIDs)); err != nil {
		return nil, fmt.Errorf("list turmas by horarios: %w", err)
	}
	return rows, nil
}
