package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

// DashboardRepository computes aggregate counts for the dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// An allocation is configured once it has a room or a time-slot, and ready
// once it has at least one room and one time-slot holding classes.
const dashboardStatsQuery = `
SELECT
  (SELECT COUNT(*) FROM salas) AS total_salas,
  (SELECT COUNT(*) FROM salas WHERE status = 'ATIVA') AS salas_ativas,
  (SELECT COUNT(*) FROM turmas) AS total_turmas,
  (SELECT COALESCE(SUM(alunos), 0) FROM turmas) AS total_alunos,
  (SELECT COUNT(*) FROM alocacoes) AS total_alocacoes,
  (SELECT COUNT(*) FROM alocacoes a WHERE EXISTS (SELECT 1 FROM alocacao_salas s WHERE s.alocacao_id = a.id)
      OR EXISTS (SELECT 1 FROM horarios h WHERE h.alocacao_id = a.id)) AS alocacoes_ativas,
  (SELECT COUNT(*) FROM alocacoes a WHERE EXISTS (SELECT 1 FROM alocacao_salas s WHERE s.alocacao_id = a.id)
      AND EXISTS (SELECT 1 FROM horarios h JOIN horario_turmas ht ON ht.horario_id = h.id WHERE h.alocacao_id = a.id)) AS alocacoes_prontas,
  (SELECT COUNT(*) FROM resultados_alocacao) AS resultados_gerados`

type dashboardRow struct {
	TotalSalas        int `db:"total_salas"`
	SalasAtivas       int `db:"salas_ativas"`
	TotalTurmas       int `db:"total_turmas"`
	TotalAlunos       int `db:"total_alunos"`
	TotalAlocacoes    int `db:"total_alocacoes"`
	AlocacoesAtivas   int `db:"alocacoes_ativas"`
	AlocacoesProntas  int `db:"alocacoes_prontas"`
	ResultadosGerados int `db:"resultados_gerados"`
}

// Stats loads every dashboard counter in one round trip.
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var row dashboardRow
	if err := r.db.GetContext(ctx, &row, dashboardStatsQuery); err != nil {
		return nil, fmt.Errorf("load dashboard stats: %w", err)
	}
	return &models.DashboardStats{
		TotalSalas:        row.TotalSalas,
		SalasAtivas:       row.SalasAtivas,
		TotalTurmas:       row.TotalTurmas,
		TotalAlunos:       row.TotalAlunos,
		TotalAlocacoes:    row.TotalAlocacoes,
		AlocacoesAtivas:   row.AlocacoesAtivas,
		AlocacoesProntas:  row.AlocacoesProntas,
		ResultadosGerados: row.ResultadosGerados,
	}, nil
}

// Ping checks database connectivity for readiness probes.
func (r *DashboardRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
