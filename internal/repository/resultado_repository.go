package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

const resultadoColumns = `id, alocacao_id, horario_id, execucao_id, dia_semana, periodo, score_otimizacao, acuracia_modelo,
total_turmas, turmas_alocadas, turmas_sobrando, analise_detalhada, debug_info, turmas_nao_alocadas, erro, data_geracao`

// ResultadoRepository persists allocation results. Rows are insert-only.
type ResultadoRepository struct {
	db *sqlx.DB
}

// NewResultadoRepository constructs the repository.
func NewResultadoRepository(db *sqlx.DB) *ResultadoRepository {
	return &ResultadoRepository{db: db}
}

func (r *ResultadoRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a result header and its items. Callers pass a transaction so
// the whole result is written or nothing is.
func (r *ResultadoRepository) Create(ctx context.Context, exec sqlx.ExtContext, resultado *models.ResultadoAlocacao, itens []models.ResultadoItem) error {
	if resultado.ID == "" {
		resultado.ID = uuid.NewString()
	}
	if resultado.DataGeracao.IsZero() {
		resultado.DataGeracao = time.Now().UTC()
	}
	defaultJSON(&resultado.AnaliseDetalhada, `{}`)
	defaultJSON(&resultado.DebugInfo, `{}`)
	defaultJSON(&resultado.TurmasNaoAlocadas, `[]`)

	target := r.exec(exec)

	const headerQuery = `
INSERT INTO resultados_alocacao (id, alocacao_id, horario_id, execucao_id, dia_semana, periodo, score_otimizacao, acuracia_modelo,
total_turmas, turmas_alocadas, turmas_sobrando, analise_detalhada, debug_info, turmas_nao_alocadas, erro, data_geracao)
VALUES (:id, :alocacao_id, :horario_id, :execucao_id, :dia_semana, :periodo, :score_otimizacao, :acuracia_modelo,
:total_turmas, :turmas_alocadas, :turmas_sobrando, :analise_detalhada, :debug_info, :turmas_nao_alocadas, :erro, :data_geracao)`
	if _, err := sqlx.NamedExecContext(ctx, target, headerQuery, resultado); err != nil {
		return fmt.Errorf("insert resultado: %w", err)
	}

	const itemQuery = `
INSERT INTO resultado_itens (id, resultado_id, sala_id, sala_nome, sala_capacidade_total, sala_cadeiras_especiais,
turma_id, turma_nome, turma_alunos, turma_esp_necessarias, compatibilidade_score, observacoes, racional)
VALUES (:id, :resultado_id, :sala_id, :sala_nome, :sala_capacidade_total, :sala_cadeiras_especiais,
:turma_id, :turma_nome, :turma_alunos, :turma_esp_necessarias, :compatibilidade_score, :observacoes, :racional)`
	for i := range itens {
		item := &itens[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ResultadoID = resultado.ID
		defaultJSON(&item.Racional, `{}`)
		if _, err := sqlx.NamedExecContext(ctx, target, itemQuery, item); err != nil {
			return fmt.Errorf("insert resultado item: %w", err)
		}
	}
	return nil
}

// ListByAlocacao returns results of an allocation, newest first. With
// latestOnly only the most recent run is returned.
func (r *ResultadoRepository) ListByAlocacao(ctx context.Context, alocacaoID string, latestOnly bool) ([]models.ResultadoAlocacao, error) {
	query := "SELECT " + resultadoColumns + " FROM resultados_alocacao WHERE alocacao_id = $1"
	if latestOnly {
		query += ` AND execucao_id = (SELECT execucao_id FROM resultados_alocacao WHERE alocacao_id = $1 ORDER BY data_geracao DESC LIMIT 1)`
	}
	query += " ORDER BY data_geracao DESC, id ASC"

	resultados := make([]models.ResultadoAlocacao, 0)
	if err := r.db.SelectContext(ctx, &resultados, query, alocacaoID); err != nil {
		return nil, fmt.Errorf("list resultados: %w", err)
	}
	return resultados, nil
}

// ListByExecucao returns the results written by one run.
func (r *ResultadoRepository) ListByExecucao(ctx context.Context, execucaoID string) ([]models.ResultadoAlocacao, error) {
	query := "SELECT " + resultadoColumns + " FROM resultados_alocacao WHERE execucao_id = $1 ORDER BY id ASC"
	resultados := make([]models.ResultadoAlocacao, 0)
	if err := r.db.SelectContext(ctx, &resultados, query, execucaoID); err != nil {
		return nil, fmt.Errorf("list resultados by execucao: %w", err)
	}
	return resultados, nil
}

// ListItens returns the assignment rows of several results.
func (r *ResultadoRepository) ListItens(ctx context.Context, resultadoIDs []string) ([]models.ResultadoItem, error) {
	itens := make([]models.ResultadoItem, 0)
	if len(resultadoIDs) == 0 {
		return itens, nil
	}
	const query = `SELECT id, resultado_id, sala_id, sala_nome, sala_capacidade_total, sala_cadeiras_especiais,
turma_id, turma_nome, turma_alunos, turma_esp_necessarias, compatibilidade_score, observacoes, racional
FROM resultado_itens WHERE resultado_id = ANY($1) ORDER BY resultado_id ASC, turma_alunos DESC, turma_id ASC`
	if err := r.db.SelectContext(ctx, &itens, query, pq.Array(resultadoIDs)); err != nil {
		return nil, fmt.Errorf("list resultado itens: %w", err)
	}
	return itens, nil
}

// Delete removes a result and its items.
func (r *ResultadoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resultados_alocacao WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resultado: %w", err)
	}
	return expectAffected(result, "resultado")
}

func defaultJSON(value *types.JSONText, fallback string) {
	if len(*value) == 0 {
		*value = types.JSONText(fallback)
	}
}
