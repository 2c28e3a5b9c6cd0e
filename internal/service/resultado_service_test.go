package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type resultadoStoreStub struct {
	resultados []models.ResultadoAlocacao
	itens      []models.ResultadoItem
	latestOnly bool
	deleteErr  error
}

func (s *resultadoStoreStub) ListByAlocacao(ctx context.Context, alocacaoID string, latestOnly bool) ([]models.ResultadoAlocacao, error) {
	s.latestOnly = latestOnly
	return append([]models.ResultadoAlocacao(nil), s.resultados...), nil
}

func (s *resultadoStoreStub) ListByExecucao(ctx context.Context, execucaoID string) ([]models.ResultadoAlocacao, error) {
	var out []models.ResultadoAlocacao
	for _, r := range s.resultados {
		if r.ExecucaoID == execucaoID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *resultadoStoreStub) ListItens(ctx context.Context, resultadoIDs []string) ([]models.ResultadoItem, error) {
	return s.itens, nil
}

func (s *resultadoStoreStub) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

func storedResultados() *resultadoStoreStub {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	h1, h2 := "h1", "h2"
	return &resultadoStoreStub{
		resultados: []models.ResultadoAlocacao{
			{ID: "r-old", AlocacaoID: "aloc-1", HorarioID: &h1, ExecucaoID: "e1", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino, DataGeracao: base},
			{ID: "r-sexta", AlocacaoID: "aloc-1", ExecucaoID: "e2", DiaSemana: models.DiaSexta, Periodo: models.PeriodoMatutino, DataGeracao: base.Add(time.Hour),
				TurmasNaoAlocadas: types.JSONText(`[{"id":"Z","nome":"Turma Z","alunos":60,"esp_necessarias":0,"motivo":"CAPACITY_INSUFFICIENT","motivo_descricao":"Nenhuma sala comporta a quantidade de alunos"}]`)},
			{ID: "r-noite", AlocacaoID: "aloc-1", HorarioID: &h2, ExecucaoID: "e2", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoNoturno, DataGeracao: base.Add(time.Hour)},
			{ID: "r-new", AlocacaoID: "aloc-1", HorarioID: &h1, ExecucaoID: "e2", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino, DataGeracao: base.Add(time.Hour),
				ScoreOtimizacao: 91.5, TurmasAlocadas: 1, TotalTurmas: 1,
				AnaliseDetalhada: types.JSONText(`{"total_turmas":1}`)},
		},
		itens: []models.ResultadoItem{
			{ID: "i1", ResultadoID: "r-new", SalaID: "A", SalaNome: "Sala A", SalaCapacidadeTotal: 30, TurmaID: "X", TurmaNome: "Turma X", TurmaAlunos: 28,
				CompatibilidadeScore: 91.5, Observacoes: "Ocupacao: 93.3% | Especiais: 0/0", Racional: types.JSONText(`{"occupancy_pct":93.3}`)},
		},
	}
}

func TestResultadoServiceResultsOrderedBySlotThenNewest(t *testing.T) {
	store := storedResultados()
	svc := NewResultadoService(store, alocacoesWith("aloc-1"), nil, nil, ResultadoServiceConfig{})

	views, err := svc.Results(context.Background(), "aloc-1", true)
	require.NoError(t, err)
	assert.True(t, store.latestOnly)

	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"r-new", "r-old", "r-noite", "r-sexta"}, ids)

	newest := views[0]
	assert.Equal(t, "h1", newest.Horario.ID)
	assert.Equal(t, `{"total_turmas":1}`, newest.AnaliseDetalhada)
	assert.Equal(t, `[]`, newest.TurmasNaoAlocadas)
	assert.Equal(t, `{}`, newest.DebugInfo)
	require.Len(t, newest.Alocacoes, 1)
	assert.Equal(t, 93.3, newest.Alocacoes[0].Racional.OccupancyPct)
	assert.Equal(t, "Sala A", newest.Alocacoes[0].Sala.Nome)

	// results whose time-slot was deleted keep their snapshot
	assert.Empty(t, views[3].Horario.ID)
	assert.Equal(t, models.DiaSexta, views[3].Horario.DiaSemana)
}

func TestResultadoServiceResultsUnknownAlocacao(t *testing.T) {
	svc := NewResultadoService(storedResultados(), alocacoesWith(), nil, nil, ResultadoServiceConfig{})

	_, err := svc.Results(context.Background(), "missing", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestResultadoServiceExportCSV(t *testing.T) {
	svc := NewResultadoService(storedResultados(), alocacoesWith("aloc-1"), nil, nil, ResultadoServiceConfig{})

	file, err := svc.Export(context.Background(), "aloc-1", "csv", false)
	require.NoError(t, err)
	assert.Equal(t, "resultados-aloc-1.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Dia;Periodo;Turma;Alunos;Especiais;Sala;Capacidade;Score;Situacao;Observacoes", lines[0])
	assert.Contains(t, lines[1], "SEGUNDA;MATUTINO;Turma X;28;0;Sala A;30;91.50;ALOCADA")
	assert.Contains(t, lines[2], "SEXTA;MATUTINO;Turma Z;60;0;;;;CAPACITY_INSUFFICIENT")
}

func TestResultadoServiceExportRejectsUnknownFormat(t *testing.T) {
	svc := NewResultadoService(storedResultados(), alocacoesWith("aloc-1"), nil, nil, ResultadoServiceConfig{})

	_, err := svc.Export(context.Background(), "aloc-1", "xlsx", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestResultadoServiceDelete(t *testing.T) {
	stats := &statsStub{}
	svc := NewResultadoService(&resultadoStoreStub{}, alocacoesWith(), stats, nil, ResultadoServiceConfig{})
	require.NoError(t, svc.Delete(context.Background(), "r1"))
	assert.Equal(t, 1, stats.count())

	svc = NewResultadoService(&resultadoStoreStub{deleteErr: sql.ErrNoRows}, alocacoesWith(), stats, nil, ResultadoServiceConfig{})
	err := svc.Delete(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestResultadoServiceResultsByExecucao(t *testing.T) {
	svc := NewResultadoService(storedResultados(), alocacoesWith("aloc-1"), nil, nil, ResultadoServiceConfig{})

	views, err := svc.ResultsByExecucao(context.Background(), "e2")
	require.NoError(t, err)
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"r-new", "r-noite", "r-sexta"}, ids)

	_, err = svc.ResultsByExecucao(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
