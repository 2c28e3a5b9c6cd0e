package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/allocation"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

var errBoom = errors.New("boom")

func uniqueViolation() error {
	return &pq.Error{Code: "23505", Constraint: "horarios_alocacao_dia_periodo_key"}
}

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

type statsStub struct {
	mu    sync.Mutex
	calls int
}

func (s *statsStub) InvalidateStats(ctx context.Context) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *statsStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type alocacaoFinderStub struct {
	alocacoes map[string]models.Alocacao
}

func (s alocacaoFinderStub) FindByID(ctx context.Context, id string) (*models.Alocacao, error) {
	if a, ok := s.alocacoes[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func alocacoesWith(ids ...string) alocacaoFinderStub {
	stub := alocacaoFinderStub{alocacoes: make(map[string]models.Alocacao)}
	for _, id := range ids {
		stub.alocacoes[id] = models.Alocacao{ID: id, Nome: "Alocacao " + id}
	}
	return stub
}

type salaRunStub struct {
	salas []models.Sala
	err   error
}

func (s salaRunStub) ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Sala, error) {
	return s.salas, s.err
}

type horarioRunStub struct {
	horarios []models.Horario
	err      error
}

func (s horarioRunStub) ListByAlocacao(ctx context.Context, alocacaoID string) ([]models.Horario, error) {
	return s.horarios, s.err
}

type horarioTurmaStub struct {
	rows []models.HorarioTurma
	err  error
}

func (s horarioTurmaStub) ListByHorarios(ctx context.Context, horarioIDs []string) ([]models.HorarioTurma, error) {
	wanted := make(map[string]bool, len(horarioIDs))
	for _, id := range horarioIDs {
		wanted[id] = true
	}
	rows := make([]models.HorarioTurma, 0)
	for _, row := range s.rows {
		if wanted[row.HorarioID] {
			rows = append(rows, row)
		}
	}
	return rows, s.err
}

type resultadoWriterStub struct {
	mu          sync.Mutex
	failHorario string
	saved       []models.ResultadoAlocacao
	itens       map[string][]models.ResultadoItem
}

func (s *resultadoWriterStub) Create(ctx context.Context, exec sqlx.ExtContext, resultado *models.ResultadoAlocacao, itens []models.ResultadoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resultado.Erro == nil && resultado.HorarioID != nil && *resultado.HorarioID == s.failHorario {
		return errBoom
	}
	resultado.ID = "res-" + *resultado.HorarioID
	if s.itens == nil {
		s.itens = make(map[string][]models.ResultadoItem)
	}
	s.saved = append(s.saved, *resultado)
	s.itens[resultado.ID] = itens
	return nil
}

type engineStub struct {
	err      error
	panicMsg string
}

func (e engineStub) Assign(rooms []models.Sala, classes []models.Turma, prefs models.Preferencias) (*allocation.Outcome, error) {
	if e.panicMsg != "" {
		panic(e.panicMsg)
	}
	return nil, e.err
}

func (e engineStub) Strategy() allocation.Strategy { return allocation.StrategyGreedy }

type runnerStub struct {
	summary *models.RunSummary
	err     error
	delay   time.Duration
	calls   chan string
}

func (r runnerStub) RunExecucao(ctx context.Context, execucaoID, alocacaoID string, prefs models.Preferencias) (*models.RunSummary, error) {
	if r.calls != nil {
		r.calls <- execucaoID
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	summary := *r.summary
	summary.ExecucaoID = execucaoID
	summary.AlocacaoID = alocacaoID
	return &summary, nil
}
