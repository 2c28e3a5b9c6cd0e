package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type horarioStoreStub struct {
	horarios  map[string]models.Horario
	created   []models.Horario
	createErr error
	copied    int64
	copyErr   error
	addErr    error
	removeErr error
	usedTx    bool
}

func (s *horarioStoreStub) FindByID(ctx context.Context, id string) (*models.Horario, error) {
	if h, ok := s.horarios[id]; ok {
		return &h, nil
	}
	return nil, sql.ErrNoRows
}

func (s *horarioStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error {
	if s.createErr != nil {
		return s.createErr
	}
	_, s.usedTx = exec.(*sqlx.Tx)
	horario.ID = "new-horario"
	s.created = append(s.created, *horario)
	return nil
}

func (s *horarioStoreStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.horarios[id]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

func (s *horarioStoreStub) AddTurma(ctx context.Context, horarioID, turmaID string) error {
	return s.addErr
}

func (s *horarioStoreStub) RemoveTurma(ctx context.Context, horarioID, turmaID string) error {
	return s.removeErr
}

func (s *horarioStoreStub) CopyTurmas(ctx context.Context, exec sqlx.ExtContext, fromID, toID string) (int64, error) {
	return s.copied, s.copyErr
}

type turmaFinderStub struct {
	ids map[string]bool
}

func (s turmaFinderStub) FindByID(ctx context.Context, id string) (*models.Turma, error) {
	if s.ids[id] {
		return &models.Turma{ID: id, Nome: "Turma " + id, Alunos: 20}, nil
	}
	return nil, sql.ErrNoRows
}

func newHorarioStore() *horarioStoreStub {
	return &horarioStoreStub{horarios: map[string]models.Horario{
		"h1": {ID: "h1", AlocacaoID: "aloc-1", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino},
	}}
}

func TestHorarioServiceCreateDuplicateIsConflict(t *testing.T) {
	store := newHorarioStore()
	store.createErr = uniqueViolation()
	svc := NewHorarioService(store, alocacoesWith("aloc-1"), turmaFinderStub{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "aloc-1", dto.HorarioRequest{DiaSemana: "SEGUNDA", Periodo: "MATUTINO"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, horarioConflictMessage, appErr.Message)
}

func TestHorarioServiceCreateValidatesEnums(t *testing.T) {
	svc := NewHorarioService(newHorarioStore(), alocacoesWith("aloc-1"), turmaFinderStub{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "aloc-1", dto.HorarioRequest{DiaSemana: "DOMINGO", Periodo: "MATUTINO"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	_, err = svc.Create(context.Background(), "missing", dto.HorarioRequest{DiaSemana: "SABADO", Periodo: "NOTURNO"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestHorarioServiceCloneCommitsTransaction(t *testing.T) {
	db, mock := newTxMock(t)
	store := newHorarioStore()
	store.copied = 3
	stats := &statsStub{}
	svc := NewHorarioService(store, alocacoesWith("aloc-1", "aloc-2"), turmaFinderStub{}, db, stats, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	clone, err := svc.Clone(context.Background(), "h1", dto.CloneHorarioRequest{AlocacaoID: "aloc-2", DiaSemana: "QUARTA", Periodo: "NOTURNO"})
	require.NoError(t, err)
	assert.Equal(t, "new-horario", clone.ID)
	assert.Equal(t, "aloc-2", clone.AlocacaoID)
	assert.Equal(t, models.DiaQuarta, clone.DiaSemana)
	assert.True(t, store.usedTx)
	assert.Equal(t, 1, stats.count())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHorarioServiceCloneRollsBackOnConflict(t *testing.T) {
	db, mock := newTxMock(t)
	store := newHorarioStore()
	store.createErr = uniqueViolation()
	svc := NewHorarioService(store, alocacoesWith("aloc-1"), turmaFinderStub{}, db, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Clone(context.Background(), "h1", dto.CloneHorarioRequest{AlocacaoID: "aloc-1", DiaSemana: "SEGUNDA", Periodo: "MATUTINO"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHorarioServiceCloneRollsBackWhenCopyFails(t *testing.T) {
	db, mock := newTxMock(t)
	store := newHorarioStore()
	store.copyErr = errBoom
	svc := NewHorarioService(store, alocacoesWith("aloc-1"), turmaFinderStub{}, db, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Clone(context.Background(), "h1", dto.CloneHorarioRequest{AlocacaoID: "aloc-1", DiaSemana: "TERCA", Periodo: "MATUTINO"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHorarioServiceTurmaMembership(t *testing.T) {
	store := newHorarioStore()
	svc := NewHorarioService(store, alocacoesWith("aloc-1"), turmaFinderStub{ids: map[string]bool{"t1": true}}, nil, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddTurma(ctx, "h1", dto.AddTurmaRequest{TurmaID: "t1"}))

	err := svc.AddTurma(ctx, "h1", dto.AddTurmaRequest{TurmaID: "t9"})
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	store.addErr = uniqueViolation()
	err = svc.AddTurma(ctx, "h1", dto.AddTurmaRequest{TurmaID: "t1"})
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	store.removeErr = sql.ErrNoRows
	err = svc.RemoveTurma(ctx, "h1", "t1")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	err = svc.Delete(ctx, "h404")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
