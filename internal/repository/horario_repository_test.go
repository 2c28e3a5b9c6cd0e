package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
)

func TestHorarioRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHorarioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO horarios (id, alocacao_id, dia_semana, periodo, created_at)")).
		WithArgs(sqlmock.AnyArg(), "aloc-1", "SEGUNDA", "MATUTINO", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	horario := &models.Horario{AlocacaoID: "aloc-1", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino}
	require.NoError(t, repo.Create(context.Background(), nil, horario))
	assert.NotEmpty(t, horario.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHorarioRepositoryCopyTurmasInsideTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHorarioRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO horario_turmas (horario_id, turma_id, created_at)\nSELECT $2, turma_id, $3 FROM horario_turmas WHERE horario_id = $1")).
		WithArgs("h-src", "h-dst", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	copied, err := repo.CopyTurmas(context.Background(), tx, "h-src", "h-dst")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(3), copied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHorarioRepositoryRemoveTurmaNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHorarioRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM horario_turmas WHERE horario_id = $1 AND turma_id = $2")).
		WithArgs("h1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.RemoveTurma(context.Background(), "h1", "t1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlocacaoRepositoryMembership(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAlocacaoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO alocacao_salas (alocacao_id, sala_id, created_at) VALUES ($1, $2, $3)")).
		WithArgs("aloc-1", "sala-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM alocacao_salas WHERE alocacao_id = $1 AND sala_id = $2")).
		WithArgs("aloc-1", "sala-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddSala(context.Background(), nil, "aloc-1", "sala-1"))
	require.NoError(t, repo.RemoveSala(context.Background(), "aloc-1", "sala-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlocacaoRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAlocacaoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM alocacoes WHERE id = $1")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), sql.ErrNoRows)
}
