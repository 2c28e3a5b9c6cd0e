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

type alocacaoStoreStub struct {
	alocacoes []models.Alocacao
	addErr    error
	added     [][2]string
}

func (s *alocacaoStoreStub) List(ctx context.Context) ([]models.Alocacao, error) {
	return s.alocacoes, nil
}

func (s *alocacaoStoreStub) FindByID(ctx context.Context, id string) (*models.Alocacao, error) {
	for _, a := range s.alocacoes {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *alocacaoStoreStub) Create(ctx context.Context, alocacao *models.Alocacao) error {
	alocacao.ID = "aloc-new"
	s.alocacoes = append(s.alocacoes, *alocacao)
	return nil
}

func (s *alocacaoStoreStub) Update(ctx context.Context, alocacao *models.Alocacao) error {
	return nil
}

func (s *alocacaoStoreStub) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *alocacaoStoreStub) AddSala(ctx context.Context, exec sqlx.ExtContext, alocacaoID, salaID string) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, [2]string{alocacaoID, salaID})
	return nil
}

func (s *alocacaoStoreStub) RemoveSala(ctx context.Context, alocacaoID, salaID string) error {
	return sql.ErrNoRows
}

type salaMembershipStub struct {
	salas       map[string]models.Sala
	memberships []models.AlocacaoSala
}

func (s salaMembershipStub) FindByID(ctx context.Context, id string) (*models.Sala, error) {
	if sala, ok := s.salas[id]; ok {
		return &sala, nil
	}
	return nil, sql.ErrNoRows
}

func (s salaMembershipStub) ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.AlocacaoSala, error) {
	return s.memberships, nil
}

type horarioListStub struct {
	horarios []models.Horario
}

func (s horarioListStub) ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.Horario, error) {
	return s.horarios, nil
}

func TestAlocacaoServiceListNestsCollections(t *testing.T) {
	store := &alocacaoStoreStub{alocacoes: []models.Alocacao{{ID: "a1", Nome: "Bloco A"}, {ID: "a2", Nome: "Vazia"}}}
	salas := salaMembershipStub{memberships: []models.AlocacaoSala{
		{AlocacaoID: "a1", Sala: models.Sala{ID: "s1", Nome: "Sala 1"}},
	}}
	horarios := horarioListStub{horarios: []models.Horario{
		{ID: "h-sex", AlocacaoID: "a1", DiaSemana: models.DiaSexta, Periodo: models.PeriodoMatutino},
		{ID: "h-seg-noite", AlocacaoID: "a1", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoNoturno},
		{ID: "h-seg-manha", AlocacaoID: "a1", DiaSemana: models.DiaSegunda, Periodo: models.PeriodoMatutino},
	}}
	turmas := horarioTurmaStub{rows: []models.HorarioTurma{
		{HorarioID: "h-seg-manha", Turma: models.Turma{ID: "t1", Alunos: 30}},
	}}
	svc := NewAlocacaoService(store, salas, horarios, turmas, nil, nil, nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	require.Len(t, first.Salas, 1)
	require.Len(t, first.Horarios, 3)
	assert.Equal(t, "h-seg-manha", first.Horarios[0].ID)
	assert.Equal(t, "h-seg-noite", first.Horarios[1].ID)
	assert.Equal(t, "h-sex", first.Horarios[2].ID)
	assert.Len(t, first.Horarios[0].Turmas, 1)
	assert.NotNil(t, first.Horarios[1].Turmas)

	assert.NotNil(t, list[1].Salas)
	assert.Empty(t, list[1].Horarios)
}

func TestAlocacaoServiceAddSala(t *testing.T) {
	store := &alocacaoStoreStub{alocacoes: []models.Alocacao{{ID: "a1"}}}
	salas := salaMembershipStub{salas: map[string]models.Sala{"s1": {ID: "s1"}}}
	stats := &statsStub{}
	svc := NewAlocacaoService(store, salas, horarioListStub{}, horarioTurmaStub{}, stats, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.AddSala(ctx, "a1", dto.AddSalaRequest{SalaID: "s1"}))
	assert.Equal(t, [][2]string{{"a1", "s1"}}, store.added)
	assert.Equal(t, 1, stats.count())

	err := svc.AddSala(ctx, "a1", dto.AddSalaRequest{SalaID: "s404"})
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	err = svc.AddSala(ctx, "a404", dto.AddSalaRequest{SalaID: "s1"})
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	err = svc.AddSala(ctx, "a1", dto.AddSalaRequest{})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	store.addErr = uniqueViolation()
	err = svc.AddSala(ctx, "a1", dto.AddSalaRequest{SalaID: "s1"})
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)

	err = svc.RemoveSala(ctx, "a1", "s1")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestAlocacaoServiceCreateAndDelete(t *testing.T) {
	store := &alocacaoStoreStub{}
	svc := NewAlocacaoService(store, salaMembershipStub{}, horarioListStub{}, horarioTurmaStub{}, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.AlocacaoRequest{Nome: "  Semestre 1  "})
	require.NoError(t, err)
	assert.Equal(t, "Semestre 1", created.Nome)

	_, err = svc.Create(ctx, dto.AlocacaoRequest{})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	require.NoError(t, svc.Delete(ctx, "aloc-new"))
	err = svc.Delete(ctx, "aloc-404")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	detail, err := svc.Get(ctx, "aloc-new")
	require.NoError(t, err)
	assert.Equal(t, "aloc-new", detail.ID)
	assert.Empty(t, detail.Salas)
}
