package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type alocacaoStore interface {
	List(ctx context.Context) ([]models.Alocacao, error)
	FindByID(ctx context.Context, id string) (*models.Alocacao, error)
	Create(ctx context.Context, alocacao *models.Alocacao) error
	Update(ctx context.Context, alocacao *models.Alocacao) error
	Delete(ctx context.Context, id string) error
	AddSala(ctx context.Context, exec sqlx.ExtContext, alocacaoID, salaID string) error
	RemoveSala(ctx context.Context, alocacaoID, salaID string) error
}

type alocacaoSalaReader interface {
	FindByID(ctx context.Context, id string) (*models.Sala, error)
	ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.AlocacaoSala, error)
}

type alocacaoHorarioReader interface {
	ListByAlocacoes(ctx context.Context, alocacaoIDs []string) ([]models.Horario, error)
}

type horarioTurmaReader interface {
	ListByHorarios(ctx context.Context, horarioIDs []string) ([]models.HorarioTurma, error)
}

// AlocacaoService manages allocations and their room memberships.
type AlocacaoService struct {
	repo      alocacaoStore
	salas     alocacaoSalaReader
	horarios  alocacaoHorarioReader
	turmas    horarioTurmaReader
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAlocacaoService constructs the service.
func NewAlocacaoService(
	repo alocacaoStore,
	salas alocacaoSalaReader,
	horarios alocacaoHorarioReader,
	turmas horarioTurmaReader,
	stats statsInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *AlocacaoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlocacaoService{
		repo:      repo,
		salas:     salas,
		horarios:  horarios,
		turmas:    turmas,
		stats:     stats,
		validator: validate,
		logger:    logger,
	}
}

// List returns every allocation with its rooms, time-slots and classes.
func (s *AlocacaoService) List(ctx context.Context) ([]models.AlocacaoDetalhada, error) {
	alocacoes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list alocacoes")
	}
	return s.detail(ctx, alocacoes)
}

// Get returns one allocation with its nested collections.
func (s *AlocacaoService) Get(ctx context.Context, id string) (*models.AlocacaoDetalhada, error) {
	alocacao, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	detailed, err := s.detail(ctx, []models.Alocacao{*alocacao})
	if err != nil {
		return nil, err
	}
	return &detailed[0], nil
}

// Create registers an empty allocation.
func (s *AlocacaoService) Create(ctx context.Context, req dto.AlocacaoRequest) (*models.Alocacao, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alocacao payload")
	}
	alocacao := &models.Alocacao{Nome: strings.TrimSpace(req.Nome), Descricao: strings.TrimSpace(req.Descricao)}
	if err := s.repo.Create(ctx, alocacao); err != nil {
		return nil, storeError(err, "alocacao not found", "alocacao already exists", "failed to create alocacao")
	}
	s.logger.Info("alocacao created", zap.String("alocacao_id", alocacao.ID))
	s.invalidate(ctx)
	return alocacao, nil
}

// Update renames an allocation.
func (s *AlocacaoService) Update(ctx context.Context, id string, req dto.AlocacaoRequest) (*models.Alocacao, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alocacao payload")
	}
	alocacao, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	alocacao.Nome = strings.TrimSpace(req.Nome)
	alocacao.Descricao = strings.TrimSpace(req.Descricao)
	if err := s.repo.Update(ctx, alocacao); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to update alocacao")
	}
	return alocacao, nil
}

// Delete removes an allocation together with its time-slots and results.
func (s *AlocacaoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "alocacao not found", "", "failed to delete alocacao")
	}
	s.logger.Info("alocacao deleted", zap.String("alocacao_id", id))
	s.invalidate(ctx)
	return nil
}

// AddSala attaches an existing room to the allocation.
func (s *AlocacaoService) AddSala(ctx context.Context, alocacaoID string, req dto.AddSalaRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sala membership payload")
	}
	if _, err := s.repo.FindByID(ctx, alocacaoID); err != nil {
		return storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	if _, err := s.salas.FindByID(ctx, req.SalaID); err != nil {
		return storeError(err, "sala not found", "", "failed to load sala")
	}
	if err := s.repo.AddSala(ctx, nil, alocacaoID, req.SalaID); err != nil {
		return storeError(err, "sala not found", "sala already belongs to this alocacao", "failed to add sala")
	}
	s.invalidate(ctx)
	return nil
}

// RemoveSala detaches a room from the allocation.
func (s *AlocacaoService) RemoveSala(ctx context.Context, alocacaoID, salaID string) error {
	if err := s.repo.RemoveSala(ctx, alocacaoID, salaID); err != nil {
		return storeError(err, "sala is not part of this alocacao", "", "failed to remove sala")
	}
	s.invalidate(ctx)
	return nil
}

func (s *AlocacaoService) detail(ctx context.Context, alocacoes []models.Alocacao) ([]models.AlocacaoDetalhada, error) {
	result := make([]models.AlocacaoDetalhada, 0, len(alocacoes))
	if len(alocacoes) == 0 {
		return result, nil
	}
	ids := make([]string, 0, len(alocacoes))
	for _, alocacao := range alocacoes {
		ids = append(ids, alocacao.ID)
	}

	memberships, err := s.salas.ListByAlocacoes(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load alocacao salas")
	}
	horarios, err := s.horarios.ListByAlocacoes(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load horarios")
	}
	horarioIDs := make([]string, 0, len(horarios))
	for _, horario := range horarios {
		horarioIDs = append(horarioIDs, horario.ID)
	}
	turmas, err := s.turmas.ListByHorarios(ctx, horarioIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load horario turmas")
	}

	salasByAlocacao := make(map[string][]models.Sala, len(alocacoes))
	for _, m := range memberships {
		salasByAlocacao[m.AlocacaoID] = append(salasByAlocacao[m.AlocacaoID], m.Sala)
	}
	turmasByHorario := make(map[string][]models.Turma, len(horarios))
	for _, ht := range turmas {
		turmasByHorario[ht.HorarioID] = append(turmasByHorario[ht.HorarioID], ht.Turma)
	}
	horariosByAlocacao := make(map[string][]models.HorarioDetalhado, len(alocacoes))
	for _, horario := range horarios {
		classes := turmasByHorario[horario.ID]
		if classes == nil {
			classes = []models.Turma{}
		}
		horariosByAlocacao[horario.AlocacaoID] = append(horariosByAlocacao[horario.AlocacaoID], models.HorarioDetalhado{Horario: horario, Turmas: classes})
	}

	for _, alocacao := range alocacoes {
		salas := salasByAlocacao[alocacao.ID]
		if salas == nil {
			salas = []models.Sala{}
		}
		slots := horariosByAlocacao[alocacao.ID]
		if slots == nil {
			slots = []models.HorarioDetalhado{}
		}
		sort.SliceStable(slots, func(i, j int) bool {
			return models.SlotLess(slots[i].DiaSemana, slots[i].Periodo, slots[j].DiaSemana, slots[j].Periodo)
		})
		result = append(result, models.AlocacaoDetalhada{Alocacao: alocacao, Salas: salas, Horarios: slots})
	}
	return result, nil
}

func (s *AlocacaoService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
}
