package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

const horarioConflictMessage = "horario already exists for this alocacao"

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type horarioStore interface {
	FindByID(ctx context.Context, id string) (*models.Horario, error)
	Create(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error
	Delete(ctx context.Context, id string) error
	AddTurma(ctx context.Context, horarioID, turmaID string) error
	RemoveTurma(ctx context.Context, horarioID, turmaID string) error
	CopyTurmas(ctx context.Context, exec sqlx.ExtContext, fromID, toID string) (int64, error)
}

type alocacaoFinder interface {
	FindByID(ctx context.Context, id string) (*models.Alocacao, error)
}

type turmaFinder interface {
	FindByID(ctx context.Context, id string) (*models.Turma, error)
}

// HorarioService manages time-slots and the classes scheduled in them.
type HorarioService struct {
	repo      horarioStore
	alocacoes alocacaoFinder
	turmas    turmaFinder
	tx        txProvider
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHorarioService constructs the service.
func NewHorarioService(
	repo horarioStore,
	alocacoes alocacaoFinder,
	turmas turmaFinder,
	tx txProvider,
	stats statsInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *HorarioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HorarioService{
		repo:      repo,
		alocacoes: alocacoes,
		turmas:    turmas,
		tx:        tx,
		stats:     stats,
		validator: validate,
		logger:    logger,
	}
}

// Create adds a (day, period) slot to an allocation. Each pair may exist once.
func (s *HorarioService) Create(ctx context.Context, alocacaoID string, req dto.HorarioRequest) (*models.Horario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid horario payload")
	}
	if _, err := s.alocacoes.FindByID(ctx, alocacaoID); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	horario := &models.Horario{
		AlocacaoID: alocacaoID,
		DiaSemana:  models.DiaSemana(req.DiaSemana),
		Periodo:    models.Periodo(req.Periodo),
	}
	if err := s.repo.Create(ctx, nil, horario); err != nil {
		return nil, storeError(err, "alocacao not found", horarioConflictMessage, "failed to create horario")
	}
	s.invalidate(ctx)
	return horario, nil
}

// Delete removes a time-slot. Results already generated keep their snapshot.
func (s *HorarioService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "horario not found", "", "failed to delete horario")
	}
	s.invalidate(ctx)
	return nil
}

// Clone copies a time-slot and its classes to another (day, period), possibly
// in another allocation. The copy is written atomically.
func (s *HorarioService) Clone(ctx context.Context, id string, req dto.CloneHorarioRequest) (*models.Horario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clone payload")
	}
	source, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "horario not found", "", "failed to load horario")
	}
	if _, err := s.alocacoes.FindByID(ctx, req.AlocacaoID); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	clone := &models.Horario{
		AlocacaoID: req.AlocacaoID,
		DiaSemana:  models.DiaSemana(req.DiaSemana),
		Periodo:    models.Periodo(req.Periodo),
	}
	if err = s.repo.Create(ctx, tx, clone); err != nil {
		return nil, storeError(err, "alocacao not found", horarioConflictMessage, "failed to create horario")
	}
	copied, err := s.repo.CopyTurmas(ctx, tx, source.ID, clone.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy horario turmas")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit horario clone")
	}

	s.logger.Info("horario cloned",
		zap.String("source_id", source.ID),
		zap.String("horario_id", clone.ID),
		zap.Int64("turmas", copied),
	)
	s.invalidate(ctx)
	return clone, nil
}

// AddTurma schedules a class in a time-slot.
func (s *HorarioService) AddTurma(ctx context.Context, horarioID string, req dto.AddTurmaRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid turma membership payload")
	}
	if _, err := s.repo.FindByID(ctx, horarioID); err != nil {
		return storeError(err, "horario not found", "", "failed to load horario")
	}
	if _, err := s.turmas.FindByID(ctx, req.TurmaID); err != nil {
		return storeError(err, "turma not found", "", "failed to load turma")
	}
	if err := s.repo.AddTurma(ctx, horarioID, req.TurmaID); err != nil {
		return storeError(err, "turma not found", "turma already scheduled in this horario", "failed to add turma")
	}
	s.invalidate(ctx)
	return nil
}

// RemoveTurma unschedules a class from a time-slot.
func (s *HorarioService) RemoveTurma(ctx context.Context, horarioID, turmaID string) error {
	if err := s.repo.RemoveTurma(ctx, horarioID, turmaID); err != nil {
		return storeError(err, "turma is not scheduled in this horario", "", "failed to remove turma")
	}
	s.invalidate(ctx)
	return nil
}

func (s *HorarioService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
}
