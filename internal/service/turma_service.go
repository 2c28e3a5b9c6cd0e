package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type turmaStore interface {
	List(ctx context.Context, filter models.TurmaFilter) ([]models.Turma, error)
	FindByID(ctx context.Context, id string) (*models.Turma, error)
	Create(ctx context.Context, turma *models.Turma) error
	Update(ctx context.Context, turma *models.Turma) error
	Delete(ctx context.Context, id string) error
}

// TurmaService manages classes.
type TurmaService struct {
	repo      turmaStore
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTurmaService constructs the service.
func NewTurmaService(repo turmaStore, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *TurmaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurmaService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns classes matching the query.
func (s *TurmaService) List(ctx context.Context, query dto.TurmaQuery) ([]models.Turma, error) {
	turmas, err := s.repo.List(ctx, models.TurmaFilter{Search: query.Search})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list turmas")
	}
	return turmas, nil
}

// Get returns a class by id.
func (s *TurmaService) Get(ctx context.Context, id string) (*models.Turma, error) {
	turma, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "turma not found", "", "failed to load turma")
	}
	return turma, nil
}

// Create registers a class.
func (s *TurmaService) Create(ctx context.Context, req dto.TurmaRequest) (*models.Turma, error) {
	turma, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, turma); err != nil {
		return nil, storeError(err, "turma not found", "turma already exists", "failed to create turma")
	}
	s.logger.Info("turma created", zap.String("turma_id", turma.ID), zap.Int("alunos", turma.Alunos))
	s.invalidate(ctx)
	return turma, nil
}

// Update replaces the attributes of a class.
func (s *TurmaService) Update(ctx context.Context, id string, req dto.TurmaRequest) (*models.Turma, error) {
	turma, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "turma not found", "", "failed to load turma")
	}
	turma.ID = existing.ID
	turma.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, turma); err != nil {
		return nil, storeError(err, "turma not found", "", "failed to update turma")
	}
	s.invalidate(ctx)
	return turma, nil
}

// Delete removes a class from every time-slot and deletes it.
func (s *TurmaService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "turma not found", "", "failed to delete turma")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TurmaService) fromRequest(req dto.TurmaRequest) (*models.Turma, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid turma payload")
	}
	return &models.Turma{
		Nome:                 strings.TrimSpace(req.Nome),
		Alunos:               req.Alunos,
		DuracaoMin:           req.DuracaoMin,
		EspNecessarias:       req.EspNecessarias,
		LocalizacaoPreferida: strings.TrimSpace(req.LocalizacaoPreferida),
	}, nil
}

func (s *TurmaService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
}
