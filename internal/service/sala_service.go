package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

type salaStore interface {
	List(ctx context.Context, filter models.SalaFilter) ([]models.Sala, error)
	FindByID(ctx context.Context, id string) (*models.Sala, error)
	Create(ctx context.Context, exec sqlx.ExtContext, sala *models.Sala) error
	Update(ctx context.Context, sala *models.Sala) error
	Delete(ctx context.Context, id string) error
}

type salaMembershipStore interface {
	AddSala(ctx context.Context, exec sqlx.ExtContext, alocacaoID, salaID string) error
}

// SalaService manages rooms.
type SalaService struct {
	repo        salaStore
	memberships salaMembershipStore
	tx          txProvider
	stats       statsInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSalaService constructs the service.
func NewSalaService(
	repo salaStore,
	memberships salaMembershipStore,
	tx txProvider,
	stats statsInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *SalaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaService{repo: repo, memberships: memberships, tx: tx, stats: stats, validator: validate, logger: logger}
}

// List returns rooms matching the query.
func (s *SalaService) List(ctx context.Context, query dto.SalaQuery) ([]models.Sala, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sala filter")
	}
	salas, err := s.repo.List(ctx, models.SalaFilter{Status: models.SalaStatus(query.Status), Search: query.Search})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list salas")
	}
	return salas, nil
}

// Get returns a room by id.
func (s *SalaService) Get(ctx context.Context, id string) (*models.Sala, error) {
	sala, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "sala not found", "", "failed to load sala")
	}
	return sala, nil
}

// Create registers a room. When the request names an alocacao the room joins
// it in the same transaction.
func (s *SalaService) Create(ctx context.Context, req dto.SalaRequest) (*models.Sala, error) {
	sala, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	alocacaoID := strings.TrimSpace(req.AlocacaoID)
	if alocacaoID == "" {
		if err := s.repo.Create(ctx, nil, sala); err != nil {
			return nil, storeError(err, "sala not found", "sala already exists", "failed to create sala")
		}
	} else if err := s.createInAlocacao(ctx, alocacaoID, sala); err != nil {
		return nil, err
	}
	s.logger.Info("sala created",
		zap.String("sala_id", sala.ID),
		zap.String("alocacao_id", alocacaoID),
		zap.Int("capacidade_total", sala.CapacidadeTotal),
	)
	s.invalidate(ctx)
	return sala, nil
}

func (s *SalaService) createInAlocacao(ctx context.Context, alocacaoID string, sala *models.Sala) (err error) {
	if s.tx == nil || s.memberships == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.Create(ctx, tx, sala); err != nil {
		return storeError(err, "sala not found", "sala already exists", "failed to create sala")
	}
	if err = s.memberships.AddSala(ctx, tx, alocacaoID, sala.ID); err != nil {
		return storeError(err, "alocacao not found", "sala already belongs to this alocacao", "failed to add sala to alocacao")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit sala")
	}
	return nil
}

// Update replaces the attributes of a room.
func (s *SalaService) Update(ctx context.Context, id string, req dto.SalaRequest) (*models.Sala, error) {
	sala, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "sala not found", "", "failed to load sala")
	}
	sala.ID = existing.ID
	sala.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, sala); err != nil {
		return nil, storeError(err, "sala not found", "", "failed to update sala")
	}
	s.invalidate(ctx)
	return sala, nil
}

// Delete removes a room.
func (s *SalaService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "sala not found", "", "failed to delete sala")
	}
	s.logger.Info("sala deleted", zap.String("sala_id", id))
	s.invalidate(ctx)
	return nil
}

func (s *SalaService) fromRequest(req dto.SalaRequest) (*models.Sala, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sala payload")
	}
	status := models.SalaStatus(req.Status)
	if status == "" {
		status = models.SalaStatusAtiva
	}
	return &models.Sala{
		Nome:              strings.TrimSpace(req.Nome),
		CapacidadeTotal:   req.CapacidadeTotal,
		Localizacao:       strings.TrimSpace(req.Localizacao),
		Status:            status,
		CadeirasMoveis:    req.CadeirasMoveis,
		CadeirasEspeciais: req.CadeirasEspeciais,
	}, nil
}

func (s *SalaService) invalidate(ctx context.Context) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
}
