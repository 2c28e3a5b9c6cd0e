package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/jobs"
)

const runJobType = "alocacao.run"

// ErrQueueFull is returned when no more runs can be queued.
var ErrQueueFull = appErrors.New("QUEUE_FULL", http.StatusServiceUnavailable, "allocation queue is full, try again later")

type runExecutor interface {
	RunExecucao(ctx context.Context, execucaoID, alocacaoID string, prefs models.Preferencias) (*models.RunSummary, error)
}

type runPayload struct {
	AlocacaoID   string
	Preferencias models.Preferencias
}

// ExecucaoServiceConfig tunes the asynchronous run queue.
type ExecucaoServiceConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	TTL        time.Duration
}

// ExecucaoService queues allocation runs and tracks their progress.
type ExecucaoService struct {
	runner    runExecutor
	alocacoes alocacaoFinder
	queue     *jobs.Queue
	store     *execucaoStore
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewExecucaoService constructs the service. Start must be called before Enqueue.
func NewExecucaoService(runner runExecutor, alocacoes alocacaoFinder, metrics *MetricsService, logger *zap.Logger, cfg ExecucaoServiceConfig) *ExecucaoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	s := &ExecucaoService{
		runner:    runner,
		alocacoes: alocacoes,
		store:     newExecucaoStore(cfg.TTL),
		metrics:   metrics,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("alocacao-runs", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		OnDrop:     s.drop,
		Logger:     logger,
	})
	return s
}

// Start launches the queue workers.
func (s *ExecucaoService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight runs to observe cancellation.
func (s *ExecucaoService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules a run of the allocation and returns its tracking record.
func (s *ExecucaoService) Enqueue(ctx context.Context, alocacaoID string, prefs models.Preferencias) (*models.Execucao, error) {
	if _, err := s.alocacoes.FindByID(ctx, alocacaoID); err != nil {
		return nil, storeError(err, "alocacao not found", "", "failed to load alocacao")
	}
	now := time.Now().UTC()
	execucao := models.Execucao{
		ID:           uuid.NewString(),
		AlocacaoID:   alocacaoID,
		Status:       models.ExecucaoQueued,
		Preferencias: prefs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.store.Save(execucao)

	err := s.queue.Enqueue(jobs.Job{
		ID:      execucao.ID,
		Type:    runJobType,
		Payload: runPayload{AlocacaoID: alocacaoID, Preferencias: prefs},
	})
	if err != nil {
		s.store.Delete(execucao.ID)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, ErrQueueFull
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue allocation run")
	}
	s.logger.Info("allocation run queued", zap.String("execucao_id", execucao.ID), zap.String("alocacao_id", alocacaoID))
	return &execucao, nil
}

// Get returns the tracking record of a queued run.
func (s *ExecucaoService) Get(id string) (*models.Execucao, error) {
	execucao, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "execucao not found or expired")
	}
	return &execucao, nil
}

func (s *ExecucaoService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runPayload)
	if !ok {
		return errors.New("unexpected job payload")
	}
	s.store.Update(job.ID, func(e *models.Execucao) {
		e.Status = models.ExecucaoProcessing
	})

	summary, err := s.runner.RunExecucao(ctx, job.ID, payload.AlocacaoID, payload.Preferencias)
	if err != nil {
		return err
	}
	s.store.Update(job.ID, func(e *models.Execucao) {
		finished := time.Now().UTC()
		e.Status = models.ExecucaoFinished
		e.Resumo = summary
		e.Erro = ""
		e.FinishedAt = &finished
	})
	s.metrics.RecordJob(models.ExecucaoFinished)
	return nil
}

func (s *ExecucaoService) drop(job jobs.Job, err error) {
	s.store.Update(job.ID, func(e *models.Execucao) {
		finished := time.Now().UTC()
		e.Status = models.ExecucaoFailed
		e.Erro = appErrors.FromError(err).Message
		e.FinishedAt = &finished
	})
	s.metrics.RecordJob(models.ExecucaoFailed)
}

// execucaoStore keeps run records in memory for a limited time.
type execucaoStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]models.Execucao
	now   func() time.Time
}

func newExecucaoStore(ttl time.Duration) *execucaoStore {
	return &execucaoStore{ttl: ttl, items: make(map[string]models.Execucao), now: time.Now}
}

func (s *execucaoStore) Save(execucao models.Execucao) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.items[execucao.ID] = execucao
}

func (s *execucaoStore) Get(id string) (models.Execucao, bool) {
	s.mu.RLock()
	execucao, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return models.Execucao{}, false
	}
	if s.expired(execucao) {
		s.Delete(id)
		return models.Execucao{}, false
	}
	return execucao, true
}

func (s *execucaoStore) Update(id string, mutate func(*models.Execucao)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	execucao, ok := s.items[id]
	if !ok {
		return
	}
	mutate(&execucao)
	execucao.UpdatedAt = s.now().UTC()
	s.items[id] = execucao
}

func (s *execucaoStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// expired applies to finished records only; queued and running ones are kept.
func (s *execucaoStore) expired(e models.Execucao) bool {
	if e.FinishedAt == nil {
		return false
	}
	return s.now().Sub(*e.FinishedAt) > s.ttl
}

func (s *execucaoStore) purgeLocked() {
	for id, e := range s.items {
		if s.expired(e) {
			delete(s.items, id)
		}
	}
}
