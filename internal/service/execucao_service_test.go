package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

func startExecucaoService(t *testing.T, runner runExecutor, cfg ExecucaoServiceConfig) *ExecucaoService {
	svc := NewExecucaoService(runner, alocacoesWith("aloc-1"), NewMetricsService(), nil, cfg)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func TestExecucaoServiceRunsQueuedJob(t *testing.T) {
	runner := runnerStub{summary: &models.RunSummary{TotalHorarios: 2, HorariosProcessados: 2, ScoreGeral: 88}}
	svc := startExecucaoService(t, runner, ExecucaoServiceConfig{Workers: 1})

	prefs := models.Preferencias{PriorizarCapacidade: true}
	execucao, err := svc.Enqueue(context.Background(), "aloc-1", prefs)
	require.NoError(t, err)
	assert.Equal(t, models.ExecucaoQueued, execucao.Status)

	require.Eventually(t, func() bool {
		current, err := svc.Get(execucao.ID)
		return err == nil && current.Status == models.ExecucaoFinished
	}, time.Second, 10*time.Millisecond)

	current, err := svc.Get(execucao.ID)
	require.NoError(t, err)
	require.NotNil(t, current.Resumo)
	assert.Equal(t, execucao.ID, current.Resumo.ExecucaoID)
	assert.Equal(t, 88.0, current.Resumo.ScoreGeral)
	assert.Equal(t, prefs, current.Preferencias)
	assert.NotNil(t, current.FinishedAt)
}

func TestExecucaoServiceMarksFailedRuns(t *testing.T) {
	runner := runnerStub{err: appErrors.Clone(appErrors.ErrInternal, "failed to load horarios")}
	svc := startExecucaoService(t, runner, ExecucaoServiceConfig{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond})

	execucao, err := svc.Enqueue(context.Background(), "aloc-1", models.DefaultPreferencias())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := svc.Get(execucao.ID)
		return err == nil && current.Status == models.ExecucaoFailed
	}, time.Second, 10*time.Millisecond)

	current, _ := svc.Get(execucao.ID)
	assert.Equal(t, "failed to load horarios", current.Erro)
	assert.Nil(t, current.Resumo)
}

func TestExecucaoServiceRejectsUnknownAlocacao(t *testing.T) {
	svc := startExecucaoService(t, runnerStub{summary: &models.RunSummary{}}, ExecucaoServiceConfig{})

	_, err := svc.Enqueue(context.Background(), "missing", models.DefaultPreferencias())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	_, err = svc.Get("missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestExecucaoServiceQueueFull(t *testing.T) {
	calls := make(chan string, 4)
	runner := runnerStub{summary: &models.RunSummary{}, delay: 200 * time.Millisecond, calls: calls}
	svc := startExecucaoService(t, runner, ExecucaoServiceConfig{Workers: 1, BufferSize: 1})

	_, err := svc.Enqueue(context.Background(), "aloc-1", models.DefaultPreferencias())
	require.NoError(t, err)
	<-calls // the worker is busy with the first run

	_, err = svc.Enqueue(context.Background(), "aloc-1", models.DefaultPreferencias())
	require.NoError(t, err)

	_, err = svc.Enqueue(context.Background(), "aloc-1", models.DefaultPreferencias())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, appErrors.FromError(err).Status)
}

func TestExecucaoStoreExpiresFinishedRecords(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newExecucaoStore(time.Minute)
	store.now = func() time.Time { return now }

	finished := now.Add(-2 * time.Minute)
	store.Save(models.Execucao{ID: "old", Status: models.ExecucaoFinished, FinishedAt: &finished})
	store.Save(models.Execucao{ID: "queued", Status: models.ExecucaoQueued})

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("queued")
	assert.True(t, ok)

	store.Update("queued", func(e *models.Execucao) { e.Status = models.ExecucaoProcessing })
	current, ok := store.Get("queued")
	require.True(t, ok)
	assert.Equal(t, models.ExecucaoProcessing, current.Status)
	assert.Equal(t, now, current.UpdatedAt)
}
