package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/Gustavo-rs/gerenciamento-alocacao/api/swagger"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/allocation"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/handler"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/repository"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/cache"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/config"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/database"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Gerenciamento de Alocacao API
// @version 1.0.0
// @description Rooms, classes, time-slots and automatic room allocation.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		logr.Info("migrations applied", zap.Strings("versions", applied))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	salaRepo := repository.NewSalaRepository(db)
	turmaRepo := repository.NewTurmaRepository(db)
	alocacaoRepo := repository.NewAlocacaoRepository(db)
	horarioRepo := repository.NewHorarioRepository(db)
	resultadoRepo := repository.NewResultadoRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo.Enabled())
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, logr, service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL})
	salaSvc := service.NewSalaService(salaRepo, alocacaoRepo, db, dashboardSvc, validate, logr)
	turmaSvc := service.NewTurmaService(turmaRepo, dashboardSvc, validate, logr)
	alocacaoSvc := service.NewAlocacaoService(alocacaoRepo, salaRepo, horarioRepo, turmaRepo, dashboardSvc, validate, logr)
	horarioSvc := service.NewHorarioService(horarioRepo, alocacaoRepo, turmaRepo, db, dashboardSvc, validate, logr)
	allocationSvc := service.NewAllocationService(
		alocacaoRepo, salaRepo, horarioRepo, turmaRepo, resultadoRepo, db,
		allocation.NewEngine(cfg.Allocation.Strategy),
		dashboardSvc, metricsSvc, logr,
		service.AllocationServiceConfig{Workers: cfg.Allocation.Workers, SlotTimeout: cfg.Allocation.SlotTimeout},
	)
	resultadoSvc := service.NewResultadoService(resultadoRepo, alocacaoRepo, dashboardSvc, logr, service.ResultadoServiceConfig{PDFTitle: cfg.Exports.PDFTitle})
	execucaoSvc := service.NewExecucaoService(allocationSvc, alocacaoRepo, metricsSvc, logr, service.ExecucaoServiceConfig{
		Workers:    cfg.Allocation.AsyncWorkers,
		BufferSize: cfg.Allocation.AsyncBuffer,
		MaxRetries: cfg.Allocation.AsyncRetries,
		TTL:        cfg.Allocation.JobTTL,
	})
	execucaoSvc.Start(ctx)
	defer execucaoSvc.Stop()

	var authSvc *service.AuthService
	if cfg.JWT.Enabled {
		authSvc = service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:      authSvc,
		metrics:   metricsSvc,
		salas:     handler.NewSalaHandler(salaSvc),
		turmas:    handler.NewTurmaHandler(turmaSvc),
		alocacoes: handler.NewAlocacaoHandler(alocacaoSvc),
		horarios:  handler.NewHorarioHandler(horarioSvc),
		runs:      handler.NewAlocacaoInteligenteHandler(allocationSvc, execucaoSvc),
		results:   handler.NewResultadoHandler(resultadoSvc),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		health: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"database": dashboardRepo,
			"cache":    cacheRepo,
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("strategy", cfg.Allocation.Strategy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
