package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/allocation"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/repository"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/cache"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/config"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/database"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/logger"
)

// skipDatabase marks commands that run without a database connection.
const skipDatabase = "skip-database"

// App holds the dependencies shared by every command.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	cache  *repository.CacheRepository

	salas      *service.SalaService
	turmas     *service.TurmaService
	alocacoes  *service.AlocacaoService
	horarios   *service.HorarioService
	allocation *service.AllocationService
	resultados *service.ResultadoService
}

var app = &App{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	app.ctx = ctx

	rootCmd := &cobra.Command{
		Use:           "alocacao-cli",
		Short:         "Room allocation maintenance and batch runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Annotations[skipDatabase] == "true")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	rootCmd.AddCommand(migrateCmd(app))
	rootCmd.AddCommand(seedCmd(app))
	rootCmd.AddCommand(runCmd(app))
	rootCmd.AddCommand(resultadosCmd(app))
	rootCmd.AddCommand(tokenCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		app.close()
		stop()
		os.Exit(1)
	}
}

func initApp(withoutDB bool) error {
	var err error
	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.logger, err = logger.New(app.cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if withoutDB {
		return nil
	}

	app.db, err = database.NewPostgres(app.ctx, app.cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	app.wire()
	return nil
}

// wire builds the services. Writes drop the cached dashboard counters so the
// API does not serve stale totals after a seed or a batch run.
func (a *App) wire() {
	redisClient, err := cache.NewRedis(a.ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Warn("redis unavailable, dashboard cache left untouched", zap.Error(err))
	}
	a.cache = repository.NewCacheRepository(redisClient, a.logger)
	cacheSvc := service.NewCacheService(a.cache, nil, a.cfg.Dashboard.CacheTTL, a.logger, a.cache.Enabled())

	validate := validator.New()
	salaRepo := repository.NewSalaRepository(a.db)
	turmaRepo := repository.NewTurmaRepository(a.db)
	alocacaoRepo := repository.NewAlocacaoRepository(a.db)
	horarioRepo := repository.NewHorarioRepository(a.db)
	resultadoRepo := repository.NewResultadoRepository(a.db)
	stats := service.NewDashboardService(repository.NewDashboardRepository(a.db), cacheSvc, a.logger, service.DashboardServiceConfig{CacheTTL: a.cfg.Dashboard.CacheTTL})

	a.salas = service.NewSalaService(salaRepo, alocacaoRepo, a.db, stats, validate, a.logger)
	a.turmas = service.NewTurmaService(turmaRepo, stats, validate, a.logger)
	a.alocacoes = service.NewAlocacaoService(alocacaoRepo, salaRepo, horarioRepo, turmaRepo, stats, validate, a.logger)
	a.horarios = service.NewHorarioService(horarioRepo, alocacaoRepo, turmaRepo, a.db, stats, validate, a.logger)
	a.allocation = service.NewAllocationService(
		alocacaoRepo, salaRepo, horarioRepo, turmaRepo, resultadoRepo, a.db,
		allocation.NewEngine(a.cfg.Allocation.Strategy),
		stats, nil, a.logger,
		service.AllocationServiceConfig{Workers: a.cfg.Allocation.Workers, SlotTimeout: a.cfg.Allocation.SlotTimeout},
	)
	a.resultados = service.NewResultadoService(resultadoRepo, alocacaoRepo, stats, a.logger, service.ResultadoServiceConfig{PDFTitle: a.cfg.Exports.PDFTitle})
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
	if a.cache != nil {
		_ = a.cache.Close()
		a.cache = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
