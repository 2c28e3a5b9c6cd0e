package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/handler"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/middleware"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/config"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/logger"
	corsmiddleware "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/middleware/cors"
	reqidmiddleware "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/middleware/requestid"
)

type routerDeps struct {
	auth      *service.AuthService
	metrics   *service.MetricsService
	salas     *handler.SalaHandler
	turmas    *handler.TurmaHandler
	alocacoes *handler.AlocacaoHandler
	horarios  *handler.HorarioHandler
	runs      *handler.AlocacaoInteligenteHandler
	results   *handler.ResultadoHandler
	dashboard *handler.DashboardHandler
	health    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", d.health.Health)
	r.GET("/ready", d.health.Ready)
	r.GET("/metrics", d.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	// Without auth every caller may write.
	write := func(c *gin.Context) { c.Next() }
	if d.auth != nil {
		api.Use(middleware.JWT(d.auth))
		write = middleware.RequireWriter()
	}

	salas := api.Group("/salas")
	salas.GET("", d.salas.List)
	salas.GET("/:id", d.salas.Get)
	salas.POST("", write, d.salas.Create)
	salas.PUT("/:id", write, d.salas.Update)
	salas.DELETE("/:id", write, d.salas.Delete)

	turmas := api.Group("/turmas")
	turmas.GET("", d.turmas.List)
	turmas.GET("/:id", d.turmas.Get)
	turmas.POST("", write, d.turmas.Create)
	turmas.PUT("/:id", write, d.turmas.Update)
	turmas.DELETE("/:id", write, d.turmas.Delete)

	alocacoes := api.Group("/alocacoes")
	alocacoes.GET("", d.alocacoes.List)
	alocacoes.GET("/:id", d.alocacoes.Get)
	alocacoes.POST("", write, d.alocacoes.Create)
	alocacoes.PUT("/:id", write, d.alocacoes.Update)
	alocacoes.DELETE("/:id", write, d.alocacoes.Delete)
	alocacoes.POST("/:id/salas", write, d.alocacoes.AddSala)
	alocacoes.DELETE("/:id/salas/:salaId", write, d.alocacoes.RemoveSala)
	alocacoes.POST("/:id/horarios", write, d.horarios.Create)

	horarios := api.Group("/horarios")
	horarios.DELETE("/:id", write, d.horarios.Delete)
	horarios.POST("/:id/clone", write, d.horarios.Clone)
	horarios.POST("/:id/turmas", write, d.horarios.AddTurma)
	horarios.DELETE("/:id/turmas/:turmaId", write, d.horarios.RemoveTurma)

	inteligente := api.Group("/alocacao-inteligente")
	inteligente.POST("/:id", write, d.runs.Run)
	inteligente.POST("/:id/async", write, d.runs.RunAsync)
	inteligente.GET("/:id/resultados", d.results.List)
	inteligente.GET("/:id/resultados/export", d.results.Export)

	api.GET("/execucoes/:jobId", d.runs.Execucao)
	api.DELETE("/resultados/:id", write, d.results.Delete)
	api.GET("/dashboard/stats", d.dashboard.Stats)

	return r
}
