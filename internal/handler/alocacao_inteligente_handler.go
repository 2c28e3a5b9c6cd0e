package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

var errAsyncDisabled = appErrors.Clone(appErrors.ErrNotImplemented, "async runs are not enabled")

type runService interface {
	Run(ctx context.Context, alocacaoID string, prefs models.Preferencias) (*models.RunSummary, error)
}

type execucaoService interface {
	Enqueue(ctx context.Context, alocacaoID string, prefs models.Preferencias) (*models.Execucao, error)
	Get(id string) (*models.Execucao, error)
}

// AlocacaoInteligenteHandler triggers allocation runs.
type AlocacaoInteligenteHandler struct {
	runs      runService
	execucoes execucaoService
}

// NewAlocacaoInteligenteHandler constructs the handler. execucoes may be nil
// when asynchronous runs are not wired.
func NewAlocacaoInteligenteHandler(runs runService, execucoes execucaoService) *AlocacaoInteligenteHandler {
	return &AlocacaoInteligenteHandler{runs: runs, execucoes: execucoes}
}

// Run godoc
// @Summary Run the allocation for every time-slot
// @Description Omitted preference flags default to true.
// @Tags AlocacaoInteligente
// @Accept json
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param payload body dto.RunRequest false "Soft preferences"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /alocacao-inteligente/{id} [post]
func (h *AlocacaoInteligenteHandler) Run(c *gin.Context) {
	var req dto.RunRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	summary, err := h.runs.Run(c.Request.Context(), c.Param("id"), req.Preferencias())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// RunAsync godoc
// @Summary Queue an allocation run
// @Tags AlocacaoInteligente
// @Accept json
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param payload body dto.RunRequest false "Soft preferences"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /alocacao-inteligente/{id}/async [post]
func (h *AlocacaoInteligenteHandler) RunAsync(c *gin.Context) {
	if h.execucoes == nil {
		response.Error(c, errAsyncDisabled)
		return
	}
	var req dto.RunRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	execucao, err := h.execucoes.Enqueue(c.Request.Context(), c.Param("id"), req.Preferencias())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", "execucoes/"+execucao.ID)
	response.JSON(c, http.StatusAccepted, dto.RunAccepted{ExecucaoID: execucao.ID, Status: execucao.Status}, nil)
}

// Execucao godoc
// @Summary Status of a queued allocation run
// @Tags AlocacaoInteligente
// @Produce json
// @Param jobId path string true "Execucao ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /execucoes/{jobId} [get]
func (h *AlocacaoInteligenteHandler) Execucao(c *gin.Context) {
	if h.execucoes == nil {
		response.Error(c, errAsyncDisabled)
		return
	}
	execucao, err := h.execucoes.Get(c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, execucao, nil)
}
