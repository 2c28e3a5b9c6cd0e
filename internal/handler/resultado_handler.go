package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/middleware"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/service"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

type resultadoService interface {
	Results(ctx context.Context, alocacaoID string, latestOnly bool) ([]models.ResultadoView, error)
	Export(ctx context.Context, alocacaoID, formato string, latestOnly bool) (*service.ExportFile, error)
	Delete(ctx context.Context, id string) error
}

// ResultadoHandler serves stored allocation results.
type ResultadoHandler struct {
	service resultadoService
}

// NewResultadoHandler constructs the handler.
func NewResultadoHandler(svc resultadoService) *ResultadoHandler {
	return &ResultadoHandler{service: svc}
}

// List godoc
// @Summary Stored results of an allocation
// @Tags AlocacaoInteligente
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param ultima query bool false "Only the latest result per time-slot"
// @Success 200 {object} response.Envelope
// @Router /alocacao-inteligente/{id}/resultados [get]
func (h *ResultadoHandler) List(c *gin.Context) {
	var query dto.ResultadosQuery
	if !bindQuery(c, &query) {
		return
	}
	resultados, err := h.service.Results(c.Request.Context(), c.Param("id"), query.Ultima)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(resultados))
	response.JSON(c, http.StatusOK, resultados, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download results as CSV or PDF
// @Tags AlocacaoInteligente
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Alocacao ID"
// @Param formato query string false "csv (default) or pdf"
// @Param ultima query bool false "Only the latest result per time-slot"
// @Success 200 {file} file
// @Router /alocacao-inteligente/{id}/resultados/export [get]
func (h *ResultadoHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if !bindQuery(c, &query) {
		return
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("id"), query.Formato, query.Ultima)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Delete godoc
// @Summary Delete a stored result
// @Tags AlocacaoInteligente
// @Param id path string true "Resultado ID"
// @Success 200 {object} response.Envelope
// @Router /resultados/{id} [delete]
func (h *ResultadoHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "resultado deleted")
}
