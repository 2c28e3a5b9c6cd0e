package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

type alocacaoService interface {
	List(ctx context.Context) ([]models.AlocacaoDetalhada, error)
	Get(ctx context.Context, id string) (*models.AlocacaoDetalhada, error)
	Create(ctx context.Context, req dto.AlocacaoRequest) (*models.Alocacao, error)
	Update(ctx context.Context, id string, req dto.AlocacaoRequest) (*models.Alocacao, error)
	Delete(ctx context.Context, id string) error
	AddSala(ctx context.Context, alocacaoID string, req dto.AddSalaRequest) error
	RemoveSala(ctx context.Context, alocacaoID, salaID string) error
}

// AlocacaoHandler exposes allocation containers and their room membership.
type AlocacaoHandler struct {
	service alocacaoService
}

// NewAlocacaoHandler constructs the handler.
func NewAlocacaoHandler(svc alocacaoService) *AlocacaoHandler {
	return &AlocacaoHandler{service: svc}
}

// List godoc
// @Summary List allocations with rooms, time-slots and classes
// @Tags Alocacoes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /alocacoes [get]
func (h *AlocacaoHandler) List(c *gin.Context) {
	alocacoes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alocacoes, nil)
}

// Get godoc
// @Summary Get allocation detail
// @Tags Alocacoes
// @Produce json
// @Param id path string true "Alocacao ID"
// @Success 200 {object} response.Envelope
// @Router /alocacoes/{id} [get]
func (h *AlocacaoHandler) Get(c *gin.Context) {
	alocacao, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alocacao, nil)
}

// Create godoc
// @Summary Create allocation
// @Tags Alocacoes
// @Accept json
// @Produce json
// @Param payload body dto.AlocacaoRequest true "Alocacao payload"
// @Success 201 {object} response.Envelope
// @Router /alocacoes [post]
func (h *AlocacaoHandler) Create(c *gin.Context) {
	var req dto.AlocacaoRequest
	if !bindJSON(c, &req) {
		return
	}
	alocacao, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alocacao)
}

// Update godoc
// @Summary Rename allocation
// @Tags Alocacoes
// @Accept json
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param payload body dto.AlocacaoRequest true "Alocacao payload"
// @Success 200 {object} response.Envelope
// @Router /alocacoes/{id} [put]
func (h *AlocacaoHandler) Update(c *gin.Context) {
	var req dto.AlocacaoRequest
	if !bindJSON(c, &req) {
		return
	}
	alocacao, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alocacao, nil)
}

// Delete godoc
// @Summary Delete allocation
// @Tags Alocacoes
// @Param id path string true "Alocacao ID"
// @Success 200 {object} response.Envelope
// @Router /alocacoes/{id} [delete]
func (h *AlocacaoHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "alocacao deleted")
}

// AddSala godoc
// @Summary Add room to allocation
// @Tags Alocacoes
// @Accept json
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param payload body dto.AddSalaRequest true "Sala reference"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /alocacoes/{id}/salas [post]
func (h *AlocacaoHandler) AddSala(c *gin.Context) {
	var req dto.AddSalaRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.AddSala(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, gin.H{"alocacao_id": c.Param("id"), "sala_id": req.SalaID}, "sala added")
}

// RemoveSala godoc
// @Summary Remove room from allocation
// @Tags Alocacoes
// @Param id path string true "Alocacao ID"
// @Param salaId path string true "Sala ID"
// @Success 200 {object} response.Envelope
// @Router /alocacoes/{id}/salas/{salaId} [delete]
func (h *AlocacaoHandler) RemoveSala(c *gin.Context) {
	if err := h.service.RemoveSala(c.Request.Context(), c.Param("id"), c.Param("salaId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "sala removed from alocacao")
}
