package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

type salaService interface {
	List(ctx context.Context, query dto.SalaQuery) ([]models.Sala, error)
	Get(ctx context.Context, id string) (*models.Sala, error)
	Create(ctx context.Context, req dto.SalaRequest) (*models.Sala, error)
	Update(ctx context.Context, id string, req dto.SalaRequest) (*models.Sala, error)
	Delete(ctx context.Context, id string) error
}

// SalaHandler exposes room CRUD endpoints.
type SalaHandler struct {
	service salaService
}

// NewSalaHandler constructs a room handler.
func NewSalaHandler(svc salaService) *SalaHandler {
	return &SalaHandler{service: svc}
}

// List godoc
// @Summary List rooms
// @Tags Salas
// @Produce json
// @Param status query string false "ATIVA, INATIVA or MANUTENCAO"
// @Param search query string false "Name contains"
// @Success 200 {object} response.Envelope
// @Router /salas [get]
func (h *SalaHandler) List(c *gin.Context) {
	var query dto.SalaQuery
	if !bindQuery(c, &query) {
		return
	}
	salas, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, salas, nil)
}

// Get godoc
// @Summary Get room
// @Tags Salas
// @Produce json
// @Param id path string true "Sala ID"
// @Success 200 {object} response.Envelope
// @Router /salas/{id} [get]
func (h *SalaHandler) Get(c *gin.Context) {
	sala, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sala, nil)
}

// Create godoc
// @Summary Create room
// @Tags Salas
// @Accept json
// @Produce json
// @Param payload body dto.SalaRequest true "Sala payload"
// @Success 201 {object} response.Envelope
// @Router /salas [post]
func (h *SalaHandler) Create(c *gin.Context) {
	var req dto.SalaRequest
	if !bindJSON(c, &req) {
		return
	}
	sala, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sala)
}

// Update godoc
// @Summary Update room
// @Tags Salas
// @Accept json
// @Produce json
// @Param id path string true "Sala ID"
// @Param payload body dto.SalaRequest true "Sala payload"
// @Success 200 {object} response.Envelope
// @Router /salas/{id} [put]
func (h *SalaHandler) Update(c *gin.Context) {
	var req dto.SalaRequest
	if !bindJSON(c, &req) {
		return
	}
	sala, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sala, nil)
}

// Delete godoc
// @Summary Delete room
// @Tags Salas
// @Param id path string true "Sala ID"
// @Success 200 {object} response.Envelope
// @Router /salas/{id} [delete]
func (h *SalaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "sala deleted")
}
