package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

type turmaService interface {
	List(ctx context.Context, query dto.TurmaQuery) ([]models.Turma, error)
	Get(ctx context.Context, id string) (*models.Turma, error)
	Create(ctx context.Context, req dto.TurmaRequest) (*models.Turma, error)
	Update(ctx context.Context, id string, req dto.TurmaRequest) (*models.Turma, error)
	Delete(ctx context.Context, id string) error
}

// TurmaHandler exposes class CRUD endpoints.
type TurmaHandler struct {
	service turmaService
}

// NewTurmaHandler constructs a class handler.
func NewTurmaHandler(svc turmaService) *TurmaHandler {
	return &TurmaHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Tags Turmas
// @Produce json
// @Param search query string false "Name contains"
// @Success 200 {object} response.Envelope
// @Router /turmas [get]
func (h *TurmaHandler) List(c *gin.Context) {
	var query dto.TurmaQuery
	if !bindQuery(c, &query) {
		return
	}
	turmas, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, turmas, nil)
}

// Get godoc
// @Summary Get class
// @Tags Turmas
// @Produce json
// @Param id path string true "Turma ID"
// @Success 200 {object} response.Envelope
// @Router /turmas/{id} [get]
func (h *TurmaHandler) Get(c *gin.Context) {
	turma, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, turma, nil)
}

// Create godoc
// @Summary Create class
// @Tags Turmas
// @Accept json
// @Produce json
// @Param payload body dto.TurmaRequest true "Turma payload"
// @Success 201 {object} response.Envelope
// @Router /turmas [post]
func (h *TurmaHandler) Create(c *gin.Context) {
	var req dto.TurmaRequest
	if !bindJSON(c, &req) {
		return
	}
	turma, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, turma)
}

// Update godoc
// @Summary Update class
// @Tags Turmas
// @Accept json
// @Produce json
// @Param id path string true "Turma ID"
// @Param payload body dto.TurmaRequest true "Turma payload"
// @Success 200 {object} response.Envelope
// @Router /turmas/{id} [put]
func (h *TurmaHandler) Update(c *gin.Context) {
	var req dto.TurmaRequest
	if !bindJSON(c, &req) {
		return
	}
	turma, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, turma, nil)
}

// Delete godoc
// @Summary Delete class
// @Tags Turmas
// @Param id path string true "Turma ID"
// @Success 200 {object} response.Envelope
// @Router /turmas/{id} [delete]
func (h *TurmaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "turma deleted")
}
