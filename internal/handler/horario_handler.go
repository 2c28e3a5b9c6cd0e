package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/dto"
	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	"github.com/Gustavo-rs/gerenciamento-alocacao/pkg/response"
)

type horarioService interface {
	Create(ctx context.Context, alocacaoID string, req dto.HorarioRequest) (*models.Horario, error)
	Delete(ctx context.Context, id string) error
	Clone(ctx context.Context, id string, req dto.CloneHorarioRequest) (*models.Horario, error)
	AddTurma(ctx context.Context, horarioID string, req dto.AddTurmaRequest) error
	RemoveTurma(ctx context.Context, horarioID, turmaID string) error
}

// HorarioHandler manages time-slots and the classes scheduled in them.
type HorarioHandler struct {
	service horarioService
}

// NewHorarioHandler constructs the handler.
func NewHorarioHandler(svc horarioService) *HorarioHandler {
	return &HorarioHandler{service: svc}
}

// Create godoc
// @Summary Add time-slot to allocation
// @Tags Horarios
// @Accept json
// @Produce json
// @Param id path string true "Alocacao ID"
// @Param payload body dto.HorarioRequest true "Day and period"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /alocacoes/{id}/horarios [post]
func (h *HorarioHandler) Create(c *gin.Context) {
	var req dto.HorarioRequest
	if !bindJSON(c, &req) {
		return
	}
	horario, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, horario)
}

// Delete godoc
// @Summary Delete time-slot
// @Tags Horarios
// @Param id path string true "Horario ID"
// @Success 200 {object} response.Envelope
// @Router /horarios/{id} [delete]
func (h *HorarioHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "horario deleted")
}

// Clone godoc
// @Summary Copy a time-slot and its classes
// @Tags Horarios
// @Accept json
// @Produce json
// @Param id path string true "Source horario ID"
// @Param payload body dto.CloneHorarioRequest true "Target allocation, day and period"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /horarios/{id}/clone [post]
func (h *HorarioHandler) Clone(c *gin.Context) {
	var req dto.CloneHorarioRequest
	if !bindJSON(c, &req) {
		return
	}
	horario, err := h.service.Clone(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, horario)
}

// AddTurma godoc
// @Summary Schedule class in time-slot
// @Tags Horarios
// @Accept json
// @Produce json
// @Param id path string true "Horario ID"
// @Param payload body dto.AddTurmaRequest true "Turma reference"
// @Success 201 {object} response.Envelope
// @Router /horarios/{id}/turmas [post]
func (h *HorarioHandler) AddTurma(c *gin.Context) {
	var req dto.AddTurmaRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.AddTurma(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, gin.H{"horario_id": c.Param("id"), "turma_id": req.TurmaID}, "turma scheduled")
}

// RemoveTurma godoc
// @Summary Remove class from time-slot
// @Tags Horarios
// @Param id path string true "Horario ID"
// @Param turmaId path string true "Turma ID"
// @Success 200 {object} response.Envelope
// @Router /horarios/{id}/turmas/{turmaId} [delete]
func (h *HorarioHandler) RemoveTurma(c *gin.Context) {
	if err := h.service.RemoveTurma(c.Request.Context(), c.Param("id"), c.Param("turmaId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "turma removed from horario")
}
