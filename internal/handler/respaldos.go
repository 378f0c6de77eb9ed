package handler

import (
	"context"
	"net/http"

	"wareinc/internal/apierror"
	"wareinc/internal/dto"
	"wareinc/internal/service"
	"wareinc/internal/worker"

	"github.com/gin-gonic/gin"
)

// RespaldoEnqueuer is satisfied by *worker.Dispatcher.
type RespaldoEnqueuer interface {
	EnqueueRespaldo(ctx context.Context, payload worker.RespaldoJobPayload) error
}

type RespaldosHandler struct {
	svc  service.RespaldoService
	jobs RespaldoEnqueuer
}

func NewRespaldosHandler(svc service.RespaldoService, jobs RespaldoEnqueuer) *RespaldosHandler {
	return &RespaldosHandler{svc: svc, jobs: jobs}
}

func (h *RespaldosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar godoc
// @Summary Guardar respaldo del periodo
// @Description Sin nombre usa inventario_AAAA_MM_Mes.json; nunca sobrescribe un archivo existente.
// @Tags respaldos
// @Accept json
// @Produce json
// @Param body body dto.GuardarRespaldoRequest false "Nombre"
// @Success 201 {object} dto.RespaldoResponse
// @Router /v1/respaldos [post]
func (h *RespaldosHandler) Guardar(c *gin.Context) {
	var req dto.GuardarRespaldoRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarPeriodo(c.Request.Context(), req.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GuardarAsync queues the snapshot on the worker pool and answers 202.
func (h *RespaldosHandler) GuardarAsync(c *gin.Context) {
	var req dto.RespaldoAsyncRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Cola de trabajos no disponible"))
		return
	}
	err := h.jobs.EnqueueRespaldo(c.Request.Context(), worker.RespaldoJobPayload{
		Nombre:     req.Nombre,
		NotificarA: req.NotificarA,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}

// NuevoPeriodo godoc
// @Summary Cerrar el periodo y empezar uno nuevo
// @Description Guarda un respaldo, borra ventas y compras y opcionalmente conserva productos y presupuesto.
// @Tags respaldos
// @Accept json
// @Produce json
// @Param body body dto.NuevoPeriodoRequest true "Opciones"
// @Success 200 {object} dto.NuevoPeriodoResponse
// @Router /v1/respaldos/nuevo-periodo [post]
func (h *RespaldosHandler) NuevoPeriodo(c *gin.Context) {
	var req dto.NuevoPeriodoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.NuevoPeriodo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
