package handler

import (
	"net/http"

	"wareinc/internal/dto"
	"wareinc/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Ventas ───────────────────────────────────────────────────────────────────

type VentasHandler struct {
	svc           service.VentaService
	limiteDefecto int
}

// NewVentasHandler: limiteDefecto applies when the request omits ?limite.
func NewVentasHandler(svc service.VentaService, limiteDefecto int) *VentasHandler {
	return &VentasHandler{svc: svc, limiteDefecto: limiteDefecto}
}

// Registrar godoc
// @Summary Registrar venta
// @Tags ventas
// @Accept json
// @Produce json
// @Param body body dto.RegistrarVentaRequest true "Venta"
// @Success 201 {object} dto.VentaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "Stock insuficiente"
// @Router /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar returns the most recent sales first; ?limite=0 returns all of them.
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	if _, ok := c.GetQuery("limite"); !ok {
		filter.Limite = h.limiteDefecto
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter.Limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Compras ──────────────────────────────────────────────────────────────────

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar compra (reabastece o crea el producto)
// @Tags compras
// @Accept json
// @Produce json
// @Param body body dto.RegistrarCompraRequest true "Compra"
// @Success 201 {object} dto.RegistrarCompraResponse
// @Failure 409 {object} apierror.APIError "Presupuesto insuficiente"
// @Failure 422 {object} apierror.APIError
// @Router /v1/compras [post]
func (h *ComprasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter.Limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Presupuesto ──────────────────────────────────────────────────────────────

type PresupuestoHandler struct{ svc service.PresupuestoService }

func NewPresupuestoHandler(svc service.PresupuestoService) *PresupuestoHandler {
	return &PresupuestoHandler{svc: svc}
}

func (h *PresupuestoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Establecer godoc
// @Summary Fijar el presupuesto
// @Tags presupuesto
// @Accept json
// @Produce json
// @Param body body dto.EstablecerPresupuestoRequest true "Capital"
// @Success 200 {object} dto.PresupuestoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/presupuesto [put]
func (h *PresupuestoHandler) Establecer(c *gin.Context) {
	var req dto.EstablecerPresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Establecer(c.Request.Context(), req.Capital)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
