package handler

import (
	"net/http"

	"wareinc/internal/dto"
	"wareinc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary Agregar producto pagando su stock inicial
// @Tags productos
// @Accept json
// @Produce json
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 409 {object} apierror.APIError "Presupuesto insuficiente"
// @Failure 422 {object} apierror.APIError
// @Router /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar productos
// @Description categoria_id filtra por categoría, q busca por texto; si no, lista todo en el orden pedido.
// @Tags productos
// @Produce json
// @Param orden query string false "orden_visualizacion | nombre | precio | cantidad | categoria"
// @Param q query string false "Texto a buscar"
// @Param categoria_id query string false "ID de categoría"
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}

	var (
		resp []dto.ProductoResponse
		err  error
	)
	switch {
	case filter.CategoriaID != "":
		resp, err = h.svc.ListarPorCategoria(c.Request.Context(), uuid.MustParse(filter.CategoriaID))
	case filter.Q != "":
		resp, err = h.svc.Buscar(c.Request.Context(), filter.Q)
	default:
		resp, err = h.svc.Listar(c.Request.Context(), filter.Orden)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) BajoStock(c *gin.Context) {
	var filter dto.BajoStockFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarBajoStock(c.Request.Context(), filter.Umbral, filter.Limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) Reordenar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ReordenarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reordenar(c.Request.Context(), id, req.Orden); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductosHandler) MoverCategoria(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MoverCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MoverCategoria(c.Request.Context(), id, req.CategoriaID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
