package handler

import (
	"fmt"
	"net/http"
	"time"

	"wareinc/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Estadisticas godoc
// @Summary Totales del inventario y ventas
// @Tags reportes
// @Produce json
// @Success 200 {object} dto.EstadisticasResponse
// @Router /v1/reportes/estadisticas [get]
func (h *ReportesHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) MasVendido(c *gin.Context) {
	resp, err := h.svc.ProductoMasVendido(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Compras(c *gin.Context) {
	resp, err := h.svc.EstadisticasCompras(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Reporte imprimible
// @Tags reportes
// @Produce application/pdf
// @Success 200 {file} file
// @Router /v1/reportes/pdf [get]
func (h *ReportesHandler) PDF(c *gin.Context) {
	data, err := h.svc.GenerarPDF(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	adjuntar(c, "reporte", "pdf", mimePDF, data)
}

func (h *ReportesHandler) Excel(c *gin.Context) {
	data, err := h.svc.ExportarExcel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	adjuntar(c, "movimientos", "xlsx", mimeXLSX, data)
}

func adjuntar(c *gin.Context, prefijo, ext, mime string, data []byte) {
	nombre := fmt.Sprintf("%s_%s.%s", prefijo, time.Now().Format("20060102_150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, mime, data)
}
