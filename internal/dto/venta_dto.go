package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegistrarVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"`
}

// VentaFilter is bound from the query string of GET /v1/ventas.
// Limite ≤ 0 returns every sale.
type VentaFilter struct {
	Limite int `form:"limite"`
}

type VentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
	Fecha          time.Time       `json:"fecha"`
}
