package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarCompraRequest restocks a product looked up by name (case-insensitive),
// creating it when no product matches.
type RegistrarCompraRequest struct {
	ProductoNombre string          `json:"producto_nombre"`
	CategoriaID    *string         `json:"categoria_id" validate:"omitempty,uuid"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	Cantidad       int             `json:"cantidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	Proveedor      string          `json:"proveedor" validate:"max=120"`
}

type CompraFilter struct {
	Limite int `form:"limite"`
}

type CompraResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	Cantidad       int             `json:"cantidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	Total          decimal.Decimal `json:"total"`
	Proveedor      string          `json:"proveedor"`
	Fecha          time.Time       `json:"fecha"`
}

type RegistrarCompraResponse struct {
	Compra        CompraResponse   `json:"compra"`
	Producto      ProductoResponse `json:"producto"`
	ProductoNuevo bool             `json:"producto_nuevo"`
}
