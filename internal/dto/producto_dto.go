package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest registers a new product and pays for its initial stock:
// CostoCompra × Cantidad is debited from the presupuesto.
type CrearProductoRequest struct {
	Nombre              string          `json:"nombre"       validate:"required,max=120"`
	Descripcion         string          `json:"descripcion"`
	Precio              decimal.Decimal `json:"precio"`
	Cantidad            int             `json:"cantidad"`
	CategoriaID         *string         `json:"categoria_id" validate:"omitempty,uuid"`
	CostoCompra         decimal.Decimal `json:"costo_compra"`
	InstruccionesManejo string          `json:"instrucciones_manejo"`
	UsoEspecifico       string          `json:"uso_especifico"`
	NotasAdicionales    string          `json:"notas_adicionales"`
}

// ActualizarProductoRequest overwrites every editable field. It never touches
// the presupuesto or the purchase history.
type ActualizarProductoRequest struct {
	Nombre              string          `json:"nombre"       validate:"required,max=120"`
	Descripcion         string          `json:"descripcion"`
	Precio              decimal.Decimal `json:"precio"`
	Cantidad            int             `json:"cantidad"`
	CategoriaID         *string         `json:"categoria_id" validate:"omitempty,uuid"`
	InstruccionesManejo string          `json:"instrucciones_manejo"`
	UsoEspecifico       string          `json:"uso_especifico"`
	NotasAdicionales    string          `json:"notas_adicionales"`
}

type ReordenarProductoRequest struct {
	Orden int `json:"orden" validate:"min=0"`
}

// MoverCategoriaRequest with a nil CategoriaID leaves the product uncategorised.
type MoverCategoriaRequest struct {
	CategoriaID *string `json:"categoria_id" validate:"omitempty,uuid"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Orden       string `form:"orden"`
	Q           string `form:"q"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
}

// BajoStockFilter values ≤ 0 fall back to the configured defaults.
type BajoStockFilter struct {
	Umbral int `form:"umbral"`
	Limite int `form:"limite"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                  string          `json:"id"`
	Nombre              string          `json:"nombre"`
	Descripcion         string          `json:"descripcion"`
	Precio              decimal.Decimal `json:"precio"`
	Cantidad            int             `json:"cantidad"`
	CategoriaID         *string         `json:"categoria_id"`
	CategoriaNombre     *string         `json:"categoria_nombre"`
	CategoriaColor      *string         `json:"categoria_color"`
	CategoriaIcono      *string         `json:"categoria_icono"`
	InstruccionesManejo string          `json:"instrucciones_manejo"`
	UsoEspecifico       string          `json:"uso_especifico"`
	NotasAdicionales    string          `json:"notas_adicionales"`
	OrdenVisualizacion  int             `json:"orden_visualizacion"`
	CreatedAt           time.Time       `json:"created_at"`
}
