package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadisticasResponse struct {
	TotalProductos   int64           `json:"total_productos"`
	TotalCategorias  int64           `json:"total_categorias"`
	TotalVentas      int64           `json:"total_ventas"`
	VentasHoy        decimal.Decimal `json:"ventas_hoy"`
	GananciaTotal    decimal.Decimal `json:"ganancia_total"`
	ProductosBajoStk int64           `json:"productos_bajo_stock"`
}

// MasVendidoResponse carries Nombre "Ninguno" and Cantidad 0 when there are no sales.
type MasVendidoResponse struct {
	Nombre   string `json:"nombre"`
	Cantidad int64  `json:"cantidad"`
}

type MayorCompra struct {
	ProductoNombre string          `json:"producto_nombre"`
	Total          decimal.Decimal `json:"total"`
	Fecha          time.Time       `json:"fecha"`
}

type ProveedorFrecuente struct {
	Nombre   string `json:"nombre"`
	Cantidad int64  `json:"cantidad"`
}

// EstadisticasComprasResponse leaves MayorCompra and ProveedorFrecuente nil
// while there are no purchases.
type EstadisticasComprasResponse struct {
	TotalGastado       decimal.Decimal     `json:"total_gastado"`
	TotalCompras       int64               `json:"total_compras"`
	MayorCompra        *MayorCompra        `json:"mayor_compra"`
	ProveedorFrecuente *ProveedorFrecuente `json:"proveedor_frecuente"`
}

// ReporteCompleto is everything the printable report shows.
type ReporteCompleto struct {
	Generado     time.Time
	Capital      decimal.Decimal
	Estadisticas EstadisticasResponse
	Compras      EstadisticasComprasResponse
	MasVendido   MasVendidoResponse
	BajoStock    []ProductoResponse
}
