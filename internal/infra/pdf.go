package infra

// pdf.go: printable inventory report using go-pdf/fpdf.
// One A4 page with:
//   - Shop name header and generation timestamp
//   - Cash balance
//   - Sales statistics and top seller
//   - Purchase statistics
//   - Low-stock table

import (
	"bytes"
	"fmt"

	"wareinc/internal/dto"

	"github.com/go-pdf/fpdf"
)

// NombreNegocio is printed on generated documents.
const NombreNegocio = "WareInc"

// GenerarReportePDF renders r and returns the PDF bytes.
func GenerarReportePDF(r dto.ReporteCompleto) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 9, NombreNegocio, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Reporte de inventario"), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, r.Generado.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 7, tr(title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 10)
	}
	row := func(label, value string) {
		pdf.CellFormat(contentW*0.6, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, tr(value), "", 1, "R", false, 0, "")
	}

	section("Presupuesto")
	row("Capital disponible", "$"+r.Capital.StringFixed(2))

	section("Ventas")
	e := r.Estadisticas
	row("Total de productos", fmt.Sprintf("%d", e.TotalProductos))
	row("Total de categorías", fmt.Sprintf("%d", e.TotalCategorias))
	row("Total de ventas", fmt.Sprintf("%d", e.TotalVentas))
	row("Ventas de hoy", "$"+e.VentasHoy.StringFixed(2))
	row("Ganancia total", "$"+e.GananciaTotal.StringFixed(2))
	row("Productos con stock bajo", fmt.Sprintf("%d", e.ProductosBajoStk))
	row("Producto más vendido", fmt.Sprintf("%s (%d)", r.MasVendido.Nombre, r.MasVendido.Cantidad))

	section("Compras")
	c := r.Compras
	row("Total gastado", "$"+c.TotalGastado.StringFixed(2))
	row("Total de compras", fmt.Sprintf("%d", c.TotalCompras))
	if c.MayorCompra != nil {
		row("Mayor compra", fmt.Sprintf("%s $%s", c.MayorCompra.ProductoNombre, c.MayorCompra.Total.StringFixed(2)))
	}
	if c.ProveedorFrecuente != nil {
		row("Proveedor más frecuente", fmt.Sprintf("%s (%d)", c.ProveedorFrecuente.Nombre, c.ProveedorFrecuente.Cantidad))
	}

	if len(r.BajoStock) > 0 {
		section("Stock bajo")
		col1 := contentW * 0.6
		col2 := contentW * 0.2
		col3 := contentW * 0.2
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Cantidad", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "Precio", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range r.BajoStock {
			nombre := p.Nombre
			if len([]rune(nombre)) > 45 {
				nombre = string([]rune(nombre)[:44]) + "..."
			}
			pdf.CellFormat(col1, 6, tr(nombre), "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, fmt.Sprintf("%d", p.Cantidad), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 6, "$"+p.Precio.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
