package infra

import (
	"fmt"

	"wareinc/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	HojaVentas  = "Ventas"
	HojaCompras = "Compras"
)

var (
	encabezadoVentas  = []interface{}{"Fecha", "Producto", "Cantidad", "Precio unitario", "Total"}
	encabezadoCompras = []interface{}{"Fecha", "Producto", "Cantidad", "Costo unitario", "Total", "Proveedor"}
)

// GenerarLibroMovimientos writes sales and purchases into a two-sheet XLSX
// workbook and returns its bytes.
func GenerarLibroMovimientos(ventas []model.Venta, compras []model.Compra) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HojaVentas); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	if _, err := f.NewSheet(HojaCompras); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}

	if err := f.SetSheetRow(HojaVentas, "A1", &encabezadoVentas); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	for i, v := range ventas {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			v.Fecha.Format("2006-01-02 15:04:05"),
			v.ProductoNombre,
			v.Cantidad,
			v.PrecioUnitario.InexactFloat64(),
			v.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(HojaVentas, cell, &row); err != nil {
			return nil, fmt.Errorf("excel: ventas fila %d: %w", i+2, err)
		}
	}

	if err := f.SetSheetRow(HojaCompras, "A1", &encabezadoCompras); err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	for i, c := range compras {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			c.Fecha.Format("2006-01-02 15:04:05"),
			c.ProductoNombre,
			c.Cantidad,
			c.CostoUnitario.InexactFloat64(),
			c.Total.InexactFloat64(),
			c.Proveedor,
		}
		if err := f.SetSheetRow(HojaCompras, cell, &row); err != nil {
			return nil, fmt.Errorf("excel: compras fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: write: %w", err)
	}
	return buf.Bytes(), nil
}
