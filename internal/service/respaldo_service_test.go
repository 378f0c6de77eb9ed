package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRespaldoService(t *testing.T, m *memDB, now time.Time) (*respaldoService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "respaldos")
	r := newRepos(m)
	svc := NewRespaldoService(NewLedger(nil), r.respaldos, r.presupuesto, dir, dec("50000.00")).(*respaldoService)
	svc.now = func() time.Time { return now }
	return svc, dir
}

func TestRespaldo_NombrePorDefecto(t *testing.T) {
	m := newMemDB("120.00")
	m.seedProducto("Pegamento", "3.00", 8, nil)
	svc, dir := newRespaldoService(t, m, time.Date(2024, 7, 4, 10, 0, 0, 0, time.Local))

	out, err := svc.GuardarPeriodo(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "inventario_2024_07_July.json", out.Nombre)
	assert.Equal(t, filepath.Join(dir, out.Nombre), out.Ruta)
	assert.Positive(t, out.Tamano)

	raw, err := os.ReadFile(out.Ruta)
	require.NoError(t, err)
	var archivo dto.RespaldoArchivo
	require.NoError(t, json.Unmarshal(raw, &archivo))
	require.Len(t, archivo.Productos, 1)
	assert.Equal(t, "Pegamento", archivo.Productos[0].Nombre)
	require.NotNil(t, archivo.Presupuesto)
	assertDecimal(t, "120.00", archivo.Presupuesto.Capital)
}

func TestRespaldo_NoSobrescribe(t *testing.T) {
	svc, _ := newRespaldoService(t, newMemDB("0"), time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local))
	ctx := context.Background()

	first, err := svc.GuardarPeriodo(ctx, "cierre")
	require.NoError(t, err)
	second, err := svc.GuardarPeriodo(ctx, "cierre.json")
	require.NoError(t, err)
	third, err := svc.GuardarPeriodo(ctx, "cierre")
	require.NoError(t, err)

	assert.Equal(t, "cierre.json", first.Nombre)
	assert.Equal(t, "cierre_20240102_030405.json", second.Nombre)
	assert.Equal(t, "cierre_20240102_030405_2.json", third.Nombre)
}

func TestRespaldo_NombreNoEscapaDelDirectorio(t *testing.T) {
	svc, dir := newRespaldoService(t, newMemDB("0"), time.Now())

	out, err := svc.GuardarPeriodo(context.Background(), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(out.Ruta))
	assert.Equal(t, "passwd.json", out.Nombre)
}

func TestRespaldo_ListarRecientesPrimero(t *testing.T) {
	svc, dir := newRespaldoService(t, newMemDB("0"), time.Now())
	ctx := context.Background()

	empty, err := svc.Listar(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	viejo, err := svc.GuardarPeriodo(ctx, "viejo")
	require.NoError(t, err)
	_, err = svc.GuardarPeriodo(ctx, "nuevo")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(viejo.Ruta, past, past))

	list, err := svc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "nuevo.json", list[0].Nombre)
	assert.Equal(t, "viejo.json", list[1].Nombre)
}

func TestRespaldo_NuevoPeriodoConservandoCatalogo(t *testing.T) {
	f := newFixture("1000.00")
	ctx := context.Background()
	compra, err := f.compras.Registrar(ctx, compraWidget(10, "5", "12"))
	require.NoError(t, err)
	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: compra.Producto.ID, Cantidad: 1})
	require.NoError(t, err)

	svc, _ := newRespaldoService(t, f.m, time.Now())
	out, err := svc.NuevoPeriodo(ctx, dto.NuevoPeriodoRequest{MantenerProductos: true, MantenerPresupuesto: true})
	require.NoError(t, err)

	assert.FileExists(t, out.Respaldo.Ruta)
	assertDecimal(t, "962.00", out.Capital.Capital)
	assertDecimal(t, "962.00", f.m.capital())
	assert.Empty(t, f.m.ventas)
	assert.Empty(t, f.m.compras)
	require.Len(t, f.m.productos, 1)
	for _, p := range f.m.productos {
		assert.Equal(t, "Widget", p.Nombre)
		assert.Equal(t, 9, p.Cantidad)
	}
}

func TestRespaldo_NuevoPeriodoDesdeCero(t *testing.T) {
	f := newFixture("1000.00")
	ctx := context.Background()
	f.m.seedCategoria("Temporal")
	_, err := f.compras.Registrar(ctx, compraWidget(2, "5", "12"))
	require.NoError(t, err)

	svc, _ := newRespaldoService(t, f.m, time.Now())
	out, err := svc.NuevoPeriodo(ctx, dto.NuevoPeriodoRequest{})
	require.NoError(t, err)

	assertDecimal(t, "50000.00", out.Capital.Capital)
	assertDecimal(t, "50000.00", f.m.capital())
	assert.Empty(t, f.m.productos)
	assert.Len(t, f.m.categorias, len(model.CategoriasPorDefecto()))

	// the snapshot still holds the closed period
	raw, err := os.ReadFile(out.Respaldo.Ruta)
	require.NoError(t, err)
	var archivo dto.RespaldoArchivo
	require.NoError(t, json.Unmarshal(raw, &archivo))
	assert.Len(t, archivo.Compras, 1)
	assertDecimal(t, "990.00", archivo.Presupuesto.Capital)
}
