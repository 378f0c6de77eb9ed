package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wareinc/internal/dto"
	"wareinc/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	m         *memDB
	r         repos
	ledger    *Ledger
	productos ProductoService
	compras   CompraService
	ventas    VentaService
	jobs      *stubNotificador
}

type stubNotificador struct {
	mu   sync.Mutex
	jobs []worker.EmailJobPayload
	err  error
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, p)
	return nil
}

func newFixture(capital string) *fixture {
	m := newMemDB(capital)
	r := newRepos(m)
	ledger := NewLedger(nil)
	jobs := &stubNotificador{}
	return &fixture{
		m:         m,
		r:         r,
		ledger:    ledger,
		productos: NewProductoService(ledger, r.productos, r.categorias, r.compras, r.presupuesto, 10),
		compras:   NewCompraService(ledger, r.compras, r.productos, r.categorias, r.presupuesto),
		ventas:    NewVentaService(ledger, r.ventas, r.productos, r.presupuesto, jobs, AlertaStock{Email: "dueno@example.com", Umbral: 5}),
		jobs:      jobs,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.StringFixed(2))
}

func compraWidget(cantidad int, costo, precio string) dto.RegistrarCompraRequest {
	return dto.RegistrarCompraRequest{
		ProductoNombre: "Widget",
		Cantidad:       cantidad,
		CostoUnitario:  dec(costo),
		PrecioVenta:    dec(precio),
	}
}

// ── Purchase then sale ───────────────────────────────────────────────────────

func TestLedger_CompraYVenta(t *testing.T) {
	f := newFixture("1000.00")
	ctx := context.Background()

	compra, err := f.compras.Registrar(ctx, compraWidget(10, "5.00", "12.00"))
	require.NoError(t, err)
	assert.True(t, compra.ProductoNuevo)
	assertDecimal(t, "950.00", f.m.capital())
	assert.Equal(t, 10, compra.Producto.Cantidad)
	assertDecimal(t, "12.00", compra.Producto.Precio)
	assertDecimal(t, "50.00", compra.Compra.Total)
	assert.Equal(t, "Proveedor General", compra.Compra.Proveedor)
	assert.Equal(t, DescripcionDesdeCompras, compra.Producto.Descripcion)
	require.Len(t, f.m.compras, 1)

	venta, err := f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: compra.Producto.ID, Cantidad: 4})
	require.NoError(t, err)
	assertDecimal(t, "48.00", venta.Total)
	assertDecimal(t, "12.00", venta.PrecioUnitario)
	assert.Equal(t, "Widget", venta.ProductoNombre)

	pid := uuid.MustParse(compra.Producto.ID)
	assert.Equal(t, 6, f.m.producto(pid).Cantidad)
	assertDecimal(t, "998.00", f.m.capital())
	require.Len(t, f.m.ventas, 1)
}

func TestLedger_CompraSinPresupuesto(t *testing.T) {
	f := newFixture("10.00")

	_, err := f.compras.Registrar(context.Background(), compraWidget(5, "5.00", "8.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBudget)
	assert.Equal(t, "Presupuesto insuficiente. Disponible: $10.00, Necesario: $25.00", err.Error())

	var se *Error
	require.True(t, errors.As(err, &se))
	assertDecimal(t, "10.00", se.Disponible)
	assertDecimal(t, "25.00", se.Requerido)

	assertDecimal(t, "10.00", f.m.capital())
	assert.Empty(t, f.m.productos)
	assert.Empty(t, f.m.compras)
}

func TestLedger_CompraReabasteceSinDistinguirMayusculas(t *testing.T) {
	f := newFixture("1000.00")
	ctx := context.Background()
	cat := f.m.seedCategoria("Oficina")
	p := f.m.seedProducto("Widget", "10.00", 3, nil)

	catID := cat.ID.String()
	req := dto.RegistrarCompraRequest{
		ProductoNombre: "  wIdGeT ",
		Cantidad:       7,
		CostoUnitario:  dec("2.50"),
		PrecioVenta:    dec("11.00"),
		CategoriaID:    &catID,
		Proveedor:      "Distribuidora Sur",
	}
	resp, err := f.compras.Registrar(ctx, req)
	require.NoError(t, err)

	assert.False(t, resp.ProductoNuevo)
	assert.Equal(t, p.ID.String(), resp.Producto.ID)
	assert.Len(t, f.m.productos, 1)

	got := f.m.producto(p.ID)
	assert.Equal(t, 10, got.Cantidad)
	assertDecimal(t, "11.00", got.Precio)
	require.NotNil(t, got.CategoriaID)
	assert.Equal(t, cat.ID, *got.CategoriaID)
	assertDecimal(t, "982.50", f.m.capital())
	assert.Equal(t, "Distribuidora Sur", resp.Compra.Proveedor)
	require.NotNil(t, resp.Producto.CategoriaNombre)
	assert.Equal(t, "Oficina", *resp.Producto.CategoriaNombre)
}

func TestLedger_CompraValidacion(t *testing.T) {
	f := newFixture("1000.00")
	ctx := context.Background()

	cases := map[string]dto.RegistrarCompraRequest{
		"producto_nombre": {ProductoNombre: " ", Cantidad: 1, CostoUnitario: dec("1"), PrecioVenta: dec("2")},
		"cantidad":        {ProductoNombre: "A", Cantidad: 0, CostoUnitario: dec("1"), PrecioVenta: dec("2")},
		"costo_unitario":  {ProductoNombre: "A", Cantidad: 1, CostoUnitario: dec("0"), PrecioVenta: dec("2")},
		"precio_venta":    {ProductoNombre: "A", Cantidad: 1, CostoUnitario: dec("1"), PrecioVenta: dec("-2")},
	}
	for field, req := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := f.compras.Registrar(ctx, req)
			var se *Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, KindInvalidInput, se.Kind)
			assert.Equal(t, field, se.Field)
		})
	}
	assertDecimal(t, "1000.00", f.m.capital())
	assert.Empty(t, f.m.compras)
}

func TestLedger_CompraCategoriaInexistente(t *testing.T) {
	f := newFixture("1000.00")
	missing := uuid.NewString()
	req := compraWidget(1, "1.00", "2.00")
	req.CategoriaID = &missing

	_, err := f.compras.Registrar(context.Background(), req)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assertDecimal(t, "1000.00", f.m.capital())
}

// ── Sales ────────────────────────────────────────────────────────────────────

func TestLedger_VentaSinStock(t *testing.T) {
	f := newFixture("100.00")
	p := f.m.seedProducto("Cuaderno", "3.00", 2, nil)

	_, err := f.ventas.Registrar(context.Background(), dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente. Disponible: 2", err.Error())

	assert.Equal(t, 2, f.m.producto(p.ID).Cantidad)
	assertDecimal(t, "100.00", f.m.capital())
	assert.Empty(t, f.m.ventas)
}

func TestLedger_VentaValidacion(t *testing.T) {
	f := newFixture("100.00")
	p := f.m.seedProducto("Cuaderno", "3.00", 2, nil)
	ctx := context.Background()

	_, err := f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: "no-uuid", Cantidad: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: uuid.NewString(), Cantidad: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	assertDecimal(t, "100.00", f.m.capital())
}

func TestLedger_VentaSobreviveBorradoDelProducto(t *testing.T) {
	f := newFixture("0.00")
	ctx := context.Background()
	p := f.m.seedProducto("Lámpara", "20.00", 5, nil)

	_, err := f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 1})
	require.NoError(t, err)
	require.NoError(t, f.productos.Eliminar(ctx, p.ID))

	ventas, err := f.ventas.Listar(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ventas, 1)
	assert.Equal(t, "Lámpara", ventas[0].ProductoNombre)
	assertDecimal(t, "20.00", f.m.capital())
}

func TestLedger_VentaAlertaBajoStock(t *testing.T) {
	f := newFixture("0.00")
	ctx := context.Background()
	p := f.m.seedProducto("Tinta", "4.00", 6, nil)

	_, err := f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 1})
	require.NoError(t, err)
	assert.Empty(t, f.jobs.jobs, "5 left is not under the threshold of 5")

	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 2})
	require.NoError(t, err)
	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, "dueno@example.com", f.jobs.jobs[0].ToEmail)
	assert.Contains(t, f.jobs.jobs[0].Subject, "Tinta")
}

func TestLedger_VentaNoFallaSiLaAlertaFalla(t *testing.T) {
	f := newFixture("0.00")
	f.jobs.err = errors.New("redis down")
	p := f.m.seedProducto("Tinta", "4.00", 1, nil)

	_, err := f.ventas.Registrar(context.Background(), dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, f.m.producto(p.ID).Cantidad)
	assertDecimal(t, "4.00", f.m.capital())
}

func TestLedger_VentasListarRecientesPrimero(t *testing.T) {
	f := newFixture("0.00")
	ctx := context.Background()
	a := f.m.seedProducto("A", "1.00", 10, nil)
	b := f.m.seedProducto("B", "1.00", 10, nil)

	for _, id := range []uuid.UUID{a.ID, b.ID, a.ID} {
		_, err := f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: id.String(), Cantidad: 1})
		require.NoError(t, err)
	}
	list, err := f.ventas.Listar(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].ProductoNombre)
	assert.Equal(t, "B", list[1].ProductoNombre)
}

// ── Invariants under concurrency ─────────────────────────────────────────────

func TestLedger_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture("0.00")
	p := f.m.seedProducto("Único", "10.00", 5, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ventas.Registrar(context.Background(), dto.RegistrarVentaRequest{ProductoID: p.ID.String(), Cantidad: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, fail)
	assert.Equal(t, 0, f.m.producto(p.ID).Cantidad)
	assertDecimal(t, "50.00", f.m.capital())
}

func TestLedger_BalanceEqualsInitialPlusSalesMinusPurchases(t *testing.T) {
	f := newFixture("500.00")
	ctx := context.Background()

	c1, err := f.compras.Registrar(ctx, compraWidget(20, "3.00", "7.50"))
	require.NoError(t, err)
	_, err = f.compras.Registrar(ctx, dto.RegistrarCompraRequest{ProductoNombre: "Gadget", Cantidad: 4, CostoUnitario: dec("12.25"), PrecioVenta: dec("20")})
	require.NoError(t, err)
	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: c1.Producto.ID, Cantidad: 3})
	require.NoError(t, err)
	_, err = f.ventas.Registrar(ctx, dto.RegistrarVentaRequest{ProductoID: c1.Producto.ID, Cantidad: 50})
	require.ErrorIs(t, err, ErrInsufficientStock)

	ventas := decimal.Zero
	for _, v := range f.m.ventas {
		ventas = ventas.Add(v.Total)
	}
	compras := decimal.Zero
	for _, c := range f.m.compras {
		compras = compras.Add(c.Total)
	}
	want := dec("500.00").Add(ventas).Sub(compras)
	assert.True(t, want.Equal(f.m.capital()), "balance %s, expected %s", f.m.capital(), want)
	assertDecimal(t, "413.50", f.m.capital())
}
