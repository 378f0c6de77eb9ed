package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"
	"wareinc/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memDB is an in-memory ledger shared by every stub repository, so a test can
// observe the cross-table effects of one operation.
type memDB struct {
	mu          sync.Mutex
	categorias  map[uuid.UUID]model.Categoria
	productos   map[uuid.UUID]model.Producto
	ventas      []model.Venta
	compras     []model.Compra
	presupuesto *model.Presupuesto
}

func newMemDB(capital string) *memDB {
	return &memDB{
		categorias:  make(map[uuid.UUID]model.Categoria),
		productos:   make(map[uuid.UUID]model.Producto),
		presupuesto: &model.Presupuesto{ID: model.PresupuestoID, Capital: decimal.RequireFromString(capital), UltimaActualizacion: time.Now()},
	}
}

func (m *memDB) capital() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presupuesto.Capital
}

func (m *memDB) producto(id uuid.UUID) model.Producto {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productos[id]
}

func (m *memDB) seedCategoria(nombre string) model.Categoria {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := model.Categoria{ID: uuid.New(), Nombre: nombre, Color: model.ColorCategoriaDefecto, Icono: model.IconoCategoriaDefecto, CreatedAt: time.Now()}
	m.categorias[c.ID] = c
	return c
}

func (m *memDB) seedProducto(nombre, precio string, cantidad int, categoriaID *uuid.UUID) model.Producto {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := model.Producto{
		ID: uuid.New(), Nombre: nombre, Precio: decimal.RequireFromString(precio), Cantidad: cantidad,
		CategoriaID: categoriaID, OrdenVisualizacion: len(m.productos) + 1, CreatedAt: time.Now(),
	}
	m.productos[p.ID] = p
	return p
}

type repos struct {
	categorias  *stubCategoriaRepo
	productos   *stubProductoRepo
	ventas      *stubVentaRepo
	compras     *stubCompraRepo
	presupuesto *stubPresupuestoRepo
	respaldos   *stubRespaldoRepo
}

func newRepos(m *memDB) repos {
	return repos{
		categorias:  &stubCategoriaRepo{m: m},
		productos:   &stubProductoRepo{m: m},
		ventas:      &stubVentaRepo{m: m},
		compras:     &stubCompraRepo{m: m},
		presupuesto: &stubPresupuestoRepo{m: m},
		respaldos:   &stubRespaldoRepo{m: m},
	}
}

// ── Categorias ───────────────────────────────────────────────────────────────

type stubCategoriaRepo struct{ m *memDB }

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

func (r *stubCategoriaRepo) CreateTx(_ *gorm.DB, c *model.Categoria) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.m.categorias[c.ID] = *c
	return nil
}

func (r *stubCategoriaRepo) UpdateTx(_ *gorm.DB, c *model.Categoria) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.categorias[c.ID] = *c
	return nil
}

func (r *stubCategoriaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.categorias, id)
	return nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCategoriaRepo) FindByNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categorias {
		if c.Nombre == nombre {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Categoria, 0, len(r.m.categorias))
	for _, c := range r.m.categorias {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubCategoriaRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.categorias)), nil
}

func (r *stubCategoriaRepo) CountProductos(_ context.Context, id uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, p := range r.m.productos {
		if p.CategoriaID != nil && *p.CategoriaID == id {
			n++
		}
	}
	return n, nil
}

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct{ m *memDB }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// withCategoria mimics Preload("Categoria"); caller holds the lock.
func (r *stubProductoRepo) withCategoria(p model.Producto) model.Producto {
	p.Categoria = nil
	if p.CategoriaID != nil {
		if c, ok := r.m.categorias[*p.CategoriaID]; ok {
			p.Categoria = &c
		}
	}
	return p
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	stored.Categoria = nil
	r.m.productos[p.ID] = stored
	return nil
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *p
	stored.Categoria = nil
	r.m.productos[p.ID] = stored
	return nil
}

func (r *stubProductoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.productos, id)
	return nil
}

func (r *stubProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.productos[id]
	if !ok || p.Cantidad+delta < 0 {
		return 0, nil
	}
	p.Cantidad += delta
	r.m.productos[id] = p
	return 1, nil
}

func (r *stubProductoRepo) ReabastecerTx(_ *gorm.DB, id uuid.UUID, cantidad int, precio decimal.Decimal, categoriaID *uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p := r.m.productos[id]
	p.Cantidad += cantidad
	p.Precio = precio
	p.CategoriaID = categoriaID
	r.m.productos[id] = p
	return nil
}

func (r *stubProductoRepo) SetOrdenTx(_ *gorm.DB, id uuid.UUID, orden int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p := r.m.productos[id]
	p.OrdenVisualizacion = orden
	r.m.productos[id] = p
	return nil
}

func (r *stubProductoRepo) SetCategoriaTx(_ *gorm.DB, id uuid.UUID, categoriaID *uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p := r.m.productos[id]
	p.CategoriaID = categoriaID
	r.m.productos[id] = p
	return nil
}

func (r *stubProductoRepo) MaxOrdenTx(_ *gorm.DB) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	max := 0
	for _, p := range r.m.productos {
		if p.OrdenVisualizacion > max {
			max = p.OrdenVisualizacion
		}
	}
	return max, nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.withCategoria(p)
	return &p, nil
}

func (r *stubProductoRepo) FindByNombreFold(_ context.Context, nombre string) (*model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.productos {
		if strings.ToLower(p.Nombre) == strings.ToLower(nombre) {
			p = r.withCategoria(p)
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) all(keep func(model.Producto) bool) []model.Producto {
	out := make([]model.Producto, 0, len(r.m.productos))
	for _, p := range r.m.productos {
		if keep == nil || keep(p) {
			out = append(out, r.withCategoria(p))
		}
	}
	return out
}

func (r *stubProductoRepo) List(_ context.Context, orden repository.OrdenProductos) ([]model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(nil)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch orden {
		case repository.OrdenNombre:
			if a.Nombre != b.Nombre {
				return a.Nombre < b.Nombre
			}
		case repository.OrdenPrecio:
			if !a.Precio.Equal(b.Precio) {
				return a.Precio.GreaterThan(b.Precio)
			}
		case repository.OrdenCantidad:
			if a.Cantidad != b.Cantidad {
				return a.Cantidad < b.Cantidad
			}
		default:
			if a.OrdenVisualizacion != b.OrdenVisualizacion {
				return a.OrdenVisualizacion < b.OrdenVisualizacion
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

func (r *stubProductoRepo) ListByCategoria(_ context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(func(p model.Producto) bool { return p.CategoriaID != nil && *p.CategoriaID == categoriaID })
	sort.Slice(out, func(i, j int) bool { return out[i].OrdenVisualizacion < out[j].OrdenVisualizacion })
	return out, nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context, umbral, limite int) ([]model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.all(func(p model.Producto) bool { return p.Cantidad < umbral })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cantidad != out[j].Cantidad {
			return out[i].Cantidad < out[j].Cantidad
		}
		return out[i].Nombre < out[j].Nombre
	})
	if limite > 0 && len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *stubProductoRepo) CountBajoStock(ctx context.Context, umbral int) (int64, error) {
	list, _ := r.ListBajoStock(ctx, umbral, 0)
	return int64(len(list)), nil
}

func (r *stubProductoRepo) Buscar(_ context.Context, termino string) ([]model.Producto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t := strings.ToLower(termino)
	out := r.all(func(p model.Producto) bool {
		return strings.Contains(strings.ToLower(p.Nombre), t) ||
			strings.Contains(strings.ToLower(p.Descripcion), t) ||
			strings.Contains(strings.ToLower(p.NotasAdicionales), t)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.productos)), nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct{ m *memDB }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.m.ventas = append(r.m.ventas, *v)
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, limite int) ([]model.Venta, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Venta, 0, len(r.m.ventas))
	for i := len(r.m.ventas) - 1; i >= 0; i-- {
		out = append(out, r.m.ventas[i])
	}
	if limite > 0 && len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *stubVentaRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.ventas)), nil
}

func (r *stubVentaRepo) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	return r.SumTotalEntre(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (r *stubVentaRepo) SumTotalEntre(_ context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sum := decimal.Zero
	for _, v := range r.m.ventas {
		if !v.Fecha.Before(desde) && v.Fecha.Before(hasta) {
			sum = sum.Add(v.Total)
		}
	}
	return sum, nil
}

func (r *stubVentaRepo) MasVendido(_ context.Context) (*repository.ProductoVendido, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	totals := map[string]int64{}
	for _, v := range r.m.ventas {
		totals[v.ProductoNombre] += int64(v.Cantidad)
	}
	var top *repository.ProductoVendido
	for nombre, n := range totals {
		if top == nil || n > top.Cantidad || (n == top.Cantidad && nombre < top.Nombre) {
			top = &repository.ProductoVendido{Nombre: nombre, Cantidad: n}
		}
	}
	return top, nil
}

// ── Compras ──────────────────────────────────────────────────────────────────

type stubCompraRepo struct{ m *memDB }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.m.compras = append(r.m.compras, *c)
	return nil
}

func (r *stubCompraRepo) List(_ context.Context, limite int) ([]model.Compra, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Compra, 0, len(r.m.compras))
	for i := len(r.m.compras) - 1; i >= 0; i-- {
		out = append(out, r.m.compras[i])
	}
	if limite > 0 && len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *stubCompraRepo) Count(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.compras)), nil
}

func (r *stubCompraRepo) SumTotal(_ context.Context) (decimal.Decimal, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sum := decimal.Zero
	for _, c := range r.m.compras {
		sum = sum.Add(c.Total)
	}
	return sum, nil
}

func (r *stubCompraRepo) Mayor(_ context.Context) (*model.Compra, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var top *model.Compra
	for i := range r.m.compras {
		c := r.m.compras[i]
		if top == nil || c.Total.GreaterThan(top.Total) {
			top = &c
		}
	}
	return top, nil
}

func (r *stubCompraRepo) ProveedorFrecuente(_ context.Context) (*repository.ProveedorConteo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[string]int64{}
	for _, c := range r.m.compras {
		counts[c.Proveedor]++
	}
	var top *repository.ProveedorConteo
	for nombre, n := range counts {
		if top == nil || n > top.Cantidad || (n == top.Cantidad && nombre < top.Nombre) {
			top = &repository.ProveedorConteo{Nombre: nombre, Cantidad: n}
		}
	}
	return top, nil
}

// ── Presupuesto ──────────────────────────────────────────────────────────────

type stubPresupuestoRepo struct{ m *memDB }

var _ repository.PresupuestoRepository = (*stubPresupuestoRepo)(nil)

func (r *stubPresupuestoRepo) Get(_ context.Context) (*model.Presupuesto, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.presupuesto == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p := *r.m.presupuesto
	return &p, nil
}

func (r *stubPresupuestoRepo) GetForUpdateTx(_ *gorm.DB) (*model.Presupuesto, error) {
	return r.Get(context.Background())
}

func (r *stubPresupuestoRepo) AjustarTx(_ *gorm.DB, delta decimal.Decimal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.presupuesto.Capital = r.m.presupuesto.Capital.Add(delta)
	r.m.presupuesto.UltimaActualizacion = time.Now()
	return nil
}

func (r *stubPresupuestoRepo) SetTx(_ *gorm.DB, capital decimal.Decimal) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.presupuesto = &model.Presupuesto{ID: model.PresupuestoID, Capital: capital, UltimaActualizacion: time.Now()}
	return nil
}

// ── Respaldos ────────────────────────────────────────────────────────────────

type stubRespaldoRepo struct{ m *memDB }

var _ repository.RespaldoRepository = (*stubRespaldoRepo)(nil)

func (r *stubRespaldoRepo) Snapshot(_ context.Context) (*dto.RespaldoArchivo, error) {
	return r.SnapshotTx(nil)
}

func (r *stubRespaldoRepo) SnapshotTx(_ *gorm.DB) (*dto.RespaldoArchivo, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := &dto.RespaldoArchivo{Version: repository.RespaldoVersion, Generado: time.Now()}
	for _, c := range r.m.categorias {
		out.Categorias = append(out.Categorias, c)
	}
	for _, p := range r.m.productos {
		out.Productos = append(out.Productos, p)
	}
	out.Ventas = append(out.Ventas, r.m.ventas...)
	out.Compras = append(out.Compras, r.m.compras...)
	if r.m.presupuesto != nil {
		p := *r.m.presupuesto
		out.Presupuesto = &p
	}
	return out, nil
}

func (r *stubRespaldoRepo) LimpiarTx(_ *gorm.DB) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.categorias = make(map[uuid.UUID]model.Categoria)
	r.m.productos = make(map[uuid.UUID]model.Producto)
	r.m.ventas = nil
	r.m.compras = nil
	return nil
}

func (r *stubRespaldoRepo) RestaurarCatalogoTx(_ *gorm.DB, categorias []model.Categoria, productos []model.Producto) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range categorias {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.m.categorias[c.ID] = c
	}
	for _, p := range productos {
		p.Categoria = nil
		r.m.productos[p.ID] = p
	}
	return nil
}
