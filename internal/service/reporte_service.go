package service

import (
	"context"
	"fmt"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/infra"
	"wareinc/internal/repository"
)

// SinVentas is the top-seller name reported while there are no sales.
const SinVentas = "Ninguno"

// ReporteService derives read-only figures from the ledger.
type ReporteService interface {
	Estadisticas(ctx context.Context) (*dto.EstadisticasResponse, error)
	ProductoMasVendido(ctx context.Context) (*dto.MasVendidoResponse, error)
	EstadisticasCompras(ctx context.Context) (*dto.EstadisticasComprasResponse, error)
	GenerarPDF(ctx context.Context) ([]byte, error)
	ExportarExcel(ctx context.Context) ([]byte, error)
}

type reporteService struct {
	productos   repository.ProductoRepository
	categorias  repository.CategoriaRepository
	ventas      repository.VentaRepository
	compras     repository.CompraRepository
	presupuesto repository.PresupuestoRepository
	umbral      int
	now         func() time.Time
}

func NewReporteService(
	productos repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	ventas repository.VentaRepository,
	compras repository.CompraRepository,
	presupuesto repository.PresupuestoRepository,
	umbralBajoStock int,
) ReporteService {
	if umbralBajoStock <= 0 {
		umbralBajoStock = UmbralBajoStockDefecto
	}
	return &reporteService{
		productos:   productos,
		categorias:  categorias,
		ventas:      ventas,
		compras:     compras,
		presupuesto: presupuesto,
		umbral:      umbralBajoStock,
		now:         time.Now,
	}
}

// Estadisticas counts "today" in the server's local time zone.
func (s *reporteService) Estadisticas(ctx context.Context) (*dto.EstadisticasResponse, error) {
	var (
		out dto.EstadisticasResponse
		err error
	)
	if out.TotalProductos, err = s.productos.Count(ctx); err != nil {
		return nil, fmt.Errorf("contar productos: %w", err)
	}
	if out.TotalCategorias, err = s.categorias.Count(ctx); err != nil {
		return nil, fmt.Errorf("contar categorías: %w", err)
	}
	if out.TotalVentas, err = s.ventas.Count(ctx); err != nil {
		return nil, fmt.Errorf("contar ventas: %w", err)
	}

	now := s.now()
	inicio := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if out.VentasHoy, err = s.ventas.SumTotalEntre(ctx, inicio, inicio.AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("sumar ventas de hoy: %w", err)
	}
	if out.GananciaTotal, err = s.ventas.SumTotal(ctx); err != nil {
		return nil, fmt.Errorf("sumar ventas: %w", err)
	}
	if out.ProductosBajoStk, err = s.productos.CountBajoStock(ctx, s.umbral); err != nil {
		return nil, fmt.Errorf("contar stock bajo: %w", err)
	}
	return &out, nil
}

func (s *reporteService) ProductoMasVendido(ctx context.Context) (*dto.MasVendidoResponse, error) {
	top, err := s.ventas.MasVendido(ctx)
	if err != nil {
		return nil, fmt.Errorf("producto más vendido: %w", err)
	}
	if top == nil {
		return &dto.MasVendidoResponse{Nombre: SinVentas, Cantidad: 0}, nil
	}
	return &dto.MasVendidoResponse{Nombre: top.Nombre, Cantidad: top.Cantidad}, nil
}

func (s *reporteService) EstadisticasCompras(ctx context.Context) (*dto.EstadisticasComprasResponse, error) {
	var (
		out dto.EstadisticasComprasResponse
		err error
	)
	if out.TotalGastado, err = s.compras.SumTotal(ctx); err != nil {
		return nil, fmt.Errorf("sumar compras: %w", err)
	}
	if out.TotalCompras, err = s.compras.Count(ctx); err != nil {
		return nil, fmt.Errorf("contar compras: %w", err)
	}
	mayor, err := s.compras.Mayor(ctx)
	if err != nil {
		return nil, fmt.Errorf("mayor compra: %w", err)
	}
	if mayor != nil {
		out.MayorCompra = &dto.MayorCompra{
			ProductoNombre: mayor.ProductoNombre,
			Total:          mayor.Total,
			Fecha:          mayor.Fecha,
		}
	}
	prov, err := s.compras.ProveedorFrecuente(ctx)
	if err != nil {
		return nil, fmt.Errorf("proveedor frecuente: %w", err)
	}
	if prov != nil {
		out.ProveedorFrecuente = &dto.ProveedorFrecuente{Nombre: prov.Nombre, Cantidad: prov.Cantidad}
	}
	return &out, nil
}

func (s *reporteService) GenerarPDF(ctx context.Context) ([]byte, error) {
	est, err := s.Estadisticas(ctx)
	if err != nil {
		return nil, err
	}
	compras, err := s.EstadisticasCompras(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.ProductoMasVendido(ctx)
	if err != nil {
		return nil, err
	}
	pres, err := s.presupuesto.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer presupuesto: %w", err)
	}
	bajo, err := s.productos.ListBajoStock(ctx, s.umbral, LimiteBajoStockDefecto)
	if err != nil {
		return nil, fmt.Errorf("listar stock bajo: %w", err)
	}

	return infra.GenerarReportePDF(dto.ReporteCompleto{
		Generado:     s.now(),
		Capital:      pres.Capital,
		Estadisticas: *est,
		Compras:      *compras,
		MasVendido:   *top,
		BajoStock:    mapProductos(bajo),
	})
}

func (s *reporteService) ExportarExcel(ctx context.Context) ([]byte, error) {
	ventas, err := s.ventas.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	compras, err := s.compras.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listar compras: %w", err)
	}
	return infra.GenerarLibroMovimientos(ventas, compras)
}
