package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"
	"wareinc/internal/repository"
	"wareinc/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notificador enqueues background jobs. *worker.Dispatcher implements it.
type Notificador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// AlertaStock configures the low-stock email sent after a sale.
// An empty Email disables the alert.
type AlertaStock struct {
	Email  string
	Umbral int
}

type VentaService interface {
	Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Listar(ctx context.Context, limite int) ([]dto.VentaResponse, error)
}

type ventaService struct {
	ledger      *Ledger
	repo        repository.VentaRepository
	productos   repository.ProductoRepository
	presupuesto repository.PresupuestoRepository
	jobs        Notificador
	alerta      AlertaStock
}

func NewVentaService(
	ledger *Ledger,
	repo repository.VentaRepository,
	productos repository.ProductoRepository,
	presupuesto repository.PresupuestoRepository,
	jobs Notificador,
	alerta AlertaStock,
) VentaService {
	if alerta.Umbral <= 0 {
		alerta.Umbral = UmbralBajoStockDefecto
	}
	return &ventaService{
		ledger:      ledger,
		repo:        repo,
		productos:   productos,
		presupuesto: presupuesto,
		jobs:        jobs,
		alerta:      alerta,
	}
}

func mapVenta(v model.Venta) dto.VentaResponse {
	return dto.VentaResponse{
		ID:             v.ID.String(),
		ProductoID:     v.ProductoID.String(),
		ProductoNombre: v.ProductoNombre,
		Cantidad:       v.Cantidad,
		PrecioUnitario: v.PrecioUnitario,
		Total:          v.Total,
		Fecha:          v.Fecha,
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────
// One transaction:
//   1. Lock the presupuesto row
//   2. Resolve the product and check stock
//   3. Decrement stock (guarded so it can never go below zero)
//   4. Insert the venta with name and price snapshots
//   5. Credit the presupuesto
// After commit a low-stock alert may be enqueued; it never affects the result.

func (s *ventaService) Registrar(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalidInput("producto_id", "producto_id inválido")
	}
	if req.Cantidad <= 0 {
		return nil, invalidInput("cantidad", "La cantidad debe ser mayor a 0")
	}

	var (
		venta     model.Venta
		restantes int
	)
	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.presupuesto.GetForUpdateTx(tx); err != nil {
			return fmt.Errorf("leer presupuesto: %w", err)
		}

		p, err := s.productos.FindByID(ctx, pid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return productNotFound()
		}
		if err != nil {
			return fmt.Errorf("buscar producto: %w", err)
		}
		if req.Cantidad > p.Cantidad {
			return insufficientStock(p.Cantidad)
		}

		n, err := s.productos.AjustarStockTx(tx, pid, -req.Cantidad)
		if err != nil {
			return fmt.Errorf("descontar stock: %w", err)
		}
		if n == 0 {
			return insufficientStock(p.Cantidad)
		}

		total := p.Precio.Mul(decimal.NewFromInt(int64(req.Cantidad)))
		venta = model.Venta{
			ProductoID:     p.ID,
			ProductoNombre: p.Nombre,
			Cantidad:       req.Cantidad,
			PrecioUnitario: p.Precio,
			Total:          total,
			Fecha:          time.Now(),
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		if err := s.presupuesto.AjustarTx(tx, total); err != nil {
			return fmt.Errorf("acreditar presupuesto: %w", err)
		}
		restantes = p.Cantidad - req.Cantidad
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.alertarBajoStock(ctx, venta, restantes)

	resp := mapVenta(venta)
	return &resp, nil
}

// alertarBajoStock enqueues an email when the sale left the product under the
// alert threshold. Enqueue failures are logged and otherwise ignored: the sale
// is already committed.
func (s *ventaService) alertarBajoStock(ctx context.Context, v model.Venta, restantes int) {
	if s.jobs == nil || s.alerta.Email == "" || restantes >= s.alerta.Umbral {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: s.alerta.Email,
		Subject: fmt.Sprintf("Stock bajo: %s", v.ProductoNombre),
		Body: fmt.Sprintf("El producto %q quedó con %d unidad(es) tras la venta del %s.",
			v.ProductoNombre, restantes, v.Fecha.Format("02/01/2006 15:04")),
	}
	if err := s.jobs.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("producto", v.ProductoNombre).Msg("no se pudo encolar alerta de stock")
	}
}

func (s *ventaService) Listar(ctx context.Context, limite int) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.List(ctx, limite)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaResponse, len(ventas))
	for i, v := range ventas {
		resp[i] = mapVenta(v)
	}
	return resp, nil
}
