package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"
	"wareinc/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DescripcionDesdeCompras is set on products created by a purchase.
const DescripcionDesdeCompras = "Producto agregado desde compras"

type CompraService interface {
	// Registrar restocks the product named in req, creating it if needed,
	// records the purchase and debits the presupuesto.
	Registrar(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error)
	Listar(ctx context.Context, limite int) ([]dto.CompraResponse, error)
}

type compraService struct {
	ledger      *Ledger
	repo        repository.CompraRepository
	productos   repository.ProductoRepository
	categorias  repository.CategoriaRepository
	presupuesto repository.PresupuestoRepository
}

func NewCompraService(
	ledger *Ledger,
	repo repository.CompraRepository,
	productos repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	presupuesto repository.PresupuestoRepository,
) CompraService {
	return &compraService{
		ledger:      ledger,
		repo:        repo,
		productos:   productos,
		categorias:  categorias,
		presupuesto: presupuesto,
	}
}

func mapCompra(c model.Compra) dto.CompraResponse {
	return dto.CompraResponse{
		ID:             c.ID.String(),
		ProductoID:     c.ProductoID.String(),
		ProductoNombre: c.ProductoNombre,
		Cantidad:       c.Cantidad,
		CostoUnitario:  c.CostoUnitario,
		Total:          c.Total,
		Proveedor:      c.Proveedor,
		Fecha:          c.Fecha,
	}
}

func validarCompra(req dto.RegistrarCompraRequest) (string, error) {
	nombre := strings.TrimSpace(req.ProductoNombre)
	if nombre == "" {
		return "", invalidInput("producto_nombre", "El nombre del producto es obligatorio")
	}
	if req.Cantidad <= 0 {
		return "", invalidInput("cantidad", "La cantidad debe ser mayor a 0")
	}
	if !req.CostoUnitario.IsPositive() {
		return "", invalidInput("costo_unitario", "El costo unitario debe ser mayor a 0")
	}
	if !req.PrecioVenta.IsPositive() {
		return "", invalidInput("precio_venta", "El precio de venta debe ser mayor a 0")
	}
	return nombre, nil
}

func (s *compraService) Registrar(ctx context.Context, req dto.RegistrarCompraRequest) (*dto.RegistrarCompraResponse, error) {
	nombre, err := validarCompra(req)
	if err != nil {
		return nil, err
	}
	proveedor := strings.TrimSpace(req.Proveedor)
	if proveedor == "" {
		proveedor = model.ProveedorDefecto
	}
	total := req.CostoUnitario.Mul(decimal.NewFromInt(int64(req.Cantidad)))

	var (
		producto model.Producto
		compra   model.Compra
		nuevo    bool
	)
	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		categoriaID, categoria, err := resolverCategoria(ctx, s.categorias, req.CategoriaID)
		if err != nil {
			return err
		}

		// The budget check reads the balance before any write of this transaction.
		pres, err := s.presupuesto.GetForUpdateTx(tx)
		if err != nil {
			return fmt.Errorf("leer presupuesto: %w", err)
		}
		if pres.Capital.LessThan(total) {
			return insufficientBudget(pres.Capital, total)
		}

		now := time.Now()
		existing, err := s.productos.FindByNombreFold(ctx, nombre)
		switch {
		case err == nil:
			if err := s.productos.ReabastecerTx(tx, existing.ID, req.Cantidad, req.PrecioVenta, categoriaID); err != nil {
				return fmt.Errorf("reabastecer producto: %w", err)
			}
			producto = *existing
			producto.Cantidad += req.Cantidad
			producto.Precio = req.PrecioVenta
			producto.CategoriaID = categoriaID
		case errors.Is(err, gorm.ErrRecordNotFound):
			maxOrden, err := s.productos.MaxOrdenTx(tx)
			if err != nil {
				return fmt.Errorf("orden de visualización: %w", err)
			}
			producto = model.Producto{
				Nombre:             nombre,
				Descripcion:        DescripcionDesdeCompras,
				Precio:             req.PrecioVenta,
				Cantidad:           req.Cantidad,
				CategoriaID:        categoriaID,
				OrdenVisualizacion: maxOrden + 1,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := s.productos.CreateTx(tx, &producto); err != nil {
				return fmt.Errorf("crear producto: %w", err)
			}
			nuevo = true
		default:
			return fmt.Errorf("buscar producto por nombre: %w", err)
		}
		producto.Categoria = categoria

		compra = model.Compra{
			ProductoID:     producto.ID,
			ProductoNombre: producto.Nombre,
			Cantidad:       req.Cantidad,
			CostoUnitario:  req.CostoUnitario,
			Total:          total,
			Proveedor:      proveedor,
			Fecha:          now,
		}
		if err := s.repo.CreateTx(tx, &compra); err != nil {
			return fmt.Errorf("registrar compra: %w", err)
		}
		if err := s.presupuesto.AjustarTx(tx, total.Neg()); err != nil {
			return fmt.Errorf("debitar presupuesto: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegistrarCompraResponse{
		Compra:        mapCompra(compra),
		Producto:      mapProducto(producto),
		ProductoNuevo: nuevo,
	}, nil
}

func (s *compraService) Listar(ctx context.Context, limite int) ([]dto.CompraResponse, error) {
	compras, err := s.repo.List(ctx, limite)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CompraResponse, len(compras))
	for i, c := range compras {
		resp[i] = mapCompra(c)
	}
	return resp, nil
}
