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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	UmbralBajoStockDefecto = 10
	LimiteBajoStockDefecto = 10
)

type ProductoService interface {
	// Agregar creates the product and pays for its initial stock in one transaction.
	Agregar(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, orden string) ([]dto.ProductoResponse, error)
	ListarBajoStock(ctx context.Context, umbral, limite int) ([]dto.ProductoResponse, error)
	ListarPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProductoResponse, error)
	Buscar(ctx context.Context, termino string) ([]dto.ProductoResponse, error)
	Reordenar(ctx context.Context, id uuid.UUID, orden int) error
	MoverCategoria(ctx context.Context, id uuid.UUID, categoriaID *string) error
}

type productoService struct {
	ledger      *Ledger
	repo        repository.ProductoRepository
	categorias  repository.CategoriaRepository
	compras     repository.CompraRepository
	presupuesto repository.PresupuestoRepository
	umbral      int
}

func NewProductoService(
	ledger *Ledger,
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	compras repository.CompraRepository,
	presupuesto repository.PresupuestoRepository,
	umbralBajoStock int,
) ProductoService {
	if umbralBajoStock <= 0 {
		umbralBajoStock = UmbralBajoStockDefecto
	}
	return &productoService{
		ledger:      ledger,
		repo:        repo,
		categorias:  categorias,
		compras:     compras,
		presupuesto: presupuesto,
		umbral:      umbralBajoStock,
	}
}

// ParseOrden maps a client-supplied sort key to a repository ordering.
// Unknown keys fall back to display order.
func ParseOrden(orden string) repository.OrdenProductos {
	switch repository.OrdenProductos(strings.ToLower(strings.TrimSpace(orden))) {
	case repository.OrdenNombre:
		return repository.OrdenNombre
	case repository.OrdenPrecio:
		return repository.OrdenPrecio
	case repository.OrdenCantidad:
		return repository.OrdenCantidad
	case repository.OrdenCategoria:
		return repository.OrdenCategoria
	default:
		return repository.OrdenVisualizacion
	}
}

func mapProducto(p model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:                  p.ID.String(),
		Nombre:              p.Nombre,
		Descripcion:         p.Descripcion,
		Precio:              p.Precio,
		Cantidad:            p.Cantidad,
		InstruccionesManejo: p.InstruccionesManejo,
		UsoEspecifico:       p.UsoEspecifico,
		NotasAdicionales:    p.NotasAdicionales,
		OrdenVisualizacion:  p.OrdenVisualizacion,
		CreatedAt:           p.CreatedAt,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.CategoriaNombre = &p.Categoria.Nombre
		resp.CategoriaColor = &p.Categoria.Color
		resp.CategoriaIcono = &p.Categoria.Icono
	}
	return resp
}

func mapProductos(list []model.Producto) []dto.ProductoResponse {
	resp := make([]dto.ProductoResponse, len(list))
	for i, p := range list {
		resp[i] = mapProducto(p)
	}
	return resp
}

// resolverCategoria parses an optional category reference and checks that it
// exists. A nil or blank raw value means "no category".
func resolverCategoria(ctx context.Context, repo repository.CategoriaRepository, raw *string) (*uuid.UUID, *model.Categoria, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, nil, invalidInput("categoria_id", "categoria_id inválido")
	}
	c, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, categoryNotFound()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("buscar categoría: %w", err)
	}
	return &id, c, nil
}

func validarDatosProducto(nombre string, precio decimal.Decimal, cantidad int) (string, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return "", invalidInput("nombre", "El nombre del producto es obligatorio")
	}
	if !precio.IsPositive() {
		return "", invalidInput("precio", "El precio debe ser mayor a 0")
	}
	if cantidad < 0 {
		return "", invalidInput("cantidad", "La cantidad no puede ser negativa")
	}
	return nombre, nil
}

func (s *productoService) Agregar(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	nombre, err := validarDatosProducto(req.Nombre, req.Precio, req.Cantidad)
	if err != nil {
		return nil, err
	}
	if req.CostoCompra.IsNegative() {
		return nil, invalidInput("costo_compra", "El costo de compra no puede ser negativo")
	}
	if req.Cantidad > 0 && !req.CostoCompra.IsPositive() {
		return nil, invalidInput("costo_compra", "El costo de compra debe ser mayor a 0")
	}
	costoTotal := req.CostoCompra.Mul(decimal.NewFromInt(int64(req.Cantidad)))

	var p model.Producto
	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		categoriaID, categoria, err := resolverCategoria(ctx, s.categorias, req.CategoriaID)
		if err != nil {
			return err
		}

		pres, err := s.presupuesto.GetForUpdateTx(tx)
		if err != nil {
			return fmt.Errorf("leer presupuesto: %w", err)
		}
		if pres.Capital.LessThan(costoTotal) {
			return insufficientBudget(pres.Capital, costoTotal)
		}

		maxOrden, err := s.repo.MaxOrdenTx(tx)
		if err != nil {
			return fmt.Errorf("orden de visualización: %w", err)
		}

		now := time.Now()
		p = model.Producto{
			Nombre:              nombre,
			Descripcion:         strings.TrimSpace(req.Descripcion),
			Precio:              req.Precio,
			Cantidad:            req.Cantidad,
			CategoriaID:         categoriaID,
			InstruccionesManejo: req.InstruccionesManejo,
			UsoEspecifico:       req.UsoEspecifico,
			NotasAdicionales:    req.NotasAdicionales,
			OrdenVisualizacion:  maxOrden + 1,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := s.repo.CreateTx(tx, &p); err != nil {
			return fmt.Errorf("crear producto: %w", err)
		}
		p.Categoria = categoria

		if req.Cantidad == 0 {
			return nil
		}
		compra := model.Compra{
			ProductoID:     p.ID,
			ProductoNombre: p.Nombre,
			Cantidad:       req.Cantidad,
			CostoUnitario:  req.CostoCompra,
			Total:          costoTotal,
			Proveedor:      model.ProveedorDefecto,
			Fecha:          now,
		}
		if err := s.compras.CreateTx(tx, &compra); err != nil {
			return fmt.Errorf("registrar compra inicial: %w", err)
		}
		if err := s.presupuesto.AjustarTx(tx, costoTotal.Neg()); err != nil {
			return fmt.Errorf("debitar presupuesto: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	nombre, err := validarDatosProducto(req.Nombre, req.Precio, req.Cantidad)
	if err != nil {
		return nil, err
	}

	var p *model.Producto
	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		p, err = s.repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return productNotFound()
		}
		if err != nil {
			return fmt.Errorf("buscar producto: %w", err)
		}
		categoriaID, categoria, err := resolverCategoria(ctx, s.categorias, req.CategoriaID)
		if err != nil {
			return err
		}
		p.Nombre = nombre
		p.Descripcion = strings.TrimSpace(req.Descripcion)
		p.Precio = req.Precio
		p.Cantidad = req.Cantidad
		p.CategoriaID = categoriaID
		p.InstruccionesManejo = req.InstruccionesManejo
		p.UsoEspecifico = req.UsoEspecifico
		p.NotasAdicionales = req.NotasAdicionales
		p.UpdatedAt = time.Now()
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return fmt.Errorf("actualizar producto: %w", err)
		}
		p.Categoria = categoria
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapProducto(*p)
	return &resp, nil
}

// Eliminar deletes the product. Sales and purchases keep their name snapshot.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound()
			}
			return fmt.Errorf("buscar producto: %w", err)
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, productNotFound()
	}
	if err != nil {
		return nil, err
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, orden string) ([]dto.ProductoResponse, error) {
	list, err := s.repo.List(ctx, ParseOrden(orden))
	if err != nil {
		return nil, err
	}
	return mapProductos(list), nil
}

func (s *productoService) ListarBajoStock(ctx context.Context, umbral, limite int) ([]dto.ProductoResponse, error) {
	if umbral <= 0 {
		umbral = s.umbral
	}
	if limite <= 0 {
		limite = LimiteBajoStockDefecto
	}
	list, err := s.repo.ListBajoStock(ctx, umbral, limite)
	if err != nil {
		return nil, err
	}
	return mapProductos(list), nil
}

func (s *productoService) ListarPorCategoria(ctx context.Context, categoriaID uuid.UUID) ([]dto.ProductoResponse, error) {
	if _, err := s.categorias.FindByID(ctx, categoriaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoryNotFound()
		}
		return nil, err
	}
	list, err := s.repo.ListByCategoria(ctx, categoriaID)
	if err != nil {
		return nil, err
	}
	return mapProductos(list), nil
}

// Buscar matches termino as a substring of name, description or notes.
// A blank term returns the full listing.
func (s *productoService) Buscar(ctx context.Context, termino string) ([]dto.ProductoResponse, error) {
	termino = strings.TrimSpace(termino)
	if termino == "" {
		return s.Listar(ctx, "")
	}
	list, err := s.repo.Buscar(ctx, termino)
	if err != nil {
		return nil, err
	}
	return mapProductos(list), nil
}

func (s *productoService) Reordenar(ctx context.Context, id uuid.UUID, orden int) error {
	if orden < 0 {
		return invalidInput("orden", "El orden no puede ser negativo")
	}
	return s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound()
			}
			return fmt.Errorf("buscar producto: %w", err)
		}
		return s.repo.SetOrdenTx(tx, id, orden)
	})
}

func (s *productoService) MoverCategoria(ctx context.Context, id uuid.UUID, categoriaID *string) error {
	return s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound()
			}
			return fmt.Errorf("buscar producto: %w", err)
		}
		cid, _, err := resolverCategoria(ctx, s.categorias, categoriaID)
		if err != nil {
			return err
		}
		return s.repo.SetCategoriaTx(tx, id, cid)
	})
}
