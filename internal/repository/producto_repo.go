package repository

import (
	"context"

	"wareinc/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrdenProductos selects the sort applied by ProductoRepository.List.
type OrdenProductos string

const (
	OrdenVisualizacion OrdenProductos = "orden_visualizacion" // asc
	OrdenNombre        OrdenProductos = "nombre"              // asc
	OrdenPrecio        OrdenProductos = "precio"              // desc
	OrdenCantidad      OrdenProductos = "cantidad"            // asc
	OrdenCategoria     OrdenProductos = "categoria"           // category name asc
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Producto) error
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// AjustarStockTx adds delta to cantidad unless the result would be
	// negative. It returns the number of rows changed (0 or 1).
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)

	// ReabastecerTx adds cantidad to stock and overwrites price and category.
	ReabastecerTx(tx *gorm.DB, id uuid.UUID, cantidad int, precio decimal.Decimal, categoriaID *uuid.UUID) error

	SetOrdenTx(tx *gorm.DB, id uuid.UUID, orden int) error
	SetCategoriaTx(tx *gorm.DB, id uuid.UUID, categoriaID *uuid.UUID) error

	// MaxOrdenTx returns the highest orden_visualizacion, 0 on an empty table.
	MaxOrdenTx(tx *gorm.DB) (int, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// FindByNombreFold matches the name exactly after folding both sides to lower case.
	FindByNombreFold(ctx context.Context, nombre string) (*model.Producto, error)
	List(ctx context.Context, orden OrdenProductos) ([]model.Producto, error)
	ListByCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error)
	ListBajoStock(ctx context.Context, umbral, limite int) ([]model.Producto, error)
	CountBajoStock(ctx context.Context, umbral int) (int64, error)
	Buscar(ctx context.Context, termino string) ([]model.Producto, error)
	Count(ctx context.Context) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *productoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Producto{}, "id = ?", id).Error
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND cantidad + ? >= 0", id, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *productoRepo) ReabastecerTx(tx *gorm.DB, id uuid.UUID, cantidad int, precio decimal.Decimal, categoriaID *uuid.UUID) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cantidad":     gorm.Expr("cantidad + ?", cantidad),
		"precio":       precio,
		"categoria_id": categoriaID,
	}).Error
}

func (r *productoRepo) SetOrdenTx(tx *gorm.DB, id uuid.UUID, orden int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("orden_visualizacion", orden).Error
}

func (r *productoRepo) SetCategoriaTx(tx *gorm.DB, id uuid.UUID, categoriaID *uuid.UUID) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("categoria_id", categoriaID).Error
}

func (r *productoRepo) MaxOrdenTx(tx *gorm.DB) (int, error) {
	var max int
	err := tx.Model(&model.Producto{}).Select("COALESCE(MAX(orden_visualizacion), 0)").Scan(&max).Error
	return max, err
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	if err := r.db.WithContext(ctx).Preload("Categoria").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByNombreFold(ctx context.Context, nombre string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("lower(nombre) = lower(?)", nombre).
		Order("created_at ASC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, orden OrdenProductos) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Model(&model.Producto{}).Preload("Categoria")

	switch orden {
	case OrdenNombre:
		q = q.Order("productos.nombre ASC")
	case OrdenPrecio:
		q = q.Order("productos.precio DESC")
	case OrdenCantidad:
		q = q.Order("productos.cantidad ASC")
	case OrdenCategoria:
		q = q.Select("productos.*").
			Joins("LEFT JOIN categorias c ON c.id = productos.categoria_id").
			Order("c.nombre ASC NULLS LAST")
	default:
		q = q.Order("productos.orden_visualizacion ASC")
	}
	// Stable tie-break so repeated listings come back identical.
	err := q.Order("productos.created_at ASC").Order("productos.id ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListByCategoria(ctx context.Context, categoriaID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("categoria_id = ?", categoriaID).
		Order("orden_visualizacion ASC, nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListBajoStock(ctx context.Context, umbral, limite int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("cantidad < ?", umbral).
		Order("cantidad ASC, nombre ASC").
		Limit(limite).
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountBajoStock(ctx context.Context, umbral int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("cantidad < ?", umbral).Count(&n).Error
	return n, err
}

func (r *productoRepo) Buscar(ctx context.Context, termino string) ([]model.Producto, error) {
	var productos []model.Producto
	like := "%" + termino + "%"
	err := r.db.WithContext(ctx).Preload("Categoria").
		Where("nombre ILIKE ? OR descripcion ILIKE ? OR notas_adicionales ILIKE ?", like, like, like).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Count(&n).Error
	return n, err
}
