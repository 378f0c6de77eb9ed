package repository

import (
	"context"
	"time"

	"wareinc/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoVendido is a product name with its summed sold quantity.
type ProductoVendido struct {
	Nombre   string
	Cantidad int64
}

// sumaRow receives COALESCE(SUM(total), 0) aggregates.
type sumaRow struct {
	Total decimal.Decimal
}

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	// List returns sales newest first; limite ≤ 0 means no cap.
	List(ctx context.Context, limite int) ([]model.Venta, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
	// SumTotalEntre sums totals with desde ≤ fecha < hasta.
	SumTotalEntre(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	// MasVendido groups by the name snapshot. Returns nil when there are no sales.
	MasVendido(ctx context.Context) (*ProductoVendido, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) List(ctx context.Context, limite int) ([]model.Venta, error) {
	var ventas []model.Venta
	q := r.db.WithContext(ctx).Order("fecha DESC, id DESC")
	if limite > 0 {
		q = q.Limit(limite)
	}
	err := q.Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Count(&n).Error
	return n, err
}

func (r *ventaRepo) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var row sumaRow
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func (r *ventaRepo) SumTotalEntre(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var row sumaRow
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func (r *ventaRepo) MasVendido(ctx context.Context) (*ProductoVendido, error) {
	var rows []ProductoVendido
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("producto_nombre AS nombre, SUM(cantidad) AS cantidad").
		Group("producto_nombre").
		Order("cantidad DESC, nombre ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}
