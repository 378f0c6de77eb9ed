package repository

import (
	"context"
	"errors"

	"wareinc/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProveedorConteo is a supplier with the number of purchases made from it.
type ProveedorConteo struct {
	Nombre   string
	Cantidad int64
}

type CompraRepository interface {
	CreateTx(tx *gorm.DB, c *model.Compra) error
	// List returns purchases newest first; limite ≤ 0 means no cap.
	List(ctx context.Context, limite int) ([]model.Compra, error)
	Count(ctx context.Context) (int64, error)
	SumTotal(ctx context.Context) (decimal.Decimal, error)
	// Mayor returns the purchase with the largest total, nil when there is none.
	Mayor(ctx context.Context) (*model.Compra, error)
	// ProveedorFrecuente returns nil when there are no purchases.
	ProveedorFrecuente(ctx context.Context) (*ProveedorConteo, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Create(c).Error
}

func (r *compraRepo) List(ctx context.Context, limite int) ([]model.Compra, error) {
	var compras []model.Compra
	q := r.db.WithContext(ctx).Order("fecha DESC, id DESC")
	if limite > 0 {
		q = q.Limit(limite)
	}
	err := q.Find(&compras).Error
	return compras, err
}

func (r *compraRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Compra{}).Count(&n).Error
	return n, err
}

func (r *compraRepo) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var row sumaRow
	err := r.db.WithContext(ctx).Model(&model.Compra{}).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	return row.Total, err
}

func (r *compraRepo) Mayor(ctx context.Context) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Order("total DESC, fecha DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) ProveedorFrecuente(ctx context.Context) (*ProveedorConteo, error) {
	var rows []ProveedorConteo
	err := r.db.WithContext(ctx).Model(&model.Compra{}).
		Select("proveedor AS nombre, COUNT(*) AS cantidad").
		Group("proveedor").
		Order("cantidad DESC, nombre ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}
