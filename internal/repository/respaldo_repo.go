package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RespaldoVersion is written into every snapshot file.
const RespaldoVersion = 1

// RespaldoRepository reads the whole ledger for snapshots and rebuilds it when
// a new period starts.
type RespaldoRepository interface {
	// Snapshot reads every table inside one read-only repeatable-read transaction.
	Snapshot(ctx context.Context) (*dto.RespaldoArchivo, error)
	// SnapshotTx reads every table on the caller's transaction.
	SnapshotTx(tx *gorm.DB) (*dto.RespaldoArchivo, error)
	// LimpiarTx empties ventas, compras, productos and categorias.
	LimpiarTx(tx *gorm.DB) error
	// RestaurarCatalogoTx inserts categories and products keeping their IDs.
	RestaurarCatalogoTx(tx *gorm.DB, categorias []model.Categoria, productos []model.Producto) error
}

type respaldoRepo struct{ db *gorm.DB }

func NewRespaldoRepository(db *gorm.DB) RespaldoRepository { return &respaldoRepo{db: db} }

func (r *respaldoRepo) Snapshot(ctx context.Context) (*dto.RespaldoArchivo, error) {
	var out *dto.RespaldoArchivo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = r.SnapshotTx(tx)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *respaldoRepo) SnapshotTx(tx *gorm.DB) (*dto.RespaldoArchivo, error) {
	out := &dto.RespaldoArchivo{Version: RespaldoVersion, Generado: time.Now()}
	if err := tx.Order("nombre ASC").Find(&out.Categorias).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("orden_visualizacion ASC, id ASC").Find(&out.Productos).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("fecha ASC, id ASC").Find(&out.Ventas).Error; err != nil {
		return nil, err
	}
	if err := tx.Order("fecha ASC, id ASC").Find(&out.Compras).Error; err != nil {
		return nil, err
	}
	var p model.Presupuesto
	err := tx.First(&p, "id = ?", model.PresupuestoID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		out.Presupuesto = &p
	}
	return out, nil
}

func (r *respaldoRepo) LimpiarTx(tx *gorm.DB) error {
	return tx.Exec("TRUNCATE TABLE ventas, compras, productos, categorias").Error
}

func (r *respaldoRepo) RestaurarCatalogoTx(tx *gorm.DB, categorias []model.Categoria, productos []model.Producto) error {
	if len(categorias) > 0 {
		if err := tx.CreateInBatches(categorias, 100).Error; err != nil {
			return err
		}
	}
	if len(productos) > 0 {
		for i := range productos {
			productos[i].Categoria = nil
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(productos, 100).Error; err != nil {
			return err
		}
	}
	return nil
}
