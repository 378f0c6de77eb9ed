package repository

import (
	"context"
	"time"

	"wareinc/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PresupuestoRepository reads and writes the single cash balance row.
type PresupuestoRepository interface {
	Get(ctx context.Context) (*model.Presupuesto, error)
	// GetForUpdateTx reads the balance with a row lock held until the
	// transaction ends.
	GetForUpdateTx(tx *gorm.DB) (*model.Presupuesto, error)
	// AjustarTx adds delta (negative to debit) and stamps the update time.
	AjustarTx(tx *gorm.DB, delta decimal.Decimal) error
	// SetTx overwrites the balance, creating the row if it is missing.
	SetTx(tx *gorm.DB, capital decimal.Decimal) error
}

type presupuestoRepo struct{ db *gorm.DB }

func NewPresupuestoRepository(db *gorm.DB) PresupuestoRepository {
	return &presupuestoRepo{db: db}
}

func (r *presupuestoRepo) Get(ctx context.Context) (*model.Presupuesto, error) {
	var p model.Presupuesto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", model.PresupuestoID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presupuestoRepo) GetForUpdateTx(tx *gorm.DB) (*model.Presupuesto, error) {
	var p model.Presupuesto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", model.PresupuestoID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presupuestoRepo) AjustarTx(tx *gorm.DB, delta decimal.Decimal) error {
	return tx.Model(&model.Presupuesto{}).Where("id = ?", model.PresupuestoID).Updates(map[string]interface{}{
		"capital":              gorm.Expr("capital + ?", delta),
		"ultima_actualizacion": time.Now(),
	}).Error
}

func (r *presupuestoRepo) SetTx(tx *gorm.DB, capital decimal.Decimal) error {
	p := model.Presupuesto{ID: model.PresupuestoID, Capital: capital, UltimaActualizacion: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"capital", "ultima_actualizacion"}),
	}).Create(&p).Error
}
