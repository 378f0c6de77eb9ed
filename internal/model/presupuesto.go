package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PresupuestoID is the primary key of the only presupuesto row.
const PresupuestoID = 1

// Presupuesto is the shop's cash balance. Sales credit it, purchases debit it.
type Presupuesto struct {
	ID                  int             `gorm:"primaryKey;autoIncrement:false"`
	Capital             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	UltimaActualizacion time.Time       `gorm:"not null"`
}

func (Presupuesto) TableName() string { return "presupuesto" }
