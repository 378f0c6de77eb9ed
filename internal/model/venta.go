package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an immutable sale record. ProductoNombre and PrecioUnitario are
// copies taken at write time so the row stays meaningful after the product is
// edited or deleted.
type Venta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Fecha          time.Time       `gorm:"not null;index"`
}

func (Venta) TableName() string { return "ventas" }
