package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProveedorDefecto labels purchases registered without a supplier.
const ProveedorDefecto = "Proveedor General"

// Compra is an immutable purchase (restock) record.
type Compra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Proveedor      string          `gorm:"not null;index"`
	Fecha          time.Time       `gorm:"not null;index"`
}

func (Compra) TableName() string { return "compras" }
