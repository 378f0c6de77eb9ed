package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a stocked item. Cantidad is stock on hand and never goes below
// zero; Precio is the unit sale price.
//
// CategoriaID is a weak reference: there is no FK constraint, deletion of an
// in-use category is blocked by the service instead.
type Producto struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre              string          `gorm:"index;not null"`
	Descripcion         string          `gorm:"not null;default:''"`
	Precio              decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Cantidad            int             `gorm:"not null;default:0;check:chk_productos_cantidad,cantidad >= 0"`
	CategoriaID         *uuid.UUID      `gorm:"type:uuid;index"`
	InstruccionesManejo string          `gorm:"not null;default:''"`
	UsoEspecifico       string          `gorm:"not null;default:''"`
	NotasAdicionales    string          `gorm:"not null;default:''"`
	OrdenVisualizacion  int             `gorm:"not null;default:0;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Producto) TableName() string { return "productos" }
