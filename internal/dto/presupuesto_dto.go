package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstablecerPresupuestoRequest struct {
	Capital decimal.Decimal `json:"capital"`
}

type PresupuestoResponse struct {
	Capital             decimal.Decimal `json:"capital"`
	UltimaActualizacion time.Time       `json:"ultima_actualizacion"`
}
