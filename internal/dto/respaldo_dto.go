package dto

import (
	"time"

	"wareinc/internal/model"
)

type GuardarRespaldoRequest struct {
	Nombre string `json:"nombre" validate:"max=100"`
}

type NuevoPeriodoRequest struct {
	MantenerProductos   bool `json:"mantener_productos"`
	MantenerPresupuesto bool `json:"mantener_presupuesto"`
}

type RespaldoResponse struct {
	Nombre     string    `json:"nombre"`
	Ruta       string    `json:"ruta"`
	Tamano     int64     `json:"tamano"`
	Modificado time.Time `json:"modificado"`
}

type NuevoPeriodoResponse struct {
	Respaldo RespaldoResponse    `json:"respaldo"`
	Capital  PresupuestoResponse `json:"presupuesto"`
}

// RespaldoArchivo is the on-disk snapshot format: every ledger table as-is.
type RespaldoArchivo struct {
	Version     int                `json:"version"`
	Generado    time.Time          `json:"generado"`
	Categorias  []model.Categoria  `json:"categorias"`
	Productos   []model.Producto   `json:"productos"`
	Ventas      []model.Venta      `json:"ventas"`
	Compras     []model.Compra     `json:"compras"`
	Presupuesto *model.Presupuesto `json:"presupuesto"`
}

// RespaldoAsyncRequest queues a snapshot; NotificarA receives it by email.
type RespaldoAsyncRequest struct {
	Nombre     string `json:"nombre" validate:"max=100"`
	NotificarA string `json:"notificar_a" validate:"omitempty,email"`
}
