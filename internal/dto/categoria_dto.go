package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre      string `json:"nombre"      validate:"required,max=100"`
	Descripcion string `json:"descripcion" validate:"max=500"`
	Color       string `json:"color"       validate:"omitempty,len=7"`
	Icono       string `json:"icono"       validate:"max=16"`
}

// ActualizarCategoriaRequest overwrites every field of the category.
type ActualizarCategoriaRequest struct {
	Nombre      string `json:"nombre"      validate:"required,max=100"`
	Descripcion string `json:"descripcion" validate:"max=500"`
	Color       string `json:"color"       validate:"omitempty,len=7"`
	Icono       string `json:"icono"       validate:"max=16"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Color       string    `json:"color"`
	Icono       string    `json:"icono"`
	CreatedAt   time.Time `json:"created_at"`
}
