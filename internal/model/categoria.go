package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ColorCategoriaDefecto = "#3B82F6"
	IconoCategoriaDefecto = "📦"
)

// Categoria groups products for display. Nombre is unique (case-sensitive).
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion string    `gorm:"not null;default:''"`
	Color       string    `gorm:"size:7;not null;default:'#3B82F6'"`
	Icono       string    `gorm:"size:16;not null;default:'📦'"`
	CreatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

// CategoriasPorDefecto is the catalogue seeded on first startup and when a new
// period starts without carrying products forward.
func CategoriasPorDefecto() []Categoria {
	return []Categoria{
		{Nombre: "Electrónica", Descripcion: "Dispositivos y equipos electrónicos", Color: "#3B82F6", Icono: "📱"},
		{Nombre: "Oficina", Descripcion: "Artículos de oficina y papelería", Color: "#10B981", Icono: "🖊️"},
		{Nombre: "Hogar", Descripcion: "Productos para el hogar", Color: "#F59E0B", Icono: "🏠"},
		{Nombre: "Tecnología", Descripcion: "Computadoras y accesorios", Color: "#8B5CF6", Icono: "💻"},
		{Nombre: "Deportes", Descripcion: "Equipamiento deportivo", Color: "#EF4444", Icono: "⚽"},
		{Nombre: "Libros", Descripcion: "Libros y material de lectura", Color: "#06B6D4", Icono: "📚"},
		{Nombre: "Compras", Descripcion: "Productos de compras generales", Color: "#EC4899", Icono: "🛒"},
		{Nombre: "Alimentos", Descripcion: "Alimentos y bebidas", Color: "#84CC16", Icono: "🍎"},
		{Nombre: "Ropa", Descripcion: "Ropa y accesorios", Color: "#F97316", Icono: "👕"},
		{Nombre: "Herramientas", Descripcion: "Herramientas y equipos", Color: "#64748B", Icono: "🔧"},
		{Nombre: "Juguetería", Descripcion: "Juguetes y juegos", Color: "#A855F7", Icono: "🧸"},
		{Nombre: "Farmacia", Descripcion: "Productos de farmacia y salud", Color: "#14B8A6", Icono: "💊"},
	}
}
