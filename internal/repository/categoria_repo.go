package repository

import (
	"context"

	"wareinc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria.
// Methods suffixed Tx run on the caller's transaction.
type CategoriaRepository interface {
	CreateTx(tx *gorm.DB, c *model.Categoria) error
	UpdateTx(tx *gorm.DB, c *model.Categoria) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	// FindByNombre is an exact, case-sensitive match.
	FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	List(ctx context.Context) ([]model.Categoria, error)
	Count(ctx context.Context) (int64, error)
	// CountProductos returns how many products reference the category.
	CountProductos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepo{db: db}
}

func (r *categoriaRepo) CreateTx(tx *gorm.DB, c *model.Categoria) error {
	return tx.Create(c).Error
}

func (r *categoriaRepo) UpdateTx(tx *gorm.DB, c *model.Categoria) error {
	return tx.Model(&model.Categoria{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"nombre":      c.Nombre,
		"descripcion": c.Descripcion,
		"color":       c.Color,
		"icono":       c.Icono,
	}).Error
}

func (r *categoriaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Categoria{}, "id = ?", id).Error
}

func (r *categoriaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) FindByNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	var c model.Categoria
	if err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) List(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Categoria{}).Count(&n).Error
	return n, err
}

func (r *categoriaRepo) CountProductos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("categoria_id = ?", id).Count(&n).Error
	return n, err
}
