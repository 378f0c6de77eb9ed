package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"wareinc/internal/dto"
	"wareinc/internal/model"
	"wareinc/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var colorHex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error)
}

type categoriaService struct {
	ledger *Ledger
	repo   repository.CategoriaRepository
}

func NewCategoriaService(ledger *Ledger, repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{ledger: ledger, repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Color:       c.Color,
		Icono:       c.Icono,
		CreatedAt:   c.CreatedAt,
	}
}

// normalizarCategoria validates the editable fields and fills colour and icon
// defaults.
func normalizarCategoria(nombre, descripcion, color, icono string) (*model.Categoria, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, invalidInput("nombre", "El nombre de la categoría es obligatorio")
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = model.ColorCategoriaDefecto
	}
	if !colorHex.MatchString(color) {
		return nil, invalidInput("color", "El color debe tener formato #RRGGBB")
	}
	icono = strings.TrimSpace(icono)
	if icono == "" {
		icono = model.IconoCategoriaDefecto
	}
	return &model.Categoria{
		Nombre:      nombre,
		Descripcion: strings.TrimSpace(descripcion),
		Color:       color,
		Icono:       icono,
	}, nil
}

// nombreLibre fails with DuplicateName when another category (other than
// excluir) already uses nombre.
func (s *categoriaService) nombreLibre(ctx context.Context, nombre string, excluir uuid.UUID) error {
	existing, err := s.repo.FindByNombre(ctx, nombre)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("buscar categoría por nombre: %w", err)
	}
	if existing.ID != excluir {
		return duplicateName()
	}
	return nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := normalizarCategoria(req.Nombre, req.Descripcion, req.Color, req.Icono)
	if err != nil {
		return dto.CategoriaResponse{}, err
	}

	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if err := s.nombreLibre(ctx, c.Nombre, uuid.Nil); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, c); err != nil {
			// Another process may have inserted the same name since the check.
			if isUniqueViolation(err) {
				return duplicateName()
			}
			return fmt.Errorf("crear categoría: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := normalizarCategoria(req.Nombre, req.Descripcion, req.Color, req.Icono)
	if err != nil {
		return dto.CategoriaResponse{}, err
	}

	err = s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return categoryNotFound()
		}
		if err != nil {
			return fmt.Errorf("buscar categoría: %w", err)
		}
		if err := s.nombreLibre(ctx, c.Nombre, id); err != nil {
			return err
		}
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		if err := s.repo.UpdateTx(tx, c); err != nil {
			if isUniqueViolation(err) {
				return duplicateName()
			}
			return fmt.Errorf("actualizar categoría: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return categoryNotFound()
			}
			return fmt.Errorf("buscar categoría: %w", err)
		}
		n, err := s.repo.CountProductos(ctx, id)
		if err != nil {
			return fmt.Errorf("contar productos de la categoría: %w", err)
		}
		if n > 0 {
			return categoryInUse(n)
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, len(list))
	for i, c := range list {
		resp[i] = mapCategoria(c)
	}
	return resp, nil
}

func (s *categoriaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, categoryNotFound()
	}
	if err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}
