package service

import (
	"context"
	"errors"
	"fmt"

	"wareinc/internal/dto"
	"wareinc/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PresupuestoService interface {
	Obtener(ctx context.Context) (*dto.PresupuestoResponse, error)
	// Establecer overwrites the balance outside of any sale or purchase, to
	// reconcile drift. Negative values are rejected.
	Establecer(ctx context.Context, capital decimal.Decimal) (*dto.PresupuestoResponse, error)
}

type presupuestoService struct {
	ledger *Ledger
	repo   repository.PresupuestoRepository
}

func NewPresupuestoService(ledger *Ledger, repo repository.PresupuestoRepository) PresupuestoService {
	return &presupuestoService{ledger: ledger, repo: repo}
}

func (s *presupuestoService) Obtener(ctx context.Context) (*dto.PresupuestoResponse, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer presupuesto: %w", err)
	}
	return &dto.PresupuestoResponse{Capital: p.Capital, UltimaActualizacion: p.UltimaActualizacion}, nil
}

func (s *presupuestoService) Establecer(ctx context.Context, capital decimal.Decimal) (*dto.PresupuestoResponse, error) {
	if capital.IsNegative() {
		return nil, invalidInput("capital", "El presupuesto no puede ser negativo")
	}
	err := s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.GetForUpdateTx(tx); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("leer presupuesto: %w", err)
		}
		return s.repo.SetTx(tx, capital)
	})
	if err != nil {
		return nil, err
	}
	return s.Obtener(ctx)
}
