package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wareinc/internal/dto"
	"wareinc/internal/model"
	"wareinc/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const extensionRespaldo = ".json"

// RespaldoService snapshots the ledger to dated files and starts new periods.
type RespaldoService interface {
	// GuardarPeriodo writes a snapshot. An empty nombre yields
	// inventario_YYYY_MM_Month.json; existing files are never overwritten.
	GuardarPeriodo(ctx context.Context, nombre string) (*dto.RespaldoResponse, error)
	// NuevoPeriodo snapshots first, then empties the ledger, optionally
	// carrying categories, products (same IDs) and the balance forward.
	NuevoPeriodo(ctx context.Context, req dto.NuevoPeriodoRequest) (*dto.NuevoPeriodoResponse, error)
	// Listar returns snapshot files, newest first.
	Listar(ctx context.Context) ([]dto.RespaldoResponse, error)
}

type respaldoService struct {
	ledger         *Ledger
	repo           repository.RespaldoRepository
	presupuesto    repository.PresupuestoRepository
	dir            string
	capitalInicial decimal.Decimal
	now            func() time.Time
}

func NewRespaldoService(
	ledger *Ledger,
	repo repository.RespaldoRepository,
	presupuesto repository.PresupuestoRepository,
	dir string,
	capitalInicial decimal.Decimal,
) RespaldoService {
	return &respaldoService{
		ledger:         ledger,
		repo:           repo,
		presupuesto:    presupuesto,
		dir:            dir,
		capitalInicial: capitalInicial,
		now:            time.Now,
	}
}

func (s *respaldoService) GuardarPeriodo(ctx context.Context, nombre string) (*dto.RespaldoResponse, error) {
	archivo, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer datos para respaldo: %w", err)
	}
	return s.escribir(archivo, nombre)
}

func (s *respaldoService) NuevoPeriodo(ctx context.Context, req dto.NuevoPeriodoRequest) (*dto.NuevoPeriodoResponse, error) {
	var (
		respaldo *dto.RespaldoResponse
		capital  decimal.Decimal
	)
	err := s.ledger.Ejecutar(ctx, func(tx *gorm.DB) error {
		// Hold the balance lock so no sale or purchase lands between the
		// snapshot and the wipe.
		if _, err := s.presupuesto.GetForUpdateTx(tx); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("leer presupuesto: %w", err)
		}
		archivo, err := s.repo.SnapshotTx(tx)
		if err != nil {
			return fmt.Errorf("leer datos para respaldo: %w", err)
		}
		if respaldo, err = s.escribir(archivo, ""); err != nil {
			return err
		}

		if err := s.repo.LimpiarTx(tx); err != nil {
			return fmt.Errorf("limpiar periodo: %w", err)
		}
		if req.MantenerProductos {
			err = s.repo.RestaurarCatalogoTx(tx, archivo.Categorias, archivo.Productos)
		} else {
			err = s.repo.RestaurarCatalogoTx(tx, model.CategoriasPorDefecto(), nil)
		}
		if err != nil {
			return fmt.Errorf("restaurar catálogo: %w", err)
		}

		capital = s.capitalInicial
		if req.MantenerPresupuesto && archivo.Presupuesto != nil {
			capital = archivo.Presupuesto.Capital
		}
		return s.presupuesto.SetTx(tx, capital)
	})
	if err != nil {
		return nil, err
	}
	return &dto.NuevoPeriodoResponse{
		Respaldo: *respaldo,
		Capital:  dto.PresupuestoResponse{Capital: capital, UltimaActualizacion: s.now()},
	}, nil
}

func (s *respaldoService) Listar(_ context.Context) ([]dto.RespaldoResponse, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []dto.RespaldoResponse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listar respaldos: %w", err)
	}
	out := make([]dto.RespaldoResponse, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != extensionRespaldo {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		out = append(out, dto.RespaldoResponse{
			Nombre:     e.Name(),
			Ruta:       filepath.Join(s.dir, e.Name()),
			Tamano:     info.Size(),
			Modificado: info.ModTime(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Modificado.Equal(out[j].Modificado) {
			return out[i].Nombre > out[j].Nombre
		}
		return out[i].Modificado.After(out[j].Modificado)
	})
	return out, nil
}

// escribir stores archivo under a free file name. The data goes to a temp file
// first and is renamed into place once synced.
func (s *respaldoService) escribir(archivo *dto.RespaldoArchivo, nombre string) (*dto.RespaldoResponse, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de respaldos: %w", err)
	}
	data, err := json.MarshalIndent(archivo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializar respaldo: %w", err)
	}

	ruta := s.rutaLibre(nombre)
	tmp, err := os.CreateTemp(s.dir, ".respaldo-*")
	if err != nil {
		return nil, fmt.Errorf("crear respaldo: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("escribir respaldo: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("escribir respaldo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("escribir respaldo: %w", err)
	}
	if err := os.Rename(tmp.Name(), ruta); err != nil {
		return nil, fmt.Errorf("guardar respaldo: %w", err)
	}

	info, err := os.Stat(ruta)
	if err != nil {
		return nil, fmt.Errorf("guardar respaldo: %w", err)
	}
	return &dto.RespaldoResponse{
		Nombre:     filepath.Base(ruta),
		Ruta:       ruta,
		Tamano:     info.Size(),
		Modificado: info.ModTime(),
	}, nil
}

// rutaLibre picks the target path for a snapshot, adding a timestamp (and a
// counter if needed) when the name is already taken.
func (s *respaldoService) rutaLibre(nombre string) string {
	now := s.now()
	base := strings.TrimSuffix(filepath.Base(strings.TrimSpace(nombre)), extensionRespaldo)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "inventario_" + now.Format("2006_01_January")
	}

	ruta := filepath.Join(s.dir, base+extensionRespaldo)
	if !existe(ruta) {
		return ruta
	}
	base = base + "_" + now.Format("20060102_150405")
	ruta = filepath.Join(s.dir, base+extensionRespaldo)
	for i := 2; existe(ruta); i++ {
		ruta = filepath.Join(s.dir, fmt.Sprintf("%s_%d%s", base, i, extensionRespaldo))
	}
	return ruta
}

func existe(ruta string) bool {
	_, err := os.Stat(ruta)
	return err == nil
}
