package infra

import (
	"errors"
	"fmt"
	"time"

	"wareinc/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx.
// Productos reference categorias weakly (deleting a category is refused while
// products use it, never cascaded), so GORM must not emit FK constraints.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// RunMigrations creates or updates the ledger tables, then applies the
// idempotent DDL AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Producto{},
		&model.Venta{},
		&model.Compra{},
		&model.Presupuesto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that is safe to re-run on an already-patched DB.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// compras restock by case-insensitive name
		{"idx_productos_nombre_lower",
			`CREATE INDEX IF NOT EXISTS idx_productos_nombre_lower ON productos (lower(nombre))`},
		{"idx_productos_categoria",
			`CREATE INDEX IF NOT EXISTS idx_productos_categoria ON productos (categoria_id)`},
		{"idx_ventas_fecha",
			`CREATE INDEX IF NOT EXISTS idx_ventas_fecha ON ventas (fecha DESC)`},
		{"idx_ventas_producto",
			`CREATE INDEX IF NOT EXISTS idx_ventas_producto ON ventas (producto_id)`},
		{"idx_compras_fecha",
			`CREATE INDEX IF NOT EXISTS idx_compras_fecha ON compras (fecha DESC)`},
		{"chk_presupuesto_singleton", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_presupuesto_singleton') THEN
    ALTER TABLE presupuesto ADD CONSTRAINT chk_presupuesto_singleton CHECK (id = 1);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// Seed initializes a fresh ledger: the presupuesto row with capital and the
// default categories. It only acts when the presupuesto row is missing, so a
// restart never resurrects categories the operator deleted.
func Seed(db *gorm.DB, capital decimal.Decimal) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p model.Presupuesto
		err := tx.First(&p, model.PresupuestoID).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		p = model.Presupuesto{ID: model.PresupuestoID, Capital: capital, UltimaActualizacion: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
			return fmt.Errorf("seed presupuesto: %w", err)
		}

		var n int64
		if err := tx.Model(&model.Categoria{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		cats := model.CategoriasPorDefecto()
		if err := tx.Create(&cats).Error; err != nil {
			return fmt.Errorf("seed categorias: %w", err)
		}
		log.Info().Str("capital", capital.StringFixed(2)).Int("categorias", len(cats)).Msg("ledger initialized")
		return nil
	})
}
