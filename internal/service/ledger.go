package service

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Ledger owns write access to the inventory ledger: products, categories,
// sales, purchases and the presupuesto. Every mutating operation runs through
// Ejecutar, which serialises writers in this process and wraps the work in one
// transaction. Writers in other processes are serialised on the presupuesto
// row lock taken by the cash-moving operations.
type Ledger struct {
	mu sync.Mutex
	db *gorm.DB
}

// NewLedger returns a Ledger over db. A nil db runs operations without a
// transaction (unit tests with in-memory repositories).
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Ejecutar runs fn under the writer lock inside a transaction. An error from
// fn rolls everything back.
func (l *Ledger) Ejecutar(ctx context.Context, fn func(tx *gorm.DB) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return runTx(ctx, l.db, fn)
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
