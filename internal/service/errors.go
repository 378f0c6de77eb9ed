package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger failure. Handlers map it to an HTTP status.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindDuplicateName      Kind = "duplicate_name"
	KindCategoryInUse      Kind = "category_in_use"
	KindInsufficientBudget Kind = "insufficient_budget"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindProductNotFound    Kind = "product_not_found"
	KindCategoryNotFound   Kind = "category_not_found"
)

// Error is the typed failure every ledger operation returns for business-rule
// violations. Msg is meant for the end user.
type Error struct {
	Kind  Kind
	Field string // offending input field, InvalidInput only
	Msg   string

	// Disponible/Requerido are set for InsufficientBudget.
	Disponible decimal.Decimal
	Requerido  decimal.Decimal
	// Cantidad is the available stock (InsufficientStock) or the number of
	// blocking products (CategoryInUse).
	Cantidad int64
}

func (e *Error) Error() string { return e.Msg }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrInsufficientStock)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrDuplicateName      = &Error{Kind: KindDuplicateName}
	ErrCategoryInUse      = &Error{Kind: KindCategoryInUse}
	ErrInsufficientBudget = &Error{Kind: KindInsufficientBudget}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock}
	ErrProductNotFound    = &Error{Kind: KindProductNotFound}
	ErrCategoryNotFound   = &Error{Kind: KindCategoryNotFound}
)

func invalidInput(field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Msg: msg}
}

func duplicateName() *Error {
	return &Error{Kind: KindDuplicateName, Msg: "Ya existe una categoría con ese nombre"}
}

func categoryInUse(n int64) *Error {
	return &Error{
		Kind:     KindCategoryInUse,
		Msg:      fmt.Sprintf("No se puede eliminar. La categoría tiene %d producto(s)", n),
		Cantidad: n,
	}
}

func insufficientBudget(disponible, requerido decimal.Decimal) *Error {
	return &Error{
		Kind:       KindInsufficientBudget,
		Msg:        fmt.Sprintf("Presupuesto insuficiente. Disponible: $%s, Necesario: $%s", disponible.StringFixed(2), requerido.StringFixed(2)),
		Disponible: disponible,
		Requerido:  requerido,
	}
}

func insufficientStock(disponible int) *Error {
	return &Error{
		Kind:     KindInsufficientStock,
		Msg:      fmt.Sprintf("Stock insuficiente. Disponible: %d", disponible),
		Cantidad: int64(disponible),
	}
}

func productNotFound() *Error {
	return &Error{Kind: KindProductNotFound, Msg: "Producto no encontrado"}
}

func categoryNotFound() *Error {
	return &Error{Kind: KindCategoryNotFound, Msg: "Categoría no encontrada"}
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
