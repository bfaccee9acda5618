/*
errors.go - Failure taxonomy for ledger operations

PURPOSE:
  Every way a ledger operation can be refused, in one place. None of these
  are fatal: an operation that fails leaves the store exactly as it was and
  reports the error inside its Result.

ERROR CATEGORIES:
  1. Sentinels - match with errors.Is()
  2. Structured errors - carry the ids/quantities involved, Unwrap to a sentinel

USAGE:
  res := engine.CreateSale(ctx, in)
  if errors.Is(res.Err, ledger.ErrInsufficientStock) {
      var ise *ledger.InsufficientStockError
      errors.As(res.Err, &ise)
  }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateSKU is returned when a product is created with an SKU that
	// is already in the catalog.
	ErrDuplicateSKU = errors.New("duplicate sku")

	// ErrNotFound is returned when a product, purchase, sale or customer id
	// does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a sale, tester conversion or
	// purchase reversal needs more sellable units than are available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTesterAlreadyActive is returned when a product already has a tester
	// out and another conversion is attempted.
	ErrTesterAlreadyActive = errors.New("tester already active")

	// ErrNoActiveTester is returned when consuming a tester that does not exist.
	ErrNoActiveTester = errors.New("no active tester")

	// ErrInvalidInput is returned for malformed input (missing name,
	// non-positive quantity, negative price).
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names what was looked up.
type NotFoundError struct {
	Kind string // "product", "purchase", "sale", "customer"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError provides details about a stock shortage.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	if name == "" {
		name = "unknown product"
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("sku %q already exists", e.SKU)
}

func (e *DuplicateSKUError) Unwrap() error { return ErrDuplicateSKU }

// ValidationError reports the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// TesterError covers both tester state violations.
type TesterError struct {
	ProductID   string
	ProductName string
	sentinel    error
}

func (e *TesterError) Error() string {
	if errors.Is(e.sentinel, ErrTesterAlreadyActive) {
		return fmt.Sprintf("%s already has an active tester", e.ProductName)
	}
	return fmt.Sprintf("%s has no active tester to consume", e.ProductName)
}

func (e *TesterError) Unwrap() error { return e.sentinel }

func notFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true for every ledger refusal caused by the request
// itself rather than by infrastructure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateSKU) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrTesterAlreadyActive) ||
		errors.Is(err, ErrNoActiveTester) ||
		errors.Is(err, ErrInvalidInput)
}

// ErrorCode is a stable label for an error, used in metrics and API bodies.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicateSKU):
		return "duplicate_sku"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrTesterAlreadyActive):
		return "tester_already_active"
	case errors.Is(err, ErrNoActiveTester):
		return "no_active_tester"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
