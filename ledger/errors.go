package ledger

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers branch with errors.Is; the typed errors below
// carry the detail needed for user-facing messages.
var (
	// ErrInvalidInput rejects non-positive prices or quantities. Never
	// retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means no open position exists for the key.
	ErrNotFound = errors.New("position not found")

	// ErrTenantMismatch means a position exists for the symbol and side but
	// belongs to a different tenant. Reported instead of ErrNotFound so
	// callers can render "not your position" rather than "no such position".
	ErrTenantMismatch = errors.New("position held by another tenant")

	// ErrOverSettlement means the requested exit quantity exceeds the held
	// quantity.
	ErrOverSettlement = errors.New("exit quantity exceeds held quantity")
)

// InputError describes which argument was rejected and why.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// OverSettlementError carries the held quantity for user feedback.
type OverSettlementError struct {
	Requested int64
	Held      int64
}

func (e *OverSettlementError) Error() string {
	return fmt.Sprintf("cannot settle %d: only %d held", e.Requested, e.Held)
}

func (e *OverSettlementError) Unwrap() error { return ErrOverSettlement }

// TenantMismatchError names the tenant that actually holds the position.
type TenantMismatchError struct {
	Symbol string
	Side   Side
	Tenant string
	HeldBy string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf("%s %s is held by tenant %s, not %s", e.Symbol, e.Side, e.HeldBy, e.Tenant)
}

func (e *TenantMismatchError) Unwrap() error { return ErrTenantMismatch }
