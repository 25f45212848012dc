package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds exposed by the engine. Callers distinguish them with errors.Is;
// the HTTP layer maps them to status codes.
var (
	// ErrNotFound means a referenced package, subscription, grant or user
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a required field is missing or malformed, or an
	// amount is negative. Raised before any mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means a concurrent writer got there first (carry-over
	// race) or the requested change would violate a ledger invariant.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable means the persistence layer failed. The whole
	// transaction has been rolled back; the engine does not retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeError classifies a gorm error into one of the engine's kinds
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
