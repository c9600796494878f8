package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a write hits a unique index
	ErrDuplicateKey = errors.New("duplicate key")
)

// StoreError carries the failing operation and the underlying database error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrap converts a gorm error into a *StoreError, translating the
// sentinel errors callers match on.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		err = ErrDuplicateKey
	}
	return &StoreError{Op: op, Err: err}
}
