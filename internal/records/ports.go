// Package records defines the record store port implemented by the memory
// and sqlite backends.
package records

import (
	"context"
	"errors"

	"expenses/internal/core"
)

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("expense not found")

// Store is the outbound port for transaction storage. Records are kept in
// insertion order and every mutation is serialized by the implementation.
type Store interface {
	// List returns all records in insertion order.
	List(ctx context.Context) ([]core.Expense, error)

	// Insert appends a fully-stamped record.
	Insert(ctx context.Context, e core.Expense) error

	// Update applies the patch to the record with the given id and returns
	// the updated record. Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, id string, p core.Patch) (core.Expense, error)

	// Delete removes the record with the given id and returns it.
	// Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) (core.Expense, error)

	// Reset removes every record.
	Reset(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
