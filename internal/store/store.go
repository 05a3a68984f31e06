package store

import (
	"context"
	"errors"
	"fmt"
)

// EntitySet names one of the top-level record collections.
type EntitySet string

const (
	Customers    EntitySet = "customers"
	Accounts     EntitySet = "accounts"
	Transactions EntitySet = "transactions"
)

// AllSets lists every entity set in a stable order.
var AllSets = []EntitySet{Customers, Accounts, Transactions}

// Sentinel errors shared across all backend implementations.
var (
	ErrUnknownEntitySet = errors.New("unknown entity set")
	ErrStoreClosed      = errors.New("document store closed")
	ErrConcurrentWrite  = errors.New("documents changed by another writer")
)

// UnlockFunc releases a writer lock taken with DocumentStore.Lock. It is safe to call once.
type UnlockFunc func()

// Validate returns ErrUnknownEntitySet for anything that is not one of AllSets.
func (s EntitySet) Validate() error {
	switch s {
	case Customers, Accounts, Transactions:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEntitySet, string(s))
}

// ValidateDocs checks every key of a Save payload.
func ValidateDocs(docs map[EntitySet][]byte) error {
	for set := range docs {
		if err := set.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DocumentStore defines the contract that every backend (memory, file, SQLite, Postgres,
// Formance) must satisfy. A document is the JSON array encoding of one entity set.
type DocumentStore interface {
	// Load returns the document for set, or nil with no error if it was never written.
	Load(ctx context.Context, set EntitySet) ([]byte, error)

	// Save overwrites every set in docs in one step: either all of them are replaced or none.
	Save(ctx context.Context, docs map[EntitySet][]byte) error

	// Lock takes the store-wide writer lock. Writers sharing one store (several engines, or
	// several processes on the same directory or database) hold it from their first Load to
	// their Save so no read-modify-write cycle overwrites another.
	Lock(ctx context.Context) (UnlockFunc, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and health output.
	Name() string

	Close()
}
