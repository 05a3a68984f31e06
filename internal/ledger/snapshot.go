package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"
)

// Snapshot is the in-memory copy of the entity sets read at the start of an operation.
// Only sets marked dirty are written back.
type Snapshot struct {
	Customers    []models.Customer
	Accounts     []models.Account
	Transactions []models.Transaction

	dirty map[store.EntitySet]bool
}

func (s *Snapshot) touch(sets ...store.EntitySet) {
	if s.dirty == nil {
		s.dirty = make(map[store.EntitySet]bool, len(sets))
	}
	for _, set := range sets {
		s.dirty[set] = true
	}
}

func (s *Snapshot) customerIndex(id string) int {
	for i := range s.Customers {
		if s.Customers[i].Id == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) accountIndex(id string) int {
	for i := range s.Accounts {
		if s.Accounts[i].Id == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) hasAccountNumber(number string) bool {
	for i := range s.Accounts {
		if s.Accounts[i].AccountNumber == number {
			return true
		}
	}
	return false
}

func loadSnapshot(ctx context.Context, docs store.DocumentStore, sets ...store.EntitySet) (*Snapshot, error) {
	snap := &Snapshot{}
	for _, set := range sets {
		raw, err := docs.Load(ctx, set)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", set, err)
		}
		if len(raw) == 0 {
			continue
		}

		var target any
		switch set {
		case store.Customers:
			target = &snap.Customers
		case store.Accounts:
			target = &snap.Accounts
		case store.Transactions:
			target = &snap.Transactions
		default:
			return nil, set.Validate()
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", set, err)
		}
	}
	return snap, nil
}

// saveSnapshot writes every dirty set in one DocumentStore.Save call.
func saveSnapshot(ctx context.Context, docs store.DocumentStore, snap *Snapshot) error {
	if len(snap.dirty) == 0 {
		return nil
	}

	payload := make(map[store.EntitySet][]byte, len(snap.dirty))
	for set := range snap.dirty {
		var (
			raw []byte
			err error
		)
		switch set {
		case store.Customers:
			raw, err = encodeSet(snap.Customers)
		case store.Accounts:
			raw, err = encodeSet(snap.Accounts)
		case store.Transactions:
			raw, err = encodeSet(snap.Transactions)
		default:
			return set.Validate()
		}
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", set, err)
		}
		payload[set] = raw
	}

	if err := docs.Save(ctx, payload); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// encodeSet renders records as an indented JSON array; an empty set is [] rather than null.
func encodeSet[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.MarshalIndent(records, "", "  ")
}
