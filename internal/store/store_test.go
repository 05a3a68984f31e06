package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEntitySetValidate(t *testing.T) {
	for _, set := range AllSets {
		if err := set.Validate(); err != nil {
			t.Errorf("Validate(%q) returned %v", set, err)
		}
	}

	if err := EntitySet("ledgers").Validate(); !errors.Is(err, ErrUnknownEntitySet) {
		t.Errorf("Expected ErrUnknownEntitySet, got %v", err)
	}
}

func TestMemoryStore_LoadMissingSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()

	doc, err := m.Load(context.Background(), Customers)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc != nil {
		t.Errorf("Expected nil document, got %q", doc)
	}
}

func TestMemoryStore_SaveAndLoad(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	err := m.Save(ctx, map[EntitySet][]byte{
		Accounts:     []byte(`[{"id":"a1"}]`),
		Transactions: []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc, err := m.Load(ctx, Accounts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(doc) != `[{"id":"a1"}]` {
		t.Errorf("Unexpected accounts document %q", doc)
	}

	// Returned slices must not alias the stored copy.
	doc[0] = 'X'
	again, _ := m.Load(ctx, Accounts)
	if again[0] != '[' {
		t.Error("Load returned a slice aliasing internal state")
	}
}

func TestMemoryStore_SaveRejectsUnknownSetWithoutWriting(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	err := m.Save(ctx, map[EntitySet][]byte{
		Customers:  []byte(`[]`),
		"branches": []byte(`[]`),
	})
	if !errors.Is(err, ErrUnknownEntitySet) {
		t.Fatalf("Expected ErrUnknownEntitySet, got %v", err)
	}

	doc, _ := m.Load(ctx, Customers)
	if doc != nil {
		t.Errorf("Expected no partial write, got %q", doc)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	m := NewMemoryStore()
	m.Close()

	if _, err := m.Load(context.Background(), Customers); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Expected ErrStoreClosed from Load, got %v", err)
	}
	if err := m.Ping(context.Background()); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Expected ErrStoreClosed from Ping, got %v", err)
	}
}

func TestMemoryStore_LockIsExclusive(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	unlock, err := m.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected second Lock to time out, got %v", err)
	}

	unlock()
	unlock() // second call is a no-op

	again, err := m.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock after unlock failed: %v", err)
	}
	again()
}
