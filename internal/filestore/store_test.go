package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"
)

func setupTestStore(t *testing.T) (*Store, string) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewStore(models.StoreConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s, dir
}

func TestNewStore_EmptyDir(t *testing.T) {
	if _, err := NewStore(models.StoreConfig{}); err == nil {
		t.Fatal("Expected error for empty data dir")
	}
}

func TestSaveWritesOneFilePerSet(t *testing.T) {
	s, dir := setupTestStore(t)
	ctx := context.Background()

	err := s.Save(ctx, map[store.EntitySet][]byte{
		store.Customers:    []byte(`[{"id":"c1"}]`),
		store.Accounts:     []byte(`[]`),
		store.Transactions: []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "customers.json"))
	if err != nil {
		t.Fatalf("Reading customers.json failed: %v", err)
	}
	if string(raw) != `[{"id":"c1"}]` {
		t.Errorf("Unexpected file content %q", raw)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 files, got %d", len(entries))
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := setupTestStore(t)

	doc, err := s.Load(context.Background(), store.Transactions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc != nil {
		t.Errorf("Expected nil, got %q", doc)
	}
}

func TestSaveCancelledLeavesFilesUntouched(t *testing.T) {
	s, _ := setupTestStore(t)

	if err := s.Save(context.Background(), map[store.EntitySet][]byte{store.Accounts: []byte(`["old"]`)}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Save(ctx, map[store.EntitySet][]byte{
		store.Accounts:     []byte(`["new"]`),
		store.Transactions: []byte(`["new"]`),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	doc, _ := s.Load(context.Background(), store.Accounts)
	if string(doc) != `["old"]` {
		t.Errorf("Accounts changed by failed save: %q", doc)
	}
	doc, _ = s.Load(context.Background(), store.Transactions)
	if doc != nil {
		t.Errorf("Transactions written by failed save: %q", doc)
	}
}

func TestUnknownSet(t *testing.T) {
	s, _ := setupTestStore(t)

	if _, err := s.Load(context.Background(), "ledgers"); !errors.Is(err, store.ErrUnknownEntitySet) {
		t.Errorf("Expected ErrUnknownEntitySet, got %v", err)
	}
}

func TestPing(t *testing.T) {
	s, dir := setupTestStore(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Expected Ping to fail once the directory is gone")
	}
}

func TestLockSharedAcrossStoresOnOneDir(t *testing.T) {
	a, dir := setupTestStore(t)
	b, err := NewStore(models.StoreConfig{DataDir: dir})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	unlock, err := a.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := b.Lock(waitCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected second store to wait for the lock, got %v", err)
	}

	unlock()

	unlockB, err := b.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlockB()
}

func TestSaveRestoresEarlierSetsWhenRenameFails(t *testing.T) {
	s, dir := setupTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, map[store.EntitySet][]byte{
		store.Customers: []byte(`["old customers"]`),
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A non-empty directory where transactions.json belongs makes its rename fail.
	blocker := filepath.Join(dir, "transactions.json")
	if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	err := s.Save(ctx, map[store.EntitySet][]byte{
		store.Customers:    []byte(`["new customers"]`),
		store.Accounts:     []byte(`["new accounts"]`),
		store.Transactions: []byte(`["new transactions"]`),
	})
	if err == nil {
		t.Fatal("Expected Save to fail")
	}

	customers, err := s.Load(ctx, store.Customers)
	if err != nil || string(customers) != `["old customers"]` {
		t.Errorf("Customers not restored: %q (%v)", customers, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "accounts.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Accounts written by the failed save should be removed, stat returned %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}
