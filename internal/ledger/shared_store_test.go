package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"bank-ledger-go/internal/filestore"
	"bank-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Two engines on one data directory stand in for the server and a CLI running side by side.
func TestTwoEnginesOnOneDataDir_NoLostUpdates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ctx := context.Background()

	newEngine := func() *Engine {
		docs, err := filestore.NewStore(models.StoreConfig{DataDir: dir})
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		e, err := NewEngine(docs)
		if err != nil {
			t.Fatalf("NewEngine failed: %v", err)
		}
		return e
	}
	first, second := newEngine(), newEngine()

	c := mustCreateCustomer(t, first)
	a := mustOpenAccount(t, first, c.Id, models.AccountTypeChecking, "0")

	const deposits = 100
	var wg sync.WaitGroup
	errs := make(chan error, deposits)
	for i := 0; i < deposits; i++ {
		e := first
		if i%2 == 1 {
			e = second
		}
		wg.Add(1)
		go func(e *Engine) {
			defer wg.Done()
			if _, err := e.Deposit(ctx, MovementParams{AccountId: a.Id, Amount: decimal.NewFromInt(1)}); err != nil {
				errs <- err
			}
		}(e)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Deposit failed: %v", err)
	}

	for _, e := range []*Engine{first, second} {
		if got := balanceOf(t, e, a.Id); !got.Equal(decimal.NewFromInt(deposits)) {
			t.Errorf("Expected balance %d, got %s", deposits, got)
		}
		history, err := e.ListAccountTransactions(ctx, a.Id)
		if err != nil {
			t.Fatalf("ListAccountTransactions failed: %v", err)
		}
		if len(history) != deposits {
			t.Errorf("Expected %d transactions, got %d", deposits, len(history))
		}
	}
}
