package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupTestService(t *testing.T) (*Service, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bank"),
		tcpostgres.WithUsername("db_user"),
		tcpostgres.WithPassword("db_password"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	service, err := NewService(ctx, models.PostgresConfig{
		URL:         dsn,
		MaxConns:    4,
		PingTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	cleanup := func() {
		service.Close()
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return service, cleanup
}

func TestNewService_EmptyURL(t *testing.T) {
	if _, err := NewService(context.Background(), models.PostgresConfig{PingTimeout: time.Second}); err == nil {
		t.Fatal("Expected error for empty connection string")
	}
}

func TestSaveAndLoad(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	doc, err := service.Load(ctx, store.Accounts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc != nil {
		t.Fatalf("Expected nil before first save, got %q", doc)
	}

	err = service.Save(ctx, map[store.EntitySet][]byte{
		store.Accounts:     []byte(`[{"id":"a1","balance":100.5}]`),
		store.Transactions: []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc, err = service.Load(ctx, store.Accounts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// jsonb normalises whitespace, so compare decoded values.
	var accounts []map[string]any
	if err := json.Unmarshal(doc, &accounts); err != nil {
		t.Fatalf("Stored document is not JSON: %v", err)
	}
	if len(accounts) != 1 || accounts[0]["id"] != "a1" || accounts[0]["balance"] != 100.5 {
		t.Errorf("Unexpected accounts document %s", doc)
	}
}

func TestSaveInvalidJSONRollsBackEverySet(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	err := service.Save(ctx, map[store.EntitySet][]byte{
		store.Accounts:     []byte(`[]`),
		store.Transactions: []byte(`not json`),
	})
	if err == nil {
		t.Fatal("Expected save of invalid JSON to fail")
	}

	doc, err := service.Load(ctx, store.Accounts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc != nil {
		t.Errorf("Accounts persisted despite rollback: %q", doc)
	}
}

func TestUnknownSet(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	err := service.Save(context.Background(), map[store.EntitySet][]byte{"ledgers": []byte(`[]`)})
	if !errors.Is(err, store.ErrUnknownEntitySet) {
		t.Errorf("Expected ErrUnknownEntitySet, got %v", err)
	}
}

func TestLock_ExcludesSecondService(t *testing.T) {
	first, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	second, err := NewService(ctx, models.PostgresConfig{
		URL:         first.pool.Config().ConnString(),
		MaxConns:    2,
		PingTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer second.Close()

	unlock, err := first.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := second.Lock(waitCtx); err == nil {
		t.Fatal("Expected second service to block while the lock is held")
	}

	unlock()

	unlockSecond, err := second.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlockSecond()
}
