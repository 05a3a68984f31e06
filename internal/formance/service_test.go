package formance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
)

// ---------- Unit tests for pure helpers (no Formance stack needed) ----------

func TestNewService_MissingCredentials(t *testing.T) {
	_, err := NewService(context.Background(), models.FormanceConfig{StackURL: "http://localhost:8080"})
	if err == nil {
		t.Fatal("expected error for missing client credentials")
	}
}

func TestMetaFromDocs(t *testing.T) {
	meta := metaFromDocs(map[store.EntitySet][]byte{
		store.Accounts:     []byte(`[{"id":"a1"}]`),
		store.Transactions: []byte(`[]`),
	})
	if len(meta) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(meta))
	}
	if meta["accounts"] != `[{"id":"a1"}]` {
		t.Errorf("unexpected accounts value %q", meta["accounts"])
	}
	if meta["transactions"] != `[]` {
		t.Errorf("unexpected transactions value %q", meta["transactions"])
	}
}

func TestDocumentFromMeta(t *testing.T) {
	meta := map[string]string{
		"customers": `[{"id":"c1"}]`,
		"accounts":  "",
	}

	if got := documentFromMeta(meta, store.Customers); string(got) != `[{"id":"c1"}]` {
		t.Errorf("documentFromMeta(customers) = %q", got)
	}
	if got := documentFromMeta(meta, store.Accounts); got != nil {
		t.Errorf("expected nil for empty value, got %q", got)
	}
	if got := documentFromMeta(meta, store.Transactions); got != nil {
		t.Errorf("expected nil for missing key, got %q", got)
	}
	if got := documentFromMeta(nil, store.Transactions); got != nil {
		t.Errorf("expected nil for nil metadata, got %q", got)
	}
}

func TestIsNotFoundError(t *testing.T) {
	notFound := &sdkerrors.V2ErrorResponse{ErrorCode: shared.V2ErrorsEnumNotFound}
	if !isNotFoundError(fmt.Errorf("wrapped: %w", notFound)) {
		t.Error("expected wrapped NOT_FOUND to be detected")
	}
	if isNotFoundError(&sdkerrors.V2ErrorResponse{ErrorCode: shared.V2ErrorsEnumConflict}) {
		t.Error("expected CONFLICT not to be treated as not found")
	}
	if isNotFoundError(errors.New("plain")) {
		t.Error("expected plain error not to be treated as not found")
	}
}

func TestRevisionOf(t *testing.T) {
	if got := revisionOf(map[string]string{}); got != 0 {
		t.Errorf("expected 0 for missing revision, got %d", got)
	}
	if got := revisionOf(map[string]string{revisionKey: "garbage"}); got != 0 {
		t.Errorf("expected 0 for unparsable revision, got %d", got)
	}
	if got := revisionOf(map[string]string{revisionKey: "41"}); got != 41 {
		t.Errorf("expected 41, got %d", got)
	}
}

func TestNextRevision(t *testing.T) {
	next, err := nextRevision(7, true, 7)
	if err != nil || next != 8 {
		t.Fatalf("expected 8, got %d (%v)", next, err)
	}

	if _, err := nextRevision(9, true, 7); !errors.Is(err, store.ErrConcurrentWrite) {
		t.Fatalf("expected ErrConcurrentWrite when another writer moved the revision, got %v", err)
	}

	next, err = nextRevision(9, false, 0)
	if err != nil || next != 10 {
		t.Fatalf("expected unlocked save to bump to 10, got %d (%v)", next, err)
	}
}
