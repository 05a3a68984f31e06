package formance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.DocumentStore.
var _ store.DocumentStore = (*Service)(nil)

// documentsAccount holds one metadata key per entity set.
const documentsAccount = "bank:documents"

// revisionKey counts saves on documentsAccount. The stack has no conditional metadata
// write, so a writer compares it with what it saw at Lock time just before saving.
const revisionKey = "revision"

// Service implements store.DocumentStore on top of a Formance Stack ledger.
// Documents live as metadata on a single ledger account, so a multi-set save
// is one AddMetadataToAccount call.
type Service struct {
	client *v3.Formance
	ledger string

	writer *store.ProcessLock
	// set while the writer lock is held
	held     bool
	revision int64
}

// NewService creates a Formance-backed DocumentStore.
// It connects to the stack, creates the ledger if it doesn't already exist, and returns ready to use.
func NewService(ctx context.Context, cfg models.FormanceConfig) (*Service, error) {
	if cfg.StackURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("formance config requires StackURL, ClientID, and ClientSecret")
	}
	if cfg.LedgerName == "" {
		cfg.LedgerName = "bank-ledger"
	}

	zap.L().Info("Connecting to Formance Stack",
		zap.String("stack_url", cfg.StackURL),
		zap.String("ledger", cfg.LedgerName))

	client := v3.New(
		v3.WithServerURL(cfg.StackURL),
		v3.WithSecurity(shared.Security{
			ClientID:     v3.Pointer(cfg.ClientID),
			ClientSecret: v3.Pointer(cfg.ClientSecret),
		}),
	)

	svc := &Service{client: client, ledger: cfg.LedgerName, writer: store.NewProcessLock()}

	if err := svc.ensureLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger exists: %w", err)
	}

	zap.L().Info("Formance service initialized", zap.String("ledger", cfg.LedgerName))
	return svc, nil
}

// ensureLedger creates the ledger if it does not already exist.
func (s *Service) ensureLedger(ctx context.Context) error {
	_, err := s.client.Ledger.V2.CreateLedger(ctx, operations.V2CreateLedgerRequest{
		Ledger: s.ledger,
		V2CreateLedgerRequest: shared.V2CreateLedgerRequest{
			Metadata: map[string]string{
				"application": "bank-ledger-go",
			},
		},
	})
	if err != nil {
		var apiErr *sdkerrors.V2ErrorResponse
		if errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumLedgerAlreadyExists {
			zap.L().Info("Ledger already exists", zap.String("ledger", s.ledger))
			return nil
		}
		return err
	}
	zap.L().Info("Ledger created", zap.String("ledger", s.ledger))
	return nil
}

func (s *Service) Load(ctx context.Context, set store.EntitySet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	meta, err := s.documentsMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return documentFromMeta(meta, set), nil
}

func (s *Service) Save(ctx context.Context, docs map[store.EntitySet][]byte) error {
	if err := store.ValidateDocs(docs); err != nil {
		return err
	}

	meta, err := s.documentsMetadata(ctx)
	if err != nil {
		return err
	}
	next, err := nextRevision(revisionOf(meta), s.held, s.revision)
	if err != nil {
		return err
	}

	body := metaFromDocs(docs)
	body[revisionKey] = strconv.FormatInt(next, 10)

	_, err = s.client.Ledger.V2.AddMetadataToAccount(ctx, operations.V2AddMetadataToAccountRequest{
		Ledger:      s.ledger,
		Address:     documentsAccount,
		RequestBody: body,
	})
	if err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	if s.held {
		s.revision = next
	}
	return nil
}

// Lock serializes writers of this process and records the revision they start from.
// Writers in other processes are caught by the revision check in Save, which fails
// with store.ErrConcurrentWrite instead of overwriting their documents.
func (s *Service) Lock(ctx context.Context) (store.UnlockFunc, error) {
	if err := s.writer.Lock(ctx); err != nil {
		return nil, err
	}

	meta, err := s.documentsMetadata(ctx)
	if err != nil {
		s.writer.Unlock()
		return nil, err
	}
	s.held = true
	s.revision = revisionOf(meta)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.held = false
			s.revision = 0
			s.writer.Unlock()
		})
	}, nil
}

func (s *Service) Ping(ctx context.Context) error {
	_, err := s.documentsMetadata(ctx)
	return err
}

func (s *Service) Name() string { return models.BackendFormance }

// Close is a no-op for the Formance backend (HTTP client needs no teardown).
func (s *Service) Close() {}

func (s *Service) documentsMetadata(ctx context.Context) (map[string]string, error) {
	resp, err := s.client.Ledger.V2.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  s.ledger,
		Address: documentsAccount,
	})
	if err != nil {
		if isNotFoundError(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to get documents account: %w", err)
	}
	return resp.V2AccountResponse.Data.Metadata, nil
}

// ---------- helpers ----------

func documentFromMeta(meta map[string]string, set store.EntitySet) []byte {
	doc, ok := meta[string(set)]
	if !ok || doc == "" {
		return nil
	}
	return []byte(doc)
}

func metaFromDocs(docs map[store.EntitySet][]byte) map[string]string {
	meta := make(map[string]string, len(docs))
	for set, doc := range docs {
		meta[string(set)] = string(doc)
	}
	return meta
}

func revisionOf(meta map[string]string) int64 {
	revision, err := strconv.ParseInt(meta[revisionKey], 10, 64)
	if err != nil {
		return 0
	}
	return revision
}

// nextRevision returns the revision a save should write. A lock holder must still see
// the revision it locked at.
func nextRevision(current int64, held bool, locked int64) (int64, error) {
	if held && current != locked {
		return 0, fmt.Errorf("%w: revision %d, expected %d", store.ErrConcurrentWrite, current, locked)
	}
	return current + 1, nil
}

// isNotFoundError checks whether a Formance SDK error is NOT_FOUND.
func isNotFoundError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumNotFound
}
