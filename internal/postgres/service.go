/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.DocumentStore.
var _ store.DocumentStore = (*Service)(nil)

// writerLockKey is the advisory lock id every bank-ledger writer takes ("bank" in ASCII).
const writerLockKey int64 = 0x62616e6b

const (
	queryLock   = `SELECT pg_advisory_lock($1)`
	queryUnlock = `SELECT pg_advisory_unlock($1)`

	schema = `
	CREATE TABLE IF NOT EXISTS entity_sets (
		name TEXT PRIMARY KEY,
		document JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	queryGetDocument = `
		SELECT document::text
		FROM entity_sets
		WHERE name = $1`

	queryUpsertDocument = `
		INSERT INTO entity_sets (name, document, version, updated_at)
		VALUES ($1, $2::text::jsonb, 1, now())
		ON CONFLICT (name) DO UPDATE SET
			document = excluded.document,
			version = entity_sets.version + 1,
			updated_at = now()`
)

// Service is a PostgreSQL-backed document store, one row per entity set.
type Service struct {
	pool   *pgxpool.Pool
	writer *store.ProcessLock
}

func NewService(ctx context.Context, cfg models.PostgresConfig) (*Service, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres connection string cannot be empty")
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	zap.L().Info("Connecting to PostgreSQL",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database))

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("PostgreSQL service initialized successfully")
	return &Service{
		pool:   pool,
		writer: store.NewProcessLock(),
	}, nil
}

func (s *Service) Load(ctx context.Context, set store.EntitySet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	var document string
	err := s.pool.QueryRow(ctx, queryGetDocument, string(set)).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", set, err)
	}
	return []byte(document), nil
}

func (s *Service) Save(ctx context.Context, docs map[store.EntitySet][]byte) error {
	if err := store.ValidateDocs(docs); err != nil {
		return err
	}

	sets := make([]store.EntitySet, 0, len(docs))
	for set := range docs {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i] < sets[j] })

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, set := range sets {
			if _, err := tx.Exec(ctx, queryUpsertDocument, string(set), string(docs[set])); err != nil {
				return fmt.Errorf("failed to save %s: %w", set, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("document save rolled back: %w", err)
	}
	return nil
}

// Lock takes a session advisory lock on a dedicated pooled connection, so writers in
// other processes block in pg_advisory_lock until Unlock. Goroutines of this process
// queue first, which keeps them from pinning every pooled connection while they wait.
func (s *Service) Lock(ctx context.Context) (store.UnlockFunc, error) {
	if err := s.writer.Lock(ctx); err != nil {
		return nil, err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		s.writer.Unlock()
		return nil, fmt.Errorf("failed to acquire lock connection: %w", err)
	}
	if _, err := conn.Exec(ctx, queryLock, writerLockKey); err != nil {
		// The session may still get the lock after a cancel; never reuse it.
		_ = conn.Conn().Close(context.Background())
		conn.Release()
		s.writer.Unlock()
		return nil, fmt.Errorf("failed to take writer lock: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if _, err := conn.Exec(context.Background(), queryUnlock, writerLockKey); err != nil {
				zap.L().Warn("Failed to release writer lock, dropping connection", zap.Error(err))
				_ = conn.Conn().Close(context.Background())
			}
			conn.Release()
			s.writer.Unlock()
		})
	}, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Service) Name() string { return models.BackendPostgres }

func (s *Service) Close() {
	s.pool.Close()
}
