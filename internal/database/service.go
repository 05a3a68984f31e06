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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.DocumentStore.
var _ store.DocumentStore = (*Service)(nil)

// Service is a SQLite-backed document store. Each entity set is one row.
type Service struct {
	db     *sql.DB
	writer *store.FileLock
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return &Service{
		db:     db,
		writer: store.NewFileLock(cfg.Path + ".lock"),
	}, nil
}

func (s *Service) Load(ctx context.Context, set store.EntitySet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	var document string
	err := s.db.QueryRowContext(ctx, queryGetDocument, string(set)).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", set, err)
	}
	return []byte(document), nil
}

// Save replaces every given set inside one SQL transaction.
func (s *Service) Save(ctx context.Context, docs map[store.EntitySet][]byte) error {
	if err := store.ValidateDocs(docs); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back document save", zap.Error(err))
		}
	}()

	for _, set := range sortedSets(docs) {
		if _, err := tx.ExecContext(ctx, queryUpsertDocument, string(set), string(docs[set])); err != nil {
			return fmt.Errorf("failed to save %s: %w", set, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document save: %w", err)
	}

	zap.L().Debug("Documents saved", zap.Int("sets", len(docs)))
	return nil
}

// Version returns how many times set has been written, or 0 if never.
func (s *Service) Version(ctx context.Context, set store.EntitySet) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, queryGetVersion, string(set)).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read version of %s: %w", set, err)
	}
	return version, nil
}

// Lock holds an flock next to the database file for the whole load-modify-save cycle.
// SQLite's own locks only last one transaction, and the engine reads before it writes.
func (s *Service) Lock(ctx context.Context) (store.UnlockFunc, error) {
	return s.writer.Lock(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) Name() string { return models.BackendSQLite }

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		zap.L().Warn("Failed to close database after init error", zap.Error(err))
	}
}

// sortedSets gives writes a fixed order so concurrent savers lock rows identically.
func sortedSets(docs map[store.EntitySet][]byte) []store.EntitySet {
	sets := make([]store.EntitySet, 0, len(docs))
	for set := range docs {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i] < sets[j] })
	return sets
}
