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

package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"bank-ledger-go/internal/models"
	"bank-ledger-go/internal/store"

	"go.uber.org/zap"
)

const lockFileName = ".lock"

// Compile-time check: *Store must satisfy store.DocumentStore.
var _ store.DocumentStore = (*Store)(nil)

// Store keeps one JSON file per entity set under a data directory.
type Store struct {
	dir    string
	mu     sync.Mutex
	writer *store.FileLock
}

func NewStore(cfg models.StoreConfig) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create data directory %s: %w", cfg.DataDir, err)
	}

	zap.L().Info("File store initialized", zap.String("dir", cfg.DataDir))
	return &Store{
		dir:    cfg.DataDir,
		writer: store.NewFileLock(filepath.Join(cfg.DataDir, lockFileName)),
	}, nil
}

func (s *Store) path(set store.EntitySet) string {
	return filepath.Join(s.dir, string(set)+".json")
}

func (s *Store) Load(_ context.Context, set store.EntitySet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(set))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", set, err)
	}
	return data, nil
}

// Save stages every document in a synced temp file before renaming any of them,
// so an encode or write failure leaves all existing files untouched. Renames run in
// AllSets order, transactions last. If one fails, the sets already renamed are put
// back to their previous contents; only a crash between renames can leave a mix.
func (s *Store) Save(ctx context.Context, docs map[store.EntitySet][]byte) error {
	if err := store.ValidateDocs(docs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[store.EntitySet]string, len(docs))
	cleanup := func() {
		for _, tmp := range staged {
			if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
				zap.L().Warn("Failed to remove temp file", zap.String("file", tmp), zap.Error(err))
			}
		}
	}

	previous := make(map[store.EntitySet][]byte, len(docs))
	for _, set := range store.AllSets {
		doc, ok := docs[set]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		prev, err := s.Load(ctx, set)
		if err != nil {
			cleanup()
			return err
		}
		previous[set] = prev

		tmp, err := s.writeTemp(set, doc)
		if err != nil {
			cleanup()
			return err
		}
		staged[set] = tmp
	}

	var replaced []store.EntitySet
	for _, set := range store.AllSets {
		tmp, ok := staged[set]
		if !ok {
			continue
		}
		if err := os.Rename(tmp, s.path(set)); err != nil {
			cleanup()
			s.restore(replaced, previous)
			return fmt.Errorf("unable to replace %s: %w", set, err)
		}
		delete(staged, set)
		replaced = append(replaced, set)
	}
	return nil
}

// restore puts back the documents a failed Save had already replaced.
func (s *Store) restore(sets []store.EntitySet, previous map[store.EntitySet][]byte) {
	for _, set := range sets {
		var err error
		if prev := previous[set]; prev == nil {
			err = os.Remove(s.path(set))
		} else {
			var tmp string
			if tmp, err = s.writeTemp(set, prev); err == nil {
				if err = os.Rename(tmp, s.path(set)); err != nil {
					_ = os.Remove(tmp)
				}
			}
		}
		if err != nil {
			zap.L().Error("Failed to restore document after partial save",
				zap.String("set", string(set)),
				zap.Error(err))
		}
	}
}

func (s *Store) writeTemp(set store.EntitySet, doc []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, string(set)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("unable to create temp file for %s: %w", set, err)
	}
	name := f.Name()

	if _, err := f.Write(doc); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("unable to write %s: %w", set, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("unable to sync %s: %w", set, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("unable to close %s: %w", set, err)
	}
	return name, nil
}

// Lock takes an flock on DATA_DIR/.lock so other processes using the same directory wait too.
func (s *Store) Lock(ctx context.Context) (store.UnlockFunc, error) {
	return s.writer.Lock(ctx)
}

func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) Name() string { return models.BackendFile }

func (s *Store) Close() {}
