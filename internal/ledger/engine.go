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

package ledger

import (
	"context"
	"fmt"
	"sync"

	"bank-ledger-go/internal/store"
)

const maxAccountNumberAttempts = 20

// Engine applies customer, account and money-movement rules to snapshots read from a
// DocumentStore. Mutations are serialized by the engine and, across engines and
// processes sharing the store, by the store's writer lock. Queries run concurrently
// with each other but never against a snapshot this engine is half-way through writing.
type Engine struct {
	docs    store.DocumentStore
	ids     IDProvider
	clock   Clock
	numbers AccountNumberGenerator
	fixture *Fixture

	mu sync.RWMutex
}

type Option func(*Engine)

func WithIDProvider(p IDProvider) Option {
	return func(e *Engine) { e.ids = p }
}

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithAccountNumbers(g AccountNumberGenerator) Option {
	return func(e *Engine) { e.numbers = g }
}

// WithFixture replaces the embedded demo fixture used by SeedDemoData.
func WithFixture(f *Fixture) Option {
	return func(e *Engine) { e.fixture = f }
}

func NewEngine(docs store.DocumentStore, opts ...Option) (*Engine, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}

	e := &Engine{
		docs:    docs,
		ids:     NewUUIDProvider(),
		clock:   NewSystemClock(),
		numbers: NewRandomAccountNumbers(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.fixture == nil {
		fixture, err := DefaultFixture()
		if err != nil {
			return nil, err
		}
		e.fixture = fixture
	}
	return e, nil
}

// read loads the named sets under the shared lock.
func (e *Engine) read(ctx context.Context, sets ...store.EntitySet) (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return loadSnapshot(ctx, e.docs, sets...)
}

// mutate runs fn against a fresh snapshot under the exclusive lock and persists the
// sets fn touched. The store's writer lock is held from load to save. Nothing is
// written if fn fails.
func (e *Engine) mutate(ctx context.Context, sets []store.EntitySet, fn func(*Snapshot) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	unlock, err := e.docs.Lock(ctx)
	if err != nil {
		return fmt.Errorf("unable to lock document store: %w", err)
	}
	defer unlock()

	snap, err := loadSnapshot(ctx, e.docs, sets...)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return saveSnapshot(ctx, e.docs, snap)
}

func (e *Engine) uniqueAccountNumber(snap *Snapshot) (string, error) {
	for i := 0; i < maxAccountNumberAttempts; i++ {
		number := e.numbers.Next()
		if !snap.hasAccountNumber(number) {
			return number, nil
		}
	}
	return "", ErrAccountNumberExhausted
}

// Ping reports whether the underlying store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.docs.Ping(ctx)
}

// Backend names the underlying store.
func (e *Engine) Backend() string {
	return e.docs.Name()
}
