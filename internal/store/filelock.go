package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const fileLockRetryDelay = 20 * time.Millisecond

// FileLock is a writer lock shared by every process that opens the same lock file.
// Goroutines in one process queue on a ProcessLock first, since an flock held by
// this process would not stop them.
type FileLock struct {
	writer *ProcessLock
	flock  *flock.Flock
}

func NewFileLock(path string) *FileLock {
	return &FileLock{
		writer: NewProcessLock(),
		flock:  flock.New(path),
	}
}

func (l *FileLock) Lock(ctx context.Context) (UnlockFunc, error) {
	if err := l.writer.Lock(ctx); err != nil {
		return nil, err
	}

	locked, err := l.flock.TryLockContext(ctx, fileLockRetryDelay)
	if err != nil || !locked {
		l.writer.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("unable to lock %s: %w", l.flock.Path(), err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := l.flock.Unlock(); err != nil {
				zap.L().Warn("Failed to release lock file", zap.String("file", l.flock.Path()), zap.Error(err))
			}
			l.writer.Unlock()
		})
	}, nil
}
