package store

import "context"

// ProcessLock is a mutex whose Lock gives up when ctx is done. Backends embed it to
// serialize writers inside one process before taking any cross-process lock.
type ProcessLock struct {
	sem chan struct{}
}

func NewProcessLock() *ProcessLock {
	return &ProcessLock{sem: make(chan struct{}, 1)}
}

func (l *ProcessLock) Lock(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *ProcessLock) Unlock() {
	<-l.sem
}
