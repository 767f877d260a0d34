// Package ctxsync contains synchronization primitives that stop waiting when a
// context is done.
package ctxsync

import (
	"context"
)

// NewMutex creates a new instance of Mutex.
func NewMutex() *Mutex {
	return &Mutex{
		held: make(chan struct{}, 1),
	}
}

// A Mutex is a mutual exclusion lock. Holding it means having sent a value to
// the buffered channel. The zero value is not usable; use [NewMutex].
type Mutex struct {
	held chan struct{}
}

// Lock locks m, waiting as long as needed.
func (m *Mutex) Lock() {
	_ = m.LockWithContext(context.Background())
}

// LockWithContext locks m, or returns the context error if ctx is done before
// that. A context that is already done never takes the lock, even if m is
// free.
func (m *Mutex) LockWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.held <- struct{}{}:
		return nil
	}
}

// TryLock tries to lock m and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	select {
	case m.held <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock unlocks m.
func (m *Mutex) Unlock() {
	select {
	case <-m.held:
	default:
		panic("ctxsync: unlock of unlocked mutex")
	}
}
