// Package locker contains the default [domain.Locker] implementation, giving
// each key its own context-aware mutex.
package locker

import (
	"context"
	"sync"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"github.com/vinicius-lino-figueiredo/jsondb/pkg/ctxsync"
)

// Locker implements [domain.Locker]. Mutexes are created on demand and
// dropped once nobody holds or waits for them.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lock
}

// lock counts the callers holding or waiting for mu.
type lock struct {
	mu   *ctxsync.Mutex
	refs int
}

// NewLocker returns a new implementation of domain.Locker.
func NewLocker() domain.Locker {
	return &Locker{locks: make(map[string]*lock)}
}

// Lock implements [domain.Locker].
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lk := l.acquire(key)

	if err := lk.mu.LockWithContext(ctx); err != nil {
		l.release(key, lk)
		return nil, err
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			lk.mu.Unlock()
			l.release(key, lk)
		})
	}
	return unlock, nil
}

func (l *Locker) acquire(key string) *lock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &lock{mu: ctxsync.NewMutex()}
		l.locks[key] = lk
	}
	lk.refs++
	return lk
}

func (l *Locker) release(key string, lk *lock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}
