// Package lock provides a distributed kickoff lock: a single shared key used
// to ensure a startup-triggered one-shot job runs on at most one process
// instance. State lives entirely in an external store, so the guarantee holds
// across independently started replicas, not just goroutines.
package lock

import (
	"context"
	"time"
)

// Store is the narrow key-value surface the lock needs. Every operation must
// be a single atomic round-trip against the backend; approximating
// SetIfAbsent or CompareAndDelete with read-then-write reintroduces exactly
// the race this package exists to remove.
type Store interface {
	// SetIfAbsent atomically creates key=value with the given TTL, returning
	// true only when the key did not exist.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// CompareAndDelete atomically deletes key only if its current value
	// equals the given value, returning true when a delete happened.
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)

	// Exists reports whether the key currently exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// KickoffLock is a non-blocking mutual-exclusion key. Acquire fails fast when
// the lock is held and the record self-expires via TTL, so a crashed holder
// can never wedge the system. There is exactly one key, acquired without
// waiting, so no deadlock is possible.
type KickoffLock struct {
	store Store
	key   string
}

// New returns a lock over the given store and key.
func New(store Store, key string) *KickoffLock {
	return &KickoffLock{store: store, key: key}
}

// Key returns the shared key this lock coordinates on.
func (l *KickoffLock) Key() string {
	return l.key
}

// Acquire attempts to take the lock with the caller's owner token. It returns
// true only for the single caller that transitions the lock from free to
// held. Store failures count as not acquired: we must never dispatch the
// guarded job on a store we cannot see.
func (l *KickoffLock) Acquire(ctx context.Context, token string, ttl time.Duration) bool {
	if token == "" || ttl <= 0 {
		return false
	}

	ok, err := l.store.SetIfAbsent(ctx, l.key, token, ttl)
	if err != nil {
		return false
	}
	return ok
}

// Release frees the lock only when the caller still owns it. The compare and
// the delete happen in one server-side step, so a holder whose TTL already
// lapsed cannot delete a lock a new owner re-acquired in the meantime. Store
// failures count as not released.
func (l *KickoffLock) Release(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	ok, err := l.store.CompareAndDelete(ctx, l.key, token)
	if err != nil {
		return false
	}
	return ok
}

// IsBusy reports whether any process currently holds the lock. Unlike Acquire
// and Release this fails open on store errors: an unreachable coordination
// store must not permanently block a one-shot startup task from ever running.
func (l *KickoffLock) IsBusy(ctx context.Context) bool {
	busy, err := l.store.Exists(ctx, l.key)
	if err != nil {
		return false
	}
	return busy
}
