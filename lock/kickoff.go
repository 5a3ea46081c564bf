package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunExclusive is the startup pattern the lock exists for: generate a fresh
// owner token, attempt the acquire, and dispatch the job only when this
// process won. The lock is released when the job returns; if the process
// crashes first, the TTL reclaims it.
//
// The job must be safely re-runnable if it outlives the TTL: another instance
// may legitimately acquire and run while a slow holder is still finishing.
// Returns true when the job was dispatched by this call.
func RunExclusive(ctx context.Context, l *KickoffLock, ttl time.Duration, job func(ctx context.Context) error) (bool, error) {
	token := uuid.NewString()

	if !l.Acquire(ctx, token, ttl) {
		return false, nil
	}
	defer l.Release(ctx, token)

	return true, job(ctx)
}
