// Package mutation executes state-changing backend calls and ties them to
// cache invalidation. Each mutation is a single atomic HTTP call: on success
// its declared cache-key prefixes are invalidated, on failure nothing is
// touched. There is no optimistic apply-then-revert.
package mutation

import (
	"context"
	"sync/atomic"

	"estate-front/internal/cache"

	"go.uber.org/zap"
)

// Func performs the HTTP call and returns its decoded result.
type Func func(ctx context.Context) (interface{}, error)

// Runner runs mutations against a cache store.
//
// Concurrent invocations are not serialized here; callers disable the
// triggering control while Pending reports true. That is a documented caller
// responsibility, not a guarantee of this layer.
type Runner struct {
	store   *cache.Store
	logger  *zap.Logger
	pending atomic.Int32
}

// NewRunner creates a runner bound to store.
func NewRunner(store *cache.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

// Pending reports whether any mutation started by this runner has not yet
// settled.
func (r *Runner) Pending() bool {
	return r.pending.Load() > 0
}

// Do executes fn and, on success, invalidates every declared prefix. The
// result and error are returned to the caller to branch on explicitly.
func (r *Runner) Do(ctx context.Context, fn Func, invalidates ...cache.Key) (interface{}, error) {
	r.pending.Add(1)
	defer r.pending.Add(-1)

	result, err := fn(ctx)
	if err != nil {
		r.logger.Debug("mutation failed", zap.Error(err))
		return nil, err
	}

	for _, prefix := range invalidates {
		r.store.Invalidate(prefix)
	}
	return result, nil
}
