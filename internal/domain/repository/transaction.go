package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrDuplicateKey is returned by repositories when an insert or update violates a unique index
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn inside one database transaction. The transaction travels in the context
// handed to fn; every repository call made with that context joins it. Calling WithinTransaction
// again with a transactional context opens a savepoint, so a failure in fn rolls back only the
// nested work.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type endHooksKey struct{}

type endHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithTransactionEnd prepares ctx for an outermost transaction. Transactor implementations call
// finish once that transaction has committed or rolled back.
func WithTransactionEnd(ctx context.Context) (_ context.Context, finish func()) {
	hooks := &endHooks{}
	return context.WithValue(ctx, endHooksKey{}, hooks), func() {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	}
}

// OnTransactionEnd defers fn until the outermost transaction carried by ctx has finished, so work
// done inside savepoints is released only once it is committed. It reports false when ctx
// carries no transaction and the caller must run fn itself.
func OnTransactionEnd(ctx context.Context, fn func()) bool {
	hooks, ok := ctx.Value(endHooksKey{}).(*endHooks)
	if !ok {
		return false
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
	return true
}
