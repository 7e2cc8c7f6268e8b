package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on Check
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on Deliver
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx custody.Context, store custody.KVStore, msg custody.Msg, next custody.Checker) (*custody.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, msg)
	}
	var res *custody.CheckResult
	err := isolate(store, func(db custody.KVStore) (err error) {
		res, err = next.Check(ctx, db, msg)
		return err
	})
	return res, err
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx custody.Context, store custody.KVStore, msg custody.Msg, next custody.Deliverer) (*custody.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, msg)
	}
	var res *custody.DeliverResult
	err := isolate(store, func(db custody.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, msg)
		return err
	})
	return res, err
}

// isolate runs fn on a cache wrap of the store. Writes reach the store
// only when fn succeeds. Stores that cannot be cache wrapped are passed
// through unchanged.
func isolate(store custody.KVStore, fn func(custody.KVStore) error) error {
	cstore, ok := store.(custody.CacheableKVStore)
	if !ok {
		return fn(store)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, "writing savepoint")
	}
	return nil
}
