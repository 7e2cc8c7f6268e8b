package app

import (
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Vault executes messages against a committed store. Every call holds a
// single lock for its whole duration, so calls never interleave. Each
// delivered message runs on a cache wrap that is written and committed
// only when the handler succeeds.
type Vault struct {
	mu sync.Mutex

	logger      log.Logger
	store       custody.CommitKVStore
	handler     custody.Handler
	initializer custody.Initializer

	// vaultID is loaded from the store, empty until InitChain succeeds
	vaultID string
}

// NewVault loads the latest committed state of the store and returns a
// host executing messages with given handler.
func NewVault(store custody.CommitKVStore, handler custody.Handler, init custody.Initializer) (*Vault, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "cannot load state")
	}
	v := &Vault{
		logger:      log.NewNopLogger(),
		store:       store,
		handler:     handler,
		initializer: init,
	}
	err := v.read(func(db custody.ReadOnlyKVStore) (err error) {
		v.vaultID, err = loadVaultID(db)
		return err
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// WithLogger sets the logger passed to every handler.
func (v *Vault) WithLogger(logger log.Logger) *Vault {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger = logger
	return v
}

// ID returns the vault id, or an empty string if the vault was not
// initialized yet.
func (v *Vault) ID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vaultID
}

// InitChain stores the genesis state. It can be called only once in the
// lifetime of a store.
func (v *Vault) InitChain(gen *Genesis) (custody.CommitID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.vaultID != "" {
		return custody.CommitID{}, errors.Wrapf(errors.ErrState, "vault %q already initialized", v.vaultID)
	}

	cache := v.store.CacheWrap()
	if err := saveVaultID(cache, gen.VaultID); err != nil {
		cache.Discard()
		return custody.CommitID{}, err
	}
	if v.initializer != nil {
		if err := v.initializer.FromGenesis(gen.AppOptions, cache); err != nil {
			cache.Discard()
			return custody.CommitID{}, errors.Wrap(err, "genesis")
		}
	}
	id, err := v.commit(cache)
	if err != nil {
		return custody.CommitID{}, err
	}
	v.vaultID = gen.VaultID
	v.logger.Info("vault initialized", "vault", v.vaultID, "version", id.Version)
	return id, nil
}

// Deliver executes the message on behalf of the caller and commits the
// result. A nil caller is anonymous. On failure no state change is made.
func (v *Vault) Deliver(ctx custody.Context, caller custody.Address, msg custody.Msg) (*custody.DeliverResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ready(); err != nil {
		return nil, err
	}

	cache := v.store.CacheWrap()
	res, err := v.handler.Deliver(v.context(ctx, caller), cache, msg)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if _, err := v.commit(cache); err != nil {
		return nil, err
	}
	return res, nil
}

// Check executes the message on behalf of the caller without persisting
// any change. Use it to find out if a Deliver call would succeed.
func (v *Vault) Check(ctx custody.Context, caller custody.Address, msg custody.Msg) (*custody.CheckResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ready(); err != nil {
		return nil, err
	}

	cache := v.store.CacheWrap()
	defer cache.Discard()
	return v.handler.Check(v.context(ctx, caller), cache, msg)
}

// Query gives read access to the latest committed state.
func (v *Vault) Query(fn func(db custody.ReadOnlyKVStore) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.read(fn)
}

// LatestVersion returns the version and the merkle root of the committed
// state.
func (v *Vault) LatestVersion() (custody.CommitID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.LatestVersion()
}

func (v *Vault) read(fn func(db custody.ReadOnlyKVStore) error) error {
	cache := v.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

func (v *Vault) ready() error {
	if v.vaultID == "" {
		return errors.Wrap(errors.ErrState, "vault not initialized")
	}
	return nil
}

func (v *Vault) context(ctx custody.Context, caller custody.Address) custody.Context {
	ctx = custody.WithLogger(ctx, v.logger)
	ctx = custody.WithLogInfo(ctx, "vault", v.vaultID)
	if len(caller) != 0 {
		ctx = custody.WithCaller(ctx, caller)
	}
	return ctx
}

// commit writes the cache into the working tree and saves a new version.
// On failure the working tree is reset to the last saved version.
func (v *Vault) commit(cache custody.KVCacheWrap) (custody.CommitID, error) {
	if err := cache.Write(); err != nil {
		v.store.Rollback()
		return custody.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := v.store.Commit()
	if err != nil {
		v.store.Rollback()
		return custody.CommitID{}, errors.Wrap(err, "commit")
	}
	return id, nil
}
