package app

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// callerWriter stores the caller address under the message path.
type callerWriter struct {
	err error
}

func (c callerWriter) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	if err := c.write(ctx, db, msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, c.err
}

func (c callerWriter) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	if err := c.write(ctx, db, msg); err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	custody.GetLogger(ctx).Info("written")
	return &custody.DeliverResult{Data: []byte(msg.Path())}, nil
}

func (c callerWriter) write(ctx custody.Context, db custody.KVStore, msg custody.Msg) error {
	caller, ok := custody.GetCaller(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	return db.Set([]byte(msg.Path()), caller)
}

func newTestVault(t *testing.T, h custody.Handler) *Vault {
	t.Helper()
	v, err := NewVault(iavl.NewMemCommitStore(), h, dummyInit{})
	require.NoError(t, err)
	return v
}

func initVault(t *testing.T, v *Vault) {
	t.Helper()
	gen, err := LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)
	_, err = v.InitChain(gen)
	require.NoError(t, err)
}

func get(t *testing.T, v *Vault, key string) []byte {
	t.Helper()
	var val []byte
	err := v.Query(func(db custody.ReadOnlyKVStore) (err error) {
		val, err = db.Get([]byte(key))
		return err
	})
	require.NoError(t, err)
	return val
}

func TestVaultInitChain(t *testing.T) {
	v := newTestVault(t, callerWriter{})
	assert.Equal(t, "", v.ID())

	// messages are rejected until the vault is initialized
	_, err := v.Deliver(context.Background(), custodytest.RandomAddr(t), &custodytest.Msg{RoutePath: "a"})
	assert.True(t, errors.ErrState.Is(err))

	initVault(t, v)
	assert.Equal(t, "test-vault-67", v.ID())
	assert.Equal(t, []byte("secret"), get(t, v, dummyKey))

	commit, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), commit.Version)

	gen, err := LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)
	_, err = v.InitChain(gen)
	assert.True(t, errors.ErrState.Is(err))
}

func TestVaultFailedGenesisLeavesNoState(t *testing.T) {
	v := newTestVault(t, callerWriter{})
	gen, err := LoadGenesis("testdata/bad_genesis.json")
	require.NoError(t, err)

	_, err = v.InitChain(gen)
	assert.True(t, errors.ErrInput.Is(err))
	assert.Equal(t, "", v.ID())
	id, err := loadVaultIDFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func loadVaultIDFrom(v *Vault) (id string, err error) {
	err = v.Query(func(db custody.ReadOnlyKVStore) (err error) {
		id, err = loadVaultID(db)
		return err
	})
	return id, err
}

func TestVaultDeliver(t *testing.T) {
	var buf bytes.Buffer
	v := newTestVault(t, callerWriter{}).WithLogger(log.NewTMLogger(&buf))
	initVault(t, v)

	caller := custodytest.RandomAddr(t)
	res, err := v.Deliver(context.Background(), caller, &custodytest.Msg{RoutePath: "first"})
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), res.Data)
	assert.Equal(t, []byte(caller), get(t, v, "first"))

	// each successful delivery is committed
	commit, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), commit.Version)

	// handler logs carry the vault id
	assert.True(t, strings.Contains(buf.String(), "vault=test-vault-67"), buf.String())

	// anonymous callers reach the handler without identity
	_, err = v.Deliver(context.Background(), nil, &custodytest.Msg{RoutePath: "second"})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Nil(t, get(t, v, "second"))
}

func TestVaultFailedDeliverIsDiscarded(t *testing.T) {
	v := newTestVault(t, callerWriter{err: errors.ErrNotFound})
	initVault(t, v)
	before, err := v.LatestVersion()
	require.NoError(t, err)

	_, err = v.Deliver(context.Background(), custodytest.RandomAddr(t), &custodytest.Msg{RoutePath: "failed"})
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Nil(t, get(t, v, "failed"))

	after, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVaultCheckIsNeverPersisted(t *testing.T) {
	v := newTestVault(t, callerWriter{})
	initVault(t, v)

	_, err := v.Check(context.Background(), custodytest.RandomAddr(t), &custodytest.Msg{RoutePath: "dry"})
	require.NoError(t, err)
	assert.Nil(t, get(t, v, "dry"))

	commit, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), commit.Version)
}

func TestVaultSerializesCalls(t *testing.T) {
	v := newTestVault(t, callerWriter{})
	initVault(t, v)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := &custodytest.Msg{RoutePath: "w" + string(rune('a'+i))}
			if _, err := v.Deliver(context.Background(), custodytest.SeededKey(byte(i+1)).PublicKey().Address(), msg); err != nil {
				t.Errorf("worker %d: %+v", i, err)
			}
		}(i)
	}
	wg.Wait()

	commit, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1+workers), commit.Version)
}

// flakyCommitStore fails the next Commit call once armed.
type flakyCommitStore struct {
	iavl.CommitStore
	fail *bool
}

func (s flakyCommitStore) Commit() (custody.CommitID, error) {
	if *s.fail {
		*s.fail = false
		return custody.CommitID{}, errors.Wrap(errors.ErrDatabase, "disk full")
	}
	return s.CommitStore.Commit()
}

func TestVaultFailedCommitIsRolledBack(t *testing.T) {
	var fail bool
	store := flakyCommitStore{CommitStore: iavl.NewMemCommitStore(), fail: &fail}
	v, err := NewVault(store, callerWriter{}, dummyInit{})
	require.NoError(t, err)
	initVault(t, v)

	fail = true
	_, err = v.Deliver(context.Background(), custodytest.RandomAddr(t), &custodytest.Msg{RoutePath: "a/b"})
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Nil(t, get(t, v, "a/b"))

	commit, err := v.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), commit.Version)

	// the rejected write does not ride along with the next commit
	caller := custodytest.RandomAddr(t)
	_, err = v.Deliver(context.Background(), caller, &custodytest.Msg{RoutePath: "c"})
	require.NoError(t, err)
	assert.Nil(t, get(t, v, "a/b"))
	assert.Equal(t, []byte(caller), get(t, v, "c"))
}

func TestVaultFailedGenesisCommitIsRolledBack(t *testing.T) {
	fail := true
	store := flakyCommitStore{CommitStore: iavl.NewMemCommitStore(), fail: &fail}
	v, err := NewVault(store, callerWriter{}, dummyInit{})
	require.NoError(t, err)

	gen, err := LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)
	_, err = v.InitChain(gen)
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Equal(t, "", v.ID())
	assert.Nil(t, get(t, v, dummyKey))

	// genesis can be retried once the store recovers
	_, err = v.InitChain(gen)
	require.NoError(t, err)
	assert.Equal(t, "test-vault-67", v.ID())
}
