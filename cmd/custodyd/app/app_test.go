package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func genesis(t *testing.T, owners []custody.Address, quorum uint32) *app.Genesis {
	t.Helper()
	conf, err := json.Marshal(map[string]interface{}{
		"wallet": wallet.Configuration{Owners: owners, Quorum: quorum},
	})
	require.NoError(t, err)
	return &app.Genesis{
		VaultID:    "custody-test",
		AppOptions: custody.Options{"conf": conf},
	}
}

func tokens(n int64) *big.Int {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), exp)
}

func TestCustodyFlow(t *testing.T) {
	ctx := context.Background()
	owners := custodytest.Owners(6)
	acct9 := custodytest.RandomAddr(t)

	store, err := CommitKVStore("")
	require.NoError(t, err)
	c, err := New(store, log.NewNopLogger())
	require.NoError(t, err)

	_, err = c.Deposit(ctx, owners[0], tokens(1))
	assert.True(t, errors.ErrState.Is(err), "vault must be initialized first")

	_, err = c.InitChain(genesis(t, owners, 2))
	require.NoError(t, err)
	assert.Equal(t, "custody-test", c.ID())

	roster, err := c.Owners()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 4, 8, 16, 32}, roster.Owners)
	assert.Equal(t, uint32(2), roster.Quorum)

	balance, err := c.Deposit(ctx, owners[3], tokens(10))
	require.NoError(t, err)
	assert.Equal(t, tokens(10).String(), balance.String())
	balance, err = c.Deposit(ctx, acct9, tokens(10))
	require.NoError(t, err)
	assert.Equal(t, tokens(20).String(), balance.String())

	_, err = c.CreateTransfer(ctx, acct9, acct9, tokens(10))
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = c.CreateTransfer(ctx, owners[0], acct9, tokens(100))
	assert.True(t, wallet.ErrInsufficientBalance.Is(err))

	// a dry run does not allocate the id
	err = c.Check(ctx, owners[0], &wallet.CreateTransferMsg{Destination: acct9, Amount: wallet.NewAmount(tokens(10))})
	require.NoError(t, err)

	tr, err := c.CreateTransfer(ctx, owners[0], acct9, tokens(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tr.ID)
	assert.False(t, tr.Executed)

	_, err = c.ApproveTransfer(ctx, acct9, tr.ID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tr, err = c.ApproveTransfer(ctx, owners[1], tr.ID)
	require.NoError(t, err)
	assert.True(t, tr.Executed)

	_, err = c.ApproveTransfer(ctx, owners[0], tr.ID)
	assert.True(t, wallet.ErrAlreadyExecuted.Is(err))

	balance, err = c.Balance()
	require.NoError(t, err)
	assert.Equal(t, tokens(10).String(), balance.String())

	pending, err := c.Transfers(true)
	require.NoError(t, err)
	assert.Empty(t, pending)
	all, err := c.Transfers(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := c.Transfer(0)
	require.NoError(t, err)
	assert.Equal(t, 2, len(got.Approvals))
	_, err = c.Transfer(1)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCustodyRejectsNilAmount(t *testing.T) {
	c, err := New(iavlMem(t), log.NewNopLogger())
	require.NoError(t, err)
	_, err = c.InitChain(genesis(t, custodytest.Owners(2), 2))
	require.NoError(t, err)

	// a nil amount is rejected, not dereferenced
	_, err = c.Deposit(context.Background(), nil, nil)
	assert.True(t, errors.ErrAmount.Is(err))
}

func iavlMem(t *testing.T) custody.CommitKVStore {
	t.Helper()
	store, err := CommitKVStore("")
	require.NoError(t, err)
	return store
}

func TestCustodyStateSurvivesRestart(t *testing.T) {
	dir, err := ioutil.TempDir("", "custody")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	dbPath := filepath.Join(dir, "custody.db")

	ctx := context.Background()
	owners := custodytest.Owners(3)

	store, err := CommitKVStore(dbPath)
	require.NoError(t, err)
	c, err := New(store, log.NewNopLogger())
	require.NoError(t, err)
	_, err = c.InitChain(genesis(t, owners, 0))
	require.NoError(t, err)
	_, err = c.Deposit(ctx, owners[0], tokens(5))
	require.NoError(t, err)
	_, err = c.CreateTransfer(ctx, owners[2], owners[0], tokens(1))
	require.NoError(t, err)
	before, err := c.Version()
	require.NoError(t, err)
	store.Close()

	store, err = CommitKVStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	c, err = New(store, log.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "custody-test", c.ID())
	after, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	balance, err := c.Balance()
	require.NoError(t, err)
	assert.Equal(t, tokens(5).String(), balance.String())

	// the next id continues the sequence
	tr, err := c.CreateTransfer(ctx, owners[1], owners[0], tokens(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tr.ID)

	_, err = c.InitChain(genesis(t, owners, 2))
	assert.True(t, errors.ErrState.Is(err))
}

func TestCustodyLogsExecution(t *testing.T) {
	var buf strings.Builder
	owners := custodytest.Owners(2)
	c, err := New(iavlMem(t), log.NewTMLogger(&buf))
	require.NoError(t, err)
	_, err = c.InitChain(genesis(t, owners, 2))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Deposit(ctx, nil, tokens(3))
	require.NoError(t, err)
	tr, err := c.CreateTransfer(ctx, owners[0], owners[1], tokens(2))
	require.NoError(t, err)
	_, err = c.ApproveTransfer(ctx, owners[1], tr.ID)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "transfer executed")
	assert.Contains(t, out, fmt.Sprintf("amount=%s", tokens(2)))
	assert.Contains(t, out, "path=wallet/approve_transfer")
}
