package wallet

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func newRouter() *app.Router {
	r := app.NewRouter()
	RegisterRoutes(r)
	return r
}

func callerCtx(caller custody.Address) custody.Context {
	ctx := context.Background()
	if caller != nil {
		ctx = custody.WithCaller(ctx, caller)
	}
	return ctx
}

// counterValue returns the current value of a registered wallet counter.
func counterValue(t testing.TB, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("cannot gather metrics: %s", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q not registered", name)
	return 0
}

func TestDepositHandler(t *testing.T) {
	r := newRouter()
	db := newVault(t, custodytest.Owners(3), 2)
	stranger := custodytest.RandomAddr(t)

	before := counterValue(t, "custody_wallet_deposits_total")

	// anyone can deposit, even anonymously
	for _, caller := range []custody.Address{stranger, nil} {
		_, err := r.Deliver(callerCtx(caller), db, &DepositMsg{Amount: NewAmount(units(5))})
		assert.Nil(t, err)
	}
	res, err := r.Deliver(callerCtx(stranger), db, &DepositMsg{Amount: NewAmount(units(1))})
	assert.Nil(t, err)

	var total Balance
	assert.Nil(t, total.Unmarshal(res.Data))
	assert.Equal(t, 0, total.Amount.BigInt().Cmp(units(11)))
	assert.Equal(t, before+3, counterValue(t, "custody_wallet_deposits_total"))

	// check never counts
	cache := db.CacheWrap()
	_, err = r.Check(callerCtx(stranger), cache, &DepositMsg{Amount: NewAmount(units(1))})
	assert.Nil(t, err)
	cache.Discard()
	assert.Equal(t, before+3, counterValue(t, "custody_wallet_deposits_total"))

	_, err = r.Deliver(callerCtx(stranger), db, &DepositMsg{Amount: NewAmount(units(0))})
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestHandlersRejectForeignMessages(t *testing.T) {
	db := newVault(t, custodytest.Owners(2), 2)
	ctx := callerCtx(custodytest.Owners(2)[0])
	msg := &custodytest.Msg{RoutePath: pathDepositMsg}

	engine := NewApprovalEngine(NewLedger(), NewTransferStore())
	handlers := map[string]custody.Handler{
		"deposit": DepositHandler{ledger: NewLedger()},
		"create":  CreateTransferHandler{engine: engine},
		"approve": ApproveTransferHandler{engine: engine},
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			_, err := h.Check(ctx, db, msg)
			assert.IsErr(t, errors.ErrMsg, err)
			_, err = h.Deliver(ctx, db, msg)
			assert.IsErr(t, errors.ErrMsg, err)
		})
	}
}

func TestTransferHandlers(t *testing.T) {
	owners := custodytest.Owners(3)
	dest := custodytest.RandomAddr(t)
	r := newRouter()
	db := newVault(t, owners, 2)

	_, err := r.Deliver(callerCtx(nil), db, &DepositMsg{Amount: NewAmount(units(20))})
	assert.Nil(t, err)

	created := counterValue(t, "custody_wallet_transfers_created_total")
	approvals := counterValue(t, "custody_wallet_approvals_recorded_total")
	executed := counterValue(t, "custody_wallet_transfers_executed_total")

	// anonymous callers are rejected before the message is inspected
	_, err = r.Deliver(callerCtx(nil), db, &CreateTransferMsg{Destination: dest, Amount: NewAmount(units(0))})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	cache := db.CacheWrap()
	_, err = r.Check(callerCtx(owners[0]), cache, &CreateTransferMsg{Destination: dest, Amount: NewAmount(units(10))})
	assert.Nil(t, err)
	cache.Discard()
	// a discarded check does not allocate an id
	count, err := NewTransferStore().Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)

	res, err := r.Deliver(callerCtx(owners[0]), db, &CreateTransferMsg{Destination: dest, Amount: NewAmount(units(10))})
	assert.Nil(t, err)
	var tr Transfer
	assert.Nil(t, tr.Unmarshal(res.Data))
	assert.Equal(t, uint64(0), tr.ID)
	assert.Equal(t, false, tr.Executed)
	assert.Equal(t, 1, len(tr.Approvals))

	_, err = r.Deliver(callerCtx(nil), db, &ApproveTransferMsg{TransferID: tr.ID})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err = r.Deliver(callerCtx(owners[2]), db, &ApproveTransferMsg{TransferID: tr.ID})
	assert.Nil(t, err)
	assert.Equal(t, "transfer executed", res.Log)
	var done Transfer
	assert.Nil(t, done.Unmarshal(res.Data))
	assert.Equal(t, true, done.Executed)
	assert.Equal(t, 2, len(done.Approvals))

	balance, err := QueryBalance(db)
	assert.Nil(t, err)
	assert.Equal(t, 0, balance.Cmp(units(10)))

	assert.Equal(t, created+1, counterValue(t, "custody_wallet_transfers_created_total"))
	assert.Equal(t, approvals+2, counterValue(t, "custody_wallet_approvals_recorded_total"))
	assert.Equal(t, executed+1, counterValue(t, "custody_wallet_transfers_executed_total"))

	_, err = r.Deliver(callerCtx(owners[1]), db, &ApproveTransferMsg{TransferID: tr.ID})
	assert.IsErr(t, ErrAlreadyExecuted, err)
	_, err = r.Deliver(callerCtx(owners[1]), db, &ApproveTransferMsg{TransferID: 42})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestApproveBelowQuorumIsRecorded(t *testing.T) {
	owners := custodytest.Owners(4)
	r := newRouter()
	db := newVault(t, owners, 3)

	_, err := r.Deliver(callerCtx(nil), db, &DepositMsg{Amount: NewAmount(units(3))})
	assert.Nil(t, err)
	_, err = r.Deliver(callerCtx(owners[3]), db, &CreateTransferMsg{Destination: custodytest.RandomAddr(t), Amount: NewAmount(units(2))})
	assert.Nil(t, err)

	res, err := r.Deliver(callerCtx(owners[1]), db, &ApproveTransferMsg{TransferID: 0})
	assert.Nil(t, err)
	assert.Equal(t, "approval recorded", res.Log)

	var tr Transfer
	assert.Nil(t, tr.Unmarshal(res.Data))
	assert.Equal(t, false, tr.Executed)
	assert.Equal(t, 2, len(tr.Approvals))

	_, err = r.Deliver(callerCtx(owners[1]), db, &ApproveTransferMsg{TransferID: 0})
	assert.IsErr(t, ErrAlreadyApproved, err)

	balance, err := QueryBalance(db)
	assert.Nil(t, err)
	assert.Equal(t, 0, balance.Cmp(units(3)))
}

func TestCheckWritesStayInDiscardedCache(t *testing.T) {
	owners := custodytest.Owners(3)
	r := newRouter()
	db := newVault(t, owners, 2)

	_, err := r.Deliver(callerCtx(nil), db, &DepositMsg{Amount: NewAmount(units(5))})
	assert.Nil(t, err)
	_, err = r.Deliver(callerCtx(owners[0]), db, &CreateTransferMsg{Destination: custodytest.RandomAddr(t), Amount: NewAmount(units(4))})
	assert.Nil(t, err)

	// every check writes to the cache, the approval even executes the transfer
	cache := db.CacheWrap()
	_, err = r.Check(callerCtx(nil), cache, &DepositMsg{Amount: NewAmount(units(1))})
	assert.Nil(t, err)
	_, err = r.Check(callerCtx(owners[1]), cache, &CreateTransferMsg{Destination: custodytest.RandomAddr(t), Amount: NewAmount(units(1))})
	assert.Nil(t, err)
	_, err = r.Check(callerCtx(owners[2]), cache, &ApproveTransferMsg{TransferID: 0})
	assert.Nil(t, err)
	executed, err := QueryTransfer(cache, 0)
	assert.Nil(t, err)
	assert.Equal(t, true, executed.Executed)
	cache.Discard()

	balance, err := QueryBalance(db)
	assert.Nil(t, err)
	assert.Equal(t, 0, balance.Cmp(units(5)))
	pending, err := QueryTransfer(db, 0)
	assert.Nil(t, err)
	assert.Equal(t, false, pending.Executed)
	assert.Equal(t, 1, len(pending.Approvals))
	_, err = QueryTransfer(db, 1)
	assert.IsErr(t, errors.ErrNotFound, err)
}
