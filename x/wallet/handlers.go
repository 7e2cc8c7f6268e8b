package wallet

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry) {
	ledger := NewLedger()
	engine := NewApprovalEngine(ledger, NewTransferStore())
	r.Handle(&DepositMsg{}, DepositHandler{ledger: ledger})
	r.Handle(&CreateTransferMsg{}, CreateTransferHandler{engine: engine})
	r.Handle(&ApproveTransferMsg{}, ApproveTransferHandler{engine: engine})
}

// DepositHandler credits the vault. Deposits are accepted from any caller.
type DepositHandler struct {
	ledger *Ledger
}

var _ custody.Handler = DepositHandler{}

// Check runs the whole deposit against db, writes included. db must be a
// cache wrap that the caller discards afterwards, as Vault.Check does.
func (h DepositHandler) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	if _, err := h.deposit(ctx, db, msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	total, err := h.deposit(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	depositsCounter.Inc()
	raw, err := total.Marshal()
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: raw, Log: "deposit accepted"}, nil
}

func (h DepositHandler) deposit(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*Balance, error) {
	m, ok := msg.(*DepositMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, msg)
	}
	total, err := h.ledger.Deposit(db, m.Amount.BigInt())
	if err != nil {
		return nil, err
	}
	return &Balance{Amount: NewAmount(total)}, nil
}

// CreateTransferHandler lets an owner propose a transfer.
type CreateTransferHandler struct {
	engine *ApprovalEngine
}

var _ custody.Handler = CreateTransferHandler{}

// Check creates the transfer in db and so allocates an id. db must be a
// cache wrap that the caller discards afterwards, as Vault.Check does.
func (h CreateTransferHandler) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	if _, err := h.create(ctx, db, msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h CreateTransferHandler) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	t, err := h.create(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	transfersCreated.Inc()
	approvalsRecorded.Inc()
	custody.GetLogger(ctx).Info("transfer proposed",
		"id", t.ID, "amount", t.Amount.String(), "destination", t.Destination.String())
	return transferResult(t, "transfer created")
}

func (h CreateTransferHandler) create(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*Transfer, error) {
	m, ok := msg.(*CreateTransferMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, msg)
	}
	// Message content is checked by the engine, after the caller.
	caller, ok := custody.GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "anonymous caller")
	}
	return h.engine.CreateTransfer(ctx, db, caller, m.Destination, m.Amount.BigInt())
}

// ApproveTransferHandler records an owner approval and executes the
// transfer once the quorum is reached.
type ApproveTransferHandler struct {
	engine *ApprovalEngine
}

var _ custody.Handler = ApproveTransferHandler{}

// Check records the approval in db and may execute the transfer. db must
// be a cache wrap that the caller discards afterwards.
func (h ApproveTransferHandler) Check(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.CheckResult, error) {
	if _, _, err := h.approve(ctx, db, msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h ApproveTransferHandler) Deliver(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*custody.DeliverResult, error) {
	t, executed, err := h.approve(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	approvalsRecorded.Inc()
	if !executed {
		return transferResult(t, "approval recorded")
	}
	transfersExecuted.Inc()
	custody.GetLogger(ctx).Info("transfer executed",
		"id", t.ID, "amount", t.Amount.String(), "destination", t.Destination.String())
	return transferResult(t, "transfer executed")
}

func (h ApproveTransferHandler) approve(ctx custody.Context, db custody.KVStore, msg custody.Msg) (*Transfer, bool, error) {
	m, ok := msg.(*ApproveTransferMsg)
	if !ok {
		return nil, false, errors.WithType(errors.ErrMsg, msg)
	}
	caller, ok := custody.GetCaller(ctx)
	if !ok {
		return nil, false, errors.Wrap(errors.ErrUnauthorized, "anonymous caller")
	}
	return h.engine.ApproveTransfer(ctx, db, caller, m.TransferID)
}

func transferResult(t *Transfer, log string) (*custody.DeliverResult, error) {
	raw, err := t.Marshal()
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: raw, Log: log}, nil
}
