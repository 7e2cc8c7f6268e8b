package wallet

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ApprovalEngine runs the transfer state machine. A transfer is proposed
// by an owner, collects approvals from distinct owners and is executed
// when the number of approvals reaches the quorum.
//
// Every precondition is verified before the first write, so a failed call
// never leaves a partial change behind.
type ApprovalEngine struct {
	ledger    *Ledger
	transfers *TransferStore
}

// NewApprovalEngine returns an engine operating on given components.
func NewApprovalEngine(ledger *Ledger, transfers *TransferStore) *ApprovalEngine {
	return &ApprovalEngine{
		ledger:    ledger,
		transfers: transfers,
	}
}

// CreateTransfer proposes moving amount to destination. The proposer
// approval is recorded as part of the creation. No funds are moved.
func (e *ApprovalEngine) CreateTransfer(
	ctx custody.Context,
	db custody.KVStore,
	caller custody.Address,
	destination custody.Address,
	amount *big.Int,
) (*Transfer, error) {
	owners, _, err := loadRegistry(db)
	if err != nil {
		return nil, err
	}
	if !owners.IsOwner(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	if err := destination.Validate(); err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	balance, err := e.ledger.Balance(db)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(balance) > 0 {
		return nil, errors.Wrapf(ErrInsufficientBalance, "balance %s, requested %s", balance, amount)
	}

	t, err := e.transfers.Create(db, destination, amount, caller)
	if err != nil {
		return nil, err
	}
	return e.transfers.RecordApproval(db, t.ID, caller)
}

// ApproveTransfer records the caller approval. When the approval completes
// the quorum, the ledger is debited and the transfer marked as executed.
// The returned flag tells if this call executed the transfer.
func (e *ApprovalEngine) ApproveTransfer(
	ctx custody.Context,
	db custody.KVStore,
	caller custody.Address,
	id uint64,
) (*Transfer, bool, error) {
	t, err := e.transfers.Get(db, id)
	if err != nil {
		return nil, false, err
	}
	owners, quorum, err := loadRegistry(db)
	if err != nil {
		return nil, false, err
	}
	if !owners.IsOwner(caller) {
		return nil, false, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	if t.Executed {
		return nil, false, errors.Wrapf(ErrAlreadyExecuted, "transfer %d", id)
	}
	if t.HasApproved(caller) {
		return nil, false, errors.Wrapf(ErrAlreadyApproved, "transfer %d by %s", id, caller)
	}

	execute := len(t.Approvals)+1 >= int(quorum)
	if execute {
		// Pending transfers do not reserve funds. Another execution may
		// have drained the balance since this one was proposed.
		balance, err := e.ledger.Balance(db)
		if err != nil {
			return nil, false, err
		}
		if t.Amount.BigInt().Cmp(balance) > 0 {
			return nil, false, errors.Wrapf(ErrInsufficientFunds,
				"transfer %d requires %s, balance %s", id, t.Amount, balance)
		}
	}

	t, err = e.transfers.RecordApproval(db, id, caller)
	if err != nil {
		return nil, false, err
	}
	if !execute {
		return t, false, nil
	}
	if _, err := e.ledger.Debit(db, t.Amount.BigInt()); err != nil {
		return nil, false, err
	}
	t, err = e.transfers.MarkExecuted(db, id)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}
