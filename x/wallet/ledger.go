package wallet

import (
	"math/big"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

var balanceKey = []byte("total")

// Validate rejects negative and oversized balances. Zero is valid.
func (m *Balance) Validate() error {
	a := m.Amount.BigInt()
	if a.Sign() < 0 {
		return errors.Wrap(errors.ErrModel, "balance must not be negative")
	}
	if a.Cmp(MaxAmount) > 0 {
		return errors.Wrap(errors.ErrOverflow, "balance exceeds 256 bits")
	}
	return nil
}

// Ledger is the custodied balance.
type Ledger struct {
	bucket orm.ModelBucket
}

// NewLedger returns a ledger stored in the "ledger" bucket.
func NewLedger() *Ledger {
	return &Ledger{bucket: orm.NewModelBucket("ledger")}
}

// Balance returns the current balance. A vault that never received a
// deposit holds zero.
func (l *Ledger) Balance(db custody.ReadOnlyKVStore) (*big.Int, error) {
	var b Balance
	switch err := l.bucket.One(db, balanceKey, &b); {
	case errors.ErrNotFound.Is(err):
		return new(big.Int), nil
	case err != nil:
		return nil, errors.Wrap(err, "cannot load balance")
	}
	return b.Amount.BigInt(), nil
}

// Deposit credits the balance and returns its new value.
func (l *Ledger) Deposit(db custody.KVStore, amount *big.Int) (*big.Int, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	current, err := l.Balance(db)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(current, amount)
	if total.Cmp(MaxAmount) > 0 {
		return nil, errors.Wrap(errors.ErrOverflow, "balance exceeds 256 bits")
	}
	if err := l.bucket.Put(db, balanceKey, &Balance{Amount: NewAmount(total)}); err != nil {
		return nil, errors.Wrap(err, "cannot save balance")
	}
	return total, nil
}

// Debit subtracts amount from the balance and returns its new value.
// ErrInsufficientFunds is returned if the balance is lower than amount.
func (l *Ledger) Debit(db custody.KVStore, amount *big.Int) (*big.Int, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	current, err := l.Balance(db)
	if err != nil {
		return nil, err
	}
	if current.Cmp(amount) < 0 {
		return nil, errors.Wrapf(ErrInsufficientFunds, "balance %s, debit %s", current, amount)
	}
	rest := new(big.Int).Sub(current, amount)
	if err := l.bucket.Put(db, balanceKey, &Balance{Amount: NewAmount(rest)}); err != nil {
		return nil, errors.Wrap(err, "cannot save balance")
	}
	return rest, nil
}
