package wallet

import (
	"math/big"

	"github.com/iov-one/custody"
)

// Roster is the public view of the owner configuration.
type Roster struct {
	// Owners holds 1 << i for each owner, in bit order.
	Owners []uint64
	// Identities holds owner addresses, in bit order.
	Identities []custody.Address
	Quorum     uint32
}

// QueryBalance returns the current vault balance.
func QueryBalance(db custody.ReadOnlyKVStore) (*big.Int, error) {
	return NewLedger().Balance(db)
}

// QueryOwners returns the owner roster.
func QueryOwners(db custody.ReadOnlyKVStore) (*Roster, error) {
	reg, quorum, err := loadRegistry(db)
	if err != nil {
		return nil, err
	}
	return &Roster{
		Owners:     reg.Owners(),
		Identities: reg.Identities(),
		Quorum:     quorum,
	}, nil
}

// QueryTransfer returns a single transfer or ErrNotFound.
func QueryTransfer(db custody.ReadOnlyKVStore, id uint64) (*Transfer, error) {
	return NewTransferStore().Get(db, id)
}

// QueryTransfers returns all transfers in id order, optionally only those
// still waiting for approvals.
func QueryTransfers(db custody.ReadOnlyKVStore, pendingOnly bool) ([]*Transfer, error) {
	return NewTransferStore().List(db, pendingOnly)
}
