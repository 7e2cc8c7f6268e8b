package wallet

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathDepositMsg         = "wallet/deposit"
	pathCreateTransferMsg  = "wallet/create_transfer"
	pathApproveTransferMsg = "wallet/approve_transfer"
)

var _ custody.Msg = (*DepositMsg)(nil)

// Path fulfills custody.Msg interface to allow routing
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate ensures the deposit is a positive amount
func (m *DepositMsg) Validate() error {
	return errors.Wrap(ValidateAmount(m.Amount.BigInt()), "amount")
}

var _ custody.Msg = (*CreateTransferMsg)(nil)

// Path fulfills custody.Msg interface to allow routing
func (CreateTransferMsg) Path() string {
	return pathCreateTransferMsg
}

// Validate enforces a destination address and a positive amount
func (m *CreateTransferMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return errors.Wrap(ValidateAmount(m.Amount.BigInt()), "amount")
}

var _ custody.Msg = (*ApproveTransferMsg)(nil)

// Path fulfills custody.Msg interface to allow routing
func (ApproveTransferMsg) Path() string {
	return pathApproveTransferMsg
}

// Validate always succeeds, every id is a candidate
func (m *ApproveTransferMsg) Validate() error {
	return nil
}
