package wallet

import (
	"github.com/iov-one/custody/errors"
)

// Wallet reserves 1000~1009 error codes
var (
	// ErrInsufficientBalance is returned when a transfer is proposed for
	// more than the current balance.
	ErrInsufficientBalance = errors.Register(1000, "insufficient balance")

	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.Register(1001, "insufficient funds")

	// ErrAlreadyApproved is returned when an owner approves the same
	// transfer twice.
	ErrAlreadyApproved = errors.Register(1002, "already approved")

	// ErrAlreadyExecuted is returned for any modification of an executed
	// transfer.
	ErrAlreadyExecuted = errors.Register(1003, "already executed")
)
