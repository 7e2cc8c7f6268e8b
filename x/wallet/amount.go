package wallet

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/iov-one/custody/errors"
)

// MaxAmount is the highest balance the ledger can hold, 2^256-1.
var MaxAmount = math.MaxBig256

// ParseAmount reads a decimal or 0x prefixed hexadecimal integer. The
// result must be a positive value no greater than MaxAmount.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return nil, errors.Wrapf(errors.ErrAmount, "negative amount %q", s)
	}
	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	if err := ValidateAmount(n); err != nil {
		return nil, err
	}
	return n, nil
}

// ValidateAmount returns ErrAmount unless a is a positive integer, and
// ErrOverflow if it does not fit in 256 bits.
func ValidateAmount(a *big.Int) error {
	if a == nil || a.Sign() <= 0 {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	if a.Cmp(MaxAmount) > 0 {
		return errors.Wrap(errors.ErrOverflow, "amount exceeds 256 bits")
	}
	return nil
}

// Amount is a non negative integer of at most 256 bits. On the wire it is
// the big endian byte representation, zero being an empty field.
type Amount struct {
	i *big.Int
}

// NewAmount copies v into an Amount. A nil value is zero.
func NewAmount(v *big.Int) Amount {
	if v == nil {
		return Amount{}
	}
	return Amount{i: new(big.Int).Set(v)}
}

// BigInt returns a copy of the amount, never nil.
func (a Amount) BigInt() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.i)
}

func (a Amount) String() string {
	return a.BigInt().String()
}

func (a Amount) Marshal() ([]byte, error) {
	if a.i == nil {
		return nil, nil
	}
	return a.i.Bytes(), nil
}

func (a Amount) MarshalTo(data []byte) (int, error) {
	if a.i == nil {
		return 0, nil
	}
	return copy(data, a.i.Bytes()), nil
}

func (a *Amount) Unmarshal(data []byte) error {
	if len(data) > 32 {
		return errors.Wrapf(errors.ErrOverflow, "amount is %d bytes long", len(data))
	}
	a.i = new(big.Int).SetBytes(data)
	return nil
}

func (a Amount) Size() int {
	if a.i == nil {
		return 0
	}
	return (a.i.BitLen() + 7) / 8
}

// MarshalJSON writes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts the same formats as ParseAmount, and zero.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	n, ok := math.ParseBig256(strings.TrimSpace(s))
	if !ok {
		return errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	a.i = n
	return nil
}
