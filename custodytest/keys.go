package custodytest

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewKey returns a freshly generated owner key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a freshly generated key.
func NewCondition() custody.Condition {
	return NewKey().PublicKey().Condition()
}

// SeededKey returns a deterministic key. The same index always produces
// the same key, which keeps fixtures stable across test runs.
func SeededKey(index byte) *crypto.PrivateKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = index
	}
	return crypto.PrivKeyEd25519FromSeed(seed)
}

// Owners returns the addresses of n deterministic keys.
func Owners(n int) []custody.Address {
	addrs := make([]custody.Address, n)
	for i := range addrs {
		addrs[i] = SeededKey(byte(i + 1)).PublicKey().Address()
	}
	return addrs
}
