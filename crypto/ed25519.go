package crypto

import (
	"encoding/hex"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the condition of all owner keys.
const ExtensionName = "sigs"

// PrivateKey is an ed25519 key that identifies an owner.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// PublicKey is the public part of an owner key.
type PublicKey struct {
	key ed25519.PublicKey
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}
}

// ParsePrivateKey decodes a hex encoded seed as produced by Seed.
func ParsePrivateKey(raw string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.ErrInput.Newf("seed must be %d bytes", ed25519.SeedSize)
	}
	return PrivKeyEd25519FromSeed(seed), nil
}

// Seed returns the hex encoded private key seed.
func (p *PrivateKey) Seed() string {
	return hex.EncodeToString(p.key.Seed())
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return &PublicKey{key: pub}
}

// Condition encodes the public key into a permission
func (p *PublicKey) Condition() custody.Condition {
	return custody.NewCondition(ExtensionName, "ed25519", p.key)
}

// Address returns the owner identity bound to this key.
func (p *PublicKey) Address() custody.Address {
	return p.Condition().Address()
}
