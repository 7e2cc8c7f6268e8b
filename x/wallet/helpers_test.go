package wallet

import (
	"math/big"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
)

// newVault returns a store configured with given owners and quorum.
func newVault(t testing.TB, owners []custody.Address, quorum uint32) custody.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	conf := Configuration{Owners: owners, Quorum: quorum}
	if err := gconf.Save(db, packageName, &conf); err != nil {
		t.Fatalf("cannot save configuration: %+v", err)
	}
	return db
}

// units returns n * 10^18.
func units(n int64) *big.Int {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), exp)
}
