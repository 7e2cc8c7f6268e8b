package main

import (
	"flag"
	"fmt"
	"math/big"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/wallet"
)

// addressesFlag collects every occurrence of a repeated address flag.
type addressesFlag []custody.Address

var _ flag.Value = (*addressesFlag)(nil)

func (a addressesFlag) String() string {
	s := make([]string, len(a))
	for i, addr := range a {
		s[i] = addr.String()
	}
	return strings.Join(s, ",")
}

func (a *addressesFlag) Set(enc string) error {
	addr, err := custody.ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = append(*a, addr)
	return nil
}

// amountFlag is a positive integer of up to 256 bits, given either in
// decimal or in 0x prefixed hexadecimal notation.
type amountFlag struct {
	val *big.Int
}

var _ flag.Value = (*amountFlag)(nil)

func (a *amountFlag) String() string {
	if a.val == nil {
		return ""
	}
	return a.val.String()
}

func (a *amountFlag) Set(enc string) error {
	n, err := wallet.ParseAmount(enc)
	if err != nil {
		return err
	}
	a.val = n
	return nil
}

// fromFlag registers the -from flag that identifies the caller.
func fromFlag(fl *flag.FlagSet) *custody.Address {
	var from custody.Address
	fl.Var(&from, "from", "Address of the caller, hex encoded or with a cond: or bech32: prefix. The caller is anonymous if not set.")
	return &from
}

// homeFlag registers the -home flag that points to the vault directory.
func homeFlag(fl *flag.FlagSet) *string {
	return fl.String("home", defaultHome(),
		"Directory of the vault. You can use CUSTODY_HOME environment variable to set it.")
}

func usage(fl *flag.FlagSet, description string) func() {
	return func() {
		fmt.Fprint(fl.Output(), description)
		fl.PrintDefaults()
	}
}
