package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

func defaultKeyPath() string {
	return env("CUSTODY_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".custody.priv.key"))
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Generate a new owner key.

When successful a new file containing the hex encoded private key seed is
created and the owner address is printed. This command fails if the private
key file already exists.
`)
	keyPathFl := fl.String("key", defaultKeyPath(),
		"Path to the private key file. You can use CUSTODY_PRIV_KEY environment variable to set it.")
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key := crypto.GenPrivKeyEd25519()
	if err := ioutil.WriteFile(*keyPathFl, []byte(key.Seed()), 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
	}
	_, err := fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Print out the owner address associated with your private key.
`)
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use CUSTODY_PRIV_KEY environment variable to set it.")
		bech32Fl = fl.String("bech32", "", "If set, print the address in bech32 format with this human readable prefix.")
	)
	fl.Parse(args)

	raw, err := ioutil.ReadFile(*keyPathFl)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	key, err := crypto.ParsePrivateKey(strings.TrimSpace(string(raw)))
	if err != nil {
		return errors.Wrap(err, "private key file")
	}

	addr := key.PublicKey().Address()
	if *bech32Fl == "" {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	enc, err := addr.Bech32(*bech32Fl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, enc)
	return err
}
