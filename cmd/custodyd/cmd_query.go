package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/custody/x/wallet"
)

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Print out the current balance of the vault.
`)
	homeFl := homeFlag(fl)
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	balance, err := c.Balance()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, balance)
	return err
}

func cmdOwners(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Print out the owner roster. Every owner is listed with its bit identifier.
`)
	homeFl := homeFlag(fl)
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	roster, err := c.Owners()
	if err != nil {
		return err
	}
	for i, addr := range roster.Identities {
		if _, err := fmt.Fprintf(output, "%d\t%s\n", roster.Owners[i], addr); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(output, "quorum\t%d\n", roster.Quorum)
	return err
}

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Print out details of a single transfer.
`)
	var (
		homeFl = homeFlag(fl)
		idFl   = fl.Uint64("id", 0, "Transfer ID.")
	)
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	t, err := c.Transfer(*idFl)
	if err != nil {
		return err
	}
	return printTransfer(output, t)
}

func cmdTransfers(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
List all transfers, ordered by ID.
`)
	var (
		homeFl    = homeFlag(fl)
		pendingFl = fl.Bool("pending", false, "List only transfers that were not executed yet.")
	)
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	ts, err := c.Transfers(*pendingFl)
	if err != nil {
		return err
	}
	for _, t := range ts {
		_, err := fmt.Fprintf(output, "transfer %d: %s to %s, %d approvals, executed=%t\n",
			t.ID, t.Amount, t.Destination, len(t.Approvals), t.Executed)
		if err != nil {
			return err
		}
	}
	return nil
}

func printTransfer(output io.Writer, t *wallet.Transfer) error {
	approvals := make([]string, len(t.Approvals))
	for i, a := range t.Approvals {
		approvals[i] = a.String()
	}
	_, err := fmt.Fprintf(output, "id\t%d\ndestination\t%s\namount\t%s\nproposer\t%s\napprovals\t%s\nexecuted\t%t\n",
		t.ID, t.Destination, t.Amount, t.Proposer, strings.Join(approvals, ","), t.Executed)
	return err
}
