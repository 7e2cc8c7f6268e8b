package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/wallet"
)

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Credit the vault with the given amount. Anyone can deposit.
`)
	var (
		homeFl   = homeFlag(fl)
		fromFl   = fromFlag(fl)
		dryRunFl = fl.Bool("dry-run", false, "Check that the deposit would succeed without executing it.")
		amountFl amountFlag
	)
	fl.Var(&amountFl, "amount", "Amount to deposit.")
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	ctx := context.Background()
	if *dryRunFl {
		return dryRun(output, c.Check(ctx, *fromFl, &wallet.DepositMsg{Amount: wallet.NewAmount(amountFl.val)}))
	}
	balance, err := c.Deposit(ctx, *fromFl, amountFl.val)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "balance: %s\n", balance)
	return err
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Propose a transfer out of the vault. Only an owner can propose a transfer.
The proposal counts as the approval of the proposing owner.
`)
	var (
		homeFl   = homeFlag(fl)
		fromFl   = fromFlag(fl)
		dryRunFl = fl.Bool("dry-run", false, "Check that the proposal would succeed without executing it.")
		toFl     custody.Address
		amountFl amountFlag
	)
	fl.Var(&toFl, "to", "Destination address.")
	fl.Var(&amountFl, "amount", "Amount to transfer.")
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	ctx := context.Background()
	if *dryRunFl {
		msg := &wallet.CreateTransferMsg{Destination: toFl, Amount: wallet.NewAmount(amountFl.val)}
		return dryRun(output, c.Check(ctx, *fromFl, msg))
	}
	t, err := c.CreateTransfer(ctx, *fromFl, toFl, amountFl.val)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "transfer %d proposed\n", t.ID)
	return err
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Approve a pending transfer. The transfer is executed as soon as the number of
approvals reaches the quorum.
`)
	var (
		homeFl   = homeFlag(fl)
		fromFl   = fromFlag(fl)
		dryRunFl = fl.Bool("dry-run", false, "Check that the approval would succeed without executing it.")
		idFl     = fl.Uint64("id", 0, "Transfer ID.")
	)
	fl.Parse(args)

	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	ctx := context.Background()
	if *dryRunFl {
		return dryRun(output, c.Check(ctx, *fromFl, &wallet.ApproveTransferMsg{TransferID: *idFl}))
	}
	t, err := c.ApproveTransfer(ctx, *fromFl, *idFl)
	if err != nil {
		return err
	}
	if t.Executed {
		_, err = fmt.Fprintf(output, "transfer %d executed\n", t.ID)
		return err
	}
	roster, err := c.Owners()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "transfer %d approved, %d of %d approvals\n",
		t.ID, len(t.Approvals), roster.Quorum)
	return err
}

func dryRun(output io.Writer, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, "ok")
	return err
}
