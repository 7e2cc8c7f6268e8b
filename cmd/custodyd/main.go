package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// When a cmd function is called it is given stdin, stdout and command line
// arguments except the program name and this command name. It is the
// responsibility of the command function to parse the arguments.
//
// Every command opens the vault stored in the home directory, executes a
// single operation and closes it again, so commands can be freely chained
// in a shell script:
//
//   $ custodyd init -vault-id my-vault -owner $ALICE -owner $BOB
//   $ custodyd deposit -amount 1000
//   $ custodyd propose -from $ALICE -to $CAROL -amount 300
//   $ custodyd approve -from $BOB -id 0
//
// The serve command executes many commands within one process and exposes
// their metrics.
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve":   cmdApprove,
	"balance":   cmdBalance,
	"deposit":   cmdDeposit,
	"init":      cmdInit,
	"keyaddr":   cmdKeyaddr,
	"keygen":    cmdKeygen,
	"metrics":   cmdMetrics,
	"owners":    cmdOwners,
	"propose":   cmdPropose,
	"transfer":  cmdTransfer,
	"transfers": cmdTransfers,
	"version":   cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s manages a multi-owner custody vault.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, describeErr(err))
		os.Exit(1)
	}
}

// describeErr renders an error together with its registered code.
func describeErr(err error) string {
	return fmt.Sprintf("error %d: %s", errors.Code(err), err)
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, custody.Version())
	return err
}
