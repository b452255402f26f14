// Inc and dec commands: atomic numeric variable updates.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var incCmd = &cobra.Command{
	Use:   "inc <key> [amount] [chain]",
	Short: "Increment a numeric variable",
	Long: `Inc atomically adds an amount (default 1) to a numeric variable and
prints the new value. A missing key is initialized to the amount; a
non-numeric value is an error and left untouched.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIncrement(args, 1)
	},
}

var decCmd = &cobra.Command{
	Use:   "dec <key> [amount] [chain]",
	Short: "Decrement a numeric variable",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIncrement(args, -1)
	},
}

// parseIncrementArgs splits the optional trailing arguments into an amount
// (default 1) and a chain. Chains are recognized by their mode prefix;
// anything else must parse as an integer amount.
func parseIncrementArgs(args []string) (amount int64, chainArg string, err error) {
	amount = 1
	for _, arg := range args {
		if arg == "" {
			return 0, "", fmt.Errorf("empty argument; expected an amount or a context chain")
		}
		switch arg[0] {
		case '@', '%', '#':
			chainArg = arg
		default:
			parsed, perr := strconv.ParseInt(arg, 10, 64)
			if perr != nil {
				return 0, "", fmt.Errorf("amount must be an integer, got %q", arg)
			}
			amount = parsed
		}
	}
	return amount, chainArg, nil
}

// runIncrement implements both inc and dec; sign is +1 or -1.
func runIncrement(args []string, sign int64) error {
	key := args[0]
	amount, chainArg, err := parseIncrementArgs(args[1:])
	if err != nil {
		return err
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	rc, err := a.resolveContext(chainArg)
	if err != nil {
		return err
	}
	if err := requireAnchor(rc, chain.Variable); err != nil {
		return err
	}

	next, err := a.store.IncrVar(rc, key, sign*amount)
	if err != nil {
		return err
	}

	fmt.Println(next)
	return nil
}
