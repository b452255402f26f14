// Getv command: read a variable.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var getvCmd = &cobra.Command{
	Use:   "getv <key> [chain]",
	Short: "Get a variable value",
	Long: `Getv prints the value of a variable in the keystore addressed by the
chain (or the session cursor). The value goes to stdout so it can be
captured in scripts.

Example:
  bookdb getv API_KEY
  bookdb getv API_KEY %work@website.api_keys.var.credentials`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		rc, err := a.resolveContext(optionalChainArg(args, 1))
		if err != nil {
			return err
		}
		if err := requireAnchor(rc, chain.Variable); err != nil {
			return err
		}

		value, err := a.store.GetVar(rc, args[0])
		if err != nil {
			return err
		}

		fmt.Println(value)
		return nil
	},
}
