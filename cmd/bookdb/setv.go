// Setv command: write a variable.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var setvCmd = &cobra.Command{
	Use:   "setv <key=value> [chain]",
	Short: "Set a variable",
	Long: `Setv writes a variable into the keystore addressed by the chain (or
the session cursor). The first argument is KEY=VALUE; everything after the
first = belongs to the value.

Example:
  bookdb setv API_KEY=secret
  bookdb setv RETRIES=3 @work@website.deploy.var.production`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value, found := strings.Cut(args[0], "=")
		if !found || key == "" {
			return fmt.Errorf("expected KEY=VALUE, got %q", args[0])
		}

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

		if err := a.store.SetVar(rc, key, value); err != nil {
			return err
		}

		a.printer.Successf("%s set in %s", key, rc.String())
		return nil
	},
}
