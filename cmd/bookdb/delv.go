// Delv command: delete a variable.
package main

import (
	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var delvCmd = &cobra.Command{
	Use:   "delv <key> [chain]",
	Short: "Delete a variable",
	Args:  cobra.RangeArgs(1, 2),
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

		found, err := a.store.DeleteVar(rc, args[0])
		if err != nil {
			return err
		}
		if !found {
			a.printer.Warnf("%s not found in %s", args[0], rc.String())
			return nil
		}

		a.printer.Successf("%s deleted from %s", args[0], rc.String())
		return nil
	},
}
