// Deld command: delete a document.
package main

import (
	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var deldCmd = &cobra.Command{
	Use:   "deld [chain]",
	Short: "Delete a document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		rc, err := a.resolveContext(optionalChainArg(args, 0))
		if err != nil {
			return err
		}
		if err := requireAnchor(rc, chain.Document); err != nil {
			return err
		}

		found, err := a.store.DeleteDoc(rc)
		if err != nil {
			return err
		}
		if !found {
			a.printer.Warnf("document %s not found", rc.String())
			return nil
		}

		a.printer.Successf("document %s deleted", rc.String())
		return nil
	},
}
