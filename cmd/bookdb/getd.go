// Getd command: read a document.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var getdCmd = &cobra.Command{
	Use:   "getd [chain]",
	Short: "Get a document body",
	Long: `Getd prints the document addressed by a doc chain, whose tail is the
document key. The body goes to stdout.

Example:
  bookdb getd %website.notes.doc.readme`,
	Args: cobra.MaximumNArgs(1),
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

		body, err := a.store.GetDoc(rc)
		if err != nil {
			return err
		}

		fmt.Println(body)
		return nil
	},
}
