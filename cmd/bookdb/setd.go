// Setd command: write a document.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var setdCmd = &cobra.Command{
	Use:   "setd <body|-> [chain]",
	Short: "Set a document body",
	Long: `Setd writes the document addressed by a doc chain, whose tail is the
document key. Pass - as the body to read it from stdin.

Example:
  bookdb setd 'release notes' @website.notes.doc.changelog
  cat README.md | bookdb setd - %website.notes.doc.readme`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := args[0]
		if body == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			body = string(data)
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
		if err := requireAnchor(rc, chain.Document); err != nil {
			return err
		}

		if err := a.store.SetDoc(rc, body); err != nil {
			return err
		}

		a.printer.Successf("document %s written", rc.String())
		return nil
	},
}
