// Use command: apply a context chain to the session.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Apply a context chain",
	Long: `Use applies a context chain. A persistent chain (@) becomes the new
session cursor; an ephemeral chain (%) resolves once without touching it.
Atomicity rules apply: switching container resets the subcontainer and
tail to GLOBAL and MAIN, switching subcontainer resets the tail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		rc, err := a.resolveContext(args[0])
		if err != nil {
			return err
		}

		fmt.Println(rc.String())
		return nil
	},
}
