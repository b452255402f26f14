// Install command: first-run bootstrap for a base.
package main

import (
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [base]",
	Short: "Initialize a base database and write its installation marker",
	Long: `Install creates the base database file and writes the installation
marker at the root chain (ROOT.GLOBAL.var.MAIN). Without an argument the
configured default base is installed. Install is idempotent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := configDefaultBase
		if len(args) == 1 {
			base = args[0]
		}

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		id, err := a.store.Install(base)
		if err != nil {
			return err
		}

		a.printer.Successf("base %q installed (id %s)", base, id)
		return nil
	},
}
