// Export command: dump a keystore to a KEY="VALUE" file.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/internal/sqlite"
	"github.com/dukaforge/bookdb/pkg/chain"
)

var exportCmd = &cobra.Command{
	Use:   "export <file> [chain]",
	Short: "Export a keystore to a file",
	Long: `Export writes every variable of the addressed keystore to a file,
one KEY="VALUE" per line. The format round-trips with import.`,
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

		vars, err := a.store.ListVars(rc)
		if err != nil {
			return err
		}

		if err := writeExportFile(args[0], vars); err != nil {
			return err
		}

		a.printer.Successf("exported %d keys from %s to %s", len(vars), rc.String(), args[0])
		return nil
	},
}

// writeExportFile writes vars to path, one KEY="VALUE" per line. The file
// is closed explicitly so a deferred write-back failure is not swallowed.
func writeExportFile(path string, vars []sqlite.Var) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, v := range vars {
		fmt.Fprintf(w, "%s=%q\n", v.Key, v.Value)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
