// Import command: load variables from a KEY="VALUE" file.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var importCmd = &cobra.Command{
	Use:   "import <file> [chain]",
	Short: "Import variables from a file",
	Long: `Import reads KEY="VALUE" lines from a file into the addressed
keystore. Blank lines and lines starting with # are skipped; malformed
lines are reported and skipped.`,
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

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()

		count := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}

			key, value, found := strings.Cut(line, "=")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				a.printer.Warnf("skipping malformed line: %s", line)
				continue
			}
			value = strings.TrimSpace(value)
			if unquoted, err := strconv.Unquote(value); err == nil {
				value = unquoted
			}

			if err := a.store.SetVar(rc, key, value); err != nil {
				return err
			}
			count++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		a.printer.Successf("imported %d keys into %s", count, rc.String())
		return nil
	},
}
