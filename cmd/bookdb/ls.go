// Ls command: enumerate namespaces and entries.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/pkg/chain"
)

// Valid ls targets.
const (
	lsBases         = "bases"
	lsContainers    = "containers"
	lsSubcontainers = "subcontainers"
	lsKeystores     = "keystores"
	lsKeys          = "keys"
	lsDocs          = "docs"
)

var lsCmd = &cobra.Command{
	Use:   "ls <bases|containers|subcontainers|keystores|keys|docs> [chain]",
	Short: "List namespaces or entries in scope",
	Long: `Ls enumerates items scoped by the chain (or the session cursor):

  bases          base databases in the data directory
  containers     containers in the base
  subcontainers  subcontainers in the container
  keystores      keystores in the subcontainer
  keys           variables in the keystore
  docs           document keys in the subcontainer`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		rc, err := a.resolveContext(optionalChainArg(args, 1))
		if err != nil {
			return err
		}

		switch target {
		case lsBases:
			bases, err := a.store.ListBases()
			if err != nil {
				return err
			}
			return printNames(a, "Bases", bases)

		case lsContainers:
			names, err := a.store.ListContainers(rc.Base)
			if err != nil {
				return err
			}
			return printNames(a, fmt.Sprintf("Containers in %s", rc.Base), names)

		case lsSubcontainers:
			names, err := a.store.ListSubcontainers(rc)
			if err != nil {
				return err
			}
			return printNames(a, fmt.Sprintf("Subcontainers in %s@%s", rc.Base, rc.Container), names)

		case lsKeystores:
			names, err := a.store.ListKeystores(rc)
			if err != nil {
				return err
			}
			return printNames(a, fmt.Sprintf("Keystores in %s@%s.%s", rc.Base, rc.Container, rc.Subcontainer), names)

		case lsKeys:
			if err := requireAnchor(rc, chain.Variable); err != nil {
				return err
			}
			vars, err := a.store.ListVars(rc)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(vars))
			for _, v := range vars {
				rows = append(rows, []string{v.Key, truncate(v.Value, 60)})
			}
			a.printer.Table(fmt.Sprintf("Variables in %s", rc.String()), []string{"Key", "Value"}, rows)
			return nil

		case lsDocs:
			names, err := a.store.ListDocs(rc)
			if err != nil {
				return err
			}
			return printNames(a, fmt.Sprintf("Documents in %s@%s.%s", rc.Base, rc.Container, rc.Subcontainer), names)

		default:
			return fmt.Errorf("unknown ls target %q (valid: bases, containers, subcontainers, keystores, keys, docs)", target)
		}
	},
}

func printNames(a *app, title string, names []string) error {
	rows := make([][]string, 0, len(names))
	for i, name := range names {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), name})
	}
	a.printer.Table(title, []string{"#", "Name"}, rows)
	return nil
}

// truncate shortens long values for table display. Slicing happens on
// runes so a multi-byte character is never split mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
