// Cursor command: show the persisted session cursor.
package main

import (
	"github.com/spf13/cobra"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Show the session cursor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.checkInstalled(a.cur.Base); err != nil {
			return err
		}

		a.printer.CursorStatus(a.cur)
		return nil
	},
}
