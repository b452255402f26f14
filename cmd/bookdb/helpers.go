// Shared helpers for bookdb CLI commands.
package main

import (
	"fmt"
	"log/slog"

	"github.com/dukaforge/bookdb/internal/cursor"
	"github.com/dukaforge/bookdb/internal/session"
	"github.com/dukaforge/bookdb/internal/sqlite"
	"github.com/dukaforge/bookdb/internal/ui"
	"github.com/dukaforge/bookdb/pkg/chain"
)

// app bundles the per-invocation wiring: storage, cursor record, session
// manager and presentation. Every subcommand builds one via newApp and
// defers close.
type app struct {
	printer *ui.Printer
	store   *sqlite.Store
	cursors *cursor.Store
	manager *session.Manager
	cur     chain.Cursor

	requireInstall bool
}

// newApp wires the CLI collaborators. When requireInstall is set, commands
// refuse to touch a base until 'bookdb install' has initialized it; the
// check runs against the base each command actually resolves to, not the
// configured default.
func newApp(requireInstall bool) (*app, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	log := slog.Default()
	printer := ui.NewPrinter(flagQuiet)

	store, err := sqlite.Open(sqlite.Config{DataDir: dataDir}, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	cursors := cursor.NewStore(configDir, log)
	manager := session.New(cursors, printer, log)

	return &app{
		printer:        printer,
		store:          store,
		cursors:        cursors,
		manager:        manager,
		cur:            cursors.Load(),
		requireInstall: requireInstall,
	}, nil
}

// checkInstalled enforces the install guard for a specific base.
func (a *app) checkInstalled(base string) error {
	if !a.requireInstall {
		return nil
	}
	if !a.store.Installed(base) {
		return fmt.Errorf("%w (base %q)", sqlite.ErrNotInstalled, base)
	}
	return nil
}

// close releases storage resources.
func (a *app) close() {
	a.store.Close()
}

// resolveContext turns an optional chain argument into a storage coordinate.
// An empty argument falls back to the session cursor, or to the root chain
// when no cursor is set. The install guard runs against the resolved base.
func (a *app) resolveContext(chainArg string) (chain.Resolved, error) {
	var rc chain.Resolved
	if chainArg == "" {
		rc = a.manager.Current(a.cur)
	} else {
		var err error
		rc, err = a.manager.ApplyRaw(chainArg, &a.cur)
		if err != nil {
			return chain.Resolved{}, err
		}
	}
	if err := a.checkInstalled(rc.Base); err != nil {
		return chain.Resolved{}, err
	}
	return rc, nil
}

// optionalChainArg returns the chain argument following fixed positional
// arguments, or "" when absent.
func optionalChainArg(args []string, fixed int) string {
	if len(args) > fixed {
		return args[fixed]
	}
	return ""
}

// requireAnchor rejects coordinates whose anchor does not match the
// command's namespace, so 'getv' against a doc chain fails with guidance.
func requireAnchor(rc chain.Resolved, want chain.Anchor) error {
	if rc.Anchor != want {
		return fmt.Errorf("chain addresses the %s namespace, this command needs %s", rc.Anchor, want)
	}
	return nil
}
