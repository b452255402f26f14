// Package session orchestrates chain parsing, resolution and cursor
// persistence for a single CLI invocation.
package session

import (
	"log/slog"

	"github.com/dukaforge/bookdb/internal/cursor"
	"github.com/dukaforge/bookdb/pkg/chain"
)

// Notifier receives context-change notifications for display. The manager
// calls it at most once per distinct chain per process.
type Notifier interface {
	ContextChanged(c chain.Chain)
}

// Manager applies context chains to the session: it folds the cursor into
// partial chains, enforces atomicity resets, persists persistent-mode
// updates, and deduplicates change notifications. It owns no durable state
// beyond the last-notified display form.
type Manager struct {
	store     *cursor.Store
	notifier  Notifier
	log       *slog.Logger
	lastShown string
}

// New returns a Manager. notifier may be nil to suppress notifications.
func New(store *cursor.Store, notifier Notifier, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, notifier: notifier, log: log}
}

// Parse parses raw against the loaded cursor's base as fallback.
func (m *Manager) Parse(raw string, cur chain.Cursor) (chain.Chain, error) {
	return chain.Parse(raw, cur.Base)
}

// Apply applies a freshly parsed chain against the cursor and returns the
// resolved coordinate. Atomicity resets run against the previous cursor
// chain when one exists. Persistent-mode chains mutate and persist the
// cursor; ephemeral chains only notify; action chains pass through.
// Parser and store errors are surfaced unchanged.
func (m *Manager) Apply(next chain.Chain, cur *chain.Cursor) (chain.Resolved, error) {
	final := next
	if cur.Chain != nil {
		final = chain.ApplyAtomicity(*cur.Chain, next)
	}

	switch final.Mode {
	case chain.Persistent:
		cur.Base = final.Base
		cur.Chain = &final
		// Persist under the advisory lock so a concurrent invocation
		// cannot interleave its own load+save with ours.
		err := m.store.Update(func(onDisk *chain.Cursor) error {
			onDisk.Base = final.Base
			onDisk.Chain = &final
			return nil
		})
		if err != nil {
			return chain.Resolved{}, err
		}
		m.log.Debug("cursor updated", "chain", final.String())
		m.notifyIfChanged(final)
	case chain.Ephemeral:
		// One-shot: atomicity applies for display, nothing is persisted.
		m.notifyIfChanged(final)
	case chain.Action:
		// Reserved; no cursor mutation and no banner.
	}

	return chain.Resolve(final, *cur), nil
}

// ApplyRaw parses raw and applies it in one step.
func (m *Manager) ApplyRaw(raw string, cur *chain.Cursor) (chain.Resolved, error) {
	next, err := chain.Parse(raw, cur.Base)
	if err != nil {
		return chain.Resolved{}, err
	}
	return m.Apply(next, cur)
}

// Current resolves the session's active context when the caller supplied no
// chain: the cursor chain when set, otherwise the root chain of the active
// base.
func (m *Manager) Current(cur chain.Cursor) chain.Resolved {
	if cur.Chain != nil {
		return chain.Resolve(*cur.Chain, cur)
	}
	return chain.Resolve(chain.Root(cur.Base), cur)
}

// notifyIfChanged emits a context-change notification unless the chain's
// canonical display form matches the last one shown.
func (m *Manager) notifyIfChanged(c chain.Chain) {
	display := c.String()
	if display == m.lastShown {
		return
	}
	m.lastShown = display
	if m.notifier != nil {
		m.notifier.ContextChanged(c)
	}
}
