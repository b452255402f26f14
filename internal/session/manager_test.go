package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/bookdb/internal/cursor"
	"github.com/dukaforge/bookdb/pkg/chain"
)

// recordingNotifier captures context-change notifications.
type recordingNotifier struct {
	changes []string
}

func (n *recordingNotifier) ContextChanged(c chain.Chain) {
	n.changes = append(n.changes, c.String())
}

func newTestManager(t *testing.T) (*Manager, *cursor.Store, *recordingNotifier) {
	t.Helper()
	store := cursor.NewStore(t.TempDir(), nil)
	notifier := &recordingNotifier{}
	return New(store, notifier, nil), store, notifier
}

func TestApply_PersistentUpdatesCursor(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("@work@proj.ws.var.store", "home")
	require.NoError(t, err)

	resolved, err := m.Apply(next, &cur)
	require.NoError(t, err)

	assert.Equal(t, "work", resolved.Base)
	assert.Equal(t, "work", cur.Base)
	require.NotNil(t, cur.Chain)
	assert.Equal(t, next, *cur.Chain)

	// Persisted: a fresh load sees the update.
	reloaded := store.Load()
	assert.Equal(t, "work", reloaded.Base)
	require.NotNil(t, reloaded.Chain)
	assert.Equal(t, "proj", reloaded.Chain.Container)
}

func TestApply_EphemeralLeavesCursorUntouched(t *testing.T) {
	m, store, notifier := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("%proj.ws.var.store", "home")
	require.NoError(t, err)

	resolved, err := m.Apply(next, &cur)
	require.NoError(t, err)

	assert.Equal(t, "home", resolved.Base)
	assert.Nil(t, cur.Chain)
	assert.Nil(t, store.Load().Chain)

	// Banner still shown once.
	assert.Equal(t, []string{"%proj.ws.var.store"}, notifier.changes)
}

func TestApply_ActionIsPassThrough(t *testing.T) {
	m, store, notifier := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("#proj.ws.var.store", "home")
	require.NoError(t, err)

	resolved, err := m.Apply(next, &cur)
	require.NoError(t, err)

	assert.Equal(t, "home", resolved.Base)
	assert.Nil(t, cur.Chain)
	assert.Empty(t, notifier.changes)
}

func TestApply_AtomicityAgainstCursorChain(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	first, err := chain.Parse("@a.b.var.c", "home")
	require.NoError(t, err)
	_, err = m.Apply(first, &cur)
	require.NoError(t, err)

	// Container change resets subcontainer and tail.
	second, err := chain.Parse("@x.b.var.c", "home")
	require.NoError(t, err)
	resolved, err := m.Apply(second, &cur)
	require.NoError(t, err)

	assert.Equal(t, "x", resolved.Container)
	assert.Equal(t, chain.DefaultSubcontainer, resolved.Subcontainer)
	assert.Equal(t, chain.DefaultTail, resolved.Tail)
}

func TestApply_NoAtomicityOnFirstUse(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("@a.b.var.c", "home")
	require.NoError(t, err)
	resolved, err := m.Apply(next, &cur)
	require.NoError(t, err)

	assert.Equal(t, "b", resolved.Subcontainer)
	assert.Equal(t, "c", resolved.Tail)
}

func TestNotifications_DeduplicatedByDisplayForm(t *testing.T) {
	m, store, notifier := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("@a.b.var.c", "home")
	require.NoError(t, err)

	_, err = m.Apply(next, &cur)
	require.NoError(t, err)
	_, err = m.Apply(next, &cur)
	require.NoError(t, err)

	assert.Equal(t, []string{"@a.b.var.c"}, notifier.changes)
}

func TestCurrent_FallsBackToRootChain(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	resolved := m.Current(cur)

	assert.Equal(t, chain.DefaultBase, resolved.Base)
	assert.True(t, chain.IsRootCoordinate(resolved))
}

func TestCurrent_UsesCursorChainWhenSet(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	next, err := chain.Parse("@proj.ws.var.store", "home")
	require.NoError(t, err)
	_, err = m.Apply(next, &cur)
	require.NoError(t, err)

	resolved := m.Current(cur)
	assert.Equal(t, "proj", resolved.Container)
	assert.Equal(t, "store", resolved.Tail)
}

func TestApplyRaw_SurfacesParseErrors(t *testing.T) {
	m, store, _ := newTestManager(t)
	cur := store.Load()

	_, err := m.ApplyRaw("not-a-chain", &cur)
	assert.ErrorIs(t, err, chain.ErrInvalidMode)
}
