package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/bookdb/pkg/chain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func varCoord(t *testing.T, raw string) chain.Resolved {
	t.Helper()
	c, err := chain.Parse(raw, "home")
	require.NoError(t, err)
	return chain.Resolve(c, chain.DefaultCursor())
}

func TestVars_SetGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.store")

	require.NoError(t, s.SetVar(rc, "API_KEY", "secret"))

	got, err := s.GetVar(rc, "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestVars_SetOverwrites(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.store")

	require.NoError(t, s.SetVar(rc, "K", "one"))
	require.NoError(t, s.SetVar(rc, "K", "two"))

	got, err := s.GetVar(rc, "K")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestVars_GetMissingKey(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.store")
	require.NoError(t, s.SetVar(rc, "EXISTS", "1"))

	_, err := s.GetVar(rc, "MISSING")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestVars_ReadDoesNotCreateNamespaces(t *testing.T) {
	s := newTestStore(t)

	// Base file absent entirely.
	_, err := s.GetVar(varCoord(t, "@proj.ws.var.store"), "K")
	assert.ErrorIs(t, err, ErrBaseNotFound)

	// Base exists, container does not.
	require.NoError(t, s.SetVar(varCoord(t, "@other.ws.var.store"), "K", "v"))
	_, err = s.GetVar(varCoord(t, "@proj.ws.var.store"), "K")
	assert.ErrorIs(t, err, ErrContainerNotFound)

	// Container exists, keystore does not.
	_, err = s.GetVar(varCoord(t, "@other.ws.var.nope"), "K")
	assert.ErrorIs(t, err, ErrKeystoreNotFound)
}

func TestVars_DeleteReportsFound(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.store")
	require.NoError(t, s.SetVar(rc, "K", "v"))

	found, err := s.DeleteVar(rc, "K")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.DeleteVar(rc, "K")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVars_List(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.store")
	require.NoError(t, s.SetVar(rc, "B", "2"))
	require.NoError(t, s.SetVar(rc, "A", "1"))

	vars, err := s.ListVars(rc)
	require.NoError(t, err)
	assert.Equal(t, []Var{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}, vars)
}

func TestIncrVar(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.ws.var.counters")

	t.Run("missing key initializes to delta", func(t *testing.T) {
		got, err := s.IncrVar(rc, "NEW", 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got)
	})

	t.Run("existing numeric value increments", func(t *testing.T) {
		require.NoError(t, s.SetVar(rc, "N", "10"))
		got, err := s.IncrVar(rc, "N", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(13), got)
	})

	t.Run("negative delta decrements", func(t *testing.T) {
		require.NoError(t, s.SetVar(rc, "D", "10"))
		got, err := s.IncrVar(rc, "D", -3)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
	})

	t.Run("non-numeric value fails and is preserved", func(t *testing.T) {
		require.NoError(t, s.SetVar(rc, "TEXT", "hello"))
		_, err := s.IncrVar(rc, "TEXT", 1)
		assert.ErrorIs(t, err, ErrNonNumericValue)

		got, err := s.GetVar(rc, "TEXT")
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})
}

func TestDocs_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.notes.doc.readme")

	require.NoError(t, s.SetDoc(rc, "# Hello\nbody text"))

	body, err := s.GetDoc(rc)
	require.NoError(t, err)
	assert.Equal(t, "# Hello\nbody text", body)
}

func TestDocs_GetMissing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetDoc(varCoord(t, "@proj.notes.doc.other"), "x"))

	_, err := s.GetDoc(varCoord(t, "@proj.notes.doc.readme"))
	assert.ErrorIs(t, err, ErrDocNotFound)
}

func TestDocs_Delete(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@proj.notes.doc.readme")
	require.NoError(t, s.SetDoc(rc, "x"))

	found, err := s.DeleteDoc(rc)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.DeleteDoc(rc)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLists(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetVar(varCoord(t, "@alpha.one.var.ks1"), "K", "v"))
	require.NoError(t, s.SetVar(varCoord(t, "@alpha.two.var.ks2"), "K", "v"))
	require.NoError(t, s.SetVar(varCoord(t, "@beta.one.var.ks1"), "K", "v"))
	require.NoError(t, s.SetDoc(varCoord(t, "@alpha.one.doc.readme"), "x"))

	bases, err := s.ListBases()
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, bases)

	containers, err := s.ListContainers("home")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, containers)

	subs, err := s.ListSubcontainers(varCoord(t, "@alpha.one.var.ks1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, subs)

	keystores, err := s.ListKeystores(varCoord(t, "@alpha.one.var.ks1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ks1"}, keystores)

	docs, err := s.ListDocs(varCoord(t, "@alpha.one.doc.readme"))
	require.NoError(t, err)
	assert.Equal(t, []string{"readme"}, docs)
}

func TestInstall(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.Installed("home"))

	id, err := s.Install("home")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, s.Installed("home"))

	// Idempotent: second install keeps the id.
	again, err := s.Install("home")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := s.InstallID("home")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestInstallMarker_Protected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Install("home")
	require.NoError(t, err)

	rc := chain.Resolve(chain.Root("home"), chain.DefaultCursor())
	_, err = s.DeleteVar(rc, InstallMarkerKey)
	assert.ErrorIs(t, err, ErrRootProtected)

	// Other keys at the root coordinate remain deletable.
	require.NoError(t, s.SetVar(rc, "OTHER", "v"))
	found, err := s.DeleteVar(rc, "OTHER")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetVar(varCoord(t, "@p.w.var.k"), "K", "v"))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.GetVar(varCoord(t, "@p.w.var.k"), "K")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_InvalidBaseName(t *testing.T) {
	s := newTestStore(t)
	rc := varCoord(t, "@p.w.var.k")
	rc.Base = "../escape"

	err := s.SetVar(rc, "K", "v")
	assert.ErrorIs(t, err, ErrInvalidBaseName)
}
