package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw, fallback string) Chain {
	t.Helper()
	c, err := Parse(raw, fallback)
	require.NoError(t, err)
	return c
}

func TestResolve_ChainBaseWins(t *testing.T) {
	c := mustParse(t, "@proj.ws.var.store", "fallback")
	cur := Cursor{Base: "work"}

	r := Resolve(c, cur)

	// The parser pre-seeded the fallback, so it wins over the cursor base.
	assert.Equal(t, "fallback", r.Base)
	assert.Equal(t, "proj", r.Container)
	assert.Equal(t, "ws", r.Subcontainer)
	assert.Equal(t, "store", r.Tail)
}

func TestResolve_CursorBaseFillsGap(t *testing.T) {
	c := mustParse(t, "@proj.ws.var.store", "")
	cur := Cursor{Base: "work"}

	r := Resolve(c, cur)
	assert.Equal(t, "work", r.Base)
}

func TestResolve_DefaultsWhenEverythingEmpty(t *testing.T) {
	c := mustParse(t, "@proj.ws.var.store", "")
	r := Resolve(c, Cursor{})
	assert.Equal(t, DefaultBase, r.Base)
}

func TestApplyAtomicity_ContainerChange(t *testing.T) {
	old := mustParse(t, "@a.b.var.c", "home")
	next := mustParse(t, "@x.b.var.c", "home")

	got := ApplyAtomicity(old, next)

	assert.Equal(t, "x", got.Container)
	assert.Equal(t, DefaultSubcontainer, got.Subcontainer)
	assert.Equal(t, DefaultTail, got.Tail)
}

func TestApplyAtomicity_SubcontainerChangeOnly(t *testing.T) {
	old := mustParse(t, "@a.b.var.c", "home")
	next := mustParse(t, "@a.y.var.c", "home")

	got := ApplyAtomicity(old, next)

	assert.Equal(t, "a", got.Container)
	assert.Equal(t, "y", got.Subcontainer)
	assert.Equal(t, DefaultTail, got.Tail)
}

func TestApplyAtomicity_TailChangeOnly(t *testing.T) {
	old := mustParse(t, "@a.b.var.c", "home")
	next := mustParse(t, "@a.b.var.z", "home")

	got := ApplyAtomicity(old, next)
	assert.Equal(t, next, got)
}

func TestRoot(t *testing.T) {
	root := Root("home")

	assert.True(t, IsRoot(root))
	assert.Equal(t, "home@ROOT.GLOBAL.var.MAIN", root.String())
	assert.Equal(t, Persistent, root.Mode)
	assert.True(t, root.FullyQualified)
}

func TestIsRoot_IgnoresBase(t *testing.T) {
	work := Root("work")
	home := Root("home")
	assert.True(t, IsRoot(work))
	assert.True(t, IsRoot(home))

	other := mustParse(t, "@ROOT.GLOBAL.var.other", "home")
	assert.False(t, IsRoot(other))
}

func TestIsRootCoordinate(t *testing.T) {
	r := Resolve(Root("home"), DefaultCursor())
	assert.True(t, IsRootCoordinate(r))

	r2 := Resolve(mustParse(t, "@proj.ws.var.store", "home"), DefaultCursor())
	assert.False(t, IsRootCoordinate(r2))
}
