package main

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/bookdb/internal/sqlite"
	"github.com/dukaforge/bookdb/pkg/chain"
)

func TestOptionalChainArg(t *testing.T) {
	assert.Equal(t, "", optionalChainArg([]string{"KEY"}, 1))
	assert.Equal(t, "@a.b.var.c", optionalChainArg([]string{"KEY", "@a.b.var.c"}, 1))
	assert.Equal(t, "", optionalChainArg(nil, 0))
}

func TestRequireAnchor(t *testing.T) {
	c, err := chain.Parse("@a.b.var.c", "home")
	require.NoError(t, err)
	rc := chain.Resolve(c, chain.DefaultCursor())

	assert.NoError(t, requireAnchor(rc, chain.Variable))
	assert.Error(t, requireAnchor(rc, chain.Document))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 60))
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	got := truncate(string(long), 60)
	assert.Len(t, got, 60)
	assert.Contains(t, got, "...")
}

func TestTruncate_MultiByteRunesStayIntact(t *testing.T) {
	long := "日本語のテキストが長すぎる場合でも文字の途中で切れない"

	got := truncate(long, 10)

	assert.True(t, utf8.ValidString(got), "truncated value contains a broken rune: %q", got)
	assert.Equal(t, string([]rune(long)[:7])+"...", got)
}

func TestParseIncrementArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		amount    int64
		chainArg  string
		wantError bool
	}{
		{name: "no args defaults to one", args: nil, amount: 1},
		{name: "amount only", args: []string{"5"}, amount: 5},
		{name: "chain only", args: []string{"@a.b.var.c"}, amount: 1, chainArg: "@a.b.var.c"},
		{name: "amount then chain", args: []string{"3", "%a.b.var.c"}, amount: 3, chainArg: "%a.b.var.c"},
		{name: "empty argument", args: []string{""}, wantError: true},
		{name: "non-numeric amount", args: []string{"lots"}, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, chainArg, err := parseIncrementArgs(tt.args)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, amount)
			assert.Equal(t, tt.chainArg, chainArg)
		})
	}
}

func TestWriteExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.env")
	vars := []sqlite.Var{
		{Key: "API_KEY", Value: "secret"},
		{Key: "QUOTED", Value: `say "hi"`},
	}

	require.NoError(t, writeExportFile(path, vars))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=\"secret\"\nQUOTED=\"say \\\"hi\\\"\"\n", string(data))
}

func TestWriteExportFile_UnwritablePath(t *testing.T) {
	err := writeExportFile(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestCheckInstalled(t *testing.T) {
	store, err := sqlite.Open(sqlite.Config{DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	a := &app{store: store, requireInstall: true}

	err = a.checkInstalled("home")
	assert.ErrorIs(t, err, sqlite.ErrNotInstalled)

	_, err = store.Install("work")
	require.NoError(t, err)

	assert.NoError(t, a.checkInstalled("work"))
	assert.ErrorIs(t, a.checkInstalled("home"), sqlite.ErrNotInstalled)

	a.requireInstall = false
	assert.NoError(t, a.checkInstalled("home"))
}
