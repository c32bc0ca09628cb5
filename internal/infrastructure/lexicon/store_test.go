package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provimatch/backend/internal/domain"
)

func TestLoadEmbedded(t *testing.T) {
	lex, err := Load(EmbeddedFS())
	require.NoError(t, err)
	require.NotNil(t, lex)

	assert.NotEmpty(t, lex.Brands.ByID)
	assert.NotEmpty(t, lex.Brands.Aliases)
	assert.NotEmpty(t, lex.NegativeBlocks)
	assert.NotEmpty(t, lex.Abbreviations)

	// Aliases must be sorted longest-first so the resolver's first hit wins
	for i := 1; i < len(lex.Brands.Aliases); i++ {
		assert.GreaterOrEqual(t,
			len(lex.Brands.Aliases[i-1].Alias), len(lex.Brands.Aliases[i].Alias),
			"aliases not sorted by length descending at %d", i)
	}

	// Every parent reference must resolve
	for child, parent := range lex.Brands.ParentOf {
		_, childOK := lex.Brands.ByID[child]
		_, parentOK := lex.Brands.ByID[parent]
		assert.True(t, childOK, "unknown child brand %s", child)
		assert.True(t, parentOK, "unknown parent brand %s", parent)
	}
}

func TestLoadValidation(t *testing.T) {
	writeLexiconDir := func(t *testing.T, brandsYAML string) string {
		t.Helper()
		dir := t.TempDir()
		files := map[string]string{
			brandsFileName:        brandsYAML,
			synonymsFileName:      "groups:\n  - [shrimp, prawn]\n",
			blocksFileName:        "rules: []\n",
			abbreviationsFileName: "abbreviations: {}\n",
		}
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		}
		return dir
	}

	t.Run("alias referencing unknown brand fails", func(t *testing.T) {
		dir := writeLexiconDir(t, "brands:\n  - id: heinz\naliases:\n  heinz: heinz\n  nope: ghost\n")
		_, err := Load(os.DirFS(dir))
		assert.Error(t, err)
	})

	t.Run("duplicate brand id fails", func(t *testing.T) {
		dir := writeLexiconDir(t, "brands:\n  - id: heinz\n  - id: heinz\n")
		_, err := Load(os.DirFS(dir))
		assert.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		dir := writeLexiconDir(t, "brands: [unclosed\n")
		_, err := Load(os.DirFS(dir))
		assert.Error(t, err)
	})

	t.Run("minimal valid dir loads", func(t *testing.T) {
		dir := writeLexiconDir(t, "brands:\n  - id: heinz\naliases:\n  heinz: heinz\n")
		lex, err := Load(os.DirFS(dir))
		require.NoError(t, err)
		assert.Contains(t, lex.Brands.ByID, "heinz")
		assert.True(t, lex.SynonymEquivalent("shrimp", "prawn"))
	})
}

func TestStoreReload(t *testing.T) {
	t.Run("embedded defaults load at construction", func(t *testing.T) {
		store, err := NewStore("", nil)
		require.NoError(t, err)
		require.NotNil(t, store.Current())
	})

	t.Run("failed reload keeps the previous lexicon", func(t *testing.T) {
		store, err := NewStore("", nil)
		require.NoError(t, err)
		before := store.Current()

		store.dir = t.TempDir() // empty dir, load must fail
		err = store.Reload()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrLexiconLoad)
		assert.Same(t, before, store.Current())
	})

	t.Run("hooks run after successful reload only", func(t *testing.T) {
		store, err := NewStore("", nil)
		require.NoError(t, err)

		calls := 0
		store.OnReload(func() { calls++ })

		require.NoError(t, store.Reload())
		assert.Equal(t, 1, calls)

		store.dir = t.TempDir()
		require.Error(t, store.Reload())
		assert.Equal(t, 1, calls, "hook must not run on failed reload")
	})
}
