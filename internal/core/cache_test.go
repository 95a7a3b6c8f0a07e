package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LoadsOncePerPath(t *testing.T) {
	path := writeTestXLSX(t, "errors.xlsx", "Sheet1", catalogHeader, catalogRows)
	cache := NewCache(LoadOptions{})

	first, err := cache.Get(path)
	require.NoError(t, err)

	// Removing the file must not matter: the cached table is returned.
	require.NoError(t, os.Remove(path))

	second, err := cache.Get(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Loads())

	_, ok := cache.LoadDuration(path)
	assert.True(t, ok)
}

func TestCache_CachesFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.csv")
	cache := NewCache(LoadOptions{})

	_, err := cache.Get(path)
	require.ErrorIs(t, err, ErrFileNotFound)

	// Creating the file afterwards has no effect until restart.
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	table, err := cache.Get(path)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, 1, cache.Loads())
}

func TestCache_KeyedByPath(t *testing.T) {
	a := writeFile(t, "a.csv", []byte(testCSV))
	b := writeTestXLSX(t, "b.xlsx", "Sheet1", catalogHeader, catalogRows)
	cache := NewCache(LoadOptions{})

	ta, err := cache.Get(a)
	require.NoError(t, err)
	tb, err := cache.Get(b)
	require.NoError(t, err)

	assert.NotSame(t, ta, tb)
	assert.Equal(t, 2, cache.Loads())

	_, ok := cache.LoadDuration(filepath.Join(t.TempDir(), "never.csv"))
	assert.False(t, ok)
}
