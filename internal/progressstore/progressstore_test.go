package progressstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSet(t *testing.T) {
	t.Run("round-trips progress through disk", func(t *testing.T) {
		store := New(t.TempDir())

		require.NoError(t, store.Set("book_a", Progress{
			ChapterIndex: 4,
			CFI:          "/2/4/1:0",
			Percent:      37.5,
		}))

		got, ok := store.Get("book_a")
		assert.True(t, ok)
		assert.Equal(t, 4, got.ChapterIndex)
		assert.Equal(t, "/2/4/1:0", got.CFI)
		assert.Equal(t, 37.5, got.Percent)
		assert.NotEmpty(t, got.UpdatedAt, "timestamp is assigned server-side")
	})

	t.Run("returns zero value for a book never opened", func(t *testing.T) {
		store := New(t.TempDir())

		got, ok := store.Get("never_opened")
		assert.False(t, ok)
		assert.Equal(t, Progress{}, got)
	})

	t.Run("overwrites previous progress", func(t *testing.T) {
		store := New(t.TempDir())
		require.NoError(t, store.Set("book_a", Progress{ChapterIndex: 1}))
		require.NoError(t, store.Set("book_a", Progress{ChapterIndex: 9, PageNum: 12}))

		got, ok := store.Get("book_a")
		assert.True(t, ok)
		assert.Equal(t, 9, got.ChapterIndex)
		assert.Equal(t, 12, got.PageNum)
	})

	t.Run("treats a corrupt file as no progress", func(t *testing.T) {
		dir := t.TempDir()
		store := New(dir)
		bookDir := filepath.Join(dir, "broken_book")
		require.NoError(t, os.MkdirAll(bookDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(bookDir, progressFileName), []byte("not json"), 0644))

		_, ok := store.Get("broken_book")
		assert.False(t, ok)
	})
}
