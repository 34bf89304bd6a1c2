package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Put then Get returns the value", func(t *testing.T) {
		// Given: an empty directory
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)

		// When: a record is written
		require.NoError(t, store.Put(ctx, "abcdef", []byte(`{"id":"abcdef"}`)))

		// Then: it reads back unchanged
		value, err := store.Get(ctx, "abcdef")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"abcdef"}`, string(value))
	})

	t.Run("Put replaces and leaves no temp files", func(t *testing.T) {
		// Given: a directory with one record
		dir := t.TempDir()
		store, err := NewFileStorage(dir)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "abcdef", []byte("old")))

		// When: it is overwritten
		require.NoError(t, store.Put(ctx, "abcdef", []byte("new")))

		// Then: only the final file remains
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "abcdef.json", entries[0].Name())

		value, err := os.ReadFile(filepath.Join(dir, "abcdef.json"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
	})

	t.Run("Readers never see a partial record", func(t *testing.T) {
		// Given: a record being rewritten by several writers
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)

		values := [][]byte{[]byte(`"first value"`), []byte(`"second, somewhat longer, value"`)}
		require.NoError(t, store.Put(ctx, "abcdef", values[0]))

		var wg sync.WaitGroup
		for i := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					assert.NoError(t, store.Put(ctx, "abcdef", values[i%2]))
				}
			}()
		}

		// When: the record is read while writes are in flight
		for range 200 {
			value, err := store.Get(ctx, "abcdef")

			// Then: every read is one of the complete values
			require.NoError(t, err)
			assert.Contains(t, []string{string(values[0]), string(values[1])}, string(value))
		}

		wg.Wait()
	})

	t.Run("Missing records report ErrNotFound", func(t *testing.T) {
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)

		_, err = store.Get(ctx, "zzzzzz")
		require.ErrorIs(t, err, ErrNotFound)

		err = store.Delete(ctx, "zzzzzz")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete removes the record", func(t *testing.T) {
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "abcdef", []byte("x")))

		require.NoError(t, store.Delete(ctx, "abcdef"))

		_, err = store.Get(ctx, "abcdef")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Keys that could escape the directory are rejected", func(t *testing.T) {
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)

		for _, key := range []string{"", "../etc", "a/b", `a\b`, ".hidden"} {
			err = store.Put(ctx, key, []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidKey, key)
		}
	})

	t.Run("Keys that can never be written are not found", func(t *testing.T) {
		store, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)

		for _, key := range []string{"", "a.b", "..", "x/y", `a\b`} {
			_, err = store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound, key)

			err = store.Delete(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound, key)
		}
	})
}
