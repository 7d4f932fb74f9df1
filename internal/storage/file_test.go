package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"grantdraft/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := Draft{
		Name:       "eeg",
		Sections:   []document.Section{{Title: "Project Abstract", Content: "text"}},
		ActiveStep: 1,
	}
	require.NoError(t, store.SaveDraft(ctx, in))

	out, err := store.LoadDraft(ctx, "eeg")
	require.NoError(t, err)
	assert.Equal(t, in.Sections, out.Sections)
	assert.Equal(t, 1, out.ActiveStep)
	assert.False(t, out.UpdatedAt.IsZero())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadDraft(context.Background(), "none")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_CorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shape.json"),
		[]byte(`{"name":"shape","sections":[{"title":"X"}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte(`not json`), 0644))

	_, err = store.LoadDraft(ctx, "shape")
	assert.ErrorIs(t, err, document.ErrCorrupt)
	_, err = store.LoadDraft(ctx, "garbage")
	assert.ErrorIs(t, err, document.ErrCorrupt)

	list, err := store.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Corrupt)
	assert.True(t, list[1].Corrupt)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveDraft(ctx, Draft{Name: "x"}))
	require.NoError(t, store.DeleteDraft(ctx, "x"))
	require.NoError(t, store.DeleteDraft(ctx, "x"))

	list, err := store.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStore_RejectsNamesOutsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "drafts")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	err = store.SaveDraft(ctx, Draft{Name: "../escaped"})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, statErr := os.Stat(filepath.Join(root, "escaped.json"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = store.LoadDraft(ctx, "../escaped")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, store.DeleteDraft(ctx, "sub/x"), ErrInvalidName)
}
