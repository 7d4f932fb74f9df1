package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grantdraft/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []document.Section{
	{Title: "Project Abstract", Content: "We study choices."},
	{Title: "Data Simulation", Content: "id,rt\n1,500"},
}

func TestFileExporter_Markdown(t *testing.T) {
	dir := t.TempDir()
	e := NewFileExporter(dir, "")

	art, err := e.Export(context.Background(), sample, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grant-proposal.md"), art.Path)

	b, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, document.Render(sample), string(b))
	assert.Equal(t, len(b), art.Bytes)
}

func TestFileExporter_JSON(t *testing.T) {
	dir := t.TempDir()
	e := NewFileExporter(dir, "proposal")
	e.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	art, err := e.Export(context.Background(), sample, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "proposal.json"), art.Path)

	b, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	var got jsonExport
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "2026-01-02T03:04:05Z", got.GeneratedAt)
	assert.Equal(t, sample, got.Sections)
}

func TestFileExporter_EmptyDocumentWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := NewFileExporter(dir, "")

	for _, sections := range [][]document.Section{nil, {}} {
		_, err := e.Export(context.Background(), sections, FormatMarkdown)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestFileExporter_RejectsBasenameOutsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")

	for _, name := range []string{"../../escaped-export", "sub/name", `..\x`} {
		e := NewFileExporter(dir, name)
		_, err := e.Export(context.Background(), sample, FormatMarkdown)
		assert.ErrorIs(t, err, ErrInvalidBasename, name)
	}
	_, err := os.Stat(filepath.Join(root, "escaped-export.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileExporter_UnknownFormat(t *testing.T) {
	e := NewFileExporter(t.TempDir(), "")
	_, err := e.Export(context.Background(), sample, Format("pdf"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyDocument)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("docx")
	assert.ErrorContains(t, err, "json, markdown")
}
