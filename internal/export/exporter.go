package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grantdraft/internal/document"
)

// ErrEmptyDocument is returned when there is nothing to export. It is a
// notice for the user rather than a failure.
var ErrEmptyDocument = errors.New("document is empty")

var ErrInvalidBasename = errors.New("invalid export file name")

// Artifact describes a written export.
type Artifact struct {
	Path   string
	Format Format
	Bytes  int
}

type Exporter interface {
	Export(ctx context.Context, sections []document.Section, format Format) (Artifact, error)
}

type jsonExport struct {
	Title       string             `json:"title"`
	GeneratedAt string             `json:"generated_at"`
	Sections    []document.Section `json:"sections"`
}

// FileExporter writes <dir>/<basename><ext>.
type FileExporter struct {
	dir      string
	basename string
	now      func() time.Time
}

func NewFileExporter(dir, basename string) *FileExporter {
	if strings.TrimSpace(basename) == "" {
		basename = "grant-proposal"
	}
	return &FileExporter{dir: dir, basename: basename, now: time.Now}
}

func (e *FileExporter) Export(ctx context.Context, sections []document.Section, format Format) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	info, ok := GetFormatInfo(format)
	if !ok {
		return Artifact{}, fmt.Errorf("unsupported export format %q", format)
	}
	if strings.Contains(e.basename, "..") || strings.ContainsAny(e.basename, `/\`) {
		return Artifact{}, fmt.Errorf("%w: %q", ErrInvalidBasename, e.basename)
	}
	doc := document.Render(sections)
	if strings.TrimSpace(doc) == "" {
		return Artifact{}, ErrEmptyDocument
	}

	var body []byte
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(jsonExport{
			Title:       "Grant Proposal",
			GeneratedAt: e.now().UTC().Format(time.RFC3339),
			Sections:    sections,
		}, "", "  ")
		if err != nil {
			return Artifact{}, err
		}
		body = append(b, '\n')
	default:
		body = []byte(doc)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(e.dir, e.basename+info.Extension)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return Artifact{}, fmt.Errorf("failed to write export: %w", err)
	}
	return Artifact{Path: path, Format: format, Bytes: len(body)}, nil
}
