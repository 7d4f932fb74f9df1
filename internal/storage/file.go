package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"grantdraft/internal/document"
)

// FileStore keeps one JSON file per draft under dir.
type FileStore struct {
	dir string
}

type fileRecord struct {
	Name       string          `json:"name"`
	ActiveStep int             `json:"active_step"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Sections   json.RawMessage `json:"sections"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error { return nil }

// resolve returns the draft name and its file path.
func (s *FileStore) resolve(name string) (string, string, error) {
	name, err := draftName(name)
	if err != nil {
		return "", "", err
	}
	return name, filepath.Join(s.dir, name+".json"), nil
}

func (s *FileStore) SaveDraft(ctx context.Context, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, path, err := s.resolve(d.Name)
	if err != nil {
		return err
	}
	payload, err := document.Encode(d.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode sections: %w", err)
	}
	rec := fileRecord{
		Name:       name,
		ActiveStep: d.ActiveStep,
		UpdatedAt:  d.UpdatedAt,
		Sections:   payload,
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	// atomic replace
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) LoadDraft(ctx context.Context, name string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	name, path, err := s.resolve(name)
	if err != nil {
		return Draft{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Draft{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Draft{}, err
	}

	var rec fileRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return Draft{}, fmt.Errorf("draft %s: %w: %v", name, document.ErrCorrupt, err)
	}
	sections, err := document.Decode(rec.Sections)
	if err != nil {
		return Draft{}, fmt.Errorf("draft %s: %w", name, err)
	}
	return Draft{
		Name:       name,
		Sections:   sections,
		ActiveStep: rec.ActiveStep,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

func (s *FileStore) DeleteDraft(ctx context.Context, name string) error {
	_, path, err := s.resolve(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) ListDrafts(ctx context.Context) ([]DraftInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []DraftInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		d, err := s.LoadDraft(ctx, name)
		if err != nil {
			if errors.Is(err, ErrInvalidName) {
				continue
			}
			if errors.Is(err, document.ErrCorrupt) {
				out = append(out, DraftInfo{Name: name, Corrupt: true})
				continue
			}
			return nil, err
		}
		out = append(out, DraftInfo{
			Name:         d.Name,
			SectionCount: len(d.Sections),
			ActiveStep:   d.ActiveStep,
			UpdatedAt:    d.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
