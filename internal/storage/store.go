package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grantdraft/internal/document"
)

// DefaultDraft is the draft name used when none is given.
const DefaultDraft = "default"

var (
	ErrNotFound    = errors.New("draft not found")
	ErrInvalidName = errors.New("invalid draft name")
)

// Draft is the persisted record for one proposal.
type Draft struct {
	Name       string
	Sections   []document.Section
	ActiveStep int
	UpdatedAt  time.Time
}

// DraftInfo is a listing row. Corrupt is set when the stored record could
// not be read; the other fields are then best effort.
type DraftInfo struct {
	Name         string
	SectionCount int
	ActiveStep   int
	UpdatedAt    time.Time
	Corrupt      bool
}

// Store persists drafts. LoadDraft returns ErrNotFound for an unknown name and
// an error wrapping document.ErrCorrupt when the stored sections fail validation.
type Store interface {
	SaveDraft(ctx context.Context, d Draft) error
	LoadDraft(ctx context.Context, name string) (Draft, error)
	DeleteDraft(ctx context.Context, name string) error
	ListDrafts(ctx context.Context) ([]DraftInfo, error)
	Close() error
}

// Open builds the store selected by driver ("sqlite" or "file").
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLiteStore(path)
	case "file":
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

// ValidateName rejects names that could leave the store or export directory.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func draftName(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if name == "" {
		return DefaultDraft, nil
	}
	return name, nil
}
