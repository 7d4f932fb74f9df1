package workspace

import (
	"context"
	"errors"
	"fmt"

	"grantdraft/internal/document"
	"grantdraft/internal/export"
	"grantdraft/internal/steps"
	"grantdraft/internal/storage"
)

// State is a point-in-time copy of the controller.
type State struct {
	Draft      string
	Sections   []document.Section
	Document   string
	ActiveStep int
	Step       steps.Step
	Input      string
	Busy       bool
	Error      string
	Notice     string
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Draft:      c.draft,
		Sections:   document.Clone(c.sections),
		Document:   document.Render(c.sections),
		ActiveStep: c.seq.Index(),
		Input:      c.input,
		Busy:       c.busy,
		Error:      c.errMsg,
		Notice:     c.notice,
	}
	st.Step, _ = c.seq.Current()
	return st
}

func (c *Controller) Sections() []document.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return document.Clone(c.sections)
}

// Document is the flattened view of the sections.
func (c *Controller) Document() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return document.Render(c.sections)
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Controller) CurrentStep() (steps.Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Current()
}

func (c *Controller) Progress() []steps.StepStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Progress(document.Render(c.sections))
}

// Load restores the draft from the store. A missing draft leaves the fresh
// state in place. A corrupt draft is logged and ignored: the state is kept
// and no user-facing error is set, but the wrapped error is returned.
func (c *Controller) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	d, err := c.store.LoadDraft(ctx, c.draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		c.log.Debug("no saved draft")
		return nil
	case errors.Is(err, document.ErrCorrupt):
		c.log.Warn("ignoring corrupt draft", "error", err)
		return err
	default:
		c.errMsg = PersistenceFailedMessage
		c.log.Error("failed to load draft", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if c.busy {
		return ErrBusy
	}

	c.sections = d.Sections
	c.input = ""
	if err := c.seq.Select(d.ActiveStep); err != nil {
		c.log.Warn("stored active step out of range", "active_step", d.ActiveStep)
		_ = c.seq.Select(0)
	}
	c.log.Debug("draft loaded", "sections", len(d.Sections), "active_step", c.seq.Index())
	return nil
}

// Save writes the sections and the active step.
func (c *Controller) Save(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	d := storage.Draft{
		Name:       c.draft,
		Sections:   document.Clone(c.sections),
		ActiveStep: c.seq.Index(),
	}
	c.mu.Unlock()

	err := c.store.SaveDraft(ctx, d)
	if err == nil {
		return nil
	}
	c.mu.Lock()
	c.errMsg = PersistenceFailedMessage
	c.mu.Unlock()
	c.log.Error("failed to save draft", "error", err)
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// Export writes the document in format. An empty document sets
// NothingToExportNotice and returns a zero Artifact with no error.
func (c *Controller) Export(ctx context.Context, format export.Format) (export.Artifact, error) {
	if c.exporter == nil {
		return export.Artifact{}, fmt.Errorf("%w: no exporter configured", ErrExport)
	}
	sections := c.Sections()

	art, err := c.exporter.Export(ctx, sections, format)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.notice = ""
		c.log.Info("document exported", "path", art.Path, "format", string(art.Format), "bytes", art.Bytes)
		return art, nil
	case errors.Is(err, export.ErrEmptyDocument):
		c.notice = NothingToExportNotice
		return export.Artifact{}, nil
	default:
		c.errMsg = ExportFailedMessage
		c.log.Error("export failed", "error", err)
		return export.Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
	}
}
