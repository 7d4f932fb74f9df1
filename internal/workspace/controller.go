package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"grantdraft/internal/document"
	"grantdraft/internal/export"
	"grantdraft/internal/generation"
	"grantdraft/internal/logger"
	"grantdraft/internal/prompt"
	"grantdraft/internal/steps"
	"grantdraft/internal/storage"

	"github.com/google/uuid"
)

// User-facing messages.
const (
	FailedToGenerateMessage  = "Failed to generate content. Please check your connection and API key."
	PersistenceFailedMessage = "Failed to save or load the draft."
	ExportFailedMessage      = "Failed to export the document."
	NothingToExportNotice    = "Nothing to export yet. Generate a section first."
)

var (
	ErrBusy             = errors.New("a generation is already in progress")
	ErrGenerationFailed = errors.New("generation failed")
	ErrPersistence      = errors.New("draft storage unavailable")
	ErrExport           = errors.New("export unavailable")
	ErrNothingToImport  = errors.New("no sections found to import")
)

type Options struct {
	// Draft names the stored record; empty means storage.DefaultDraft.
	Draft    string
	Store    storage.Store
	Exporter export.Exporter
	Logger   *logger.Logger
}

// Controller owns the drafting state: the section list, the active step, the
// scratch input and the generation status. All access goes through its
// methods; returned slices are copies.
type Controller struct {
	gen      generation.Generator
	store    storage.Store
	exporter export.Exporter
	log      *logger.Logger
	draft    string

	mu       sync.Mutex
	seq      *steps.Sequencer
	sections []document.Section
	input    string
	busy     bool
	errMsg   string
	notice   string
}

// Result reports one completed generation.
type Result struct {
	RequestID string
	Step      steps.Step
	Content   string
	Duration  time.Duration
}

func New(gen generation.Generator, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	draft := opts.Draft
	if draft == "" {
		draft = storage.DefaultDraft
	}
	return &Controller{
		gen:      gen,
		store:    opts.Store,
		exporter: opts.Exporter,
		log:      log.With("draft", draft),
		draft:    draft,
		seq:      steps.NewSequencer(steps.Catalog()),
	}
}

// Generate runs the active step: Idle -> Generating -> Idle. The sequencer
// advances (and the input is cleared) when the request is issued, before the
// provider answers. A second call while one is in flight returns ErrBusy.
// On failure the sections are left untouched.
func (c *Controller) Generate(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return Result{}, ErrBusy
	}
	step, err := c.seq.Current()
	if err != nil {
		c.mu.Unlock()
		return Result{}, err
	}
	doc := document.Render(c.sections)
	request := prompt.Compose(step, prompt.ResolveContext(c.input, c.seq.Index(), doc), doc)
	c.busy = true
	c.errMsg = ""
	c.notice = ""
	if c.seq.Advance() {
		c.input = ""
	}
	c.mu.Unlock()

	res := Result{RequestID: uuid.NewString(), Step: step}
	log := c.log.With("request_id", res.RequestID, "step", string(step.ID))
	log.Debug("generation started", "prompt_chars", len(request))

	start := time.Now()
	text, err := c.gen.Generate(ctx, request)
	res.Duration = time.Since(start)
	if err == nil && strings.TrimSpace(text) == "" {
		err = generation.ErrEmptyResponse
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.errMsg = FailedToGenerateMessage
		log.Error("generation failed", "error", err, "duration", res.Duration)
		return res, fmt.Errorf("%w: %s: %w", ErrGenerationFailed, step.ID, err)
	}

	c.sections = document.Merge(c.sections, step.Title, text)
	res.Content = text
	log.Info("section generated", "title", step.Title, "chars", len(text), "duration", res.Duration)
	return res, nil
}

func (c *Controller) SetInput(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = input
}

func (c *Controller) SelectStep(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Select(index)
}

func (c *Controller) SelectStepID(id steps.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.SelectID(id)
}

// Reset clears all sections and returns to the first step.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.sections = nil
	c.input = ""
	c.errMsg = ""
	c.notice = ""
	_ = c.seq.Select(0)
	return nil
}

// Import replaces the sections with those parsed from an exported document.
// Only headings naming a catalog step start a section. The active step moves
// to the first step the imported document does not cover (the first step
// when it covers all of them), and the input is cleared.
func (c *Controller) Import(markdown string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return 0, ErrBusy
	}

	catalog := c.seq.Steps()
	titles := make([]string, 0, len(catalog))
	for _, st := range catalog {
		titles = append(titles, st.Title)
	}
	sections := document.Split(markdown, titles...)
	if len(sections) == 0 {
		return 0, ErrNothingToImport
	}
	if err := document.Validate(sections); err != nil {
		return 0, fmt.Errorf("failed to import document: %w", err)
	}

	c.sections = sections
	c.input = ""
	c.errMsg = ""
	c.notice = ""
	next := 0
	for _, st := range c.seq.Progress(document.Render(sections)) {
		if !st.Satisfied {
			next = st.Index
			break
		}
	}
	_ = c.seq.Select(next)
	c.log.Info("document imported", "sections", len(sections), "active_step", next)
	return len(sections), nil
}
