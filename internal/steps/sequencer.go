package steps

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCatalog = errors.New("step catalog is empty")
	ErrOutOfRange   = errors.New("step index out of range")
)

// Sequencer tracks the active step. It is not safe for concurrent use;
// the owner serializes access.
type Sequencer struct {
	steps  []Step
	active int
}

// StepStatus is a display row for one step.
type StepStatus struct {
	Index     int
	Step      Step
	Active    bool
	Satisfied bool
}

func NewSequencer(catalog []Step) *Sequencer {
	return &Sequencer{steps: append([]Step(nil), catalog...)}
}

func (s *Sequencer) Current() (Step, error) {
	if len(s.steps) == 0 {
		return Step{}, ErrEmptyCatalog
	}
	return s.steps[s.active], nil
}

// Advance moves forward by one and reports whether it moved.
// At the last step it is a no-op.
func (s *Sequencer) Advance() bool {
	if s.active >= len(s.steps)-1 {
		return false
	}
	s.active++
	return true
}

func (s *Sequencer) Select(index int) error {
	if index < 0 || index >= len(s.steps) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	s.active = index
	return nil
}

func (s *Sequencer) SelectID(id ID) error {
	for i, st := range s.steps {
		if st.ID == id {
			s.active = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownStep, id)
}

func (s *Sequencer) Index() int { return s.active }
func (s *Sequencer) Len() int { return len(s.steps) }
func (s *Sequencer) IsFirst() bool { return s.active == 0 }
func (s *Sequencer) IsLast() bool { return s.active >= len(s.steps)-1 }

func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// IsSatisfied reports whether document already holds a section for step.
// Used for display only; it never gates generation.
func IsSatisfied(step Step, document string) bool {
	return strings.Contains(document, step.Heading())
}

func (s *Sequencer) Progress(document string) []StepStatus {
	out := make([]StepStatus, 0, len(s.steps))
	for i, st := range s.steps {
		out = append(out, StepStatus{
			Index:     i,
			Step:      st,
			Active:    i == s.active,
			Satisfied: IsSatisfied(st, document),
		})
	}
	return out
}
