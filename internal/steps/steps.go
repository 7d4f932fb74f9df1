package steps

import (
	"errors"
	"fmt"
	"strings"
)

// ID identifies a workflow step. The set of valid ids is closed.
type ID string

const (
	Abstract       ID = "abstract"
	Hypothesis     ID = "hypothesis"
	Methodology    ID = "methodology"
	DataSimulation ID = "data_simulation"
)

var ErrUnknownStep = errors.New("unknown step")

// Step is one stage in the grant-writing workflow.
type Step struct {
	ID          ID
	Title       string
	Description string
	Placeholder string
}

var catalog = []Step{
	{
		ID:          Abstract,
		Title:       "Project Abstract",
		Description: "Provide the core summary or abstract from your grant application.",
		Placeholder: "e.g., This study aims to investigate the neural correlates of decision-making under uncertainty using fMRI...",
	},
	{
		ID:          Hypothesis,
		Title:       "Hypothesis Generation",
		Description: "Generate primary and secondary hypotheses based on the abstract.",
		Placeholder: "Click generate to create hypotheses from the abstract.",
	},
	{
		ID:          Methodology,
		Title:       "Methodology Design",
		Description: "Design a detailed experimental methodology.",
		Placeholder: "Click generate to create a methodology based on the abstract and hypotheses.",
	},
	{
		ID:          DataSimulation,
		Title:       "Data Simulation",
		Description: "Generate a sample dataset based on the designed methodology.",
		Placeholder: "Click generate to create a sample CSV dataset.",
	},
}

// Catalog returns a copy of the fixed step catalog in workflow order.
func Catalog() []Step {
	return append([]Step(nil), catalog...)
}

func Lookup(id ID) (Step, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// ParseID accepts a step id in any case, with dashes or underscores.
func ParseID(raw string) (ID, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	id := ID(norm)
	if _, ok := Lookup(id); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, raw)
	}
	return id, nil
}

// Heading is the document heading a step's section is rendered under.
func (s Step) Heading() string {
	return "## " + s.Title
}
