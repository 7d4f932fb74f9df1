package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_JoinsSectionsInStoredOrder(t *testing.T) {
	var sections []Section
	merges := []Section{
		{Title: "Project Abstract", Content: "a1"},
		{Title: "Hypothesis Generation", Content: "h1"},
		{Title: "Project Abstract", Content: "a2"},
		{Title: "Data Simulation", Content: "id,rt\n1,420"},
		{Title: "Hypothesis Generation", Content: "h2"},
	}
	for _, m := range merges {
		sections = Merge(sections, m.Title, m.Content)

		parts := make([]string, 0, len(sections))
		for _, s := range sections {
			parts = append(parts, fmt.Sprintf("## %s\n\n%s", s.Title, s.Content))
		}
		assert.Equal(t, strings.Join(parts, "\n\n---\n\n"), Render(sections))
	}

	assert.Equal(t,
		"## Project Abstract\n\na2\n\n---\n\n## Hypothesis Generation\n\nh2\n\n---\n\n## Data Simulation\n\nid,rt\n1,420",
		Render(sections))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}

func TestMerge_ExistingTitleKeepsLengthAndPosition(t *testing.T) {
	in := []Section{
		{Title: "A", Content: "1"},
		{Title: "B", Content: "2"},
		{Title: "C", Content: "3"},
	}
	out := Merge(in, "B", "updated")

	require.Len(t, out, 3)
	assert.Equal(t, Section{Title: "B", Content: "updated"}, out[1])
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "C", out[2].Title)
}

func TestMerge_NewTitleAppends(t *testing.T) {
	in := []Section{{Title: "A", Content: "1"}}
	out := Merge(in, "B", "2")

	require.Len(t, out, len(in)+1)
	assert.Equal(t, Section{Title: "B", Content: "2"}, out[len(out)-1])
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := make([]Section, 1, 4)
	in[0] = Section{Title: "A", Content: "1"}

	replaced := Merge(in, "A", "changed")
	appended := Merge(in, "B", "2")

	assert.Equal(t, "1", in[0].Content)
	assert.Len(t, in, 1)
	assert.Equal(t, "changed", replaced[0].Content)

	// spare capacity in the input must not be shared with the result
	appended[0].Content = "poked"
	assert.Equal(t, "1", in[0].Content)
}

func TestMerge_TitleMatchIsExact(t *testing.T) {
	out := Merge([]Section{{Title: "Abstract", Content: "1"}}, "abstract", "2")
	assert.Len(t, out, 2)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]Section{{Title: "A"}, {Title: "B"}}))
	assert.Error(t, Validate([]Section{{Title: "A"}, {Title: "A"}}))
	assert.Error(t, Validate([]Section{{Title: "  "}}))
}

func TestClone(t *testing.T) {
	assert.Nil(t, Clone(nil))
	in := []Section{{Title: "A", Content: "1"}}
	c := Clone(in)
	c[0].Content = "2"
	assert.Equal(t, "1", in[0].Content)
}
