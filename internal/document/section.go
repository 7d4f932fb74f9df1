package document

import (
	"fmt"
	"strings"
)

// Separator joins rendered sections in the flattened document.
const Separator = "\n\n---\n\n"

// Section is the stored content for one step, identified by its title.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Merge returns a new slice with content stored under title. An existing
// section keeps its position; a new one is appended. The input is not modified.
func Merge(sections []Section, title, content string) []Section {
	out := make([]Section, len(sections), len(sections)+1)
	copy(out, sections)
	if _, i, ok := Find(out, title); ok {
		out[i] = Section{Title: title, Content: content}
		return out
	}
	return append(out, Section{Title: title, Content: content})
}

// Find looks a section up by exact title.
func Find(sections []Section, title string) (Section, int, bool) {
	for i, s := range sections {
		if s.Title == title {
			return s, i, true
		}
	}
	return Section{}, -1, false
}

// Render flattens sections into the document text. It is the only producer
// of document text, so the document always follows from the sections alone.
func Render(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, RenderSection(s))
	}
	return strings.Join(parts, Separator)
}

func RenderSection(s Section) string {
	return "## " + s.Title + "\n\n" + s.Content
}

// Validate checks that titles are present and unique.
func Validate(sections []Section) error {
	seen := make(map[string]bool, len(sections))
	for i, s := range sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("section %d: title is required", i)
		}
		if seen[s.Title] {
			return fmt.Errorf("section %d: duplicate title %q", i, s.Title)
		}
		seen[s.Title] = true
	}
	return nil
}

// Clone returns an independent copy; nil stays nil.
func Clone(sections []Section) []Section {
	if sections == nil {
		return nil
	}
	return append([]Section(nil), sections...)
}
