package document

import (
	"strings"
)

// Split parses a flattened document produced by Render back into sections.
// A chunk that does not open with a "## " heading belongs to the section
// before it. When titles are given, only headings naming one of them start a
// section, so a "---" rule followed by a "## " subheading inside generated
// content stays in place.
func Split(markdown string, titles ...string) []Section {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	known := make(map[string]bool, len(titles))
	for _, t := range titles {
		known[t] = true
	}

	var sections []Section
	var current *Section
	flush := func() {
		if current != nil {
			sections = Merge(sections, current.Title, current.Content)
		}
	}

	for _, chunk := range strings.Split(text, Separator) {
		title, content, ok := splitHeading(chunk)
		if ok && (len(known) == 0 || known[title]) {
			flush()
			current = &Section{Title: title, Content: content}
			continue
		}
		if current == nil {
			// Content before the first heading
			current = &Section{Title: "Introduction", Content: chunk}
			continue
		}
		current.Content += Separator + chunk
	}
	flush()
	return sections
}

func splitHeading(chunk string) (string, string, bool) {
	if !strings.HasPrefix(chunk, "## ") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(chunk, "\n")
	title := strings.TrimSpace(strings.TrimPrefix(head, "## "))
	if title == "" {
		return "", "", false
	}
	return title, strings.TrimPrefix(rest, "\n"), true
}
