package export

import (
	"fmt"
	"sort"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

var FormatRegistry = map[Format]FormatInfo{
	FormatMarkdown: {
		Name:        FormatMarkdown,
		MIMEType:    "text/markdown",
		Extension:   ".md",
		Description: "Flattened proposal document",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Ordered section list with export metadata",
	},
}

func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat accepts a format name or common alias ("md").
func ParseFormat(raw string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "", "md":
		return FormatMarkdown, nil
	}
	if _, ok := FormatRegistry[Format(v)]; ok {
		return Format(v), nil
	}
	return "", fmt.Errorf("unsupported export format %q (supported: %s)", raw, strings.Join(formatNames(), ", "))
}

func formatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
