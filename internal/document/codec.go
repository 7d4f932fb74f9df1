package document

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrCorrupt marks a stored payload that is not a list of {title, content} objects.
var ErrCorrupt = errors.New("corrupt section payload")

const sectionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "content"],
    "properties": {
      "title": {"type": "string"},
      "content": {"type": "string"}
    }
  }
}`

var compiledSectionsSchema = jsonschema.MustCompileString("mem://grantdraft/sections.schema.json", sectionsSchema)

// Encode serializes sections as a JSON array. A nil slice encodes as [].
func Encode(sections []Section) ([]byte, error) {
	if sections == nil {
		sections = []Section{}
	}
	return json.Marshal(sections)
}

// Decode parses and shape-checks a stored payload. Duplicate titles are
// folded together in order, later content winning. Blank titles are corrupt.
func Decode(raw []byte) ([]Section, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := compiledSectionsSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var parsed []Section
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	out := make([]Section, 0, len(parsed))
	for _, s := range parsed {
		out = Merge(out, s.Title, s.Content)
	}
	if err := Validate(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}
