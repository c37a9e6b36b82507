package domain

import "encoding/json"

// ParseList decodes a JSON-encoded string list stored in a single text
// column. Missing or malformed text decodes to an empty list, never an
// error: catalog rows written by older admin tooling carry free-form
// text in these columns and readers must keep working.
func ParseList(text string) []string {
	if text == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return []string{}
	}
	if items == nil {
		return []string{}
	}
	return items
}

// EncodeList encodes a string list as canonical JSON text. A nil slice
// encodes as "[]" so storage never holds null.
func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		// A []string cannot fail to marshal; keep storage canonical anyway.
		return "[]"
	}
	return string(b)
}

// CanonicalList re-encodes arbitrary stored or submitted text through
// the lenient parse so storage always holds valid JSON list text.
func CanonicalList(text string) string {
	return EncodeList(ParseList(text))
}
