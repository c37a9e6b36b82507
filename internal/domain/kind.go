package domain

// Kind discriminates the two catalog entities. Packages and visas share
// one table and one code path; the Schema for a kind describes where
// their payloads diverge.
type Kind string

const (
	KindPackage Kind = "package"
	KindVisa    Kind = "visa"
)

// Schema describes how a kind shapes its payload: whether the category
// column holds a JSON-encoded list of labels or a single label, and
// which of the string-list fields the kind carries.
type Schema struct {
	Kind Kind

	// CategoryList is true when category is a JSON-encoded ordered list
	// of labels (packages) rather than a single label (visas).
	CategoryList bool

	// CategoryRequired is true when a create without a category label
	// must be rejected.
	CategoryRequired bool

	// ListFields names the JSON-encoded string-list fields this kind
	// exposes, in display order.
	ListFields []string
}

var schemas = map[Kind]Schema{
	KindPackage: {
		Kind:         KindPackage,
		CategoryList: true,
		ListFields:   []string{"highlights", "inclusions", "exclusions"},
	},
	KindVisa: {
		Kind:             KindVisa,
		CategoryList:     false,
		CategoryRequired: true,
		ListFields:       []string{"included", "additionalInformation"},
	},
}

// SchemaFor returns the schema for a kind, or ErrUnknownKind.
func SchemaFor(k Kind) (Schema, error) {
	s, ok := schemas[k]
	if !ok {
		return Schema{}, ErrUnknownKind
	}
	return s, nil
}

// ParseKind maps a route segment to a Kind. Both singular and plural
// forms are accepted since the public routes use plurals.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "package", "packages":
		return KindPackage, nil
	case "visa", "visas":
		return KindVisa, nil
	}
	return "", ErrUnknownKind
}

// HasListField reports whether the schema carries the named list field.
func (s Schema) HasListField(name string) bool {
	for _, f := range s.ListFields {
		if f == name {
			return true
		}
	}
	return false
}
