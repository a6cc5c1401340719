package validation

import (
	"slices"

	"github.com/samber/lo"
)

// Errors structure representing the validation errors associated with
// the fields of the validated data. The key is the name of the field.
type Errors struct {
	Fields map[string][]string `json:"fields,omitempty"`
}

// Add an error message to the given field.
func (e *Errors) Add(field string, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Get returns the error messages of the given field.
func (e *Errors) Get(field string) []string {
	return e.Fields[field]
}

// Has returns true if the given field has at least one error message.
func (e *Errors) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Merge adds all the messages of the given `*Errors` to this one.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	for field, messages := range other.Fields {
		for _, m := range messages {
			e.Add(field, m)
		}
	}
}

// FieldNames returns the sorted names of the fields having errors.
func (e *Errors) FieldNames() []string {
	names := lo.Keys(e.Fields)
	slices.Sort(names)
	return names
}

// IsEmpty returns true if there is no error message.
func (e *Errors) IsEmpty() bool {
	return len(e.Fields) == 0
}
