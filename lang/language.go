package lang

import "strings"

type validationLines struct {
	// Default messages for rules
	rules map[string]string

	// Field names translations
	fields map[string]string
}

// Language represents a full Language.
type Language struct {
	lines      map[string]string
	validation validationLines
	name       string
}

// Name returns the name of the language. For example "en-US".
func (l *Language) Name() string {
	return l.name
}

func (l *Language) clone() *Language {
	cpy := &Language{
		name:  l.name,
		lines: make(map[string]string, len(l.lines)),
		validation: validationLines{
			rules:  make(map[string]string, len(l.validation.rules)),
			fields: make(map[string]string, len(l.validation.fields)),
		},
	}

	mergeLang(cpy, l)
	return cpy
}

// Get a language line.
//
// For validation rules messages and field names, use a dot-separated path:
//   - "validation.rules.<rule_name>"
//   - "validation.fields.<field_name>"
//
// For normal lines, just use the name of the line. If not found, returns the
// exact "line" argument.
//
// The placeholders parameter is a variadic associative slice of placeholders and their
// replacement:
//
//	lang.Get("validation.rules.email", ":field", "contact address")
func (l *Language) Get(line string, placeholders ...string) string {
	if rule, ok := strings.CutPrefix(line, "validation.rules."); ok {
		return convertEmptyLine(line, l.validation.rules[rule], placeholders)
	} else if field, ok := strings.CutPrefix(line, "validation.fields."); ok {
		return convertEmptyLine(line, l.validation.fields[field], placeholders)
	}

	return convertEmptyLine(line, l.lines[line], placeholders)
}

func convertEmptyLine(entry, line string, placeholders []string) string {
	if line == "" {
		return entry
	}
	return ProcessPlaceholders(line, placeholders)
}

// ProcessPlaceholders replaces the given placeholders in the message.
// The values slice is associative: placeholder, replacement, placeholder, replacement...
func ProcessPlaceholders(message string, values []string) string {
	length := len(values) - 1
	result := message
	for i := 0; i < length; i += 2 {
		result = strings.ReplaceAll(result, values[i], values[i+1])
	}
	return result
}
