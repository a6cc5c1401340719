package email

import "regexp"

// MaxLocalLength the maximum number of characters in the local part of an address.
const MaxLocalLength = 64

// Character classes of the address grammar. They are shared by both modes:
// only the way they are assembled differs.
const (
	// Letters and digits.
	alnum = `A-Za-z0-9`

	// Punctuation allowed anywhere in the local part in standard mode and
	// everywhere but the boundaries in strict mode. The backtick is written
	// as `\x60` because it cannot appear in a raw string literal.
	punctuation = `&*\x60{}^$=!#%+|?"'/~_\-`

	// Content of a quoted substring: printable ASCII except the space,
	// the double quote and the at sign.
	quotedContent = `\x21\x23-\x3f\x41-\x7e`
)

var (
	atomChar     = `[` + alnum + punctuation + `]`
	boundaryChar = `[` + alnum + `]`
	quoted       = `"[` + quotedContent + `]+"`

	// Standard local part: any run of atom characters, dots and quoted substrings.
	standardLocal = `(?:[` + alnum + punctuation + `.]|` + quoted + `)+`

	// Strict local part: starts and ends with a letter, a digit or a complete
	// quoted substring, and every dot is followed by a non-dot element.
	strictEdge  = `(?:` + boundaryChar + `|` + quoted + `)`
	strictLocal = strictEdge + `(?:(?:\.?(?:` + atomChar + `|` + quoted + `))*\.?` + strictEdge + `)?`

	// A label starts and ends with a letter or digit, may contain internal hyphens
	// and is never made of digits only. The second alternative covers labels whose
	// first non-digit character is a hyphen.
	label = `(?:[0-9]*[A-Za-z](?:[` + alnum + `\-]*[` + alnum + `])?|[0-9]+-[` + alnum + `\-]*[` + alnum + `])`

	domainPart = label + `(?:\.` + label + `)*`

	domainRegexp = regexp.MustCompile(`^` + domainPart + `$`)
)

func localPart(strict bool) string {
	if strict {
		return strictLocal
	}
	return standardLocal
}
