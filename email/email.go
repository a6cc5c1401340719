// Package email decides whether a string is a syntactically acceptable email address.
//
// Two policies are available. The standard mode (default) trims surrounding
// whitespace and accepts punctuation anywhere in the local part. The strict mode
// never trims and rejects local parts starting or ending with punctuation or a dot,
// as well as consecutive dots. Every address valid in strict mode is also valid
// in standard mode.
//
// The domain part is the same in both modes: dot-separated labels made of letters,
// digits and internal hyphens. Labels made only of digits are rejected, and so are
// bare IPv4 addresses. Single-label hosts such as "localhost" are accepted.
//
// There is no DNS lookup: the only way to know if an address exists is to send a
// message to it.
package email

import (
	"strings"

	"goyave.dev/emailvalidator/util/errors"
)

// Options the validation configuration. The zero value selects the standard
// mode without domain restriction.
type Options struct {
	// Domain if not empty, only addresses whose domain part equals this
	// domain are accepted. The comparison is literal and case-insensitive.
	Domain string

	// StrictMode selects the strict grammar.
	StrictMode bool
}

// Validate returns an error if the options cannot be used to build a pattern.
// The configured domain must itself be a valid domain.
func (o Options) Validate() error {
	if o.Domain != "" && !domainRegexp.MatchString(o.Domain) {
		return errors.Errorf("email: invalid domain restriction %q", o.Domain)
	}
	return nil
}

// Result the outcome of a classification.
type Result int

// Classification results.
const (
	ResultInvalid Result = iota
	ResultValid
)

func (r Result) String() string {
	if r == ResultValid {
		return "valid"
	}
	return "invalid"
}

// whitespace trimmed in standard mode.
const whitespace = " \t\n\r\v\f"

// Trim returns the candidate as it is matched against the pattern: without its
// leading and trailing whitespace in standard mode, unchanged in strict mode.
func Trim(candidate string, opts Options) string {
	if opts.StrictMode {
		return candidate
	}
	return strings.Trim(candidate, whitespace)
}

// Valid returns true if the candidate is a valid email address with the given options.
//
// Panics if `opts.Domain` is not a valid domain.
func Valid(candidate string, opts Options) bool {
	return Regexp(opts).MatchString(Trim(candidate, opts))
}

// Invalid returns true if the candidate is not a valid email address with the given
// options. It is the exact negation of `Valid`.
func Invalid(candidate string, opts Options) bool {
	return !Valid(candidate, opts)
}

// Classify the given candidate. A nil candidate is only valid if `allowNil` is true.
func Classify(candidate *string, opts Options, allowNil bool) Result {
	if candidate == nil {
		if allowNil {
			return ResultValid
		}
		return ResultInvalid
	}
	if Valid(*candidate, opts) {
		return ResultValid
	}
	return ResultInvalid
}

// Split returns the local part and the domain part of the given address.
// `ok` is false if the address doesn't contain exactly one "@".
func Split(address string) (local, domain string, ok bool) {
	local, domain, found := strings.Cut(address, "@")
	if !found || strings.Contains(domain, "@") {
		return "", "", false
	}
	return local, domain, true
}
