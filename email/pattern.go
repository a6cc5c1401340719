package email

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Code-Hex/uniseg"
)

var patterns sync.Map // Options -> *Pattern

// Pattern the compiled matcher for a set of `Options`.
//
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	regexp *regexp.Regexp
}

// MatchString reports whether the whole given string is an address accepted
// by this pattern. No whitespace normalization is performed, use `Trim` first
// if the input comes from a standard-mode field.
func (p *Pattern) MatchString(s string) bool {
	at := strings.IndexByte(s, '@')
	if at < 1 || uniseg.GraphemeClusterCount(s[:at]) > MaxLocalLength {
		return false
	}
	return p.regexp.MatchString(s)
}

// Regexp returns the underlying regular expression. Unlike `MatchString`, it
// doesn't enforce the local part maximum length.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.regexp
}

func (p *Pattern) String() string {
	return p.regexp.String()
}

// Regexp returns the memoized `Pattern` matching the addresses accepted with
// the given options. The pattern is compiled on first use only.
//
// Panics if `opts.Domain` is not a valid domain (see `Options.Validate`).
func Regexp(opts Options) *Pattern {
	if p, ok := patterns.Load(opts); ok {
		return p.(*Pattern)
	}
	if err := opts.Validate(); err != nil {
		panic(err)
	}
	p, _ := patterns.LoadOrStore(opts, compile(opts))
	return p.(*Pattern)
}

func compile(opts Options) *Pattern {
	domain := domainPart
	if opts.Domain != "" {
		domain = `(?i:` + regexp.QuoteMeta(opts.Domain) + `)`
	}
	return &Pattern{
		regexp: regexp.MustCompile(`^(?:` + localPart(opts.StrictMode) + `)@` + domain + `$`),
	}
}
