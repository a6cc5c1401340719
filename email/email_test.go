package email

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	validSpecialChars = map[string]string{
		"ampersand":   "&",
		"asterisk":    "*",
		"backtick":    "`",
		"braceleft":   "{",
		"braceright":  "}",
		"caret":       "^",
		"dollar":      "$",
		"equals":      "=",
		"exclaim":     "!",
		"hash":        "#",
		"hyphen":      "-",
		"percent":     "%",
		"plus":        "+",
		"pipe":        "|",
		"question":    "?",
		"quotedouble": `"`,
		"quotesingle": "'",
		"slash":       "/",
		"tilde":       "~",
		"underscore":  "_",
	}

	invalidSpecialChars = map[string]string{
		"backslash":    `\`,
		"bracketleft":  "[",
		"bracketright": "]",
		"colon":        ":",
		"comma":        ",",
		"greater":      ">",
		"lesser":       "<",
		"parenleft":    "(",
		"parenright":   ")",
		"semicolon":    ";",
	}
)

// validAddresses valid in both modes.
func validAddresses() []string {
	addresses := []string{
		"a+b@plus-in-local.com",
		"a_b@underscore-in-local.com",
		"user@example.com",
		"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ@letters-in-local.dev",
		"01234567890@numbers-in-local.dev",
		"a@single-character-in-local.dev",
		"one-character-third-level@a.example.com",
		"single-character-in-sld@x.dev",
		"local@dash-in-sld.com",
		"numbers-in-sld@s123.com",
		"one-letter-sld@x.dev",
		"uncommon-tld@sld.museum",
		"uncommon-tld@sld.travel",
		"uncommon-tld@sld.mobi",
		"country-code-tld@sld.uk",
		"country-code-tld@sld.rw",
		"local@sld.newTLD",
		"local@sub.domains.com",
		"aaa@bbb.co.jp",
		"nigel.worthington@big.co.uk",
		"f@c.com",
		"f@s",
		"f@s.c",
		"user@localhost",
		"mixed-1234-in-{+^}-local@sld.dev",
		`partially."quoted"@sld.com`,
		"areallylongnameaasdfasdfasdfasdf@asdfasdfasdfasdfasdf.ab.cd.ef.gh.co.ca",
		"leading-digit-label@1password.com",
		"hyphen-after-digits@1-800-flowers.com",
		strings.Repeat("a", 64) + "@sld.dev",
	}
	for name, char := range validSpecialChars {
		addresses = append(addresses, fmt.Sprintf("include-%s-%s@valid-characters-in-local.dev", char, name))
	}
	addresses = append(addresses, "include-.-dot@valid-characters-in-local.dev")
	return addresses
}

// invalidAddresses invalid in both modes.
func invalidAddresses() []string {
	addresses := []string{
		"",
		"@bar.com",
		"test@example.com@example.com",
		"test@",
		"@missing-local.dev",
		"missing-sld@.com",
		"missing-tld@sld.",
		" ",
		"missing-at-sign.dev",
		"only-numbers-in-domain-label@sub.123.com",
		"only-numbers-in-domain-label@123.example.com",
		"unbracketed-IP@127.0.0.1",
		"invalid-ip@127.0.0.1.26",
		"another-invalid-ip@127.0.0.256",
		"IP-and-port@127.0.0.1:25",
		"host-beginning-with-dot@.example.com",
		"domain-beginning-with-dash@-example.com",
		"domain-ending-with-dash@example-.com",
		"domain-with-double-dot@example..com",
		"the-local-part-is-invalid-if-it-is-longer-than-sixty-four-characters@sld.dev",
		strings.Repeat("a", 65) + "@sld.dev",
		"user@example.com\n<script>alert('hello')</script>",
		"include-@-at@invalid-characters-in-local.dev",
		"include- -space@invalid-characters-in-local.dev",
		"bracketed-ip@[127.0.0.1]",
	}
	for name, char := range invalidSpecialChars {
		addresses = append(addresses,
			fmt.Sprintf("include-%s-%s@invalid-characters-in-local.dev", char, name),
			fmt.Sprintf("%sstart-with-%s@invalid-characters-in-local.dev", char, name),
			fmt.Sprintf("end-with-%s%s@invalid-characters-in-local.dev", name, char),
		)
	}
	domainInvalid := map[string]string{}
	for k, v := range invalidSpecialChars {
		domainInvalid[k] = v
	}
	for k, v := range validSpecialChars {
		domainInvalid[k] = v
	}
	for name, char := range domainInvalid {
		addresses = append(addresses,
			fmt.Sprintf("start-with-%s@%sinvalid-characters-in-domain.dev", name, char),
			fmt.Sprintf("end-with-%s@invalid-characters-in-domain%s.dev", name, char),
		)
		if name != "hyphen" {
			addresses = append(addresses, fmt.Sprintf("include-%s@invalid-characters-%s-in-domain.dev", name, char))
		}
	}
	return addresses
}

// strictlyInvalidAddresses valid in standard mode only.
func strictlyInvalidAddresses() []string {
	addresses := []string{
		" leading-and-trailing-whitespace@example.com ",
		"user..-with-double-dots@example.com",
		".user-beginning-with-dot@example.com",
		"user-ending-with-dot.@example.com",
		" user-with-leading-whitespace-space@example.com",
		"\tuser-with-leading-whitespace-tab@example.com",
		"\n        user-with-leading-whitespace-newline@example.com",
		"domain-with-trailing-whitespace-space@example.com ",
		"domain-with-trailing-whitespace-tab@example.com\t",
		"domain-with-trailing-whitespace-newline@example.com\n        ",
		`"quoted,with(otherwise)invalid:characters"-@sld.dev`,
		`""@empty-quotes.dev`,
	}
	for name, char := range validSpecialChars {
		addresses = append(addresses,
			fmt.Sprintf("%sstart-with-%s@valid-characters-in-local.dev", char, name),
			fmt.Sprintf("end-with-%s-%s@valid-characters-in-local.dev", name, char),
		)
	}
	return addresses
}

func TestValid(t *testing.T) {
	standard := Options{}
	strict := Options{StrictMode: true}

	for _, address := range validAddresses() {
		t.Run(fmt.Sprintf("valid_%q", address), func(t *testing.T) {
			assert.True(t, Valid(address, standard))
			assert.True(t, Valid(address, strict))
			assert.False(t, Invalid(address, standard))
			assert.False(t, Invalid(address, strict))
			assert.True(t, Regexp(standard).MatchString(address))
			assert.True(t, Regexp(strict).MatchString(address))
		})
	}

	for _, address := range invalidAddresses() {
		t.Run(fmt.Sprintf("invalid_%q", address), func(t *testing.T) {
			assert.False(t, Valid(address, standard))
			assert.False(t, Valid(address, strict))
			assert.True(t, Invalid(address, standard))
			assert.True(t, Invalid(address, strict))
			assert.False(t, Regexp(standard).MatchString(strings.Trim(address, whitespace)))
			assert.False(t, Regexp(strict).MatchString(address))
		})
	}

	for _, address := range strictlyInvalidAddresses() {
		t.Run(fmt.Sprintf("strictly_invalid_%q", address), func(t *testing.T) {
			assert.True(t, Valid(address, standard))
			assert.False(t, Valid(address, strict))
			assert.False(t, Invalid(address, standard))
			assert.True(t, Invalid(address, strict))
			assert.True(t, Regexp(standard).MatchString(Trim(address, standard)))
			assert.False(t, Regexp(strict).MatchString(address))
		})
	}
}

func TestScenarios(t *testing.T) {
	strict := Options{StrictMode: true}

	assert.True(t, Valid("user@example.com", Options{}))
	assert.True(t, Valid("user@example.com", strict))

	assert.True(t, Valid("-start@sld.dev", Options{}))
	assert.False(t, Valid("-start@sld.dev", strict))

	assert.True(t, Valid(" user@example.com ", Options{}))
	assert.False(t, Valid(" user@example.com ", strict))

	assert.False(t, Valid("test@example.com@example.com", Options{}))
	assert.False(t, Valid("test@example.com@example.com", strict))

	assert.False(t, Valid("unbracketed-IP@127.0.0.1", Options{}))
	assert.False(t, Valid("unbracketed-IP@127.0.0.1", strict))

	local64 := strings.Repeat("x", 64)
	assert.True(t, Valid(local64+"@sld.dev", Options{}))
	assert.True(t, Valid(local64+"@sld.dev", strict))
	assert.False(t, Valid(local64+"x@sld.dev", Options{}))
	assert.False(t, Valid(local64+"x@sld.dev", strict))
}

func TestDomainRestriction(t *testing.T) {
	for _, strictMode := range []bool{false, true} {
		opts := Options{Domain: "example.com", StrictMode: strictMode}
		t.Run(fmt.Sprintf("strict_%t", strictMode), func(t *testing.T) {
			assert.True(t, Valid("user@example.com", opts))
			assert.True(t, Valid("user@EXAMPLE.com", opts))
			assert.False(t, Valid("user@not-matching.io", opts))
			assert.False(t, Valid("user@example-com", opts))
			assert.False(t, Valid("user@sub.example.com", opts))
			assert.False(t, Valid("user@example.com.evil.io", opts))
			assert.False(t, Valid("-start@sld.dev", opts))
			assert.False(t, Valid("test@example.com@example.com", opts))
			assert.Equal(t, strictMode, Invalid(" user@example.com", opts))
		})
	}

	t.Run("invalid_domain_option", func(t *testing.T) {
		opts := Options{Domain: "127.0.0.1"}
		assert.Error(t, opts.Validate())
		assert.Panics(t, func() {
			Valid("user@127.0.0.1", opts)
		})
		assert.Error(t, Options{Domain: "exa mple.com"}.Validate())
		assert.NoError(t, Options{Domain: "example.com"}.Validate())
		assert.NoError(t, Options{}.Validate())
	})
}

func TestProperties(t *testing.T) {
	candidates := append(append(validAddresses(), invalidAddresses()...), strictlyInvalidAddresses()...)
	configurations := []Options{
		{},
		{StrictMode: true},
		{Domain: "example.com"},
		{Domain: "example.com", StrictMode: true},
	}

	t.Run("strict_implies_standard", func(t *testing.T) {
		for _, c := range candidates {
			if Valid(c, Options{StrictMode: true}) {
				assert.True(t, Valid(c, Options{}), c)
			}
			if Valid(c, Options{StrictMode: true, Domain: "example.com"}) {
				assert.True(t, Valid(c, Options{Domain: "example.com"}), c)
			}
		}
	})

	t.Run("negation", func(t *testing.T) {
		for _, opts := range configurations {
			for _, c := range candidates {
				assert.Equal(t, Valid(c, opts), !Invalid(c, opts), c)
			}
		}
	})

	t.Run("regexp_agreement", func(t *testing.T) {
		for _, opts := range configurations {
			p := Regexp(opts)
			for _, c := range candidates {
				assert.Equal(t, Valid(c, opts), p.MatchString(Trim(c, opts)), c)
			}
		}
	})

	t.Run("trim_idempotence", func(t *testing.T) {
		for _, c := range candidates {
			trimmed := Trim(c, Options{})
			assert.Equal(t, Valid(c, Options{}), Valid(trimmed, Options{}), c)
			assert.Equal(t, trimmed, Trim(trimmed, Options{}))
		}
	})
}

func TestRegexp(t *testing.T) {
	t.Run("memoized", func(t *testing.T) {
		opts := Options{StrictMode: true}
		assert.Same(t, Regexp(opts), Regexp(opts))
		assert.NotSame(t, Regexp(opts), Regexp(Options{}))
		assert.NotSame(t, Regexp(Options{Domain: "example.com"}), Regexp(Options{}))
	})

	t.Run("literal_domain", func(t *testing.T) {
		p := Regexp(Options{Domain: "example.com"})
		assert.Contains(t, p.String(), `example\.com`)
		assert.Equal(t, p.String(), p.Regexp().String())
	})

	t.Run("concurrent", func(t *testing.T) {
		wg := sync.WaitGroup{}
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				opts := Options{StrictMode: i%2 == 0, Domain: fmt.Sprintf("concurrent-%d.dev", i%3)}
				assert.True(t, Valid(fmt.Sprintf("user@concurrent-%d.dev", i%3), opts))
			}(i)
		}
		wg.Wait()
	})

	t.Run("adversarial_input", func(t *testing.T) {
		long := strings.Repeat("-.", 50_000) + "@" + strings.Repeat("a-", 50_000)
		assert.False(t, Valid(long, Options{}))
		assert.False(t, Valid(long, Options{StrictMode: true}))
		assert.False(t, Valid(strings.Repeat(`"a"`, 50_000)+"@sld.dev", Options{}))
	})
}

func TestClassify(t *testing.T) {
	address := "user@example.com"
	invalid := "invalidemail@"

	assert.Equal(t, ResultValid, Classify(&address, Options{}, false))
	assert.Equal(t, ResultInvalid, Classify(&invalid, Options{}, false))
	assert.Equal(t, ResultInvalid, Classify(&invalid, Options{}, true))
	assert.Equal(t, ResultInvalid, Classify(nil, Options{}, false))
	assert.Equal(t, ResultValid, Classify(nil, Options{}, true))

	assert.Equal(t, "valid", ResultValid.String())
	assert.Equal(t, "invalid", ResultInvalid.String())
}

func TestSplit(t *testing.T) {
	local, domain, ok := Split("user@example.com")
	require.True(t, ok)
	assert.Equal(t, "user", local)
	assert.Equal(t, "example.com", domain)

	_, _, ok = Split("missing-at-sign.dev")
	assert.False(t, ok)

	_, _, ok = Split("a@b@c")
	assert.False(t, ok)
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "user@example.com", Trim(" \t\nuser@example.com\r\n ", Options{}))
	assert.Equal(t, " user@example.com", Trim(" user@example.com", Options{StrictMode: true}))
}
