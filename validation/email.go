package validation

import (
	"net/mail"

	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/email"
)

// EmailValidator the field under validation must be an email address accepted
// by the validation engine with the validator's options.
//
// Accepted values are `string`, `*string` and `*mail.Address` (its `Address` is
// validated, the display name is ignored). A nil value is valid only if `AllowNil`
// is true. Other types are invalid.
//
// If `Domain` is not a valid domain, `Validate` panics.
type EmailValidator struct {
	BaseValidator

	// Domain if not empty, the domain part of the address must be equal to it
	// (case-insensitive).
	Domain string

	// Message replaces the "validation.rules.email" language entry if not empty.
	Message string

	StrictMode bool
	AllowNil   bool
}

// Validate checks the field under validation satisfies this validator's criteria.
func (v *EmailValidator) Validate(ctx *Context) bool {
	var candidate *string
	switch val := ctx.Value.(type) {
	case nil:
	case string:
		candidate = &val
	case *string:
		candidate = val
	case *mail.Address:
		if val != nil {
			candidate = &val.Address
		}
	default:
		return false
	}

	return email.Classify(candidate, v.Options(), v.AllowNil) == email.ResultValid
}

// Options returns the validation engine options matching this validator.
func (v *EmailValidator) Options() email.Options {
	return email.Options{
		Domain:     v.Domain,
		StrictMode: v.StrictMode,
	}
}

// Name returns the string name of the validator.
func (v *EmailValidator) Name() string { return "email" }

// CustomMessage returns the `Message` field.
func (v *EmailValidator) CustomMessage() string { return v.Message }

// MessagePlaceholders returns the ":domain" placeholder.
func (v *EmailValidator) MessagePlaceholders(_ *Context) []string {
	return []string{":domain", v.Domain}
}

// Email the field under validation must be an email address accepted by the
// validation engine in standard mode, with any domain.
func Email() *EmailValidator {
	return &EmailValidator{}
}

// StrictEmail the field under validation must be an email address accepted by the
// validation engine in strict mode, optionally restricted to the given domain.
func StrictEmail(domain string) *EmailValidator {
	return &EmailValidator{StrictMode: true, Domain: domain}
}

// NewEmailFromConfig returns an `EmailValidator` using the "email.strictMode",
// "email.domain", "email.allowNil" and "email.message" configuration entries.
func NewEmailFromConfig(cfg *config.Config) *EmailValidator {
	return &EmailValidator{
		StrictMode: cfg.GetBool("email.strictMode"),
		Domain:     cfg.GetString("email.domain"),
		AllowNil:   cfg.GetBool("email.allowNil"),
		Message:    cfg.GetString("email.message"),
	}
}
