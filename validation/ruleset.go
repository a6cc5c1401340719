package validation

import (
	"slices"
	"strings"
)

// Validator is the interface every validation rule implements.
// Implementations must embed `BaseValidator`.
type Validator interface {
	Composable
	init(options *Options)
	Validate(ctx *Context) bool
	Name() string
	IsType() bool
	MessagePlaceholders(ctx *Context) []string
}

// CustomMessager validators implementing this interface can replace the
// message of their language entry. An empty custom message falls back to
// the language entry. Placeholders are processed the same way.
type CustomMessager interface {
	CustomMessage() string
}

// BaseValidator composable structure that implements the basic functions required to
// satisfy the `Validator` interface.
type BaseValidator struct {
	component
}

func (v *BaseValidator) init(options *Options) {
	v.component = component{
		db:     options.DB,
		config: options.Config,
		lang:   options.Language,
		logger: options.Logger,
	}
}

// IsType returns false.
func (v *BaseValidator) IsType() bool { return false }

// MessagePlaceholders returns an empty slice (no placeholders)
func (v *BaseValidator) MessagePlaceholders(_ *Context) []string { return []string{} }

// Ruler adapter interface to make allow both `RuleSet` and `Rules` to be used
// when calling `Validate()`.
type Ruler interface {
	AsRules() Rules
}

// List of validators applied to a single field, in order.
type List []Validator

// RuleSet definition of the validation rules applied to each field.
// The key is the name of the field.
//
//	validation.RuleSet{
//		"email":     validation.List{validation.Required(), validation.String(), validation.Trim(), validation.Email()},
//		"secondary": validation.List{validation.Nullable(), validation.Email()},
//	}
type RuleSet map[string]List

// AsRules converts this RuleSet to a Rules structure. Fields are sorted by name
// so the validation order is deterministic.
func (r RuleSet) AsRules() Rules {
	rules := make(Rules, 0, len(r))
	for name, list := range r {
		rules = append(rules, newFieldRules(name, list))
	}
	slices.SortFunc(rules, func(a, b *FieldRules) int {
		return strings.Compare(a.Name, b.Name)
	})
	return rules
}

// Rules is the result of the transformation of RuleSet using `AsRules()`.
type Rules []*FieldRules

// AsRules returns itself.
func (r Rules) AsRules() Rules {
	return r
}

// FieldRules the validators applied to a single field.
type FieldRules struct {
	Name       string
	Validators []Validator

	isRequired bool
	isNullable bool
}

func newFieldRules(name string, validators []Validator) *FieldRules {
	f := &FieldRules{
		Name:       name,
		Validators: validators,
	}
	for _, v := range validators {
		switch v.(type) {
		case *RequiredValidator:
			f.isRequired = true
		case *NullableValidator:
			f.isNullable = true
		}
	}
	return f
}

// IsRequired check if a field has the "required" rule
func (f *FieldRules) IsRequired() bool {
	return f.isRequired
}

// IsNullable check if a field has the "nullable" rule
func (f *FieldRules) IsNullable() bool {
	return f.isNullable
}
