package validation

// RequiredValidator the field under validation must be present. If the field
// is not nullable, its value must not be nil.
type RequiredValidator struct{ BaseValidator }

// Validate checks the field under validation satisfies this validator's criteria.
func (v *RequiredValidator) Validate(ctx *Context) bool {
	if _, found := ctx.Data[ctx.Name]; !found {
		return false
	}
	return ctx.Field.IsNullable() || ctx.Value != nil
}

// Name returns the string name of the validator.
func (v *RequiredValidator) Name() string { return "required" }

// Required the field under validation must be present. If the field
// is not nullable, its value must not be nil.
func Required() *RequiredValidator {
	return &RequiredValidator{}
}
