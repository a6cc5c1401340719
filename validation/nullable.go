package validation

// NullableValidator marks the field as nullable: if its value is nil, the
// following validators are not executed.
type NullableValidator struct{ BaseValidator }

// Validate always returns true.
func (v *NullableValidator) Validate(_ *Context) bool {
	return true
}

// Name returns the string name of the validator.
func (v *NullableValidator) Name() string { return "nullable" }

// Nullable the field under validation can be nil. If it is, the following
// validators are skipped.
func Nullable() *NullableValidator {
	return &NullableValidator{}
}
