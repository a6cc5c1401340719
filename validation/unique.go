package validation

import (
	"gorm.io/gorm"
	"goyave.dev/emailvalidator/util/errors"
)

// UniqueValidator validates the field under validation must have a unique value in database
// according to the provided database scope. Uniqueness is checked using a COUNT query.
type UniqueValidator struct {
	BaseValidator
	Scope func(db *gorm.DB, val any) *gorm.DB
}

// Validate checks the field under validation satisfies this validator's criteria.
// The query is not executed if a previous validator failed.
func (v *UniqueValidator) Validate(ctx *Context) bool {
	if ctx.Invalid {
		return true
	}
	count := int64(0)

	if err := v.Scope(v.DB(), ctx.Value).Count(&count).Error; err != nil {
		ctx.AddError(errors.New(err))
		return false
	}
	return count == 0
}

// Name returns the string name of the validator.
func (v *UniqueValidator) Name() string { return "unique" }

// Unique validates the field under validation must have a unique value in database
// according to the provided database scope. Uniqueness is checked using a COUNT query.
//
//	v.Unique(func(db *gorm.DB, val any) *gorm.DB {
//		return db.Table("users").Where("LOWER(email) = LOWER(?)", val)
//	})
func Unique(scope func(db *gorm.DB, val any) *gorm.DB) *UniqueValidator {
	return &UniqueValidator{Scope: scope}
}

//------------------------------

// ExistsValidator validates the field under validation must exist in database
// according to the provided database scope. Existence is checked using a COUNT query.
type ExistsValidator struct {
	UniqueValidator
}

// Validate checks the field under validation satisfies this validator's criteria.
func (v *ExistsValidator) Validate(ctx *Context) bool {
	if ctx.Invalid {
		return true
	}
	return !v.UniqueValidator.Validate(ctx) && len(ctx.errors) == 0
}

// Name returns the string name of the validator.
func (v *ExistsValidator) Name() string { return "exists" }

// Exists validates the field under validation must exist in database
// according to the provided database scope. Existence is checked using a COUNT query.
//
//	v.Exists(func(db *gorm.DB, val any) *gorm.DB {
//		return db.Table("users").Where("email", val)
//	})
func Exists(scope func(db *gorm.DB, val any) *gorm.DB) *ExistsValidator {
	return &ExistsValidator{UniqueValidator: UniqueValidator{Scope: scope}}
}
