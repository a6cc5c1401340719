package validation

import (
	"net/mail"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/lang"
	"goyave.dev/emailvalidator/slog"
	"goyave.dev/emailvalidator/util/errors"
)

// FieldType returned by the GetFieldType function.
const (
	FieldTypeNumeric     = "numeric"
	FieldTypeString      = "string"
	FieldTypeBool        = "bool"
	FieldTypeAddress     = "address"
	FieldTypeArray       = "array"
	FieldTypeObject      = "object"
	FieldTypeUnsupported = "unsupported"
)

// Composable is the set of accessors validators have access to
// through the validation `Options`.
type Composable interface {
	DB() *gorm.DB
	Config() *config.Config
	Lang() *lang.Language
	Logger() *slog.Logger
}

type component struct {
	db     *gorm.DB
	config *config.Config
	lang   *lang.Language
	logger *slog.Logger
}

// DB get the database instance given through the validation Options.
// Panics if there is none.
func (c *component) DB() *gorm.DB {
	if c.db == nil {
		panic(errors.NewSkip("DB is not set in validation options", 3))
	}
	return c.db
}

// Config get the configuration given through the validation Options.
// Panics if there is none.
func (c *component) Config() *config.Config {
	if c.config == nil {
		panic(errors.NewSkip("Config is not set in validation options", 3))
	}
	return c.config
}

// Lang get the language given through the validation Options.
// Panics if there is none.
func (c *component) Lang() *lang.Language {
	if c.lang == nil {
		panic(errors.NewSkip("Language is not set in validation options", 3))
	}
	return c.lang
}

// Logger get the Logger given through the validation Options.
// Panics if there is none.
func (c *component) Logger() *slog.Logger {
	if c.logger == nil {
		panic(errors.NewSkip("Logger is not set in validation options", 3))
	}
	return c.logger
}

// Options all the parameters required by `Validate()`.
//
// Only `Data`, `Rules` and `Language` are mandatory. However, it is recommended
// to provide values for all the options in case a `Validator` requires them to function.
type Options struct {
	Data  map[string]any
	Rules Ruler

	// Extra can be used to store any extra information. It is passed to each `Validator`
	// via the validation `Context`.
	//
	// The keys must be comparable and should not be of type
	// string or any other built-in type to avoid collisions.
	Extra    map[any]any
	Language *lang.Language
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
}

// Context is a structure unique per `Validator.Validate()` execution containing
// all the data required by a validator.
type Context struct {
	Data map[string]any

	// Extra the map of Extra from the validation Options.
	Extra map[any]any
	Value any
	Field *FieldRules

	// The name of the field under validation
	Name string

	errors []error

	// Invalid is true if at least one validator prior to the current one didn't pass
	// on the field under validation. This field is readonly.
	Invalid bool
}

// AddError adds an error to the validation context. This is NOT supposed
// to be used when the field under validation doesn't match the rule, but rather
// when there has been an operation error (such as a database error).
func (c *Context) AddError(err ...error) {
	for _, e := range err {
		c.errors = append(c.errors, errors.NewSkip(e, 3)) // Skipped: runtime.Callers, NewSkip, this func
	}
}

// Errors returns this validation context's errors.
// The errors returned are NOT validation errors but operation errors (such as database error).
func (c *Context) Errors() []error {
	return c.errors
}

type validator struct {
	validationErrors *Errors
	options          *Options
	errors           []error
}

// Validate the given data using the given `Options`.
// If all validation rules pass and no error occurred, the first returned value will be `nil`.
//
// The second returned value is a slice of error that occurred during validation. These
// errors are not validation errors but error raised when a validator could not be executed correctly.
// For example if a validator using the database generated a DB error.
//
// The `Options.Data` may be modified by converting rules such as `Trim`.
func Validate(options *Options) (*Errors, []error) {
	validator := &validator{
		options:          options,
		errors:           []error{},
		validationErrors: &Errors{},
	}
	if options.Extra == nil {
		options.Extra = map[any]any{}
	}
	if options.Data == nil {
		options.Data = map[string]any{}
	}

	for _, field := range options.Rules.AsRules() {
		validator.validateField(field)
	}

	if len(validator.errors) != 0 {
		return nil, validator.errors
	}
	if !validator.validationErrors.IsEmpty() {
		return validator.validationErrors, nil
	}
	return nil, nil
}

func (v *validator) validateField(field *FieldRules) {
	value, found := v.options.Data[field.Name]
	if !found && !field.IsRequired() {
		return
	}

	valid := true
	for _, validator := range field.Validators {
		if _, ok := validator.(*NullableValidator); ok {
			if found && value == nil {
				break
			}
			continue
		}

		ctx := &Context{
			Data:    v.options.Data,
			Extra:   v.options.Extra,
			Value:   value,
			Field:   field,
			Name:    field.Name,
			Invalid: !valid,
		}
		validator.init(v.options)
		ok := validator.Validate(ctx)
		if len(ctx.errors) > 0 {
			valid = false
			v.errors = append(v.errors, ctx.errors...)
			continue
		}
		if !ok {
			valid = false
			v.validationErrors.Add(field.Name, v.getMessage(ctx, validator))
			if _, isRequired := validator.(*RequiredValidator); isRequired {
				break
			}
			continue
		}

		value = ctx.Value
	}

	// Value may be modified (converting rule), replace it in the data
	if found {
		v.options.Data[field.Name] = value
	}
}

func (v *validator) processPlaceholders(ctx *Context, validator Validator) []string {
	return append([]string{":field", translateFieldName(v.options.Language, ctx.Name)}, validator.MessagePlaceholders(ctx)...)
}

func (v *validator) getMessage(ctx *Context, validator Validator) string {
	placeholders := v.processPlaceholders(ctx, validator)
	if m, ok := validator.(CustomMessager); ok {
		if message := m.CustomMessage(); message != "" {
			return lang.ProcessPlaceholders(message, placeholders)
		}
	}
	return v.options.Language.Get("validation.rules."+validator.Name(), placeholders...)
}

// GetFieldType returns the non-technical type of the given "value" interface.
// This is used by validation rules to know if the input data is a candidate
// for validation or not.
//   - "numeric" (`FieldTypeNumeric`) if the value is an int, uint or a float
//   - "string" (`FieldTypeString`) if the value is a string
//   - "address" (`FieldTypeAddress`) if the value is a `*mail.Address`
//   - "array" (`FieldTypeArray`) if the value is a slice
//   - "bool" (`FieldTypeBool`) if the value is a bool
//   - "object" (`FieldTypeObject`) if the value is a `map[string]any`
//   - "unsupported" (`FieldTypeUnsupported`) otherwise
func GetFieldType(value any) string {
	if _, ok := value.(*mail.Address); ok {
		return FieldTypeAddress
	}
	rv := reflect.ValueOf(value)
	kind := rv.Kind().String()
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint") && kind != "uintptr", strings.HasPrefix(kind, "float"):
		return FieldTypeNumeric
	case kind == "string":
		return FieldTypeString
	case kind == "bool":
		return FieldTypeBool
	case kind == "slice":
		return FieldTypeArray
	default:
		if rv.IsValid() {
			if _, ok := rv.Interface().(map[string]any); ok {
				return FieldTypeObject
			}
		}
		return FieldTypeUnsupported
	}
}

func translateFieldName(lang *lang.Language, fieldName string) string {
	entry := "validation.fields." + fieldName
	name := lang.Get(entry)
	if name == entry {
		return fieldName
	}
	return name
}
