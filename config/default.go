package config

import (
	"reflect"

	"goyave.dev/emailvalidator/email"
	"goyave.dev/emailvalidator/util/errors"
)

var configDefaults = object{
	"app": object{
		"name":            &Entry{"emailvalidator", []any{}, reflect.String, false, false},
		"environment":     &Entry{"localhost", []any{}, reflect.String, false, false},
		"debug":           &Entry{true, []any{}, reflect.Bool, false, false},
		"defaultLanguage": &Entry{"en-US", []any{}, reflect.String, false, false},
	},
	"email": object{
		"strictMode": &Entry{false, []any{}, reflect.Bool, false, false},
		"domain":     &Entry{"", []any{}, reflect.String, false, false},
		"allowNil":   &Entry{false, []any{}, reflect.Bool, false, false},
		"message":    &Entry{"", []any{}, reflect.String, false, false},
	},
	"database": object{
		"connection":              &Entry{"none", []any{}, reflect.String, false, false},
		"host":                    &Entry{"127.0.0.1", []any{}, reflect.String, false, false},
		"port":                    &Entry{3306, []any{}, reflect.Int, false, false},
		"name":                    &Entry{"emailvalidator", []any{}, reflect.String, false, false},
		"username":                &Entry{"root", []any{}, reflect.String, false, false},
		"password":                &Entry{"root", []any{}, reflect.String, false, false},
		"options":                 &Entry{"charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=Local", []any{}, reflect.String, false, false},
		"maxOpenConnections":      &Entry{20, []any{}, reflect.Int, false, false},
		"maxIdleConnections":      &Entry{20, []any{}, reflect.Int, false, false},
		"maxLifetime":             &Entry{300, []any{}, reflect.Int, false, false},
		"defaultReadQueryTimeout": &Entry{20000, []any{}, reflect.Int, false, false}, // in ms
		"config": object{
			"skipDefaultTransaction": &Entry{false, []any{}, reflect.Bool, false, false},
			"dryRun":                 &Entry{false, []any{}, reflect.Bool, false, false},
			"prepareStmt":            &Entry{true, []any{}, reflect.Bool, false, false},
			"disableAutomaticPing":   &Entry{false, []any{}, reflect.Bool, false, false},
		},
	},
	"audit": object{
		"table":      &Entry{"users", []any{}, reflect.String, false, true},
		"column":     &Entry{"email", []any{}, reflect.String, false, true},
		"primaryKey": &Entry{"id", []any{}, reflect.String, false, true},
		"batchSize":  &Entry{500, []any{}, reflect.Int, false, true},
	},
}

// constraints are additional checks run on an entry value once its type
// has been validated.
var constraints = map[string]func(any) error{
	"email.domain": func(value any) error {
		return email.Options{Domain: value.(string)}.Validate()
	},
	"audit.batchSize": func(value any) error {
		if value.(int) <= 0 {
			return errors.New("must be greater than 0")
		}
		return nil
	},
}

func loadDefaults(src object, dst object) {
	for k, v := range src {
		if obj, ok := v.(object); ok {
			sub := make(object, len(obj))
			loadDefaults(obj, sub)
			dst[k] = sub
		} else {
			entry := v.(*Entry)
			value := entry.Value
			t := reflect.TypeOf(value)
			if t != nil && t.Kind() == reflect.Slice {
				list := reflect.ValueOf(value)
				length := list.Len()
				slice := reflect.MakeSlice(reflect.SliceOf(t.Elem()), 0, length)
				for i := 0; i < length; i++ {
					slice = reflect.Append(slice, list.Index(i))
				}
				value = slice.Interface()
			}
			dst[k] = &Entry{value, entry.AuthorizedValues, entry.Type, entry.IsSlice, entry.Required}
		}
	}
}
