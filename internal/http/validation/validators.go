// Package validation gates form input before it is sent to the backend. Struct
// rules come from `validate` tags checked by go-playground/validator; one-off
// fields use the small Validator funcs below. Both report a map of form field
// name to message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// PositiveInt validates that a field is a whole number greater than zero.
func PositiveInt(fieldName string) Validator {
	return func(v string) string {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fieldName + " must be a number."
		}
		if n <= 0 {
			return fieldName + " must be greater than zero."
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.ToUpper(strings.TrimSpace(v))
		for _, opt := range options {
			if v == strings.ToUpper(opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// Date validates an optional YYYY-MM-DD value.
func Date(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return fieldName + " must be a date (YYYY-MM-DD)."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break // Stop at first error per field
		}
	}
	return fv
}

// Struct checks the `validate` tags of s. Fields are reported under their
// `form` tag, else their `json` tag, else their Go name. A field that already
// has an error keeps it.
func (fv *FieldValidator) Struct(s any) *FieldValidator {
	err := structValidator().Struct(s)
	if err == nil {
		return fv
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fv.errors["_"] = "Input could not be validated."
		return fv
	}
	for _, fe := range verrs {
		if _, exists := fv.errors[fe.Field()]; exists {
			continue
		}
		fv.errors[fe.Field()] = message(fe)
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Valid reports whether no errors were recorded.
func (fv *FieldValidator) Valid() bool {
	return len(fv.errors) == 0
}

//nolint:gochecknoglobals // validator caches struct metadata; one instance per process
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "Enter a valid email address."
	case "numeric", "number":
		return label + " must be a number."
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}

// humanize turns a form field name such as "stockQuantity" into "Stock quantity".
func humanize(name string) string {
	if name == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
