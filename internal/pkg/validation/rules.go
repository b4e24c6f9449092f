package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Student ID number pattern - YYYY-NNNN
	IDNumberPattern = `^\d{4}-\d{4}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	IDNumber *regexp.Regexp
}{
	IDNumber: regexp.MustCompile(IDNumberPattern),
}

// Messages shown next to form fields
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Not a valid choice."
	MsgIDNumber      = "Use format YYYY-NNNN"
	MsgInvalidID     = "Invalid id."
)

// FieldErrors maps a form field name to its first error message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Merge copies other's errors into e without overwriting existing ones.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msg := range other {
		e.Add(field, msg)
	}
}

// HasErrors checks if there are any validation errors
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// RegisterRules installs the custom rules and makes error field names follow
// the `form` tag, so messages can be matched to inputs.
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v.RegisterValidation("idnumber", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.IDNumber.MatchString(fl.Field().String())
	})
}

// FromValidationErrors converts validator errors into form field messages.
func FromValidationErrors(errs validator.ValidationErrors) FieldErrors {
	out := FieldErrors{}
	for _, fe := range errs {
		out.Add(fe.Field(), formatValidationError(fe))
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return "Field cannot be longer than " + e.Param() + " characters."
	case "oneof":
		return MsgInvalidChoice
	case "idnumber":
		return MsgIDNumber
	case "number":
		return MsgInvalidID
	default:
		return "Invalid value."
	}
}
