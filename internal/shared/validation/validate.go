// Package validation wraps go-playground/validator for request structs.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := jsonName(fld.Tag.Get("json"), ""); name != "" {
				return name
			}
			return jsonName(fld.Tag.Get("form"), fld.Name)
		})
	})
	return instance
}

// Struct validates v using its `validate` tags.
func Struct(v any) error {
	return get().Struct(v)
}

// FieldIssue describes one invalid field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Details converts a validation error into per-field issues. Non-validation
// errors yield a single issue on the "body" field.
func Details(err error) []FieldIssue {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldIssue{{Field: "body", Issue: "invalid"}}
	}
	out := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issue := fe.Tag()
		if fe.Param() != "" {
			issue += "=" + fe.Param()
		}
		out = append(out, FieldIssue{Field: fe.Field(), Issue: issue})
	}
	return out
}

// IsValidationError reports whether err came from Struct rejecting a field.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func jsonName(tag, fallback string) string {
	name := strings.Split(tag, ",")[0]
	switch name {
	case "-":
		return fallback
	case "":
		return fallback
	default:
		return name
	}
}
