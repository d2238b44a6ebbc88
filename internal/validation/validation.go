// Package validation wraps go-playground/validator with the service's custom rules
package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/pelada/internal/model"
)

// New returns a validator that understands the position and status tags.
// Field names in errors come from json tags, falling back to snake_case.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return snakeCase(fld.Name)
		}
		return name
	})
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePosition(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return model.AthleteStatus(fl.Field().String()).Valid()
	})
	return v
}

// Describe turns the first validation failure into a short message
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email"
	case "url":
		return field + " is not a valid url"
	case "position":
		return field + " must be one of goalkeeper, defender, midfielder, forward"
	case "status":
		return field + " must be active or inactive"
	case "min", "gte":
		if isString {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "max", "lte":
		if isString {
			return field + " must be at most " + fe.Param() + " characters"
		}
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// snakeCase converts GoFieldNames to go_field_names, keeping acronyms together
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
