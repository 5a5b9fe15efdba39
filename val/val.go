// Package val validates request and configuration schemas with go-playground/validator
// and reports failures as errx errors carrying one description per field.
package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var getValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(getTagName)
	return v
})

// ValidateSchema validates schema against its `validate` struct tags.
// Field errors are reported in the errx fields, keyed by the json or yaml name of the field.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(errx.M)
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = describe(fieldErr)
		}

		return errx.New(
			"Validation failed. See fields for details.",
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
			errx.WithFields(fields),
		)
	}

	return errx.New(
		fmt.Sprintf("Unknown validation error: %s", err.Error()),
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
	)
}

// getTagName names a field by its json tag, then its yaml tag, then the Go name.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "yaml"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func describe(fieldErr validator.FieldError) string {
	param := fieldErr.Param()
	isString := fieldErr.Kind() == reflect.String

	switch tag := fieldErr.Tag(); tag {
	case "required", "required_with", "required_without":
		return "This field is required"
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "len":
		if isString {
			return fmt.Sprintf("Must be exactly %s characters", param)
		}
		return fmt.Sprintf("Must have exactly %s items", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "lt":
		return fmt.Sprintf("Must be less than %s", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "url":
		return "Must be a valid URL"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "email":
		return "Invalid email format"
	case "json":
		return "Must be valid JSON"
	default:
		return fmt.Sprintf("Failed validation: %s", tag)
	}
}
