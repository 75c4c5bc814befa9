package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	shelferrors "github.com/alexisbeaulieu97/shelf/pkg/errors"
)

// ConvertValidationError turns validator output into a *errors.ValidationError
// for the first failing field. prefix is prepended to the field path, for
// example "books[3]".
func ConvertValidationError(err error, prefix string) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		if prefix != "" {
			field = prefix + "." + field
		}
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return shelferrors.NewValidationError(field, msg, err)
	}

	return shelferrors.NewValidationError(prefix, err.Error(), err)
}

// yamlishFieldName drops the root struct name and lowercases the rest:
// Config.Auth.BaseURL becomes auth.baseurl.
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

// FieldForIndex formats a path into a list, e.g. books[2].
func FieldForIndex(list string, index int) string {
	return fmt.Sprintf("%s[%d]", list, index)
}
