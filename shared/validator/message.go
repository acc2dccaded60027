package validator

import (
	"errors"
	"strings"

	"wsb/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gt":       "{field} must be greater than {param}",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"hhmm":     "{field} must be HH:MM",
		"datetime": "{field} must match {param}",
	}

	// Time format violations surface with the same reason the calendar uses.
	tagReasons = map[string]failure.Reason{
		"hhmm":     failure.ReasonBadTimeFormat,
		"datetime": failure.ReasonBadTimeFormat,
	}
)

func message(err error) (string, string) {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			field := valErr.Field()
			param := valErr.Param()

			errStr := messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", param)

				return errStr, valErr.Tag()
			}
		}

		return valErrors.Error(), valErrors[0].Tag()
	}

	return err.Error(), ""
}
