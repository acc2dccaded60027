package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"wsb/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const hhmmLayout = "15:04"

var validate *val.Validate

// registerHHMMValidation accepts strict zero padded 24h clock values.
func registerHHMMValidation(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok || len(str) != len(hhmmLayout) {
		return false
	}

	_, err := time.Parse(hhmmLayout, str)

	return err == nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("hhmm", registerHHMMValidation); err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)
	if err != nil {
		return toFailure(err)
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)
	if err != nil {
		return toFailure(err)
	}

	return nil
}

func toFailure(err error) error {
	msg, tag := message(err)

	if reason, ok := tagReasons[tag]; ok {
		return failure.New(reason, msg) //nolint:wrapcheck
	}

	return failure.BadRequestFromString(msg) //nolint:wrapcheck
}
