// Package validator decodes JSON request bodies and checks them against
// their `validate` struct tags. Failures come back as 400 failures whose
// message names the offending JSON field.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
	"travelnest/shared/constant"
	"travelnest/shared/failure"
	"travelnest/shared/password"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	custom := map[string]val.Func{
		"mimetypes":   validateMimetype,
		"maxfilesize": validateFileSize,
		"password":    validatePassword,
		"isodate":     validateDate,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// fieldName reports the json name, then the form name, then the Go name.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return field.Name
}

func fileHeader(field val.FieldLevel) *multipart.FileHeader {
	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		return &file
	case *multipart.FileHeader:
		return file
	default:
		return nil
	}
}

func validateMimetype(field val.FieldLevel) bool {
	file := fileHeader(field)
	if file == nil {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), file.Header.Get(constant.RequestHeaderContentType))
}

func validateFileSize(field val.FieldLevel) bool {
	file := fileHeader(field)
	if file == nil {
		return false
	}

	maxMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return file.Size <= int64(maxMB*bytesPerMB)
}

func validatePassword(field val.FieldLevel) bool {
	return password.MeetsPolicy(field.Field().String())
}

func validateDate(field val.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, field.Field().String())

	return err == nil
}

// Validate decodes one JSON document from r into data and validates it.
// Bodies larger than the request memory limit are rejected.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(io.LimitReader(r, constant.RequestMaxMemory))

	if err := decoder.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.BadRequestFromString("request body is required") //nolint:wrapcheck
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
