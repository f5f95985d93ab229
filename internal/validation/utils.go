package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/vortrixs/user-api/internal/errs"
)

// Validatable is implemented by request payloads.
// Validate usually runs validator.Struct on the receiver.
type Validatable interface {
	Validate() error
}

// Normalizer is implemented by payloads that clean up bound input, such as
// trimming whitespace, before Validate runs.
type Normalizer interface {
	Normalize()
}

// CustomValidationError is a field failure that validator tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds path params and the request body into payload,
// which must be a pointer, then validates it.
// Every failure is a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if n, ok := payload.(Normalizer); ok {
		n.Normalize()
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

// bindError maps an Echo bind failure to a 400. A JSON value of the wrong
// type is reported against its field. Decoder messages name Go types, so
// they are never passed on to the client.
func bindError(err error) *errs.HTTPError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{
			{Field: typeErr.Field, Error: fmt.Sprintf("must be %s", jsonKind(typeErr.Type))},
		})
	}

	message := "Invalid request body"

	var syntaxErr *json.SyntaxError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, ErrTrailingData):
		message = "Request body is not valid JSON"
	case errors.As(err, &echoErr) && echoErr.Code == http.StatusUnsupportedMediaType:
		message = "Unsupported content type"
	}

	return errs.NewBadRequestError(message, false, nil, nil)
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "text"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "an object"
	}
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed: " + err.Error(), nil
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())

		var msg string
		switch e.Tag() {
		case "required":
			msg = "is required"
		case "min":
			switch {
			case e.Kind() == reflect.String && e.Param() == "1":
				msg = "must not be empty"
			case e.Kind() == reflect.String:
				msg = fmt.Sprintf("must be at least %s characters", e.Param())
			default:
				msg = fmt.Sprintf("must be at least %s", e.Param())
			}
		case "max":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", e.Param())
			}
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", e.Param())
		case "email":
			msg = "must be a valid email address"
		case "string":
			msg = "must be text"
		default:
			if e.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, e.Tag(), e.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, e.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
	}

	return "Validation failed", fieldErrors
}
