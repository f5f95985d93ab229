// Package errs defines the error shapes returned to API clients.
//
// Every error that reaches the global Echo error handler is turned
// into an HTTPError so clients always see the same JSON structure:
//
//	{"code":"CONFLICT","message":"...","status":409,"override":true,"errors":[]}
package errs

import "strings"

// FieldError is a field-level validation error.
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error type every handler and service returns for expected failures.
//
//   - Code: machine-friendly error code (e.g. "USER_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Status: HTTP status code; this is the part of the contract clients rely on.
//   - Override: whether the client may show Message to end users verbatim.
//   - Errors: per-field validation failures.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError, regardless of status or code.
// Use errors.As and compare Status to tell two HTTPErrors apart.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
