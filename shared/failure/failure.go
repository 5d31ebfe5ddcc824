// Package failure carries an HTTP status alongside an error so the service
// layer can decide what the client sees.
package failure

import (
	"errors"
	"net/http"
)

// Failure is an error with the HTTP status it should be reported with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

var ForbiddenError = New(http.StatusForbidden, "You don't have the required permissions")

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// Wrap keeps err reachable through errors.Is and errors.As. A nil err stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error(), cause: err}
}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

func BadRequest(err error) error {
	return Wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound reports a missing entity. The message is shown to the client as is.
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

// Conflict reports a write that lost against the current state, such as a
// sold out room or a duplicate email.
func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

func ServiceUnavailable(msg string) error {
	return New(http.StatusServiceUnavailable, msg)
}

func InternalError(err error) error {
	return Wrap(http.StatusInternalServerError, err)
}

// GetCode returns the status of the outermost Failure in err's chain, or 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
