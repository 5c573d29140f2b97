package response

import (
	"fmt"
	"net/http"
)

const (
	CodeBadRequest    = http.StatusBadRequest
	CodeUnprocessable = http.StatusUnprocessableEntity
	CodeBadGateway    = http.StatusBadGateway
)

// Error holds an error code, a client-facing message and the internal cause.
// Code doubles as the HTTP status when rendered.
type Error struct {
	Code     int
	Message  interface{}
	Internal error
}

func NewError(code int, message interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) SetInternal(err error) *Error {
	e.Internal = err
	return e
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%d: %v: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%d: %v", e.Code, e.Message)
}
