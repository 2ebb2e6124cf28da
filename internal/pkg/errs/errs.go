package errs

import (
	"errors"
	"fmt"
	"net/http"

	"shopreco/internal/pkg/logx"
)

// CustomError is the error type handlers return to clients.
type CustomError struct {
	// Code is one of the constants in error_codes.go.
	Code int

	// Message is the client-facing description.
	Message string

	// Status is the HTTP status the response is written with.
	Status int
}

// Error implements error.
func (e *CustomError) Error() string {
	return fmt.Sprintf("error code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError returns the CustomError registered for code.
// Unknown codes are logged and mapped to ErrUnknown. When code is ErrUnknown and
// cause is non-nil, the cause is logged so the client message stays generic.
func NewError(code int, cause ...error) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Error(errors.New("unregistered error code"), "NewError called with unknown code", "requested_code", code)
		tmpl = errorMap[ErrUnknown]
	}

	out := tmpl
	if out.Status == 0 {
		out.Status = http.StatusBadRequest
	}

	if code == ErrUnknown {
		for _, c := range cause {
			if c != nil {
				logx.Error(c, "Handling ErrUnknown with underlying error")
			}
		}
	}

	return &out
}

// Is reports whether err is a *CustomError carrying code.
func Is(err error, code int) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == code
}
