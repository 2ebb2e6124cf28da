package transport

import (
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind string

const (
	// KindNetwork: the request never produced a response.
	KindNetwork Kind = "network"
	// KindDecode: a body could not be encoded, or the response was not valid JSON
	// of the expected shape.
	KindDecode Kind = "decode"
	// KindStatus: non-2xx response without a usable error envelope.
	KindStatus Kind = "status"
	// KindReported: the backend answered with status "error".
	KindReported Kind = "reported"
)

// DefaultUserMessage is shown when the backend gave no message of its own.
const DefaultUserMessage = "Request failed"

// RequestError is returned by every Client method on failure.
type RequestError struct {
	Kind       Kind
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("transport: %s %s: %s", e.Method, e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage is the text suitable for an error notice.
func (e *RequestError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultUserMessage
}
