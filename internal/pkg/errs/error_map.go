package errs

import "net/http"

// errorMap holds the client-facing message and HTTP status for every code.
// A zero Status means 400 Bad Request.
var errorMap = map[int]CustomError{
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters"},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Malformed JSON body"},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data"},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrInvalidUserID: {Code: ErrInvalidUserID, Message: "User already exists or invalid ID"},
	ErrInvalidSKU:    {Code: ErrInvalidSKU, Message: "Invalid SKU"},

	ErrUnknown:          {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStoreUnavailable: {Code: ErrStoreUnavailable, Message: "Storage is temporarily unavailable", Status: http.StatusServiceUnavailable},
}
