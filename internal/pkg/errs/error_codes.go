/*
Package errs provides the backend's application error codes and the CustomError type.

Codes identify a failure inside the server; the message and HTTP status attached to
each code are what clients see in the {status:"error", message} envelope.
*/
package errs

// 1xxx: request handling
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates a Content-Type other than application/json.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a request body that is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates the caller exceeded the per-IP write limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: users and purchases
const (
	// ErrInvalidUserID indicates an empty or already registered user id on create.
	ErrInvalidUserID = 2101

	// ErrInvalidSKU indicates a purchase for a sku that is not in the catalog.
	ErrInvalidSKU = 2201
)

// 5xxx: internal
const (
	// ErrUnknown represents an unclassified server failure.
	ErrUnknown = 5000

	// ErrStoreUnavailable indicates the user/purchase store could not be reached.
	ErrStoreUnavailable = 5001
)
