package session

import (
	"errors"

	"shopreco/internal/app/transport"
)

// Validation failures. They are reported to the user and never reach the backend.
var (
	ErrEmptyUserID    = errors.New("session: empty user id")
	ErrEmptySKU       = errors.New("session: empty sku")
	ErrNoUserSelected = errors.New("session: no user selected")
)

var prompts = map[error]string{
	ErrEmptyUserID:    "Please enter a user ID",
	ErrEmptySKU:       "Please enter a SKU",
	ErrNoUserSelected: "Please select a user first",
}

// Prompt returns the text shown for a validation error, or "" for other errors.
func Prompt(err error) string {
	for target, text := range prompts {
		if errors.Is(err, target) {
			return text
		}
	}
	return ""
}

// IsValidation reports whether err is one of the validation sentinels.
func IsValidation(err error) bool {
	return Prompt(err) != ""
}

// failureMessage is the user-facing text for a failed backend call.
func failureMessage(err error) string {
	var reqErr *transport.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage()
	}
	return transport.DefaultUserMessage
}
