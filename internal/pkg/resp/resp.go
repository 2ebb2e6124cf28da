/*
Package resp writes backend responses.

List endpoints answer with their bare payload object ({users: [...]} and friends);
write endpoints answer with the {status, message} envelope, on success and on error.
*/
package resp

import (
	"net/http"

	"github.com/goccy/go-json"

	"shopreco/internal/app/shop"
	"shopreco/internal/pkg/errs"
	"shopreco/internal/pkg/logx"
)

// RespondJSON encodes payload and writes it with httpStatus.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus, "path", r.URL.Path)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpStatus)
	_, _ = w.Write(body)
}

// RespondData writes payload with 200 OK.
func RespondData(w http.ResponseWriter, r *http.Request, payload any) {
	RespondJSON(w, r, http.StatusOK, payload)
}

// RespondSuccess writes {"status":"success","message":message} with 200 OK.
func RespondSuccess(w http.ResponseWriter, r *http.Request, message string) {
	RespondJSON(w, r, http.StatusOK, shop.StatusResponse{
		Status:  shop.StatusSuccess,
		Message: message,
	})
}

// RespondError writes {"status":"error","message":...} with the error's HTTP status.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, shop.StatusResponse{
		Status:  shop.StatusError,
		Message: customErr.Message,
	})
}
