package http

import (
	"encoding/json"
	"net/http"

	"github.com/middlemost/wishlist"
)

// errorMap is a whitelist that maps errors to status codes.
var errorMap = map[error]int{
	wishlist.ErrInvalidRequestBody: http.StatusBadRequest,
	wishlist.ErrPhoneRequired:      http.StatusBadRequest,
	wishlist.ErrInvalidPhone:       http.StatusBadRequest,
	wishlist.ErrOTPRequired:        http.StatusBadRequest,
	wishlist.ErrInvalidOTP:         http.StatusBadRequest,
	wishlist.ErrProductIDRequired:  http.StatusBadRequest,
	wishlist.ErrMerchantIDRequired: http.StatusBadRequest,
	wishlist.ErrEntryIDRequired:    http.StatusBadRequest,
	wishlist.ErrPriceRequired:      http.StatusBadRequest,
	wishlist.ErrInvalidPrice:       http.StatusBadRequest,
	wishlist.ErrEntryExists:        http.StatusBadRequest,
	wishlist.ErrUnauthorized:       http.StatusUnauthorized,
	wishlist.ErrTokenRequired:      http.StatusUnauthorized,
	wishlist.ErrInvalidToken:       http.StatusUnauthorized,
	wishlist.ErrEntryNotFound:      http.StatusNotFound,
}

// ErrorStatusCode returns the HTTP status code for an error object.
func ErrorStatusCode(err error) int {
	if code, ok := errorMap[err]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error writes an error response to the writer.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	// Determine status code.
	code := ErrorStatusCode(err)

	// Log error.
	logger := FromContext(r.Context())
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "http error", "status", code, "error", err)
	} else {
		logger.InfoContext(r.Context(), "http error", "status", code, "error", err)
	}

	// Mask unrecognized errors from end users.
	if _, ok := errorMap[err]; !ok {
		err = wishlist.ErrInternal
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(&messageResponse{Msg: err.Error()})
}

// messageResponse is the body of error and acknowledgement responses.
type messageResponse struct {
	Msg string `json:"msg"`
}

// encodeJSON writes v as a JSON response with a 200 status.
func encodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		FromContext(r.Context()).ErrorContext(r.Context(), "encode response", "error", err)
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return wishlist.ErrInvalidRequestBody
	}
	return nil
}
