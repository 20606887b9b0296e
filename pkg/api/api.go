// Package api provides standardized helper functions for HTTP API responses.
//
// Every endpoint responds with a JSON envelope: successful responses carry
// {"success": true, ...payload}, failures carry {"success": false, "message"}.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "swiftcart-backend/pkg/errors"
)

// ErrorResponse is the standardized failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends a successful HTTP response with a JSON body.
// The payload is expected to carry its own Success field.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error sends an error response with the consistent failure envelope.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: message})
}

// HandleError normalizes any error raised inside a handler to the failure
// envelope. Typed application errors keep their message and mapped status;
// everything else is surfaced as a generic 500.
func HandleError(w http.ResponseWriter, err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		Error(w, appErr.HTTPStatus(), appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}
