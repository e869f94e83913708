package common

import (
	"encoding/json"
	"net/http"
	"time"

	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	WriteJSON(w, code, dtos.APIResponse{
		Success:      true,
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// RespondError sends a standardized JSON error response. message is what
// the client sees; err is only logged.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	RespondErrorFields(w, initTime, err, message, nil, statusCode...)
}

// RespondErrorFields is RespondError with field-level validation messages.
func RespondErrorFields(w http.ResponseWriter, initTime time.Time, err error, message string, fields map[string]string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	if err != nil && code >= http.StatusInternalServerError {
		logging.Error("Request failed", "status_code", code, "error", err.Error())
	}

	WriteJSON(w, code, dtos.ErrorResponse{
		Success:      false,
		Error:        message,
		Fields:       fields,
		ResponseTime: GetResponseTime(initTime),
	})
}

// WriteJSON marshals body and writes it to the HTTP response.
func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
