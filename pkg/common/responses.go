package common

import (
	"encoding/json"
	"net/http"

	"breathe-backend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// RespondValidationErrors sends a 400 with itemized field errors
func RespondValidationErrors(w http.ResponseWriter, fields []errors.FieldError) {
	writeJSON(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
