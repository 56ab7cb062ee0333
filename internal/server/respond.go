package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/floware/stockview/internal/product"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Status    string                   `json:"status"`
	Message   string                   `json:"message"`
	Errors    product.ValidationErrors `json:"errors,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func writeValidationError(w http.ResponseWriter, errs product.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Status:    "error",
		Message:   "invalid product",
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	})
}
