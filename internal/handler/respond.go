package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

// respondError writes a standard error response: {"error": message}
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message})
}

// respondValidationError writes a field-level validation failure
func respondValidationError(w http.ResponseWriter, details map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Validation failed",
		"details": details,
	})
}

// respondInternalError logs the failure server-side and returns a generic
// message; internal state never reaches the client.
func respondInternalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	respondError(w, http.StatusInternalServerError, "Internal Server Error")
}

// decodeJSON parses the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
