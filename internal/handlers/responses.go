package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kasaapp/kasa/internal/middleware"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// usernameFromRequest returns the authenticated username from the
// request context
func usernameFromRequest(r *http.Request) string {
	return middleware.UsernameFromContext(r.Context())
}
