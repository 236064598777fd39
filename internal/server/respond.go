package server

import (
	"encoding/json"
	"net/http"
)

// Canonical error bodies for the outermost layers. Handler packages own
// their operation-specific messages; these cover everything that never
// reaches a handler.
const (
	msgRouteNotFound  = "Route not found."
	msgInternalError  = "Something went wrong!"
	msgTooManyRequest = "Too many requests from this IP, please try again later."
)

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body. msg must be safe for clients; no
// internal error detail is ever sent.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
