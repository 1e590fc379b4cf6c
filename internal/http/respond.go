package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

func successMessage(verb string, count int, noun string) string {
	return fmt.Sprintf("Successfully %s %d %s", verb, count, noun)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
