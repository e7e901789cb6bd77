package middleware

import (
	"encoding/json"
	"net/http"
)

// writeFailure writes the failed response envelope. Middleware rejects
// requests before any handler runs, so it cannot rely on the controller helpers.
func writeFailure(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"response_code": status,
		"status":        "failed",
		"message":       message,
		"errors":        map[string]string{"code": code},
	})
}
