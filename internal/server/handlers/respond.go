// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("failed to marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}

	if err != nil && code >= 500 {
		zap.L().Error("http error",
			zap.Int("code", code),
			zap.String("message", message),
			zap.Error(err),
		)
	}

	respondWithJSON(w, code, response)
}
