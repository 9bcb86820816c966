package handler

import (
	"encoding/json"
	"net/http"

	"portfolio-backend/model"

	"github.com/rs/zerolog/log"
)

// SendJSON writes a JSON body with the given status code
func SendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// SendError writes the failure envelope {success:false, message}
func SendError(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// SendValidationErrors writes a 400 with every failed field, not just the
// first one
func SendValidationErrors(w http.ResponseWriter, errs model.ValidationErrors) {
	SendJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
