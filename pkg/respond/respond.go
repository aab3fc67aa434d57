// Package respond writes the JSON envelope shared by every service.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes payload with status.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message})
}

// Error classifies err and writes the matching status.
// Storage failures are logged in full and reported with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.As(err)
	status := appErr.Code.HTTPStatus()

	if appErr.Code == apperror.CodeStorageUnavailable {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	} else {
		logger.Debug(r.Context()).
			Str("code", string(appErr.Code)).
			Str("field", appErr.Field).
			Str("path", r.URL.Path).
			Msg(appErr.Message)
	}

	JSON(w, status, Response{
		Success: false,
		Error:   appErr.PublicMessage(),
	})
}
