// Package rpc exposes the console operations as a JSON HTTP API
package rpc

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"gateway-console/internal/domain/errors"

	"github.com/sirupsen/logrus"
)

// Response is the envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo describes a failed request. Code is the error kind.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation, errors.ErrorTypeConfiguration:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body Response, logger *logrus.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, status int, data interface{}, logger *logrus.Logger) {
	writeJSON(w, status, Response{Success: true, Data: data}, logger)
}

// respondError writes err as an error envelope. Internal causes are logged
// and not returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error, logger *logrus.Logger) {
	status := StatusFor(err)

	message := err.Error()
	var domainErr *errors.DomainError
	if stderrors.As(err, &domainErr) {
		message = domainErr.Message
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	writeJSON(w, status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(errors.TypeOf(err)),
			Message: message,
		},
	}, logger)
}
