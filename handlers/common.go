package handlers

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/go-playground/validator/v10"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// errorPayload is the wire shape of every API error response.
type errorPayload struct {
	StatusCode       int    `json:"statusCode"`
	Error            string `json:"error"`
	Message          string `json:"message"`
	DocumentationURL string `json:"documentationUrl,omitempty"`
}

// logRequest logs a request-scoped message with structured fields.
func logRequest(r *http.Request, level string, message string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(message, allFields...)
	case "error":
		logger.Error(message, allFields...)
	case "debug":
		logger.Debug(message, allFields...)
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes the error payload. The message is HTML-escaped to
// avoid echoing attacker-controlled input verbatim.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorPayload{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    html.EscapeString(message),
	})
}

func respondErrorWithDocs(w http.ResponseWriter, status int, message, docURL string) {
	respondJSON(w, status, errorPayload{
		StatusCode:       status,
		Error:            http.StatusText(status),
		Message:          html.EscapeString(message),
		DocumentationURL: docURL,
	})
}

// fieldLabels maps struct field names to the labels used in validation
// messages.
var fieldLabels = map[string]string{
	"Email":    "Email address",
	"Password": "Password",
	"Username": "Username",
	"Homepage": "Homepage",
	"Keyword":  "Keyword",
}

// firstValidationError collapses a validation result to the first field
// error. Showing one error at a time is a display policy, not a parsing
// limitation.
func firstValidationError(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid request payload"
	}

	fieldErr := errs[0]
	label := fieldLabels[fieldErr.Field()]
	if label == "" {
		label = fieldErr.Field()
	}

	switch fieldErr.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", label, fieldErr.Param())
	case "url":
		return label + " must be a valid URL"
	default:
		return label + " is invalid"
	}
}

// bindJSON decodes the request body into v.
func bindJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// composeBaseURL resolves the absolute URL for the given path, honoring
// the protocol a reverse proxy forwards.
func composeBaseURL(r *http.Request, path string) string {
	protocol := r.Header.Get("X-Forwarded-Proto")
	if protocol == "" {
		if r.TLS != nil {
			protocol = "https"
		} else {
			protocol = "http"
		}
	}

	return protocol + "://" + r.Host + path
}
