// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// payload is the JSON body every error response shares.
type payload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Render writes a JSON error response with the given status, machine
// code, and human message.
func Render(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload{Error: code, Message: message})
}

// RenderBadRequest answers 400 with a machine code of "bad_request".
func RenderBadRequest(w http.ResponseWriter, message string) {
	Render(w, http.StatusBadRequest, "bad_request", message)
}

// RenderUnauthorized answers 401.
func RenderUnauthorized(w http.ResponseWriter, message string) {
	Render(w, http.StatusUnauthorized, "unauthorized", message)
}

// RenderNotFound answers 404.
func RenderNotFound(w http.ResponseWriter, message string) {
	Render(w, http.StatusNotFound, "not_found", message)
}

// RenderForbidden answers 403.
func RenderForbidden(w http.ResponseWriter, message string) {
	Render(w, http.StatusForbidden, "forbidden", message)
}

// RenderConflict answers 409 with the given machine code; used for
// concurrent-run and deadline rejections.
func RenderConflict(w http.ResponseWriter, code, message string) {
	Render(w, http.StatusConflict, code, message)
}

// ErrorLogger pairs server-error logging with the client response so
// handlers never return a 500 that left no trace in the logs.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger on top of the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err with request context and answers 500 with a
// generic message. logMsg is for operators; userMsg for the caller.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	Render(w, http.StatusInternalServerError, "server_error", userMsg)
}
