package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request ID, then
// shown to the client as a core.UserMessage: an alert fragment for HTMX
// requests, JSON for API clients, plain text otherwise.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/laberr/internal/core"
	"github.com/JonMunkholm/laberr/internal/logging"
	"github.com/JonMunkholm/laberr/internal/proposal"
	"github.com/JonMunkholm/laberr/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing message in the format
// the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)
	if statusCode >= 500 {
		log.Error("request error")
	} else {
		log.Warn("request error")
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
	} else if wantsJSON(r) {
		respondErrorJSON(w, err, userMsg, statusCode)
	} else {
		respondErrorHTML(w, userMsg, statusCode)
	}
}

// statusFor picks the HTTP status for a lookup or proposal error.
func statusFor(err error) int {
	var loadErr *core.LoadError
	var validationErr *proposal.ValidationError

	switch {
	case errors.As(err, &loadErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &validationErr),
		errors.Is(err, core.ErrUnknownDimension),
		errors.Is(err, core.ErrUnknownColumn):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyOptions),
		errors.Is(err, core.ErrNoMatch),
		errors.Is(err, proposal.ErrDisabled):
		return http.StatusNotFound
	case errors.Is(err, proposal.ErrTooManyPending):
		return http.StatusTooManyRequests
	case errors.Is(err, proposal.ErrEndpointUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// alertFor converts err to a page alert of the given kind.
func alertFor(kind string, err error) *templates.Alert {
	msg := core.MapError(err)
	return &templates.Alert{Kind: kind, Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// respondErrorJSON writes a JSON error response. Only user-facing errors
// expose their text; anything else is reported by code alone.
func respondErrorJSON(w http.ResponseWriter, err error, msg core.UserMessage, statusCode int) {
	detail := msg.Message
	if core.IsUserFacing(err) {
		detail = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   detail,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain error response.
func respondErrorHTML(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
