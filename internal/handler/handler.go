// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Briancute/local-lead-finder/internal/handler/dto"
	"github.com/Briancute/local-lead-finder/internal/middleware"
)

var errEmptyBody = errors.New("empty request body")

// Handler serves the catch-all responses.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Route not found"})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "Method not allowed"})
}

// responder writes error bodies and logs internal failures. Internal error
// text reaches clients only when exposeErrors is set (development).
type responder struct {
	logger       *slog.Logger
	exposeErrors bool
}

// writeError writes an error response.
func (rs responder) writeError(w http.ResponseWriter, status int, errText, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: errText, Message: message})
}

// internalError logs err and writes a 500.
func (rs responder) internalError(w http.ResponseWriter, r *http.Request, errText string, err error) {
	rs.logger.Error("internal_error",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	message := ""
	if rs.exposeErrors {
		message = err.Error()
	}
	rs.writeError(w, http.StatusInternalServerError, errText, message)
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// writeBadJSON answers a body that could not be decoded.
func (rs responder) writeBadJSON(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		rs.writeError(w, http.StatusRequestEntityTooLarge, "Payload too large", "Request body too large")
		return
	}
	rs.writeError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to do.
		_ = err
	}
}
