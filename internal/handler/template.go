package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Briancute/local-lead-finder/internal/auth"
	"github.com/Briancute/local-lead-finder/internal/handler/dto"
	"github.com/Briancute/local-lead-finder/internal/middleware"
	"github.com/Briancute/local-lead-finder/internal/service"
)

// TemplateHandler handles email template requests.
type TemplateHandler struct {
	service *service.TemplateService
	responder
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(svc *service.TemplateService, logger *slog.Logger, isDevelopment bool) *TemplateHandler {
	return &TemplateHandler{
		service:   svc,
		responder: responder{logger: logger, exposeErrors: isDevelopment},
	}
}

// List handles GET /api/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to fetch templates")
		return
	}
	writeJSON(w, http.StatusOK, dto.TemplateListResponse{Templates: templates})
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTemplateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}
	if msg := validateTemplateFields(&req.Name, &req.Subject, &req.Body); msg != "" {
		h.writeError(w, http.StatusBadRequest, "Invalid template", msg)
		return
	}

	tmpl, err := h.service.Create(r.Context(), service.CreateTemplateInput{
		UserID:    auth.UserIDFromContext(r.Context()),
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, dto.TemplateResponse{Message: "Template created", Template: tmpl})
}

// Update handles PATCH /api/templates/{id}.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTemplateRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}
	if msg := validateTemplateFields(req.Name, req.Subject, req.Body); msg != "" {
		h.writeError(w, http.StatusBadRequest, "Invalid template", msg)
		return
	}

	tmpl, err := h.service.Update(r.Context(), service.UpdateTemplateInput{
		ID:        chi.URLParam(r, "id"),
		UserID:    auth.UserIDFromContext(r.Context()),
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		IsDefault: req.DefaultFlag(),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to update template")
		return
	}
	writeJSON(w, http.StatusOK, dto.TemplateResponse{Message: "Template updated", Template: tmpl})
}

// Delete handles DELETE /api/templates/{id}.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to delete template")
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Template deleted"})
}

// validateTemplateFields checks length limits on the fields that are set.
func validateTemplateFields(name, subject, body *string) string {
	checks := []struct {
		field string
		value *string
		limit int
	}{
		{"name", name, middleware.MaxTemplateNameLength},
		{"subject", subject, middleware.MaxSubjectLength},
		{"body", body, middleware.MaxTemplateBodyLength},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := middleware.ValidateLength(*c.value, c.limit); err != nil {
			return fmt.Sprintf("%s must be at most %d characters", c.field, c.limit)
		}
	}
	return ""
}

func (h *TemplateHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingTemplate):
		h.writeError(w, http.StatusBadRequest, "Name and body are required", "")
	case errors.Is(err, service.ErrNoUpdates):
		h.writeError(w, http.StatusBadRequest, "No updates provided", "")
	case errors.Is(err, service.ErrTemplateNotFound):
		h.writeError(w, http.StatusNotFound, "Template not found", "")
	default:
		h.internalError(w, r, fallback, err)
	}
}
