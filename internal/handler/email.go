package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Briancute/local-lead-finder/internal/auth"
	"github.com/Briancute/local-lead-finder/internal/handler/dto"
	"github.com/Briancute/local-lead-finder/internal/service"
)

// EmailHandler handles outreach email requests.
type EmailHandler struct {
	service *service.OutreachService
	responder
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(svc *service.OutreachService, logger *slog.Logger, isDevelopment bool) *EmailHandler {
	return &EmailHandler{
		service:   svc,
		responder: responder{logger: logger, exposeErrors: isDevelopment},
	}
}

// Send handles POST /api/email/send.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendEmailRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}

	messageID, err := h.service.Send(r.Context(), service.SendInput{
		UserID:  auth.UserIDFromContext(r.Context()),
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
		LeadID:  req.LeadID,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, dto.SendEmailResponse{
		Message:   "Email sent successfully",
		MessageID: messageID,
	})
}

// Preview handles POST /api/email/preview.
func (h *EmailHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}

	preview, err := h.service.Preview(r.Context(), service.PreviewInput{
		UserID:     auth.UserIDFromContext(r.Context()),
		TemplateID: req.TemplateID,
		LeadID:     req.LeadID,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to render preview")
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewResponse{Subject: preview.Subject, Body: preview.Body})
}

func (h *EmailHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingRecipient):
		h.writeError(w, http.StatusBadRequest, "Missing fields", "Recipient, subject, and body are required")
	case errors.Is(err, service.ErrMailNotConfigured):
		h.writeError(w, http.StatusBadRequest, "Email configuration missing", "SMTP credentials are not set in the server environment.")
	case errors.Is(err, service.ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "Missing fields", "Template and lead are required")
	case errors.Is(err, service.ErrTemplateNotFound):
		h.writeError(w, http.StatusNotFound, "Template not found", "")
	case errors.Is(err, service.ErrLeadNotFound):
		h.writeError(w, http.StatusNotFound, "Lead not found", "")
	default:
		h.internalError(w, r, fallback, err)
	}
}
