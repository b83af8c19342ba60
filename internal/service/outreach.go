package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Briancute/local-lead-finder/internal/mail"
	"github.com/Briancute/local-lead-finder/internal/metrics"
	"github.com/Briancute/local-lead-finder/internal/model"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// OutreachService renders templates for leads and sends outreach email.
type OutreachService struct {
	sender    mail.Sender
	templates repository.TemplateRepository
	leads     *LeadService
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewOutreachService creates a new OutreachService.
func NewOutreachService(
	sender mail.Sender,
	templates repository.TemplateRepository,
	leads *LeadService,
	m metrics.Recorder,
	logger *slog.Logger,
) *OutreachService {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &OutreachService{
		sender:    sender,
		templates: templates,
		leads:     leads,
		metrics:   m,
		logger:    logger,
	}
}

// ApplyTemplate fills the template's placeholders for the given lead.
func ApplyTemplate(tmpl *model.EmailTemplate, lead *model.Lead) (subject, body string) {
	return tmpl.Render(lead)
}

// PreviewInput identifies an owned template and an owned lead.
type PreviewInput struct {
	UserID     string
	TemplateID string
	LeadID     string
}

// Preview is a rendered message ready to send.
type Preview struct {
	Subject string
	Body    string
}

// Preview renders a template against a lead without sending anything.
func (s *OutreachService) Preview(ctx context.Context, input PreviewInput) (*Preview, error) {
	if input.TemplateID == "" || input.LeadID == "" {
		return nil, ErrMissingFields
	}

	tmpl, err := s.templates.GetTemplate(ctx, input.TemplateID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	lead, err := s.leads.Get(ctx, input.LeadID, input.UserID)
	if err != nil {
		return nil, err
	}

	subject, body := ApplyTemplate(tmpl, lead)
	return &Preview{Subject: subject, Body: body}, nil
}

// SendInput defines an outgoing email. LeadID is optional.
type SendInput struct {
	UserID  string
	To      string
	Subject string
	Body    string
	LeadID  string
}

// Send delivers an email and returns its message id. When LeadID names a
// lead owned by the user, the lead is marked Contacted after delivery.
func (s *OutreachService) Send(ctx context.Context, input SendInput) (string, error) {
	to := strings.TrimSpace(input.To)
	if to == "" || strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Body) == "" {
		return "", ErrMissingRecipient
	}
	if !s.sender.Configured() {
		return "", ErrMailNotConfigured
	}

	messageID, err := s.sender.Send(ctx, mail.Message{
		To:      to,
		Subject: input.Subject,
		Body:    input.Body,
	})
	if err != nil {
		s.metrics.IncEmailSent("failed")
		if errors.Is(err, mail.ErrNotConfigured) {
			return "", ErrMailNotConfigured
		}
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	s.metrics.IncEmailSent("sent")

	if input.LeadID != "" {
		if err := s.leads.MarkContacted(ctx, input.LeadID, input.UserID); err != nil {
			s.logger.Warn("failed to mark lead contacted",
				"lead_id", input.LeadID,
				"error", err,
			)
		}
	}

	return messageID, nil
}
