package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Briancute/local-lead-finder/internal/model"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// TemplateService handles email template business logic.
// At most one template per user is the default; the repositories clear
// sibling defaults whenever a default is written.
type TemplateService struct {
	templates repository.TemplateRepository
	logger    *slog.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templates repository.TemplateRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{templates: templates, logger: logger}
}

// CreateTemplateInput defines input for creating a template.
type CreateTemplateInput struct {
	UserID    string
	Name      string
	Subject   string
	Body      string
	IsDefault bool
}

// Create stores a new template for the user.
func (s *TemplateService) Create(ctx context.Context, input CreateTemplateInput) (*model.EmailTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Body) == "" {
		return nil, ErrMissingTemplate
	}

	tmpl := &model.EmailTemplate{
		UserID:    input.UserID,
		Name:      name,
		Subject:   input.Subject,
		Body:      input.Body,
		IsDefault: input.IsDefault,
	}
	if err := s.templates.CreateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tmpl, nil
}

// List returns the user's templates, newest first.
func (s *TemplateService) List(ctx context.Context, userID string) ([]*model.EmailTemplate, error) {
	templates, err := s.templates.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if templates == nil {
		templates = []*model.EmailTemplate{}
	}
	return templates, nil
}

// Get returns a template owned by the user.
func (s *TemplateService) Get(ctx context.Context, id, userID string) (*model.EmailTemplate, error) {
	tmpl, err := s.templates.GetTemplate(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

// UpdateTemplateInput defines input for updating a template.
// Nil fields are left unchanged.
type UpdateTemplateInput struct {
	ID        string
	UserID    string
	Name      *string
	Subject   *string
	Body      *string
	IsDefault *bool
}

// Update modifies a template owned by the user.
func (s *TemplateService) Update(ctx context.Context, input UpdateTemplateInput) (*model.EmailTemplate, error) {
	upd := model.TemplateUpdate{
		Name:      input.Name,
		Subject:   input.Subject,
		Body:      input.Body,
		IsDefault: input.IsDefault,
	}
	if upd.IsEmpty() {
		return nil, ErrNoUpdates
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, ErrMissingTemplate
	}
	if upd.Body != nil && strings.TrimSpace(*upd.Body) == "" {
		return nil, ErrMissingTemplate
	}

	tmpl, err := s.templates.UpdateTemplate(ctx, input.ID, input.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

// Delete removes a template owned by the user.
func (s *TemplateService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.templates.DeleteTemplate(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if !deleted {
		return ErrTemplateNotFound
	}
	return nil
}
