// Package repository provides the storage layer for users, leads and templates.
//
// Every repository contract is implemented twice: by MongoStore against a
// live MongoDB database and by Memory as an in-process fallback. Adapter
// picks one of them on every call.
package repository

import (
	"context"
	"errors"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// Common errors for repository operations.
// Absence is never an error: single-record reads return (nil, nil).
var (
	ErrEmailExists   = errors.New("email already exists")
	ErrDuplicateLead = errors.New("lead already exists for this place")
	ErrInvalidInput  = errors.New("invalid input")
)

// LeadFilter defines filters for listing leads.
type LeadFilter struct {
	UserID        string // required
	Status        model.LeadStatus
	Search        string // case-insensitive substring of business name
	GooglePlaceID string
}

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	IncrementQuota(ctx context.Context, id string, delta int) (*model.User, error)
}

// LeadRepository stores leads. Every call is scoped to the owning user.
type LeadRepository interface {
	ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error)
	GetLead(ctx context.Context, id, userID string) (*model.Lead, error)
	CreateLead(ctx context.Context, lead *model.Lead) error
	UpdateLead(ctx context.Context, id, userID string, upd model.LeadUpdate) (*model.Lead, error)
	DeleteLead(ctx context.Context, id, userID string) (bool, error)
}

// TemplateRepository stores email templates. Every call is scoped to the owning user.
type TemplateRepository interface {
	ListTemplates(ctx context.Context, userID string) ([]*model.EmailTemplate, error)
	GetTemplate(ctx context.Context, id, userID string) (*model.EmailTemplate, error)
	CreateTemplate(ctx context.Context, tmpl *model.EmailTemplate) error
	UpdateTemplate(ctx context.Context, id, userID string, upd model.TemplateUpdate) (*model.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id, userID string) (bool, error)
	ClearDefaultTemplates(ctx context.Context, userID, exceptID string) error
}

// Store is the full storage contract implemented by each backend.
type Store interface {
	UserRepository
	LeadRepository
	TemplateRepository
}

// validateLead checks the fields every backend requires before insert.
func validateLead(lead *model.Lead) error {
	if lead == nil || lead.UserID == "" || lead.BusinessName == "" {
		return ErrInvalidInput
	}
	return nil
}

// validateTemplate checks the fields every backend requires before insert.
func validateTemplate(tmpl *model.EmailTemplate) error {
	if tmpl == nil || tmpl.UserID == "" || tmpl.Name == "" || tmpl.Body == "" {
		return ErrInvalidInput
	}
	return nil
}

// validateUser checks the fields every backend requires before insert.
func validateUser(user *model.User) error {
	if user == nil || user.Email == "" || user.PasswordHash == "" {
		return ErrInvalidInput
	}
	return nil
}
