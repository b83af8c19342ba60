// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/Briancute/local-lead-finder/internal/model"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// ErrorResponse represents an API error. Message is omitted when there is
// nothing to add to Error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the /api/health body.
type HealthResponse struct {
	Status        string                 `json:"status"`
	Message       string                 `json:"message"`
	Database      string                 `json:"database"`
	DatabaseMode  string                 `json:"databaseMode"`
	InMemoryStats repository.MemoryStats `json:"inMemoryStats"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ============================================================================
// Auth
// ============================================================================

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public projection of an account.
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	APIQuotaUsed  int       `json:"apiQuotaUsed"`
	APIQuotaLimit int       `json:"apiQuotaLimit"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *UserResponse `json:"user"`
}

// MeResponse wraps the caller's profile.
type MeResponse struct {
	User *UserResponse `json:"user"`
}

// ToUserResponse converts a User model to its public projection.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		APIQuotaUsed:  u.APIQuotaUsed,
		APIQuotaLimit: u.APIQuotaLimit,
		CreatedAt:     u.CreatedAt,
	}
}

// ============================================================================
// Leads
// ============================================================================

// SearchResponse is one page of place results plus the caller's quota.
// NextPageToken is null on the last page.
type SearchResponse struct {
	Results       []model.Place `json:"results"`
	NextPageToken *string       `json:"nextPageToken"`
	Quota         model.Quota   `json:"quota"`
}

// PageToken returns a pointer to token, or nil when token is empty.
func PageToken(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}

// DetailsResponse wraps place details; Lead is null for unknown places.
type DetailsResponse struct {
	Lead *model.PlaceDetails `json:"lead"`
}

// SaveLeadRequest represents the request body for saving a lead.
type SaveLeadRequest struct {
	BusinessName  string   `json:"businessName"`
	Address       string   `json:"address,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	GooglePlaceID string   `json:"googlePlaceId,omitempty"`
}

// UpdateLeadRequest represents the request body for updating a lead.
// Absent fields are left unchanged.
type UpdateLeadRequest struct {
	Status         *string  `json:"status,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	RefreshDetails bool     `json:"refreshDetails,omitempty"`
}

// LeadResponse wraps a single lead with a confirmation.
type LeadResponse struct {
	Message string      `json:"message"`
	Lead    *model.Lead `json:"lead"`
}

// LeadListResponse represents the caller's leads.
type LeadListResponse struct {
	Leads []*model.Lead `json:"leads"`
	Count int           `json:"count"`
}

// ============================================================================
// Templates
// ============================================================================

// CreateTemplateRequest represents the request body for creating a template.
type CreateTemplateRequest struct {
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateTemplateRequest represents the request body for updating a template.
// The default flag is accepted under both its stored and camel-case name.
type UpdateTemplateRequest struct {
	Name           *string `json:"name,omitempty"`
	Subject        *string `json:"subject,omitempty"`
	Body           *string `json:"body,omitempty"`
	IsDefault      *bool   `json:"is_default,omitempty"`
	IsDefaultCamel *bool   `json:"isDefault,omitempty"`
}

// DefaultFlag returns the requested default flag, preferring is_default.
func (r UpdateTemplateRequest) DefaultFlag() *bool {
	if r.IsDefault != nil {
		return r.IsDefault
	}
	return r.IsDefaultCamel
}

// TemplateResponse wraps a single template with a confirmation.
type TemplateResponse struct {
	Message  string               `json:"message"`
	Template *model.EmailTemplate `json:"template"`
}

// TemplateListResponse represents the caller's templates.
type TemplateListResponse struct {
	Templates []*model.EmailTemplate `json:"templates"`
}

// ============================================================================
// Email
// ============================================================================

// SendEmailRequest represents an outgoing email. LeadID is optional.
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	LeadID  string `json:"leadId,omitempty"`
}

// SendEmailResponse confirms delivery.
type SendEmailResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// PreviewRequest names a template and a lead to render it for.
type PreviewRequest struct {
	TemplateID string `json:"templateId"`
	LeadID     string `json:"leadId"`
}

// PreviewResponse is a rendered message.
type PreviewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
