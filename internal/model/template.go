package model

import (
	"strings"
	"time"
)

// BusinessNamePlaceholder is replaced with a lead's business name when a
// template is applied.
const BusinessNamePlaceholder = "{{business_name}}"

// fallbackGreetingName is used when a lead has no business name.
const fallbackGreetingName = "there"

// EmailTemplate is a reusable outreach message owned by one user.
type EmailTemplate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of the template.
func (t *EmailTemplate) Clone() *EmailTemplate {
	c := *t
	return &c
}

// Render returns the subject and body with every placeholder replaced by
// the lead's business name.
func (t *EmailTemplate) Render(lead *Lead) (subject, body string) {
	name := fallbackGreetingName
	if lead != nil && strings.TrimSpace(lead.BusinessName) != "" {
		name = lead.BusinessName
	}
	subject = strings.ReplaceAll(t.Subject, BusinessNamePlaceholder, name)
	body = strings.ReplaceAll(t.Body, BusinessNamePlaceholder, name)
	return subject, body
}

// TemplateUpdate holds a partial update for a template.
type TemplateUpdate struct {
	Name      *string
	Subject   *string
	Body      *string
	IsDefault *bool
}

// IsEmpty reports whether the update carries no fields.
func (u TemplateUpdate) IsEmpty() bool {
	return u.Name == nil && u.Subject == nil && u.Body == nil && u.IsDefault == nil
}

// Apply merges the update into the template.
func (u TemplateUpdate) Apply(t *EmailTemplate) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Subject != nil {
		t.Subject = *u.Subject
	}
	if u.Body != nil {
		t.Body = *u.Body
	}
	if u.IsDefault != nil {
		t.IsDefault = *u.IsDefault
	}
}
