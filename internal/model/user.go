// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// DefaultAPIQuotaLimit is the search quota granted to every new account.
const DefaultAPIQuotaLimit = 1000

// User represents an account that owns leads and templates.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Never serialize
	APIQuotaUsed  int       `json:"apiQuotaUsed"`
	APIQuotaLimit int       `json:"apiQuotaLimit"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Quota returns the user's current search quota snapshot.
func (u *User) Quota() Quota {
	return Quota{
		Used:      u.APIQuotaUsed,
		Limit:     u.APIQuotaLimit,
		Remaining: u.APIQuotaLimit - u.APIQuotaUsed,
	}
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// Quota is an informational snapshot of search usage. It is never enforced.
type Quota struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// NormalizeEmail trims and lower-cases an email address.
// Emails are compared and stored in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserUpdate holds a partial update for a user. Nil fields are left unchanged.
type UserUpdate struct {
	Name          *string
	PasswordHash  *string
	APIQuotaUsed  *int
	APIQuotaLimit *int
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.PasswordHash == nil && u.APIQuotaUsed == nil && u.APIQuotaLimit == nil
}

// Apply merges the update into the user.
func (u UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	if u.APIQuotaUsed != nil {
		user.APIQuotaUsed = *u.APIQuotaUsed
	}
	if u.APIQuotaLimit != nil {
		user.APIQuotaLimit = *u.APIQuotaLimit
	}
}
