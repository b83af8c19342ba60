package model

import (
	"slices"
	"time"
)

// LeadStatus represents where a lead is in the outreach pipeline.
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusQualified     LeadStatus = "Qualified"
	LeadStatusClosed        LeadStatus = "Closed"
	LeadStatusNotInterested LeadStatus = "Not Interested"
)

// ValidLeadStatuses contains all valid lead statuses.
var ValidLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusClosed,
	LeadStatusNotInterested,
}

// IsValid checks if the status is one of the known values.
func (s LeadStatus) IsValid() bool {
	return slices.Contains(ValidLeadStatuses, s)
}

// Rating bounds accepted for a lead.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Lead represents a prospective business contact owned by one user.
type Lead struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	BusinessName  string     `json:"business_name"`
	Address       string     `json:"address,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Website       string     `json:"website,omitempty"`
	Rating        *float64   `json:"rating,omitempty"`
	GooglePlaceID string     `json:"google_place_id,omitempty"`
	Status        LeadStatus `json:"status"`
	Tags          []string   `json:"tags"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the lead.
func (l *Lead) Clone() *Lead {
	c := *l
	if l.Rating != nil {
		r := *l.Rating
		c.Rating = &r
	}
	c.Tags = slices.Clone(l.Tags)
	return &c
}

// LeadUpdate holds a partial update for a lead. Nil fields are left unchanged.
type LeadUpdate struct {
	Status  *LeadStatus
	Tags    []string // nil means unchanged
	Notes   *string
	Address *string
	Phone   *string
	Website *string
	Rating  *float64
	// ClearRating removes the rating. Rating takes precedence when both are set.
	ClearRating bool
}

// IsEmpty reports whether the update carries no fields.
func (u LeadUpdate) IsEmpty() bool {
	return u.Status == nil && u.Tags == nil && u.Notes == nil &&
		u.Address == nil && u.Phone == nil && u.Website == nil && u.Rating == nil && !u.ClearRating
}

// Apply merges the update into the lead.
func (u LeadUpdate) Apply(l *Lead) {
	if u.Status != nil {
		l.Status = *u.Status
	}
	if u.Tags != nil {
		l.Tags = slices.Clone(u.Tags)
	}
	if u.Notes != nil {
		l.Notes = *u.Notes
	}
	if u.Address != nil {
		l.Address = *u.Address
	}
	if u.Phone != nil {
		l.Phone = *u.Phone
	}
	if u.Website != nil {
		l.Website = *u.Website
	}
	if u.Rating != nil {
		r := *u.Rating
		l.Rating = &r
	} else if u.ClearRating {
		l.Rating = nil
	}
}
