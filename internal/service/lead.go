package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Briancute/local-lead-finder/internal/metrics"
	"github.com/Briancute/local-lead-finder/internal/model"
	"github.com/Briancute/local-lead-finder/internal/places"
	"github.com/Briancute/local-lead-finder/internal/repository"
)

// searchCost is charged against a user's quota for every search call,
// including continuation pages and empty results.
const searchCost = 1

// LeadService handles place search and lead business logic.
type LeadService struct {
	leads   repository.LeadRepository
	users   repository.UserRepository
	gateway places.Gateway
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewLeadService creates a new LeadService.
func NewLeadService(
	leads repository.LeadRepository,
	users repository.UserRepository,
	gateway places.Gateway,
	m metrics.Recorder,
	logger *slog.Logger,
) *LeadService {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &LeadService{
		leads:   leads,
		users:   users,
		gateway: gateway,
		metrics: m,
		logger:  logger,
	}
}

// SearchInput defines input for a place search.
type SearchInput struct {
	UserID    string
	Keyword   string
	Location  string
	PageToken string
}

// SearchResult is a page of places plus the caller's quota after the search.
type SearchResult struct {
	Results       []model.Place
	NextPageToken string
	Quota         model.Quota
}

// Search queries the place gateway and charges the caller's quota.
// The quota is informational and never blocks a search.
func (s *LeadService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	keyword := strings.TrimSpace(input.Keyword)
	if keyword == "" && input.PageToken == "" {
		return nil, ErrMissingKeyword
	}

	query := keyword
	if location := strings.TrimSpace(input.Location); location != "" {
		query = keyword + " in " + location
	}

	mode := "live"
	if s.gateway.DemoMode() {
		mode = "demo"
	}
	s.metrics.IncSearch(mode)

	start := time.Now()
	page, err := s.gateway.Search(ctx, query, input.PageToken)
	s.metrics.ObserveProviderDuration("search", time.Since(start))
	if err != nil {
		s.metrics.IncProviderError("search")
		return nil, fmt.Errorf("failed to search places: %w", err)
	}

	user, err := s.users.IncrementQuota(ctx, input.UserID, searchCost)
	if err != nil {
		return nil, fmt.Errorf("failed to update quota: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	results := page.Results
	if results == nil {
		results = []model.Place{}
	}
	return &SearchResult{
		Results:       results,
		NextPageToken: page.NextPageToken,
		Quota:         user.Quota(),
	}, nil
}

// Details returns place details, or nil when the place is unknown.
func (s *LeadService) Details(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, ErrMissingPlaceID
	}

	details, err := s.fetchDetails(ctx, placeID, s.gateway.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to get place details: %w", err)
	}
	return details, nil
}

func (s *LeadService) fetchDetails(
	ctx context.Context,
	placeID string,
	lookup func(context.Context, string) (*model.PlaceDetails, error),
) (*model.PlaceDetails, error) {
	start := time.Now()
	details, err := lookup(ctx, placeID)
	s.metrics.ObserveProviderDuration("details", time.Since(start))
	if err != nil {
		s.metrics.IncProviderError("details")
		return nil, err
	}
	return details, nil
}

// SaveLeadInput defines input for saving a lead.
type SaveLeadInput struct {
	UserID        string
	BusinessName  string
	Address       string
	Phone         string
	Website       string
	Rating        *float64
	GooglePlaceID string
}

// Save stores a new lead for the user. When the lead references a place and
// lacks a phone or website, blank contact fields are filled from the place
// details on a best-effort basis.
func (s *LeadService) Save(ctx context.Context, input SaveLeadInput) (*model.Lead, error) {
	name := strings.TrimSpace(input.BusinessName)
	if name == "" {
		return nil, ErrMissingName
	}
	if input.Rating != nil && !validRating(*input.Rating) {
		return nil, ErrInvalidRating
	}

	lead := &model.Lead{
		UserID:        input.UserID,
		BusinessName:  name,
		Address:       input.Address,
		Phone:         input.Phone,
		Website:       input.Website,
		Rating:        input.Rating,
		GooglePlaceID: strings.TrimSpace(input.GooglePlaceID),
		Status:        model.LeadStatusNew,
		Tags:          []string{},
	}

	if lead.GooglePlaceID != "" {
		existing, err := s.leads.ListLeads(ctx, repository.LeadFilter{
			UserID:        lead.UserID,
			GooglePlaceID: lead.GooglePlaceID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check existing lead: %w", err)
		}
		if len(existing) > 0 {
			s.metrics.IncLeadDuplicate()
			return nil, ErrLeadExists
		}

		if lead.Phone == "" || lead.Website == "" {
			s.enrich(ctx, lead)
		}
	}

	if err := s.leads.CreateLead(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrDuplicateLead) {
			s.metrics.IncLeadDuplicate()
			return nil, ErrLeadExists
		}
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.metrics.IncLeadCreated()
	return lead, nil
}

// enrich fills blank contact fields from place details. Failures are logged.
func (s *LeadService) enrich(ctx context.Context, lead *model.Lead) {
	details, err := s.fetchDetails(ctx, lead.GooglePlaceID, s.gateway.Details)
	if err != nil {
		s.logger.Warn("lead enrichment failed",
			"place_id", lead.GooglePlaceID,
			"error", err,
		)
		return
	}
	if details == nil {
		return
	}

	if lead.Phone == "" {
		lead.Phone = details.Phone
	}
	if lead.Website == "" {
		lead.Website = details.Website
	}
	if lead.Address == "" {
		lead.Address = details.Address
	}
	if lead.Rating == nil && details.Rating > 0 {
		r := details.Rating
		lead.Rating = &r
	}
}

// ListLeadsInput defines input for listing leads.
type ListLeadsInput struct {
	UserID string
	Status string
	Search string
}

// List returns the user's leads, newest first.
func (s *LeadService) List(ctx context.Context, input ListLeadsInput) ([]*model.Lead, error) {
	leads, err := s.leads.ListLeads(ctx, repository.LeadFilter{
		UserID: input.UserID,
		Status: model.LeadStatus(strings.TrimSpace(input.Status)),
		Search: strings.TrimSpace(input.Search),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	if leads == nil {
		leads = []*model.Lead{}
	}
	return leads, nil
}

// UpdateLeadInput defines input for updating a lead.
// Nil fields are left unchanged.
type UpdateLeadInput struct {
	ID             string
	UserID         string
	Status         *string
	Tags           []string
	Notes          *string
	RefreshDetails bool
}

// Update modifies a lead owned by the user. With RefreshDetails set, the
// contact fields are overwritten from the current place details.
func (s *LeadService) Update(ctx context.Context, input UpdateLeadInput) (*model.Lead, error) {
	var upd model.LeadUpdate

	if input.Status != nil {
		status := model.LeadStatus(*input.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		upd.Status = &status
	}
	if input.Tags != nil {
		upd.Tags = cleanTags(input.Tags)
	}
	upd.Notes = input.Notes

	if input.RefreshDetails {
		lead, err := s.leads.GetLead(ctx, input.ID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get lead: %w", err)
		}
		if lead == nil {
			return nil, ErrLeadNotFound
		}
		if lead.GooglePlaceID != "" {
			s.refresh(ctx, lead.GooglePlaceID, &upd)
		}
	}

	if upd.IsEmpty() {
		return nil, ErrNoUpdates
	}

	lead, err := s.leads.UpdateLead(ctx, input.ID, input.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	s.metrics.IncLeadUpdated()
	return lead, nil
}

// refresh overwrites the contact fields in upd with the place's current
// details. A failed or empty lookup leaves upd untouched.
func (s *LeadService) refresh(ctx context.Context, placeID string, upd *model.LeadUpdate) {
	details, err := s.fetchDetails(ctx, placeID, s.gateway.RefreshDetails)
	if err != nil {
		s.logger.Warn("lead details refresh failed",
			"place_id", placeID,
			"error", err,
		)
		return
	}
	if details == nil {
		return
	}

	upd.Phone = &details.Phone
	upd.Website = &details.Website
	upd.Address = &details.Address
	if details.Rating > 0 {
		r := details.Rating
		upd.Rating = &r
	} else {
		upd.ClearRating = true
	}
}

// Get returns a lead owned by the user.
func (s *LeadService) Get(ctx context.Context, id, userID string) (*model.Lead, error) {
	lead, err := s.leads.GetLead(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// MarkContacted sets the status of an owned lead to Contacted.
func (s *LeadService) MarkContacted(ctx context.Context, id, userID string) error {
	status := model.LeadStatusContacted
	lead, err := s.leads.UpdateLead(ctx, id, userID, model.LeadUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to mark lead contacted: %w", err)
	}
	if lead == nil {
		return ErrLeadNotFound
	}
	s.metrics.IncLeadUpdated()
	return nil
}

// Delete removes a lead owned by the user.
func (s *LeadService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.leads.DeleteLead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if !deleted {
		return ErrLeadNotFound
	}

	s.metrics.IncLeadDeleted()
	return nil
}

func validRating(r float64) bool {
	return r >= model.MinRating && r <= model.MaxRating
}

// cleanTags trims tags and drops empty ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
