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

// LeadHandler handles place search and saved lead requests.
type LeadHandler struct {
	service *service.LeadService
	responder
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(svc *service.LeadService, logger *slog.Logger, isDevelopment bool) *LeadHandler {
	return &LeadHandler{
		service:   svc,
		responder: responder{logger: logger, exposeErrors: isDevelopment},
	}
}

// Search handles GET /api/leads/search.
func (h *LeadHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.Search(r.Context(), service.SearchInput{
		UserID:    auth.UserIDFromContext(r.Context()),
		Keyword:   q.Get("keyword"),
		Location:  q.Get("location"),
		PageToken: q.Get("pageToken"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.SearchResponse{
		Results:       result.Results,
		NextPageToken: dto.PageToken(result.NextPageToken),
		Quota:         result.Quota,
	})
}

// Details handles GET /api/leads/details/{placeId}.
func (h *LeadHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Details(r.Context(), chi.URLParam(r, "placeId"))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to fetch details")
		return
	}
	writeJSON(w, http.StatusOK, dto.DetailsResponse{Lead: details})
}

// Save handles POST /api/leads.
func (h *LeadHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveLeadRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}
	if msg := validateSaveLead(req); msg != "" {
		h.writeError(w, http.StatusBadRequest, "Invalid lead", msg)
		return
	}

	lead, err := h.service.Save(r.Context(), service.SaveLeadInput{
		UserID:        auth.UserIDFromContext(r.Context()),
		BusinessName:  req.BusinessName,
		Address:       req.Address,
		Phone:         req.Phone,
		Website:       req.Website,
		Rating:        req.Rating,
		GooglePlaceID: req.GooglePlaceID,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to save lead")
		return
	}

	writeJSON(w, http.StatusCreated, dto.LeadResponse{Message: "Lead saved successfully", Lead: lead})
}

// List handles GET /api/leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leads, err := h.service.List(r.Context(), service.ListLeadsInput{
		UserID: auth.UserIDFromContext(r.Context()),
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to fetch leads")
		return
	}
	writeJSON(w, http.StatusOK, dto.LeadListResponse{Leads: leads, Count: len(leads)})
}

// Update handles PATCH /api/leads/{id}.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLeadRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}
	if msg := validateUpdateLead(req); msg != "" {
		h.writeError(w, http.StatusBadRequest, "Invalid lead", msg)
		return
	}

	lead, err := h.service.Update(r.Context(), service.UpdateLeadInput{
		ID:             chi.URLParam(r, "id"),
		UserID:         auth.UserIDFromContext(r.Context()),
		Status:         req.Status,
		Tags:           req.Tags,
		Notes:          req.Notes,
		RefreshDetails: req.RefreshDetails,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to update lead")
		return
	}

	writeJSON(w, http.StatusOK, dto.LeadResponse{Message: "Lead updated successfully", Lead: lead})
}

// Delete handles DELETE /api/leads/{id}.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to delete lead")
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Lead deleted successfully"})
}

// ExportCSV handles GET /api/leads/export/csv.
func (h *LeadHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to export leads")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=leads.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func validateSaveLead(req dto.SaveLeadRequest) string {
	checks := []struct {
		field string
		value string
		limit int
	}{
		{"businessName", req.BusinessName, middleware.MaxBusinessNameLength},
		{"address", req.Address, middleware.MaxAddressLength},
		{"phone", req.Phone, middleware.MaxPhoneLength},
		{"website", req.Website, middleware.MaxWebsiteLength},
	}
	for _, c := range checks {
		if err := middleware.ValidateLength(c.value, c.limit); err != nil {
			return fmt.Sprintf("%s must be at most %d characters", c.field, c.limit)
		}
	}
	if err := middleware.ValidateWebsite(req.Website); err != nil {
		return "website must be an http or https URL"
	}
	return ""
}

func validateUpdateLead(req dto.UpdateLeadRequest) string {
	if req.Notes != nil {
		if err := middleware.ValidateLength(*req.Notes, middleware.MaxNotesLength); err != nil {
			return fmt.Sprintf("notes must be at most %d characters", middleware.MaxNotesLength)
		}
	}
	if err := middleware.ValidateTags(req.Tags); err != nil {
		return fmt.Sprintf("at most %d tags of up to %d characters are allowed", middleware.MaxTagCount, middleware.MaxTagLength)
	}
	return ""
}

func (h *LeadHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingKeyword):
		h.writeError(w, http.StatusBadRequest, "Missing keyword", "Search keyword is required")
	case errors.Is(err, service.ErrMissingPlaceID):
		h.writeError(w, http.StatusBadRequest, "Missing place ID", "Place ID is required")
	case errors.Is(err, service.ErrMissingName):
		h.writeError(w, http.StatusBadRequest, "Missing business name", "Business name is required")
	case errors.Is(err, service.ErrInvalidRating):
		h.writeError(w, http.StatusBadRequest, "Invalid rating", "Rating must be between 0 and 5")
	case errors.Is(err, service.ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, "Invalid status", "Status must be one of New, Contacted, Qualified, Closed, Not Interested")
	case errors.Is(err, service.ErrNoUpdates):
		h.writeError(w, http.StatusBadRequest, "No updates provided", "")
	case errors.Is(err, service.ErrLeadExists):
		h.writeError(w, http.StatusConflict, "Lead already saved", "This lead is already in your collection")
	case errors.Is(err, service.ErrLeadNotFound):
		h.writeError(w, http.StatusNotFound, "Lead not found", "")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "User not found", "")
	default:
		h.internalError(w, r, fallback, err)
	}
}
