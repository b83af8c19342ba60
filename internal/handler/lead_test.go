package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadBody struct {
	ID            string   `json:"id"`
	BusinessName  string   `json:"business_name"`
	Phone         string   `json:"phone"`
	Website       string   `json:"website"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	GooglePlaceID string   `json:"google_place_id"`
}

func (h *harness) saveLead(t *testing.T, token string, body map[string]any) leadBody {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/api/leads", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Message string   `json:"message"`
		Lead    leadBody `json:"lead"`
	}
	decode(t, rec, &resp)
	require.Equal(t, "Lead saved successfully", resp.Message)
	return resp.Lead
}

// ============================================================================
// Search and details
// ============================================================================

func TestLeadHandler_Search(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "search@example.com")

	rec := h.do(t, http.MethodGet, "/api/leads/search?keyword=coffee&location=Makati", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Contains(t, raw, "nextPageToken")
	assert.Equal(t, "null", string(raw["nextPageToken"]), "last page carries an explicit null token")

	var resp struct {
		Results []struct {
			Name    string `json:"name"`
			PlaceID string `json:"placeId"`
		} `json:"results"`
		Quota struct {
			Used      int `json:"used"`
			Limit     int `json:"limit"`
			Remaining int `json:"remaining"`
		} `json:"quota"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Results)
	assert.NotEmpty(t, resp.Results[0].PlaceID)
	assert.Equal(t, 1, resp.Quota.Used)
	assert.Equal(t, 1000, resp.Quota.Limit)
	assert.Equal(t, 999, resp.Quota.Remaining)
	assert.EqualValues(t, 1, h.metrics.Snapshot().SearchesDemo)
}

func TestLeadHandler_SearchErrors(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "search@example.com")

	rec := h.do(t, http.MethodGet, "/api/leads/search?location=Makati", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Missing keyword", body["error"])
	assert.Equal(t, "Search keyword is required", body["message"])

	rec = h.do(t, http.MethodGet, "/api/leads/search?keyword=coffee", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLeadHandler_Details(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "details@example.com")

	rec := h.do(t, http.MethodGet, "/api/leads/details/demo_manam_greenbelt_1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Lead *struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"lead"`
	}
	decode(t, rec, &resp)
	require.NotNil(t, resp.Lead)
	assert.Equal(t, "Manam Comfort Filipino", resp.Lead.Name)
	assert.Equal(t, "+63 2 1234 5678", resp.Lead.Phone)

	rec = h.do(t, http.MethodGet, "/api/leads/details/unknown-place", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lead":null}`, rec.Body.String())
}

// ============================================================================
// Save
// ============================================================================

func TestLeadHandler_SaveEnrichesFromPlace(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "save@example.com")

	lead := h.saveLead(t, token, map[string]any{
		"businessName":  "Manam",
		"googlePlaceId": "demo_manam_greenbelt_1",
	})
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "New", lead.Status)
	assert.Equal(t, "+63 2 1234 5678", lead.Phone)
	assert.Equal(t, "https://example.com", lead.Website)
	assert.Equal(t, []string{}, lead.Tags)
}

func TestLeadHandler_SaveErrors(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "save@example.com")
	h.saveLead(t, token, map[string]any{"businessName": "Kape", "googlePlaceId": "ChIJ-dup"})

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{"missing name", map[string]any{"address": "Ayala"}, http.StatusBadRequest, "Missing business name"},
		{"blank name", map[string]any{"businessName": "   "}, http.StatusBadRequest, "Missing business name"},
		{"rating too high", map[string]any{"businessName": "X", "rating": 7}, http.StatusBadRequest, "Invalid rating"},
		{"bad website", map[string]any{"businessName": "X", "website": "ftp://x"}, http.StatusBadRequest, "Invalid lead"},
		{"name too long", map[string]any{"businessName": strings.Repeat("a", 201)}, http.StatusBadRequest, "Invalid lead"},
		{"duplicate place", map[string]any{"businessName": "Kape again", "googlePlaceId": "ChIJ-dup"}, http.StatusConflict, "Lead already saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/leads", token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec)["error"])
		})
	}

	assert.EqualValues(t, 1, h.metrics.Snapshot().LeadDuplicates)
}

func TestLeadHandler_SameplaceDifferentOwners(t *testing.T) {
	h := newHarness(t)
	alice, _ := h.register(t, "alice@example.com")
	bob, _ := h.register(t, "bob@example.com")

	h.saveLead(t, alice, map[string]any{"businessName": "Kape", "googlePlaceId": "ChIJ-shared"})
	h.saveLead(t, bob, map[string]any{"businessName": "Kape", "googlePlaceId": "ChIJ-shared"})
}

// ============================================================================
// List, update, delete
// ============================================================================

func TestLeadHandler_ListFilters(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "list@example.com")
	other, _ := h.register(t, "other@example.com")

	first := h.saveLead(t, token, map[string]any{"businessName": "Coffee Project"})
	h.saveLead(t, token, map[string]any{"businessName": "Gold's Gym"})
	h.saveLead(t, other, map[string]any{"businessName": "Coffee Elsewhere"})

	rec := h.do(t, http.MethodPatch, "/api/leads/"+first.ID, token, map[string]any{"status": "Qualified"})
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Gold's Gym", "Coffee Project"}},
		{"search", "?search=coffee", []string{"Coffee Project"}},
		{"status", "?status=Qualified", []string{"Coffee Project"}},
		{"status no match", "?status=Closed", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodGet, "/api/leads"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Leads []leadBody `json:"leads"`
				Count int        `json:"count"`
			}
			decode(t, rec, &resp)
			names := make([]string, 0, len(resp.Leads))
			for _, l := range resp.Leads {
				names = append(names, l.BusinessName)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestLeadHandler_Update(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "update@example.com")
	lead := h.saveLead(t, token, map[string]any{"businessName": "Kape"})

	rec := h.do(t, http.MethodPatch, "/api/leads/"+lead.ID, token, map[string]any{
		"status": "Contacted",
		"tags":   []string{" hot ", "", "cafe"},
		"notes":  "call back friday",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string   `json:"message"`
		Lead    leadBody `json:"lead"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Lead updated successfully", resp.Message)
	assert.Equal(t, "Contacted", resp.Lead.Status)
	assert.Equal(t, []string{"hot", "cafe"}, resp.Lead.Tags)
	assert.Equal(t, "call back friday", resp.Lead.Notes)
}

func TestLeadHandler_UpdateRefreshDetails(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "refresh@example.com")
	lead := h.saveLead(t, token, map[string]any{
		"businessName":  "Vikings",
		"phone":         "old",
		"website":       "https://old.example.com",
		"googlePlaceId": "demo_vikings_megamall_1",
	})
	require.Equal(t, "old", lead.Phone)

	rec := h.do(t, http.MethodPatch, "/api/leads/"+lead.ID, token, map[string]any{"refreshDetails": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Lead leadBody `json:"lead"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "+63 2 1234 5678", resp.Lead.Phone)
	assert.Equal(t, "https://example.com", resp.Lead.Website)
}

func TestLeadHandler_UpdateErrors(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "update@example.com")
	other, _ := h.register(t, "intruder@example.com")
	lead := h.saveLead(t, token, map[string]any{"businessName": "Kape"})

	tests := []struct {
		name       string
		token      string
		id         string
		body       any
		wantStatus int
		wantError  string
	}{
		{"no updates", token, lead.ID, map[string]any{}, http.StatusBadRequest, "No updates provided"},
		{"empty body", token, lead.ID, nil, http.StatusBadRequest, "No updates provided"},
		{"invalid status", token, lead.ID, map[string]any{"status": "Maybe"}, http.StatusBadRequest, "Invalid status"},
		{"notes too long", token, lead.ID, map[string]any{"notes": strings.Repeat("n", 5001)}, http.StatusBadRequest, "Invalid lead"},
		{"unknown id", token, "missing", map[string]any{"notes": "x"}, http.StatusNotFound, "Lead not found"},
		{"foreign owner", other, lead.ID, map[string]any{"notes": "x"}, http.StatusNotFound, "Lead not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPatch, "/api/leads/"+tt.id, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec)["error"])
		})
	}
}

func TestLeadHandler_Delete(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "delete@example.com")
	other, _ := h.register(t, "intruder@example.com")
	lead := h.saveLead(t, token, map[string]any{"businessName": "Kape"})

	rec := h.do(t, http.MethodDelete, "/api/leads/"+lead.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/leads/"+lead.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lead deleted successfully", decodeError(t, rec)["message"])

	rec = h.do(t, http.MethodDelete, "/api/leads/"+lead.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Lead not found", decodeError(t, rec)["error"])
}

// ============================================================================
// Export
// ============================================================================

func TestLeadHandler_ExportCSV(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "export@example.com")
	h.saveLead(t, token, map[string]any{"businessName": `Kape "Uno"`, "phone": "0917"})

	rec := h.do(t, http.MethodGet, "/api/leads/export/csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=leads.csv", rec.Header().Get("Content-Disposition"))

	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Kape ""Uno"""`)
	assert.Contains(t, lines[1], `"0917"`)
}

func TestLeadHandler_ExportCSVEmpty(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register(t, "empty@example.com")

	rec := h.do(t, http.MethodGet, "/api/leads/export/csv", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "\n")
}
