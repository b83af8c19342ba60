package model

import (
	"testing"
)

func TestLeadStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status LeadStatus
		want   bool
	}{
		{LeadStatusNew, true},
		{LeadStatusContacted, true},
		{LeadStatusQualified, true},
		{LeadStatusClosed, true},
		{LeadStatusNotInterested, true},
		{"new", false},
		{"", false},
		{"Archived", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestLead_Clone_IsDeep(t *testing.T) {
	t.Parallel()

	rating := 4.5
	lead := &Lead{ID: "1", BusinessName: "Acme", Rating: &rating, Tags: []string{"hot"}}

	c := lead.Clone()
	*c.Rating = 1
	c.Tags[0] = "cold"

	if *lead.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", *lead.Rating)
	}
	if lead.Tags[0] != "hot" {
		t.Errorf("Tags[0] = %s, want hot", lead.Tags[0])
	}
}

func TestLeadUpdate_Apply(t *testing.T) {
	t.Parallel()

	status := LeadStatusQualified
	notes := "call back friday"
	lead := &Lead{Status: LeadStatusNew, Phone: "123", Tags: []string{"a"}}

	upd := LeadUpdate{Status: &status, Notes: &notes, Tags: []string{}}
	if upd.IsEmpty() {
		t.Fatal("IsEmpty() = true, want false")
	}
	upd.Apply(lead)

	if lead.Status != LeadStatusQualified {
		t.Errorf("Status = %s, want Qualified", lead.Status)
	}
	if lead.Notes != notes {
		t.Errorf("Notes = %s, want %s", lead.Notes, notes)
	}
	if len(lead.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", lead.Tags)
	}
	if lead.Phone != "123" {
		t.Errorf("Phone = %s, want unchanged 123", lead.Phone)
	}
}

func TestLeadUpdate_ClearRating(t *testing.T) {
	t.Parallel()

	r := 4.5
	lead := &Lead{Rating: &r}

	upd := LeadUpdate{ClearRating: true}
	if upd.IsEmpty() {
		t.Fatal("IsEmpty() = true, want false")
	}
	upd.Apply(lead)
	if lead.Rating != nil {
		t.Errorf("Rating = %v, want nil", *lead.Rating)
	}

	fresh := 3.9
	LeadUpdate{Rating: &fresh, ClearRating: true}.Apply(lead)
	if lead.Rating == nil || *lead.Rating != fresh {
		t.Errorf("Rating = %v, want %v", lead.Rating, fresh)
	}
}

func TestLeadUpdate_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(LeadUpdate{}).IsEmpty() {
		t.Error("zero LeadUpdate should be empty")
	}
}

func TestEmailTemplate_Render(t *testing.T) {
	t.Parallel()

	tmpl := &EmailTemplate{
		Subject: "Hello {{business_name}}",
		Body:    "Hi {{business_name}},\nWe love {{business_name}}.",
	}

	tests := []struct {
		name        string
		lead        *Lead
		wantSubject string
		wantBody    string
	}{
		{
			name:        "named lead",
			lead:        &Lead{BusinessName: "Manam"},
			wantSubject: "Hello Manam",
			wantBody:    "Hi Manam,\nWe love Manam.",
		},
		{
			name:        "blank name",
			lead:        &Lead{BusinessName: "  "},
			wantSubject: "Hello there",
			wantBody:    "Hi there,\nWe love there.",
		},
		{
			name:        "nil lead",
			lead:        nil,
			wantSubject: "Hello there",
			wantBody:    "Hi there,\nWe love there.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			subject, body := tmpl.Render(tt.lead)
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestUser_Quota(t *testing.T) {
	t.Parallel()

	u := &User{APIQuotaUsed: 5, APIQuotaLimit: DefaultAPIQuotaLimit}
	q := u.Quota()

	if q.Used != 5 || q.Limit != 1000 || q.Remaining != 995 {
		t.Errorf("Quota() = %+v, want {5 1000 995}", q)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Demo@LeadFinder.COM "); got != "demo@leadfinder.com" {
		t.Errorf("NormalizeEmail() = %s", got)
	}
}
