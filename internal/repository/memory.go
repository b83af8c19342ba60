package repository

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// MemoryStats holds per-collection record counts of the fallback store.
type MemoryStats struct {
	Users     int `json:"users"`
	Leads     int `json:"leads"`
	Templates int `json:"templates"`
}

// Memory is the in-process fallback store. Records are not persisted and
// are lost on restart. Each collection has its own lock and its own
// monotonically increasing numeric id sequence.
//
// Memory hands out copies; callers never share records with the store.
type Memory struct {
	usersMu sync.Mutex
	users   []*model.User
	userSeq int

	leadsMu sync.Mutex
	leads   []*model.Lead
	leadSeq int

	templatesMu sync.Mutex
	templates   []*model.EmailTemplate
	templateSeq int

	now func() time.Time
}

// NewMemory creates an empty fallback store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Stats returns the number of records in each collection.
func (m *Memory) Stats() MemoryStats {
	var s MemoryStats

	m.usersMu.Lock()
	s.Users = len(m.users)
	m.usersMu.Unlock()

	m.leadsMu.Lock()
	s.Leads = len(m.leads)
	m.leadsMu.Unlock()

	m.templatesMu.Lock()
	s.Templates = len(m.templates)
	m.templatesMu.Unlock()

	return s
}

// newestFirst orders records by creation time, latest insert first on ties.
func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	})
	return out
}

// ============================================================================
// Users
// ============================================================================

// CreateUser inserts a new user, rejecting duplicate emails.
func (m *Memory) CreateUser(_ context.Context, user *model.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	user.Email = model.NormalizeEmail(user.Email)

	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}

	m.userSeq++
	now := m.now()
	user.ID = strconv.Itoa(m.userSeq)
	if user.APIQuotaLimit == 0 {
		user.APIQuotaLimit = model.DefaultAPIQuotaLimit
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m.users = append(m.users, user.Clone())
	return nil
}

// GetUserByID retrieves a user by ID.
func (m *Memory) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)

	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

// UpdateUser merges the update into the stored user.
func (m *Memory) UpdateUser(_ context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			upd.Apply(u)
			u.UpdatedAt = m.now()
			return u.Clone(), nil
		}
	}
	return nil, nil
}

// IncrementQuota adds delta to the user's quota usage.
func (m *Memory) IncrementQuota(_ context.Context, id string, delta int) (*model.User, error) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			u.APIQuotaUsed += delta
			u.UpdatedAt = m.now()
			return u.Clone(), nil
		}
	}
	return nil, nil
}

// ============================================================================
// Leads
// ============================================================================

func leadMatches(l *model.Lead, f LeadFilter) bool {
	if l.UserID != f.UserID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.GooglePlaceID != "" && l.GooglePlaceID != f.GooglePlaceID {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(l.BusinessName), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// ListLeads returns the owner's leads matching the filter, newest first.
func (m *Memory) ListLeads(_ context.Context, filter LeadFilter) ([]*model.Lead, error) {
	if filter.UserID == "" {
		return nil, ErrInvalidInput
	}

	m.leadsMu.Lock()
	defer m.leadsMu.Unlock()

	var matched []*model.Lead
	for _, l := range m.leads {
		if leadMatches(l, filter) {
			matched = append(matched, l.Clone())
		}
	}
	return newestFirst(matched, func(l *model.Lead) time.Time { return l.CreatedAt }), nil
}

// GetLead retrieves a lead owned by userID.
func (m *Memory) GetLead(_ context.Context, id, userID string) (*model.Lead, error) {
	m.leadsMu.Lock()
	defer m.leadsMu.Unlock()

	for _, l := range m.leads {
		if l.ID == id && l.UserID == userID {
			return l.Clone(), nil
		}
	}
	return nil, nil
}

// CreateLead inserts a lead. The duplicate place check and the insert run
// under the same lock.
func (m *Memory) CreateLead(_ context.Context, lead *model.Lead) error {
	if err := validateLead(lead); err != nil {
		return err
	}

	m.leadsMu.Lock()
	defer m.leadsMu.Unlock()

	if lead.GooglePlaceID != "" {
		for _, l := range m.leads {
			if l.UserID == lead.UserID && l.GooglePlaceID == lead.GooglePlaceID {
				return ErrDuplicateLead
			}
		}
	}

	m.leadSeq++
	now := m.now()
	lead.ID = strconv.Itoa(m.leadSeq)
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now

	m.leads = append(m.leads, lead.Clone())
	return nil
}

// UpdateLead merges the update into a lead owned by userID.
func (m *Memory) UpdateLead(_ context.Context, id, userID string, upd model.LeadUpdate) (*model.Lead, error) {
	m.leadsMu.Lock()
	defer m.leadsMu.Unlock()

	for _, l := range m.leads {
		if l.ID == id && l.UserID == userID {
			upd.Apply(l)
			l.UpdatedAt = m.now()
			return l.Clone(), nil
		}
	}
	return nil, nil
}

// DeleteLead removes a lead owned by userID.
func (m *Memory) DeleteLead(_ context.Context, id, userID string) (bool, error) {
	m.leadsMu.Lock()
	defer m.leadsMu.Unlock()

	for i, l := range m.leads {
		if l.ID == id && l.UserID == userID {
			m.leads = slices.Delete(m.leads, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// ============================================================================
// Templates
// ============================================================================

// ListTemplates returns the owner's templates, newest first.
func (m *Memory) ListTemplates(_ context.Context, userID string) ([]*model.EmailTemplate, error) {
	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	var matched []*model.EmailTemplate
	for _, t := range m.templates {
		if t.UserID == userID {
			matched = append(matched, t.Clone())
		}
	}
	return newestFirst(matched, func(t *model.EmailTemplate) time.Time { return t.CreatedAt }), nil
}

// GetTemplate retrieves a template owned by userID.
func (m *Memory) GetTemplate(_ context.Context, id, userID string) (*model.EmailTemplate, error) {
	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	for _, t := range m.templates {
		if t.ID == id && t.UserID == userID {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// CreateTemplate inserts a template. A default template clears its
// siblings under the same lock.
func (m *Memory) CreateTemplate(_ context.Context, tmpl *model.EmailTemplate) error {
	if err := validateTemplate(tmpl); err != nil {
		return err
	}

	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	m.templateSeq++
	now := m.now()
	tmpl.ID = strconv.Itoa(m.templateSeq)
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now

	if tmpl.IsDefault {
		m.clearDefaultsLocked(tmpl.UserID, tmpl.ID)
	}
	m.templates = append(m.templates, tmpl.Clone())
	return nil
}

// UpdateTemplate merges the update into a template owned by userID.
func (m *Memory) UpdateTemplate(_ context.Context, id, userID string, upd model.TemplateUpdate) (*model.EmailTemplate, error) {
	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	for _, t := range m.templates {
		if t.ID == id && t.UserID == userID {
			upd.Apply(t)
			t.UpdatedAt = m.now()
			if t.IsDefault {
				m.clearDefaultsLocked(userID, id)
			}
			return t.Clone(), nil
		}
	}
	return nil, nil
}

// DeleteTemplate removes a template owned by userID.
func (m *Memory) DeleteTemplate(_ context.Context, id, userID string) (bool, error) {
	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	for i, t := range m.templates {
		if t.ID == id && t.UserID == userID {
			m.templates = slices.Delete(m.templates, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// ClearDefaultTemplates unsets is_default on all of the user's templates
// except exceptID.
func (m *Memory) ClearDefaultTemplates(_ context.Context, userID, exceptID string) error {
	m.templatesMu.Lock()
	defer m.templatesMu.Unlock()

	m.clearDefaultsLocked(userID, exceptID)
	return nil
}

// clearDefaultsLocked must be called with templatesMu held.
func (m *Memory) clearDefaultsLocked(userID, exceptID string) {
	now := m.now()
	for _, t := range m.templates {
		if t.UserID == userID && t.ID != exceptID && t.IsDefault {
			t.IsDefault = false
			t.UpdatedAt = now
		}
	}
}
