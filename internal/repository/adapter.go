package repository

import (
	"context"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// LivenessChecker reports whether the durable backend is currently usable.
type LivenessChecker interface {
	IsLive() bool
}

// Adapter implements Store by delegating each call to the durable store
// when it is live and to the memory store otherwise. Liveness is checked
// once per call, so a lost connection is observed on the next call.
type Adapter struct {
	live    LivenessChecker
	durable Store
	memory  *Memory
}

// NewAdapter creates an adapter. durable and live may be nil, in which
// case every call goes to memory.
func NewAdapter(live LivenessChecker, durable Store, memory *Memory) *Adapter {
	return &Adapter{live: live, durable: durable, memory: memory}
}

// Live reports whether calls are currently routed to the durable store.
func (a *Adapter) Live() bool {
	return a.durable != nil && a.live != nil && a.live.IsLive()
}

// Stats returns record counts held by the fallback store.
func (a *Adapter) Stats() MemoryStats {
	return a.memory.Stats()
}

func (a *Adapter) store() Store {
	if a.Live() {
		return a.durable
	}
	return a.memory
}

func (a *Adapter) CreateUser(ctx context.Context, user *model.User) error {
	return a.store().CreateUser(ctx, user)
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return a.store().GetUserByID(ctx, id)
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return a.store().GetUserByEmail(ctx, email)
}

func (a *Adapter) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	return a.store().UpdateUser(ctx, id, upd)
}

func (a *Adapter) IncrementQuota(ctx context.Context, id string, delta int) (*model.User, error) {
	return a.store().IncrementQuota(ctx, id, delta)
}

func (a *Adapter) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	return a.store().ListLeads(ctx, filter)
}

func (a *Adapter) GetLead(ctx context.Context, id, userID string) (*model.Lead, error) {
	return a.store().GetLead(ctx, id, userID)
}

func (a *Adapter) CreateLead(ctx context.Context, lead *model.Lead) error {
	return a.store().CreateLead(ctx, lead)
}

func (a *Adapter) UpdateLead(ctx context.Context, id, userID string, upd model.LeadUpdate) (*model.Lead, error) {
	return a.store().UpdateLead(ctx, id, userID, upd)
}

func (a *Adapter) DeleteLead(ctx context.Context, id, userID string) (bool, error) {
	return a.store().DeleteLead(ctx, id, userID)
}

func (a *Adapter) ListTemplates(ctx context.Context, userID string) ([]*model.EmailTemplate, error) {
	return a.store().ListTemplates(ctx, userID)
}

func (a *Adapter) GetTemplate(ctx context.Context, id, userID string) (*model.EmailTemplate, error) {
	return a.store().GetTemplate(ctx, id, userID)
}

func (a *Adapter) CreateTemplate(ctx context.Context, tmpl *model.EmailTemplate) error {
	return a.store().CreateTemplate(ctx, tmpl)
}

func (a *Adapter) UpdateTemplate(ctx context.Context, id, userID string, upd model.TemplateUpdate) (*model.EmailTemplate, error) {
	return a.store().UpdateTemplate(ctx, id, userID, upd)
}

func (a *Adapter) DeleteTemplate(ctx context.Context, id, userID string) (bool, error) {
	return a.store().DeleteTemplate(ctx, id, userID)
}

func (a *Adapter) ClearDefaultTemplates(ctx context.Context, userID, exceptID string) error {
	return a.store().ClearDefaultTemplates(ctx, userID, exceptID)
}
