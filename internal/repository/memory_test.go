package repository

import (
	"context"
	"testing"

	"github.com/Briancute/local-lead-finder/internal/model"
)

func TestMemory_StoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemory()
	})
}

func TestMemory_SequentialIDsPerCollection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	user := &model.User{Email: "a@b.c", PasswordHash: "h"}
	if err := m.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	lead1 := &model.Lead{UserID: user.ID, BusinessName: "One"}
	lead2 := &model.Lead{UserID: user.ID, BusinessName: "Two"}
	if err := m.CreateLead(ctx, lead1); err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if err := m.CreateLead(ctx, lead2); err != nil {
		t.Fatalf("create lead: %v", err)
	}

	if user.ID != "1" || lead1.ID != "1" || lead2.ID != "2" {
		t.Errorf("ids = user %s, leads %s %s; want 1, 1 2", user.ID, lead1.ID, lead2.ID)
	}

	// Deleting does not reuse ids.
	if _, err := m.DeleteLead(ctx, lead2.ID, user.ID); err != nil {
		t.Fatalf("delete lead: %v", err)
	}
	lead3 := &model.Lead{UserID: user.ID, BusinessName: "Three"}
	if err := m.CreateLead(ctx, lead3); err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead3.ID != "3" {
		t.Errorf("lead3.ID = %s, want 3", lead3.ID)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	lead := &model.Lead{UserID: "u", BusinessName: "Max's", Tags: []string{"a"}}
	if err := m.CreateLead(ctx, lead); err != nil {
		t.Fatalf("create lead: %v", err)
	}

	lead.BusinessName = "mutated"
	got, _ := m.GetLead(ctx, lead.ID, "u")
	got.Tags[0] = "mutated"

	again, _ := m.GetLead(ctx, lead.ID, "u")
	if again.BusinessName != "Max's" || again.Tags[0] != "a" {
		t.Errorf("store record was mutated through a returned pointer: %+v", again)
	}
}

func TestMemory_Stats(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.CreateUser(ctx, &model.User{Email: "x@y.z", PasswordHash: "h"})
	_ = m.CreateLead(ctx, &model.Lead{UserID: "1", BusinessName: "A"})
	_ = m.CreateLead(ctx, &model.Lead{UserID: "1", BusinessName: "B"})
	_ = m.CreateTemplate(ctx, &model.EmailTemplate{UserID: "1", Name: "T", Body: "b"})

	stats := m.Stats()
	if stats != (MemoryStats{Users: 1, Leads: 2, Templates: 1}) {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestSeedDemoUser_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, err := SeedDemoUser(ctx, m, "hash")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.APIQuotaUsed != 5 || first.APIQuotaLimit != 1000 {
		t.Errorf("demo quota = %d/%d, want 5/1000", first.APIQuotaUsed, first.APIQuotaLimit)
	}

	second, err := SeedDemoUser(ctx, m, "other-hash")
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second seed created a new user: %s != %s", second.ID, first.ID)
	}
	if m.Stats().Users != 1 {
		t.Errorf("users = %d, want 1", m.Stats().Users)
	}
}
