package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Briancute/local-lead-finder/internal/model"
)

// runStoreContract exercises the behaviour every Store backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("UserLifecycle", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := &model.User{Name: "Ana", Email: "  Ana@Example.COM ", PasswordHash: "hash"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if user.ID == "" {
			t.Fatal("expected ID to be assigned")
		}
		if user.APIQuotaLimit != model.DefaultAPIQuotaLimit {
			t.Errorf("APIQuotaLimit = %d, want %d", user.APIQuotaLimit, model.DefaultAPIQuotaLimit)
		}

		byEmail, err := store.GetUserByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if byEmail == nil || byEmail.ID != user.ID {
			t.Fatalf("get by email returned %+v, want id %s", byEmail, user.ID)
		}

		dup := &model.User{Name: "Other", Email: "ANA@example.com", PasswordHash: "hash"}
		if err := store.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
			t.Fatalf("expected ErrEmailExists, got %v", err)
		}

		updated, err := store.IncrementQuota(ctx, user.ID, 1)
		if err != nil {
			t.Fatalf("increment quota: %v", err)
		}
		if updated.APIQuotaUsed != 1 {
			t.Errorf("APIQuotaUsed = %d, want 1", updated.APIQuotaUsed)
		}

		name := "Ana Cruz"
		renamed, err := store.UpdateUser(ctx, user.ID, model.UserUpdate{Name: &name})
		if err != nil {
			t.Fatalf("update user: %v", err)
		}
		if renamed.Name != name || renamed.APIQuotaUsed != 1 {
			t.Errorf("update user = %+v", renamed)
		}

		missing, err := store.GetUserByID(ctx, "does-not-exist")
		if err != nil {
			t.Fatalf("get missing user: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for missing user, got %+v", missing)
		}
	})

	t.Run("LeadDuplicatePlace", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		first := &model.Lead{UserID: "owner-a", BusinessName: "Manam", GooglePlaceID: "p1"}
		if err := store.CreateLead(ctx, first); err != nil {
			t.Fatalf("create lead: %v", err)
		}
		if first.Status != model.LeadStatusNew {
			t.Errorf("Status = %s, want New", first.Status)
		}

		second := &model.Lead{UserID: "owner-a", BusinessName: "Manam again", GooglePlaceID: "p1"}
		if err := store.CreateLead(ctx, second); !errors.Is(err, ErrDuplicateLead) {
			t.Fatalf("expected ErrDuplicateLead, got %v", err)
		}

		// Same place for another owner is allowed.
		other := &model.Lead{UserID: "owner-b", BusinessName: "Manam", GooglePlaceID: "p1"}
		if err := store.CreateLead(ctx, other); err != nil {
			t.Fatalf("create lead for other owner: %v", err)
		}

		// Leads without a place id never conflict.
		for i := 0; i < 2; i++ {
			manual := &model.Lead{UserID: "owner-a", BusinessName: "Walk-in"}
			if err := store.CreateLead(ctx, manual); err != nil {
				t.Fatalf("create manual lead %d: %v", i, err)
			}
		}

		leads, err := store.ListLeads(ctx, LeadFilter{UserID: "owner-a"})
		if err != nil {
			t.Fatalf("list leads: %v", err)
		}
		if len(leads) != 3 {
			t.Errorf("len(leads) = %d, want 3", len(leads))
		}
	})

	t.Run("LeadConcurrentDuplicates", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			created   int
			conflicts int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.CreateLead(ctx, &model.Lead{UserID: "owner-c", BusinessName: "Race", GooglePlaceID: "race"})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errors.Is(err, ErrDuplicateLead):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if created != 1 || conflicts != 7 {
			t.Errorf("created = %d, conflicts = %d, want 1 and 7", created, conflicts)
		}
	})

	t.Run("LeadFilterAndOrder", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		base := time.Now().UTC().Truncate(time.Millisecond)
		names := []string{"Coffee Bean", "Gold's Gym", "Starbucks Coffee"}
		for i, name := range names {
			lead := &model.Lead{
				UserID:       "owner-a",
				BusinessName: name,
				CreatedAt:    base.Add(time.Duration(i) * time.Second),
			}
			if err := store.CreateLead(ctx, lead); err != nil {
				t.Fatalf("create lead %q: %v", name, err)
			}
		}

		all, err := store.ListLeads(ctx, LeadFilter{UserID: "owner-a"})
		if err != nil {
			t.Fatalf("list leads: %v", err)
		}
		if len(all) != 3 || all[0].BusinessName != "Starbucks Coffee" || all[2].BusinessName != "Coffee Bean" {
			t.Fatalf("expected newest first, got %v", leadNames(all))
		}

		coffee, err := store.ListLeads(ctx, LeadFilter{UserID: "owner-a", Search: "COFFEE"})
		if err != nil {
			t.Fatalf("search leads: %v", err)
		}
		if len(coffee) != 2 {
			t.Errorf("search COFFEE returned %v, want 2 leads", leadNames(coffee))
		}

		regexy, err := store.ListLeads(ctx, LeadFilter{UserID: "owner-a", Search: "Gold's (Gym"})
		if err != nil {
			t.Fatalf("search with metacharacters: %v", err)
		}
		if len(regexy) != 0 {
			t.Errorf("metacharacter search returned %v, want none", leadNames(regexy))
		}

		contacted := model.LeadStatusContacted
		if _, err := store.UpdateLead(ctx, all[1].ID, "owner-a", model.LeadUpdate{Status: &contacted}); err != nil {
			t.Fatalf("update lead: %v", err)
		}
		byStatus, err := store.ListLeads(ctx, LeadFilter{UserID: "owner-a", Status: model.LeadStatusContacted})
		if err != nil {
			t.Fatalf("list by status: %v", err)
		}
		if len(byStatus) != 1 || byStatus[0].BusinessName != "Gold's Gym" {
			t.Errorf("status filter returned %v", leadNames(byStatus))
		}

		if _, err := store.ListLeads(ctx, LeadFilter{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput without owner, got %v", err)
		}
	})

	t.Run("LeadOwnership", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		lead := &model.Lead{UserID: "owner-a", BusinessName: "Vikings"}
		if err := store.CreateLead(ctx, lead); err != nil {
			t.Fatalf("create lead: %v", err)
		}

		got, err := store.GetLead(ctx, lead.ID, "owner-b")
		if err != nil || got != nil {
			t.Fatalf("foreign get = %+v, %v; want nil, nil", got, err)
		}

		notes := "hijack"
		updated, err := store.UpdateLead(ctx, lead.ID, "owner-b", model.LeadUpdate{Notes: &notes})
		if err != nil || updated != nil {
			t.Fatalf("foreign update = %+v, %v; want nil, nil", updated, err)
		}

		deleted, err := store.DeleteLead(ctx, lead.ID, "owner-b")
		if err != nil || deleted {
			t.Fatalf("foreign delete = %v, %v; want false, nil", deleted, err)
		}

		deleted, err = store.DeleteLead(ctx, lead.ID, "owner-a")
		if err != nil || !deleted {
			t.Fatalf("owner delete = %v, %v; want true, nil", deleted, err)
		}

		gone, err := store.GetLead(ctx, lead.ID, "owner-a")
		if err != nil || gone != nil {
			t.Fatalf("get after delete = %+v, %v; want nil, nil", gone, err)
		}
	})

	t.Run("LeadContactOverwrite", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		rating := 4.2
		lead := &model.Lead{UserID: "owner-a", BusinessName: "Kape", Phone: "111", Website: "https://old", Rating: &rating}
		if err := store.CreateLead(ctx, lead); err != nil {
			t.Fatalf("create lead: %v", err)
		}

		phone, website := "222", ""
		updated, err := store.UpdateLead(ctx, lead.ID, "owner-a", model.LeadUpdate{
			Phone:       &phone,
			Website:     &website,
			ClearRating: true,
		})
		if err != nil || updated == nil {
			t.Fatalf("update = %+v, %v", updated, err)
		}
		if updated.Phone != "222" || updated.Website != "" || updated.Rating != nil {
			t.Errorf("updated = phone %q website %q rating %v; want 222, empty, nil", updated.Phone, updated.Website, updated.Rating)
		}
	})

	t.Run("TemplateSingleDefault", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		first := &model.EmailTemplate{UserID: "owner-a", Name: "Intro", Body: "Hi {{business_name}}", IsDefault: true}
		if err := store.CreateTemplate(ctx, first); err != nil {
			t.Fatalf("create first template: %v", err)
		}
		second := &model.EmailTemplate{UserID: "owner-a", Name: "Follow up", Body: "Again", IsDefault: true}
		if err := store.CreateTemplate(ctx, second); err != nil {
			t.Fatalf("create second template: %v", err)
		}
		foreign := &model.EmailTemplate{UserID: "owner-b", Name: "Theirs", Body: "x", IsDefault: true}
		if err := store.CreateTemplate(ctx, foreign); err != nil {
			t.Fatalf("create foreign template: %v", err)
		}

		assertSingleDefault(t, store, "owner-a", second.ID)
		assertSingleDefault(t, store, "owner-b", foreign.ID)

		yes := true
		if _, err := store.UpdateTemplate(ctx, first.ID, "owner-a", model.TemplateUpdate{IsDefault: &yes}); err != nil {
			t.Fatalf("update template: %v", err)
		}
		assertSingleDefault(t, store, "owner-a", first.ID)

		got, err := store.UpdateTemplate(ctx, first.ID, "owner-b", model.TemplateUpdate{IsDefault: &yes})
		if err != nil || got != nil {
			t.Fatalf("foreign template update = %+v, %v; want nil, nil", got, err)
		}

		deleted, err := store.DeleteTemplate(ctx, second.ID, "owner-a")
		if err != nil || !deleted {
			t.Fatalf("delete template = %v, %v", deleted, err)
		}

		if err := store.CreateTemplate(ctx, &model.EmailTemplate{UserID: "owner-a"}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty template, got %v", err)
		}
	})
}

func assertSingleDefault(t *testing.T, store Store, userID, wantID string) {
	t.Helper()

	templates, err := store.ListTemplates(context.Background(), userID)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}

	var defaults []string
	for _, tmpl := range templates {
		if tmpl.IsDefault {
			defaults = append(defaults, tmpl.ID)
		}
	}
	if len(defaults) != 1 || defaults[0] != wantID {
		t.Errorf("defaults for %s = %v, want [%s]", userID, defaults, wantID)
	}
}

func leadNames(leads []*model.Lead) []string {
	names := make([]string, 0, len(leads))
	for _, l := range leads {
		names = append(names, l.BusinessName)
	}
	return names
}
