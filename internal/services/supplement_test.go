package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/policy"
	"github.com/vitalog/vitalog-backend/internal/projection"
)

func TestSupplementCreateWithResolvedTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	vitamin, err := env.typeCatalog.Create(ctx, caller, "Vitamin")
	if err != nil {
		t.Fatalf("create type: %v", err)
	}

	view, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:     "Vitamin D",
		IsGlobal: true,
		TypeIDs:  []uuid.UUID{vitamin.ID},
	})
	if err != nil {
		t.Fatalf("create supplement: %v", err)
	}
	if view.Name != "Vitamin D" || !view.IsGlobal {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.Types) != 1 || view.Types[0].Name != "Vitamin" {
		t.Fatalf("expected nested type Vitamin, got %+v", view.Types)
	}
}

func TestSupplementCreateDropsUnknownTypeIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	view, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:    "Zinc",
		TypeIDs: []uuid.UUID{uuid.New(), uuid.New()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(view.Types) != 0 {
		t.Fatalf("expected unknown type ids to be dropped, got %+v", view.Types)
	}
}

func TestSupplementDuplicateNamePerCreatorConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := policy.User("user-a")
	userB := policy.User("user-b")

	if _, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "Zinc"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// Same name under the same creator conflicts.
	if _, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "Zinc"}); !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict for duplicate (name, creator), got %v", err)
	}
	// Another creator can reuse the name.
	if _, err := env.supplements.Create(ctx, userB, CreateSupplementInput{Name: "Zinc"}); err != nil {
		t.Fatalf("expected other creator to reuse the name, got %v", err)
	}
}

func TestSupplementDuplicateGlobalNameConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Anonymous creates have no creator; both rows land in the NULL-creator
	// bucket and must collide.
	if _, err := env.supplements.Create(ctx, policy.Anonymous(), CreateSupplementInput{Name: "Magnesium"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := env.supplements.Create(ctx, policy.Anonymous(), CreateSupplementInput{Name: "Magnesium"})
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict for duplicate global name, got %v", err)
	}
}

func TestSupplementListVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := policy.User("user-a")
	userB := policy.User("user-b")

	if _, err := env.supplements.Create(ctx, policy.Anonymous(), CreateSupplementInput{Name: "Global Zinc"}); err != nil {
		t.Fatalf("create global: %v", err)
	}
	if _, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "A's Zinc"}); err != nil {
		t.Fatalf("create owned by a: %v", err)
	}
	if _, err := env.supplements.Create(ctx, userB, CreateSupplementInput{Name: "B's Zinc"}); err != nil {
		t.Fatalf("create owned by b: %v", err)
	}

	names := func(views []projection.SupplementView) map[string]bool {
		out := make(map[string]bool, len(views))
		for _, v := range views {
			out[v.Name] = true
		}
		return out
	}

	// Default view for user A: global plus their own, never B's.
	got, err := env.supplements.List(ctx, userA, SupplementListFilter{})
	if err != nil {
		t.Fatalf("list default: %v", err)
	}
	if len(got) != 2 || !names(got)["Global Zinc"] || !names(got)["A's Zinc"] {
		t.Fatalf("default list for user a: got %v", names(got))
	}

	// Anonymous default view: globals only.
	got, err = env.supplements.List(ctx, policy.Anonymous(), SupplementListFilter{})
	if err != nil {
		t.Fatalf("list anonymous: %v", err)
	}
	if len(got) != 1 || !names(got)["Global Zinc"] {
		t.Fatalf("anonymous list: got %v", names(got))
	}

	onlyGlobal := true
	got, err = env.supplements.List(ctx, userA, SupplementListFilter{OnlyGlobal: &onlyGlobal})
	if err != nil {
		t.Fatalf("list only global: %v", err)
	}
	if len(got) != 1 || !names(got)["Global Zinc"] {
		t.Fatalf("global-only list: got %v", names(got))
	}

	ownedOnly := false
	got, err = env.supplements.List(ctx, userA, SupplementListFilter{OnlyGlobal: &ownedOnly})
	if err != nil {
		t.Fatalf("list owned: %v", err)
	}
	if len(got) != 1 || !names(got)["A's Zinc"] {
		t.Fatalf("owned-only list: got %v", names(got))
	}

	// Personal view without an identity is meaningless.
	if _, err := env.supplements.List(ctx, policy.Anonymous(), SupplementListFilter{OnlyGlobal: &ownedOnly}); !apierr.IsCode(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for anonymous owned-only list, got %v", err)
	}
}

func TestSupplementGetEnforcesVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := policy.User("user-a")

	owned, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "A's Zinc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.supplements.Get(ctx, userA, owned.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := env.supplements.Get(ctx, policy.User("user-b"), owned.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
	if _, err := env.supplements.Get(ctx, policy.Anonymous(), owned.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for anonymous, got %v", err)
	}
	if _, err := env.supplements.Get(ctx, userA, uuid.New()); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not found for random id, got %v", err)
	}
}

func TestSupplementUpdateReplacesAllRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	typeA, _ := env.typeCatalog.Create(ctx, caller, "A")
	typeB, _ := env.typeCatalog.Create(ctx, caller, "B")
	typeC, _ := env.typeCatalog.Create(ctx, caller, "C")

	created, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:    "Zinc",
		TypeIDs: []uuid.UUID{typeA.ID, typeB.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	update := UpdateSupplementInput{Name: "Zinc", TypeIDs: []uuid.UUID{typeB.ID, typeC.ID}}
	if err := env.supplements.Update(ctx, caller, created.ID, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	// Replace-all is idempotent: applying the same set twice changes nothing.
	if err := env.supplements.Update(ctx, caller, created.ID, update); err != nil {
		t.Fatalf("repeat update: %v", err)
	}

	got, err := env.supplements.Get(ctx, caller, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Types) != 2 {
		t.Fatalf("expected exactly {B, C}, got %+v", got.Types)
	}
	seen := map[string]bool{}
	for _, tv := range got.Types {
		seen[tv.Name] = true
	}
	if !seen["B"] || !seen["C"] || seen["A"] {
		t.Fatalf("expected {B, C}, got %v", seen)
	}
}

func TestSupplementUpdateEmptyTypeIDsClearsTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	vitamin, _ := env.typeCatalog.Create(ctx, caller, "Vitamin")
	created, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:    "Vitamin D",
		TypeIDs: []uuid.UUID{vitamin.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := env.supplements.Update(ctx, caller, created.ID, UpdateSupplementInput{Name: "Vitamin D"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := env.supplements.Get(ctx, caller, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Types) != 0 {
		t.Fatalf("expected tags cleared, got %+v", got.Types)
	}
}

func TestSupplementWritePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := policy.User("user-a")
	userB := policy.User("user-b")

	owned, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "A's Zinc"})
	if err != nil {
		t.Fatalf("create owned: %v", err)
	}
	global, err := env.supplements.Create(ctx, userA, CreateSupplementInput{Name: "Shared Zinc", IsGlobal: true})
	if err != nil {
		t.Fatalf("create global: %v", err)
	}

	// A stranger cannot touch an owned supplement.
	if err := env.supplements.Update(ctx, userB, owned.ID, UpdateSupplementInput{Name: "Hijacked"}); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden update, got %v", err)
	}
	if err := env.supplements.Delete(ctx, userB, owned.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}

	// A global supplement is writable by any authenticated caller, never by
	// anonymous ones.
	if err := env.supplements.Update(ctx, userB, global.ID, UpdateSupplementInput{Name: "Shared Zinc v2"}); err != nil {
		t.Fatalf("expected global update by other user to succeed, got %v", err)
	}
	if err := env.supplements.Delete(ctx, policy.Anonymous(), global.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden anonymous delete, got %v", err)
	}
}

func TestSupplementDeleteRemovesRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	vitamin, _ := env.typeCatalog.Create(ctx, caller, "Vitamin")
	created, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:    "Vitamin D",
		TypeIDs: []uuid.UUID{vitamin.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := env.supplements.Delete(ctx, caller, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.supplements.Get(ctx, caller, created.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected supplement gone, got %v", err)
	}
	count, err := env.relationRepo.CountByTypeIDs(ctx, nil, []uuid.UUID{vitamin.ID})
	if err != nil {
		t.Fatalf("count relations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected relations removed with the supplement, got %d", count)
	}
}
