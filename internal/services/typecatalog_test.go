package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/policy"
)

func TestTypeCatalogCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	created, err := env.typeCatalog.Create(ctx, caller, "  Vitamin  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Vitamin" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	got, err := env.typeCatalog.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Vitamin" {
		t.Fatalf("get: want=Vitamin got=%q", got.Name)
	}
}

func TestTypeCatalogCreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.typeCatalog.Create(context.Background(), policy.Anonymous(), "Vitamin")
	if !apierr.IsCode(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestTypeCatalogDuplicateNameConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	if _, err := env.typeCatalog.Create(ctx, caller, "Vitamin"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := env.typeCatalog.Create(ctx, policy.User("user-b"), "Vitamin")
	if !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict on duplicate name, got %v", err)
	}
}

func TestTypeCatalogNameLength(t *testing.T) {
	env := newTestEnv(t)
	caller := policy.User("user-a")

	_, err := env.typeCatalog.Create(context.Background(), caller, strings.Repeat("x", 51))
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for 51-char name, got %v", err)
	}
	if _, err := env.typeCatalog.Create(context.Background(), caller, strings.Repeat("x", 50)); err != nil {
		t.Fatalf("expected 50-char name to be accepted, got %v", err)
	}
}

func TestTypeCatalogRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	vitamin, err := env.typeCatalog.Create(ctx, caller, "Vitamin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.typeCatalog.Create(ctx, caller, "Mineral"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Renaming onto an existing name conflicts; renaming to itself does not.
	if err := env.typeCatalog.Rename(ctx, caller, vitamin.ID, "Mineral"); !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict renaming onto taken name, got %v", err)
	}
	if err := env.typeCatalog.Rename(ctx, caller, vitamin.ID, "Vitamin"); err != nil {
		t.Fatalf("expected self-rename to succeed, got %v", err)
	}
	if err := env.typeCatalog.Rename(ctx, caller, vitamin.ID, "Micronutrient"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := env.typeCatalog.Get(ctx, vitamin.ID)
	if err != nil {
		t.Fatalf("get after rename: %v", err)
	}
	if got.Name != "Micronutrient" {
		t.Fatalf("rename not persisted: got %q", got.Name)
	}
}

func TestTypeCatalogRenameMissing(t *testing.T) {
	env := newTestEnv(t)
	err := env.typeCatalog.Rename(context.Background(), policy.User("user-a"), uuid.New(), "Whatever")
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTypeCatalogDeleteInUseConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	vitamin, err := env.typeCatalog.Create(ctx, caller, "Vitamin")
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	supplement, err := env.supplements.Create(ctx, caller, CreateSupplementInput{
		Name:     "Vitamin D",
		IsGlobal: true,
		TypeIDs:  []uuid.UUID{vitamin.ID},
	})
	if err != nil {
		t.Fatalf("create supplement: %v", err)
	}

	if err := env.typeCatalog.Delete(ctx, caller, vitamin.ID); !apierr.IsCode(err, apierr.CodeConflict) {
		t.Fatalf("expected conflict deleting in-use type, got %v", err)
	}

	// Once the referencing supplement is gone, the delete goes through.
	if err := env.supplements.Delete(ctx, caller, supplement.ID); err != nil {
		t.Fatalf("delete supplement: %v", err)
	}
	if err := env.typeCatalog.Delete(ctx, caller, vitamin.ID); err != nil {
		t.Fatalf("delete type after freeing: %v", err)
	}
	if _, err := env.typeCatalog.Get(ctx, vitamin.ID); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected type to be gone, got %v", err)
	}
}

func TestTypeCatalogListOrdersByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")

	for _, name := range []string{"Mineral", "Amino Acid", "Vitamin"} {
		if _, err := env.typeCatalog.Create(ctx, caller, name); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}
	listed, err := env.typeCatalog.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 types, got %d", len(listed))
	}
	want := []string{"Amino Acid", "Mineral", "Vitamin"}
	for i, st := range listed {
		if st.Name != want[i] {
			t.Fatalf("list order: want=%v got position %d = %q", want, i, st.Name)
		}
	}
}
