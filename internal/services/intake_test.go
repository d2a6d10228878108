package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/policy"
	"github.com/vitalog/vitalog-backend/internal/types"
)

func seedGlobalSupplement(t *testing.T, env *testEnv, name string) uuid.UUID {
	t.Helper()
	view, err := env.supplements.Create(context.Background(), policy.Anonymous(), CreateSupplementInput{Name: name})
	if err != nil {
		t.Fatalf("seed supplement %q: %v", name, err)
	}
	return view.ID
}

func TestIntakeCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	takenAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	created, err := env.intake.Create(ctx, caller, CreateIntakeInput{
		SupplementID: supplementID,
		Quantity:     2,
		Dosage:       1000,
		Unit:         "IU",
		TakenAt:      &takenAt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Supplement.Name != "Vitamin D" {
		t.Fatalf("expected resolved supplement, got %+v", created.Supplement)
	}

	got, err := env.intake.Get(ctx, caller, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 2 || got.Dosage != 1000 || got.Unit != "IU" || !got.TakenAt.Equal(takenAt) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestIntakeCreateDefaultsTakenAt(t *testing.T) {
	env := newTestEnv(t)
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Zinc")

	before := time.Now().UTC().Add(-time.Second)
	created, err := env.intake.Create(context.Background(), caller, CreateIntakeInput{
		SupplementID: supplementID,
		Quantity:     1,
		Dosage:       15,
		Unit:         "mg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	after := time.Now().UTC().Add(time.Second)
	if created.TakenAt.Before(before) || created.TakenAt.After(after) {
		t.Fatalf("expected taken_at to default to now, got %v", created.TakenAt)
	}
}

func TestIntakeCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Zinc")

	cases := []struct {
		name  string
		input CreateIntakeInput
	}{
		{"zero quantity", CreateIntakeInput{SupplementID: supplementID, Quantity: 0, Dosage: 15, Unit: "mg"}},
		{"negative quantity", CreateIntakeInput{SupplementID: supplementID, Quantity: -1, Dosage: 15, Unit: "mg"}},
		{"zero dosage", CreateIntakeInput{SupplementID: supplementID, Quantity: 1, Dosage: 0, Unit: "mg"}},
		{"empty unit", CreateIntakeInput{SupplementID: supplementID, Quantity: 1, Dosage: 15, Unit: "  "}},
		{"nil supplement", CreateIntakeInput{Quantity: 1, Dosage: 15, Unit: "mg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.intake.Create(ctx, caller, tc.input); !apierr.IsCode(err, apierr.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestIntakeCreateMissingSupplement(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.intake.Create(context.Background(), policy.User("user-a"), CreateIntakeInput{
		SupplementID: uuid.New(),
		Quantity:     1,
		Dosage:       15,
		Unit:         "mg",
	})
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIntakeCreateInvisibleSupplementForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owned, err := env.supplements.Create(ctx, policy.User("user-b"), CreateSupplementInput{Name: "B's Zinc"})
	if err != nil {
		t.Fatalf("create owned: %v", err)
	}
	_, err = env.intake.Create(ctx, policy.User("user-a"), CreateIntakeInput{
		SupplementID: owned.ID,
		Quantity:     1,
		Dosage:       15,
		Unit:         "mg",
	})
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden logging another user's supplement, got %v", err)
	}
}

func TestIntakeCreateBatchSkipsInvalidEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	created, err := env.intake.CreateBatch(ctx, caller, []CreateIntakeInput{
		{SupplementID: supplementID, Quantity: 1, Dosage: 1000, Unit: "IU"},
		{SupplementID: uuid.New(), Quantity: 1, Dosage: 1000, Unit: "IU"}, // unknown supplement
		{SupplementID: supplementID, Quantity: 0, Dosage: 1000, Unit: "IU"}, // invalid quantity
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", len(created))
	}

	// Only the survivor was persisted.
	listed, err := env.intake.List(ctx, caller, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(listed))
	}
}

func TestIntakeListFiltersByTimeRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	days := []time.Time{
		time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		takenAt := day
		if _, err := env.intake.Create(ctx, caller, CreateIntakeInput{
			SupplementID: supplementID,
			Quantity:     1,
			Dosage:       1000,
			Unit:         "IU",
			TakenAt:      &takenAt,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	from := days[1]
	listed, err := env.intake.List(ctx, caller, &from, nil)
	if err != nil {
		t.Fatalf("list from: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries from day 2, got %d", len(listed))
	}

	to := days[1]
	listed, err = env.intake.List(ctx, caller, nil, &to)
	if err != nil {
		t.Fatalf("list to: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 entries up to day 2 inclusive, got %d", len(listed))
	}

	listed, err = env.intake.List(ctx, caller, &from, &to)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(listed) != 1 || !listed[0].TakenAt.Equal(days[1]) {
		t.Fatalf("expected exactly the day-2 entry, got %d", len(listed))
	}
}

func TestIntakeListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	early := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	for _, takenAt := range []time.Time{early, late} {
		ta := takenAt
		if _, err := env.intake.Create(ctx, caller, CreateIntakeInput{
			SupplementID: supplementID, Quantity: 1, Dosage: 1000, Unit: "IU", TakenAt: &ta,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	listed, err := env.intake.List(ctx, caller, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || !listed[0].TakenAt.Equal(late) {
		t.Fatalf("expected newest entry first, got %+v", listed)
	}
}

func TestIntakeOwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userA := policy.User("user-a")
	userB := policy.User("user-b")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	created, err := env.intake.Create(ctx, userA, CreateIntakeInput{
		SupplementID: supplementID, Quantity: 1, Dosage: 1000, Unit: "IU",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.intake.Get(ctx, userB, created.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden for other user's entry, got %v", err)
	}
	if err := env.intake.Delete(ctx, userB, created.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	listed, err := env.intake.List(ctx, userB, nil, nil)
	if err != nil {
		t.Fatalf("list as b: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty ledger for user b, got %d", len(listed))
	}
	if _, err := env.intake.List(ctx, policy.Anonymous(), nil, nil); !apierr.IsCode(err, apierr.CodeUnauthorized) {
		t.Fatalf("expected unauthorized anonymous list, got %v", err)
	}
}

func TestIntakeUpdateMutatesDoseFieldsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	takenAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	created, err := env.intake.Create(ctx, caller, CreateIntakeInput{
		SupplementID: supplementID, Quantity: 1, Dosage: 1000, Unit: "IU", TakenAt: &takenAt,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	quantity := 3
	dosage := 2000.0
	unit := "mg"
	if err := env.intake.Update(ctx, caller, created.ID, UpdateIntakeInput{
		Quantity: &quantity, Dosage: &dosage, Unit: &unit,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := env.intake.Get(ctx, caller, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 3 || got.Dosage != 2000 || got.Unit != "mg" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.TakenAt.Equal(takenAt) {
		t.Fatalf("taken_at must not change on update, got %v", got.TakenAt)
	}

	badQuantity := 0
	if err := env.intake.Update(ctx, caller, created.ID, UpdateIntakeInput{Quantity: &badQuantity}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
	badDosage := -1.0
	if err := env.intake.Update(ctx, caller, created.ID, UpdateIntakeInput{Dosage: &badDosage}); !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("expected validation error for negative dosage, got %v", err)
	}
}

func TestIntakeDanglingSupplementFailsLoudly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := policy.User("user-a")
	supplementID := seedGlobalSupplement(t, env, "Vitamin D")

	created, err := env.intake.Create(ctx, caller, CreateIntakeInput{
		SupplementID: supplementID, Quantity: 1, Dosage: 1000, Unit: "IU",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Remove the supplement row out from under the ledger entry.
	if err := env.db.Where("id = ?", supplementID).Delete(&types.Supplement{}).Error; err != nil {
		t.Fatalf("drop supplement: %v", err)
	}

	if _, err := env.intake.Get(ctx, caller, created.ID); !apierr.IsCode(err, apierr.CodeInternal) {
		t.Fatalf("expected internal error for dangling reference, got %v", err)
	}
	if _, err := env.intake.List(ctx, caller, nil, nil); !apierr.IsCode(err, apierr.CodeInternal) {
		t.Fatalf("expected internal error listing dangling reference, got %v", err)
	}
}
