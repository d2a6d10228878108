package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/policy"
	"github.com/vitalog/vitalog-backend/internal/projection"
	"github.com/vitalog/vitalog-backend/internal/repos"
	"github.com/vitalog/vitalog-backend/internal/types"
)

const maxUnitLen = 50

type CreateIntakeInput struct {
	SupplementID uuid.UUID
	Quantity     int
	Dosage       float64
	Unit         string
	TakenAt      *time.Time
}

type UpdateIntakeInput struct {
	Quantity *int
	Dosage   *float64
	Unit     *string
}

// IntakeService owns the per-user intake ledger. Every operation is scoped to
// the calling user; entries reference supplements by id and resolve them at
// read time.
type IntakeService interface {
	List(ctx context.Context, caller policy.Caller, from, to *time.Time) ([]projection.IntakeLogView, error)
	Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.IntakeLogView, error)
	Create(ctx context.Context, caller policy.Caller, input CreateIntakeInput) (projection.IntakeLogView, error)
	CreateBatch(ctx context.Context, caller policy.Caller, inputs []CreateIntakeInput) ([]projection.IntakeLogView, error)
	Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateIntakeInput) error
	Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error
}

type intakeService struct {
	db                *gorm.DB
	log               *logger.Logger
	intakeRepo        repos.IntakeLogRepo
	supplementRepo    repos.SupplementRepo
	supplementService SupplementService
}

func NewIntakeService(
	db *gorm.DB,
	log *logger.Logger,
	intakeRepo repos.IntakeLogRepo,
	supplementRepo repos.SupplementRepo,
	supplementService SupplementService,
) IntakeService {
	serviceLog := log.With("service", "IntakeService")
	return &intakeService{
		db:                db,
		log:               serviceLog,
		intakeRepo:        intakeRepo,
		supplementRepo:    supplementRepo,
		supplementService: supplementService,
	}
}

func (s *intakeService) List(ctx context.Context, caller policy.Caller, from, to *time.Time) ([]projection.IntakeLogView, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required to list intake logs")
	}
	entries, err := s.intakeRepo.ListByUser(ctx, nil, caller.ID(), from, to)
	if err != nil {
		return nil, err
	}
	return s.projectEntries(ctx, entries)
}

func (s *intakeService) Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.IntakeLogView, error) {
	entry, err := s.fetchOwned(ctx, caller, id)
	if err != nil {
		return projection.IntakeLogView{}, err
	}
	views, err := s.projectEntries(ctx, []*types.IntakeLog{entry})
	if err != nil {
		return projection.IntakeLogView{}, err
	}
	return views[0], nil
}

// Create records one intake event. The referenced supplement must exist and
// be readable by the caller: a user logs intake of anything they can see, not
// only what they own.
func (s *intakeService) Create(ctx context.Context, caller policy.Caller, input CreateIntakeInput) (projection.IntakeLogView, error) {
	if caller.IsAnonymous() {
		return projection.IntakeLogView{}, apierr.Unauthorized("authentication required to create intake logs")
	}
	if err := validateIntakeInput(input); err != nil {
		return projection.IntakeLogView{}, err
	}

	supplements, err := s.supplementRepo.GetByIDs(ctx, nil, []uuid.UUID{input.SupplementID})
	if err != nil {
		return projection.IntakeLogView{}, err
	}
	if len(supplements) == 0 {
		return projection.IntakeLogView{}, apierr.NotFound("supplement %s not found", input.SupplementID)
	}
	if !policy.CanRead(caller, supplements[0].Ownership()) {
		return projection.IntakeLogView{}, apierr.Forbidden("supplement %s is not visible to the caller", input.SupplementID)
	}

	entry := buildIntakeLog(caller.ID(), input)
	if _, err := s.intakeRepo.Create(ctx, nil, []*types.IntakeLog{entry}); err != nil {
		return projection.IntakeLogView{}, err
	}
	views, err := s.projectEntries(ctx, []*types.IntakeLog{entry})
	if err != nil {
		return projection.IntakeLogView{}, err
	}
	return views[0], nil
}

// CreateBatch processes each request independently: entries whose supplement
// does not resolve, is not visible to the caller, or fails validation are
// skipped without being reported. The survivors commit together in one
// transaction.
func (s *intakeService) CreateBatch(ctx context.Context, caller policy.Caller, inputs []CreateIntakeInput) ([]projection.IntakeLogView, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required to create intake logs")
	}

	ctx, span := otel.Tracer("intake").Start(ctx, "IntakeService.CreateBatch",
		trace.WithAttributes(attribute.Int("intake.batch_size", len(inputs))))
	defer span.End()

	supplementIDs := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		supplementIDs = append(supplementIDs, input.SupplementID)
	}
	supplements, err := s.supplementRepo.GetByIDs(ctx, nil, dedupeIDs(supplementIDs))
	if err != nil {
		return nil, err
	}
	supplementsByID := make(map[uuid.UUID]*types.Supplement, len(supplements))
	for _, sup := range supplements {
		supplementsByID[sup.ID] = sup
	}

	entries := make([]*types.IntakeLog, 0, len(inputs))
	skipped := 0
	for _, input := range inputs {
		if validateIntakeInput(input) != nil {
			skipped++
			continue
		}
		sup, ok := supplementsByID[input.SupplementID]
		if !ok || !policy.CanRead(caller, sup.Ownership()) {
			skipped++
			continue
		}
		entries = append(entries, buildIntakeLog(caller.ID(), input))
	}
	span.SetAttributes(attribute.Int("intake.batch_skipped", skipped))
	if skipped > 0 {
		s.log.Debug("Skipped invalid batch intake entries", "skipped", skipped, "total", len(inputs))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.intakeRepo.Create(ctx, tx, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.projectEntries(ctx, entries)
}

// Update mutates quantity, dosage and unit only; the supplement reference,
// owner and taken_at are fixed at creation.
func (s *intakeService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateIntakeInput) error {
	entry, err := s.fetchOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return apierr.Validation("quantity must be at least 1")
		}
		entry.Quantity = *input.Quantity
	}
	if input.Dosage != nil {
		if *input.Dosage <= 0 {
			return apierr.Validation("dosage must be greater than 0")
		}
		entry.Dosage = *input.Dosage
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if err := validateUnit(unit); err != nil {
			return err
		}
		entry.Unit = unit
	}
	return s.intakeRepo.Update(ctx, nil, entry)
}

func (s *intakeService) Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, caller, id); err != nil {
		return err
	}
	return s.intakeRepo.Delete(ctx, nil, id)
}

func (s *intakeService) fetchOwned(ctx context.Context, caller policy.Caller, id uuid.UUID) (*types.IntakeLog, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required for intake log access")
	}
	found, err := s.intakeRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("intake log %s not found", id)
	}
	entry := found[0]
	if entry.UserID != caller.ID() {
		return nil, apierr.Forbidden("intake log %s does not belong to the caller", id)
	}
	return entry, nil
}

// projectEntries resolves each entry's supplement. A miss means an entry
// outlived its supplement, which the schema is supposed to prevent; it is
// reported as an internal error rather than papered over with a null.
func (s *intakeService) projectEntries(ctx context.Context, entries []*types.IntakeLog) ([]projection.IntakeLogView, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.SupplementID)
	}
	supplementViews, err := s.supplementService.ResolveByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		return nil, err
	}
	views := make([]projection.IntakeLogView, 0, len(entries))
	for _, entry := range entries {
		supplementView, ok := supplementViews[entry.SupplementID]
		if !ok {
			s.log.Error("Intake log references a missing supplement",
				"intake_log_id", entry.ID, "supplement_id", entry.SupplementID)
			return nil, apierr.Internal("intake log %s references missing supplement %s", entry.ID, entry.SupplementID)
		}
		views = append(views, projection.IntakeLog(entry, supplementView))
	}
	return views, nil
}

func buildIntakeLog(userID string, input CreateIntakeInput) *types.IntakeLog {
	takenAt := time.Now().UTC()
	if input.TakenAt != nil {
		takenAt = *input.TakenAt
	}
	return &types.IntakeLog{
		UserID:       userID,
		SupplementID: input.SupplementID,
		Quantity:     input.Quantity,
		Dosage:       input.Dosage,
		Unit:         strings.TrimSpace(input.Unit),
		TakenAt:      takenAt,
	}
}

func validateIntakeInput(input CreateIntakeInput) error {
	if input.SupplementID == uuid.Nil {
		return apierr.Validation("supplement id is required")
	}
	if input.Quantity < 1 {
		return apierr.Validation("quantity must be at least 1")
	}
	if input.Dosage <= 0 {
		return apierr.Validation("dosage must be greater than 0")
	}
	return validateUnit(strings.TrimSpace(input.Unit))
}

func validateUnit(unit string) error {
	if unit == "" {
		return apierr.Validation("unit must not be empty")
	}
	if len(unit) > maxUnitLen {
		return apierr.Validation("unit must be at most %d characters", maxUnitLen)
	}
	return nil
}
