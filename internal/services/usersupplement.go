package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/policy"
	"github.com/vitalog/vitalog-backend/internal/projection"
	"github.com/vitalog/vitalog-backend/internal/repos"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type AddUserSupplementInput struct {
	SupplementID  uuid.UUID
	DefaultDosage *float64
	DefaultUnit   *string
}

type UpdateUserSupplementInput struct {
	DefaultDosage *float64
	DefaultUnit   *string
}

// UserSupplementService manages a user's pinned supplement list with default
// dosage preferences. A given supplement can be pinned at most once per user.
type UserSupplementService interface {
	List(ctx context.Context, caller policy.Caller) ([]projection.UserSupplementView, error)
	Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.UserSupplementView, error)
	Add(ctx context.Context, caller policy.Caller, input AddUserSupplementInput) (projection.UserSupplementView, error)
	Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateUserSupplementInput) error
	Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error
}

type userSupplementService struct {
	db                 *gorm.DB
	log                *logger.Logger
	userSupplementRepo repos.UserSupplementRepo
	supplementRepo     repos.SupplementRepo
	supplementService  SupplementService
}

func NewUserSupplementService(
	db *gorm.DB,
	log *logger.Logger,
	userSupplementRepo repos.UserSupplementRepo,
	supplementRepo repos.SupplementRepo,
	supplementService SupplementService,
) UserSupplementService {
	serviceLog := log.With("service", "UserSupplementService")
	return &userSupplementService{
		db:                 db,
		log:                serviceLog,
		userSupplementRepo: userSupplementRepo,
		supplementRepo:     supplementRepo,
		supplementService:  supplementService,
	}
}

func (s *userSupplementService) List(ctx context.Context, caller policy.Caller) ([]projection.UserSupplementView, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required to list pinned supplements")
	}
	entries, err := s.userSupplementRepo.ListByUser(ctx, nil, caller.ID())
	if err != nil {
		return nil, err
	}
	return s.projectEntries(ctx, entries)
}

func (s *userSupplementService) Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.UserSupplementView, error) {
	entry, err := s.fetchOwned(ctx, caller, id)
	if err != nil {
		return projection.UserSupplementView{}, err
	}
	views, err := s.projectEntries(ctx, []*types.UserSupplement{entry})
	if err != nil {
		return projection.UserSupplementView{}, err
	}
	return views[0], nil
}

func (s *userSupplementService) Add(ctx context.Context, caller policy.Caller, input AddUserSupplementInput) (projection.UserSupplementView, error) {
	if caller.IsAnonymous() {
		return projection.UserSupplementView{}, apierr.Unauthorized("authentication required to pin supplements")
	}
	if err := validateUserSupplementDefaults(input.DefaultDosage, input.DefaultUnit); err != nil {
		return projection.UserSupplementView{}, err
	}

	supplements, err := s.supplementRepo.GetByIDs(ctx, nil, []uuid.UUID{input.SupplementID})
	if err != nil {
		return projection.UserSupplementView{}, err
	}
	if len(supplements) == 0 {
		return projection.UserSupplementView{}, apierr.NotFound("supplement %s not found", input.SupplementID)
	}
	if !policy.CanRead(caller, supplements[0].Ownership()) {
		return projection.UserSupplementView{}, apierr.Forbidden("supplement %s is not visible to the caller", input.SupplementID)
	}

	pinned, err := s.userSupplementRepo.ExistsForUserAndSupplement(ctx, nil, caller.ID(), input.SupplementID)
	if err != nil {
		return projection.UserSupplementView{}, err
	}
	if pinned {
		return projection.UserSupplementView{}, apierr.Conflict("supplement %s is already pinned", input.SupplementID)
	}

	entry := &types.UserSupplement{
		UserID:        caller.ID(),
		SupplementID:  input.SupplementID,
		DefaultDosage: input.DefaultDosage,
		DefaultUnit:   input.DefaultUnit,
	}
	if _, err := s.userSupplementRepo.Create(ctx, nil, []*types.UserSupplement{entry}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return projection.UserSupplementView{}, apierr.Conflict("supplement %s is already pinned", input.SupplementID)
		}
		return projection.UserSupplementView{}, err
	}
	views, err := s.projectEntries(ctx, []*types.UserSupplement{entry})
	if err != nil {
		return projection.UserSupplementView{}, err
	}
	return views[0], nil
}

func (s *userSupplementService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateUserSupplementInput) error {
	entry, err := s.fetchOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := validateUserSupplementDefaults(input.DefaultDosage, input.DefaultUnit); err != nil {
		return err
	}
	entry.DefaultDosage = input.DefaultDosage
	entry.DefaultUnit = input.DefaultUnit
	return s.userSupplementRepo.Update(ctx, nil, entry)
}

func (s *userSupplementService) Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, caller, id); err != nil {
		return err
	}
	return s.userSupplementRepo.Delete(ctx, nil, id)
}

func (s *userSupplementService) fetchOwned(ctx context.Context, caller policy.Caller, id uuid.UUID) (*types.UserSupplement, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required for pinned supplement access")
	}
	found, err := s.userSupplementRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("pinned supplement %s not found", id)
	}
	entry := found[0]
	if entry.UserID != caller.ID() {
		return nil, apierr.Forbidden("pinned supplement %s does not belong to the caller", id)
	}
	return entry, nil
}

func (s *userSupplementService) projectEntries(ctx context.Context, entries []*types.UserSupplement) ([]projection.UserSupplementView, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.SupplementID)
	}
	supplementViews, err := s.supplementService.ResolveByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		return nil, err
	}
	views := make([]projection.UserSupplementView, 0, len(entries))
	for _, entry := range entries {
		supplementView, ok := supplementViews[entry.SupplementID]
		if !ok {
			s.log.Error("Pinned supplement references a missing supplement",
				"user_supplement_id", entry.ID, "supplement_id", entry.SupplementID)
			return nil, apierr.Internal("pinned supplement %s references missing supplement %s", entry.ID, entry.SupplementID)
		}
		views = append(views, projection.UserSupplement(entry, supplementView))
	}
	return views, nil
}

func validateUserSupplementDefaults(dosage *float64, unit *string) error {
	if dosage != nil && *dosage <= 0 {
		return apierr.Validation("default dosage must be greater than 0")
	}
	if unit != nil {
		trimmed := strings.TrimSpace(*unit)
		if len(trimmed) > maxUnitLen {
			return apierr.Validation("default unit must be at most %d characters", maxUnitLen)
		}
	}
	return nil
}
