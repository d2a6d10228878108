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

const maxSupplementNameLen = 255

type SupplementListFilter struct {
	// OnlyGlobal: nil = global plus the caller's own, true = global only,
	// false = caller's own only (requires an authenticated caller).
	OnlyGlobal *bool
}

type CreateSupplementInput struct {
	Name               string
	Description        *string
	DeficiencySymptoms *string
	IsGlobal           bool
	TypeIDs            []uuid.UUID
}

type UpdateSupplementInput struct {
	Name               string
	Description        *string
	DeficiencySymptoms *string
	TypeIDs            []uuid.UUID
}

// SupplementService owns supplement definitions and their tag relations.
// Visibility is decided by the policy package from each row's ownership.
type SupplementService interface {
	List(ctx context.Context, caller policy.Caller, filter SupplementListFilter) ([]projection.SupplementView, error)
	Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.SupplementView, error)
	Create(ctx context.Context, caller policy.Caller, input CreateSupplementInput) (projection.SupplementView, error)
	Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateSupplementInput) error
	Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error

	// ResolveByIDs projects the supplements with the given ids, keyed by id.
	// Ids that do not resolve are absent from the result; callers that treat
	// a miss as impossible decide how loudly to fail.
	ResolveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]projection.SupplementView, error)
}

type supplementService struct {
	db             *gorm.DB
	log            *logger.Logger
	supplementRepo repos.SupplementRepo
	typeRepo       repos.SupplementTypeRepo
	relationRepo   repos.SupplementTypeRelationRepo
}

func NewSupplementService(
	db *gorm.DB,
	log *logger.Logger,
	supplementRepo repos.SupplementRepo,
	typeRepo repos.SupplementTypeRepo,
	relationRepo repos.SupplementTypeRelationRepo,
) SupplementService {
	serviceLog := log.With("service", "SupplementService")
	return &supplementService{
		db:             db,
		log:            serviceLog,
		supplementRepo: supplementRepo,
		typeRepo:       typeRepo,
		relationRepo:   relationRepo,
	}
}

func (s *supplementService) List(ctx context.Context, caller policy.Caller, filter SupplementListFilter) ([]projection.SupplementView, error) {
	var (
		rows []*types.Supplement
		err  error
	)
	switch {
	case filter.OnlyGlobal == nil:
		if caller.IsAnonymous() {
			rows, err = s.supplementRepo.ListGlobal(ctx, nil)
		} else {
			rows, err = s.supplementRepo.ListVisibleTo(ctx, nil, caller.ID())
		}
	case *filter.OnlyGlobal:
		rows, err = s.supplementRepo.ListGlobal(ctx, nil)
	default:
		if caller.IsAnonymous() {
			return nil, apierr.Unauthorized("authentication required to list personal supplements")
		}
		rows, err = s.supplementRepo.ListOwned(ctx, nil, caller.ID())
	}
	if err != nil {
		return nil, err
	}
	return s.project(ctx, nil, rows)
}

func (s *supplementService) Get(ctx context.Context, caller policy.Caller, id uuid.UUID) (projection.SupplementView, error) {
	supplement, err := s.fetch(ctx, id)
	if err != nil {
		return projection.SupplementView{}, err
	}
	if !policy.CanRead(caller, supplement.Ownership()) {
		return projection.SupplementView{}, apierr.Forbidden("supplement %s is not visible to the caller", id)
	}
	views, err := s.project(ctx, nil, []*types.Supplement{supplement})
	if err != nil {
		return projection.SupplementView{}, err
	}
	return views[0], nil
}

// Create inserts the supplement and its initial tag relations in one
// transaction. An anonymous caller can only seed global data, so ownership is
// forced global in that case. Unknown type ids are dropped without error.
func (s *supplementService) Create(ctx context.Context, caller policy.Caller, input CreateSupplementInput) (projection.SupplementView, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateSupplementName(input.Name); err != nil {
		return projection.SupplementView{}, err
	}

	supplement := &types.Supplement{
		Name:               input.Name,
		Description:        input.Description,
		DeficiencySymptoms: input.DeficiencySymptoms,
	}
	if caller.IsAnonymous() {
		supplement.IsGlobal = true
	} else {
		creatorID := caller.ID()
		supplement.IsGlobal = input.IsGlobal
		supplement.CreatorID = &creatorID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.supplementRepo.Create(ctx, tx, []*types.Supplement{supplement}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("supplement %q already exists for this creator", input.Name)
			}
			return err
		}
		return s.replaceRelations(ctx, tx, supplement.ID, input.TypeIDs, false)
	})
	if err != nil {
		return projection.SupplementView{}, err
	}

	s.log.Info("Created supplement", "supplement_id", supplement.ID, "is_global", supplement.IsGlobal)
	views, err := s.project(ctx, nil, []*types.Supplement{supplement})
	if err != nil {
		return projection.SupplementView{}, err
	}
	return views[0], nil
}

// Update replaces the basic fields and the entire tag relation set. The old
// relations are always dropped first, so an empty TypeIDs clears all tags.
func (s *supplementService) Update(ctx context.Context, caller policy.Caller, id uuid.UUID, input UpdateSupplementInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateSupplementName(input.Name); err != nil {
		return err
	}

	supplement, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanWrite(caller, supplement.Ownership()) {
		return apierr.Forbidden("supplement %s is not writable by the caller", id)
	}

	supplement.Name = input.Name
	supplement.Description = input.Description
	supplement.DeficiencySymptoms = input.DeficiencySymptoms

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.supplementRepo.Update(ctx, tx, supplement); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("supplement %q already exists for this creator", input.Name)
			}
			return err
		}
		return s.replaceRelations(ctx, tx, supplement.ID, input.TypeIDs, true)
	})
}

// Delete removes the supplement and its tag relations. Intake logs referencing
// the supplement are left in place; a later read of such an entry fails loudly
// (see IntakeService).
func (s *supplementService) Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	supplement, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanWrite(caller, supplement.Ownership()) {
		return apierr.Forbidden("supplement %s is not writable by the caller", id)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.relationRepo.DeleteBySupplementIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return s.supplementRepo.Delete(ctx, tx, id)
	})
}

func (s *supplementService) ResolveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]projection.SupplementView, error) {
	rows, err := s.supplementRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	views, err := s.project(ctx, nil, rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]projection.SupplementView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	return byID, nil
}

func (s *supplementService) fetch(ctx context.Context, id uuid.UUID) (*types.Supplement, error) {
	found, err := s.supplementRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("supplement %s not found", id)
	}
	return found[0], nil
}

// replaceRelations resolves typeIDs against the vocabulary, silently dropping
// unknown ids, and writes one relation row per surviving id. With
// dropExisting it first deletes the supplement's current relation set
// (replace-all semantics).
func (s *supplementService) replaceRelations(ctx context.Context, tx *gorm.DB, supplementID uuid.UUID, typeIDs []uuid.UUID, dropExisting bool) error {
	if dropExisting {
		if err := s.relationRepo.DeleteBySupplementIDs(ctx, tx, []uuid.UUID{supplementID}); err != nil {
			return err
		}
	}
	known, err := s.typeRepo.GetByIDs(ctx, tx, dedupeIDs(typeIDs))
	if err != nil {
		return err
	}
	relations := make([]*types.SupplementTypeRelation, 0, len(known))
	for _, st := range known {
		relations = append(relations, &types.SupplementTypeRelation{
			SupplementID: supplementID,
			TypeID:       st.ID,
		})
	}
	_, err = s.relationRepo.Create(ctx, tx, relations)
	return err
}

func (s *supplementService) project(ctx context.Context, tx *gorm.DB, rows []*types.Supplement) ([]projection.SupplementView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	relations, err := s.relationRepo.GetBySupplementIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	typeIDs := make([]uuid.UUID, 0, len(relations))
	for _, rel := range relations {
		typeIDs = append(typeIDs, rel.TypeID)
	}
	tagTypes, err := s.typeRepo.GetByIDs(ctx, tx, dedupeIDs(typeIDs))
	if err != nil {
		return nil, err
	}
	typesByID := make(map[uuid.UUID]*types.SupplementType, len(tagTypes))
	for _, st := range tagTypes {
		typesByID[st.ID] = st
	}
	views := make([]projection.SupplementView, 0, len(rows))
	for _, row := range rows {
		views = append(views, projection.Supplement(row, relations, typesByID))
	}
	return views, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateSupplementName(name string) error {
	if name == "" {
		return apierr.Validation("supplement name must not be empty")
	}
	if len(name) > maxSupplementNameLen {
		return apierr.Validation("supplement name must be at most %d characters", maxSupplementNameLen)
	}
	return nil
}
