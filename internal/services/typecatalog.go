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
	"github.com/vitalog/vitalog-backend/internal/repos"
	"github.com/vitalog/vitalog-backend/internal/types"
)

const maxTypeNameLen = 50

// TypeCatalogService manages the shared tag vocabulary. Reading is open to
// everyone; any authenticated caller may create, rename or delete a type, but
// a type still referenced by a supplement cannot be deleted.
type TypeCatalogService interface {
	List(ctx context.Context) ([]*types.SupplementType, error)
	Get(ctx context.Context, id uuid.UUID) (*types.SupplementType, error)
	Create(ctx context.Context, caller policy.Caller, name string) (*types.SupplementType, error)
	Rename(ctx context.Context, caller policy.Caller, id uuid.UUID, name string) error
	Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error
}

type typeCatalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	typeRepo     repos.SupplementTypeRepo
	relationRepo repos.SupplementTypeRelationRepo
}

func NewTypeCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	typeRepo repos.SupplementTypeRepo,
	relationRepo repos.SupplementTypeRelationRepo,
) TypeCatalogService {
	serviceLog := log.With("service", "TypeCatalogService")
	return &typeCatalogService{
		db:           db,
		log:          serviceLog,
		typeRepo:     typeRepo,
		relationRepo: relationRepo,
	}
}

func (s *typeCatalogService) List(ctx context.Context) ([]*types.SupplementType, error) {
	return s.typeRepo.List(ctx, nil)
}

func (s *typeCatalogService) Get(ctx context.Context, id uuid.UUID) (*types.SupplementType, error) {
	found, err := s.typeRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apierr.NotFound("supplement type %s not found", id)
	}
	return found[0], nil
}

func (s *typeCatalogService) Create(ctx context.Context, caller policy.Caller, name string) (*types.SupplementType, error) {
	if caller.IsAnonymous() {
		return nil, apierr.Unauthorized("authentication required to create supplement types")
	}
	name = strings.TrimSpace(name)
	if err := validateTypeName(name); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index on name is what actually closes
	// the race between two concurrent creators.
	exists, err := s.typeRepo.NameExists(ctx, nil, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("supplement type %q already exists", name)
	}

	st := &types.SupplementType{Name: name}
	if _, err := s.typeRepo.Create(ctx, nil, []*types.SupplementType{st}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("supplement type %q already exists", name)
		}
		return nil, err
	}
	s.log.Info("Created supplement type", "type_id", st.ID, "name", st.Name)
	return st, nil
}

func (s *typeCatalogService) Rename(ctx context.Context, caller policy.Caller, id uuid.UUID, name string) error {
	if caller.IsAnonymous() {
		return apierr.Unauthorized("authentication required to rename supplement types")
	}
	name = strings.TrimSpace(name)
	if err := validateTypeName(name); err != nil {
		return err
	}

	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	taken, err := s.typeRepo.NameExists(ctx, nil, name, id)
	if err != nil {
		return err
	}
	if taken {
		return apierr.Conflict("supplement type %q already exists", name)
	}

	st.Name = name
	if err := s.typeRepo.Update(ctx, nil, st); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("supplement type %q already exists", name)
		}
		return err
	}
	return nil
}

// Delete rejects, rather than cascades, when any supplement still carries the
// tag: silently dropping relations would orphan tag references on live
// supplements.
func (s *typeCatalogService) Delete(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	if caller.IsAnonymous() {
		return apierr.Unauthorized("authentication required to delete supplement types")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inUse, err := s.relationRepo.CountByTypeIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if inUse > 0 {
			return apierr.Conflict("supplement type %s is in use by %d supplement(s)", id, inUse)
		}
		return s.typeRepo.Delete(ctx, tx, id)
	})
}

func validateTypeName(name string) error {
	if name == "" {
		return apierr.Validation("type name must not be empty")
	}
	if len(name) > maxTypeNameLen {
		return apierr.Validation("type name must be at most %d characters", maxTypeNameLen)
	}
	return nil
}
