package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/repos"
	"github.com/vitalog/vitalog-backend/internal/requestdata"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type UpdateProfileInput struct {
	DateOfBirth *time.Time
	Gender      *string
	Height      *float64
	Weight      *float64
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	return us.currentUser(ctx)
}

func (us *userService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.User, error) {
	user, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if input.Height != nil && *input.Height <= 0 {
		return nil, apierr.Validation("height must be greater than 0")
	}
	if input.Weight != nil && *input.Weight <= 0 {
		return nil, apierr.Validation("weight must be greater than 0")
	}

	user.DateOfBirth = input.DateOfBirth
	user.Gender = input.Gender
	user.Height = input.Height
	user.Weight = input.Weight
	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (us *userService) currentUser(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == "" {
		return nil, apierr.Unauthorized("no caller identity in context")
	}
	userID, err := uuid.Parse(rd.UserID)
	if err != nil {
		return nil, apierr.Unauthorized("invalid caller identity")
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user %s not found", userID)
	}
	return users[0], nil
}
