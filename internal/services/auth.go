package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/repos"
	"github.com/vitalog/vitalog-backend/internal/requestdata"
	"github.com/vitalog/vitalog-backend/internal/types"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService issues and verifies credentials. The catalog and ledger never
// see any of this: they only receive the opaque user id the middleware puts
// into the request context.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, TokenPair{}, apierr.Validation("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, TokenPair{}, apierr.Validation("password must be at least 8 characters")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if exists {
		return nil, TokenPair{}, apierr.Conflict("a user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user := &types.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return err
		}
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, TokenPair{}, err
	}
	as.log.Info("Registered user", "user_id", user.ID)
	return user, pair, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, TokenPair{}, err
	}
	if len(users) == 0 {
		return nil, TokenPair{}, apierr.Unauthorized("invalid email or password")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, TokenPair{}, apierr.Unauthorized("invalid email or password")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.pruneExpiredTokens(ctx, tx, user.ID); err != nil {
			return err
		}
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, apierr.Validation("refresh token is required")
	}
	tokens, err := as.userTokenRepo.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		return TokenPair{}, err
	}
	if len(tokens) == 0 {
		return TokenPair{}, apierr.Unauthorized("unknown refresh token")
	}
	existing := tokens[0]

	if existing.ExpiresAt.Before(time.Now()) {
		_ = as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{existing.ID})
		return TokenPair{}, apierr.Unauthorized("refresh token expired")
	}

	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{existing.UserID})
	if err != nil {
		return TokenPair{}, err
	}
	if len(users) == 0 {
		return TokenPair{}, apierr.Unauthorized("no user for refresh token")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair, err = as.issueTokens(ctx, tx, users[0])
		if err != nil {
			return err
		}
		return as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID})
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("no active session")
	}
	tokens, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	return as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{tokens[0].ID})
}

// SetContextFromToken validates the JWT and stamps the caller identity into
// the context. The token must also still exist in storage, so logout revokes
// it immediately regardless of its expiry claim.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Unauthorized("invalid token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ctx, apierr.Unauthorized("invalid subject in token")
	}

	tokens, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, err
	}
	if len(tokens) == 0 {
		return ctx, apierr.Unauthorized("token has been revoked")
	}

	rd := &requestdata.RequestData{
		UserID:      claims.Subject,
		TokenString: tokenString,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (TokenPair, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			// Claim timestamps are second-precision, so without a unique id two
			// tokens issued back to back for the same user would be identical
			// and collide on the access token index.
			ID: uuid.NewString(),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return TokenPair{}, err
	}

	pair := TokenPair{
		AccessToken:  accessToken,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	userToken := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (as *authService) pruneExpiredTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	tokens, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return err
	}
	expired := make([]uuid.UUID, 0, len(tokens))
	for _, token := range tokens {
		if token.ExpiresAt.Before(time.Now()) {
			expired = append(expired, token.ID)
		}
	}
	return as.userTokenRepo.DeleteByIDs(ctx, tx, expired)
}
