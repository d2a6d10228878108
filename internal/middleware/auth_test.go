package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vitalog/vitalog-backend/internal/apierr"
	"github.com/vitalog/vitalog-backend/internal/logger"
	"github.com/vitalog/vitalog-backend/internal/requestdata"
	"github.com/vitalog/vitalog-backend/internal/services"
	"github.com/vitalog/vitalog-backend/internal/types"
)

// fakeAuthService accepts exactly one token and rejects everything else.
type fakeAuthService struct {
	validToken string
	userID     string
}

func (f *fakeAuthService) Register(context.Context, services.RegisterInput) (*types.User, services.TokenPair, error) {
	return nil, services.TokenPair{}, nil
}

func (f *fakeAuthService) Login(context.Context, string, string) (*types.User, services.TokenPair, error) {
	return nil, services.TokenPair{}, nil
}

func (f *fakeAuthService) Refresh(context.Context, string) (services.TokenPair, error) {
	return services.TokenPair{}, nil
}

func (f *fakeAuthService) Logout(context.Context) error { return nil }

func (f *fakeAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString != f.validToken {
		return ctx, apierr.Unauthorized("invalid token")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:      f.userID,
		TokenString: tokenString,
	}), nil
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(func() { log.Sync() })

	am := NewAuthMiddleware(log, &fakeAuthService{validToken: "good-token", userID: "user-a"})

	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c)})
	})
	router.GET("/optional", am.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c)})
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	router := newAuthTestRouter(t)

	if rec := doRequest(router, "/protected", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: want=401 got=%d", rec.Code)
	}
	if rec := doRequest(router, "/protected", "Bearer bad-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: want=401 got=%d", rec.Code)
	}
	if rec := doRequest(router, "/protected", "not-a-bearer-header"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: want=401 got=%d", rec.Code)
	}

	rec := doRequest(router, "/protected", "Bearer good-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != `{"caller":"user-a"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestOptionalAuth(t *testing.T) {
	router := newAuthTestRouter(t)

	// No token passes through anonymously.
	rec := doRequest(router, "/optional", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous: want=200 got=%d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"caller":""}` {
		t.Fatalf("expected anonymous caller, got %s", body)
	}

	// A present but invalid token is still rejected.
	if rec := doRequest(router, "/optional", "Bearer bad-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token on optional route: want=401 got=%d", rec.Code)
	}

	rec = doRequest(router, "/optional", "Bearer good-token")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"caller":"user-a"}` {
		t.Fatalf("valid token: got code=%d body=%s", rec.Code, rec.Body.String())
	}
}
