package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/service"
)

// fakeUserRepo satisfies repository.UserRepository; token middleware
// tests only need GetUserByID to succeed.
type fakeUserRepo struct{}

func (fakeUserRepo) CreateUser(ctx context.Context, user *domain.User) error             { return nil }
func (fakeUserRepo) CreateUserWithPassword(ctx context.Context, user *domain.User) error { return nil }
func (fakeUserRepo) UpdateUser(ctx context.Context, user *domain.User) error             { return nil }

func (fakeUserRepo) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID, Email: "user@example.com"}, nil
}

func (fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (fakeUserRepo) GetUserByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (fakeUserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

// newAuthedRouter wires a single route behind the given middleware and
// returns a valid access token for user-1.
func newAuthedRouter(t *testing.T, middlewareFor func(service.AuthService) gin.HandlerFunc) (*gin.Engine, string) {
	t.Helper()

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:  fakeUserRepo{},
		JWTSecret: "test-secret",
	})
	tokens, err := authService.GenerateTokens("user-1")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", middlewareFor(authService), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return router, tokens.AccessToken
}

func doWhoami(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	router, token := newAuthedRouter(t, AuthMiddleware)

	w := doWhoami(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	router, token := newAuthedRouter(t, AuthMiddleware)

	for _, header := range []string{"", "Token " + token, "Bearer", "garbage"} {
		w := doWhoami(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router, _ := newAuthedRouter(t, AuthMiddleware)

	w := doWhoami(router, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddlewareAnonymous(t *testing.T) {
	router, _ := newAuthedRouter(t, OptionalAuthMiddleware)

	w := doWhoami(router, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestOptionalAuthMiddlewareWithToken(t *testing.T) {
	router, token := newAuthedRouter(t, OptionalAuthMiddleware)

	w := doWhoami(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestOptionalAuthMiddlewareBadTokenStaysAnonymous(t *testing.T) {
	router, _ := newAuthedRouter(t, OptionalAuthMiddleware)

	w := doWhoami(router, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
