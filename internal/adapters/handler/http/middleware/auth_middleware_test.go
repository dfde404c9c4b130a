package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

const (
	testSecret = "test-secret-middleware"
	testIssuer = "test-issuer"
)

func echoUser(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, "Hello "+userID)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Parallel()

	setupRouter := func(tokenService *services.TokenService) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(tokenService))
		router.GET("/protected", echoUser)
		return router
	}

	t.Run("Success: Valid Token", func(t *testing.T) {
		t.Parallel()
		mockRepo := new(MockUserRepo)
		tokenService := services.NewTokenService(testSecret, testIssuer, time.Hour, mockRepo)
		router := setupRouter(tokenService)

		mockRepo.On("GetByID", mock.Anything, "user-123").Return(&domain.User{ID: "user-123"}, nil)
		validToken, _ := tokenService.GenerateToken("user-123")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello user-123", w.Body.String())
	})

	t.Run("Fail: Missing Authorization Header", func(t *testing.T) {
		t.Parallel()
		router := setupRouter(services.NewTokenService(testSecret, testIssuer, time.Hour, new(MockUserRepo)))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization header required")
	})

	t.Run("Fail: Invalid Header Format", func(t *testing.T) {
		t.Parallel()
		router := setupRouter(services.NewTokenService(testSecret, testIssuer, time.Hour, new(MockUserRepo)))

		for _, h := range []string{"Bearer", "Token 12345", "Bearer12345", "Bearer a b"} {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", h)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "Should fail for header: "+h)
		}
	})

	t.Run("Fail: Token with Wrong Signature", func(t *testing.T) {
		t.Parallel()
		mockRepo := new(MockUserRepo)
		router := setupRouter(services.NewTokenService(testSecret, testIssuer, time.Hour, mockRepo))
		attacker := services.NewTokenService("wrong-secret", testIssuer, time.Hour, mockRepo)
		badToken, _ := attacker.GenerateToken("attacker")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+badToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("Fail: Expired Token", func(t *testing.T) {
		t.Parallel()
		expired := services.NewTokenService(testSecret, testIssuer, -time.Second, new(MockUserRepo))
		router := setupRouter(expired)
		token, _ := expired.GenerateToken("user-expired")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: Deleted User", func(t *testing.T) {
		t.Parallel()
		mockRepo := new(MockUserRepo)
		tokenService := services.NewTokenService(testSecret, testIssuer, time.Hour, mockRepo)
		router := setupRouter(tokenService)

		mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)
		token, _ := tokenService.GenerateToken("ghost")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepo)
	tokenService := services.NewTokenService(testSecret, testIssuer, time.Hour, mockRepo)
	mockRepo.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)

	router := gin.New()
	router.Use(OptionalAuthMiddleware(tokenService))
	router.GET("/calc", echoUser)

	t.Run("anonymous passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calc", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("bad token is treated as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/calc", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("valid token identifies the user", func(t *testing.T) {
		token, _ := tokenService.GenerateToken("user-1")
		req := httptest.NewRequest(http.MethodGet, "/calc", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "Hello user-1", w.Body.String())
	})
}
