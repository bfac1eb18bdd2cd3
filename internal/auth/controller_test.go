package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *mockAuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JWTClaims), args.Error(1)
}

func setupAuthTest(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	controller := NewController(service)
	group := engine.Group("/auth")
	group.POST("/register", controller.Register)
	group.POST("/login", controller.Login)
	group.POST("/refresh", controller.RefreshToken)
	group.POST("/logout", controller.Logout)
	group.PUT("/change-password", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		controller.ChangePassword(c)
	})

	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Message
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	service := new(mockAuthService)
	service.On("Register", mock.Anything, mock.Anything).Return(nil, ErrUserAlreadyExists)
	engine := setupAuthTest(service)

	w := postJSON(t, engine, http.MethodPost, "/auth/register", RegisterRequest{
		FirstName: "Ana",
		LastName:  "Gomez",
		Email:     "ana@example.com",
		Password:  "secret123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "An account with this email already exists", responseMessage(t, w))
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	service := new(mockAuthService)
	engine := setupAuthTest(service)

	w := postJSON(t, engine, http.MethodPost, "/auth/register", RegisterRequest{
		FirstName: "A",
		Email:     "not-an-email",
		Password:  "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestLoginBadCredentialsUnauthorized(t *testing.T) {
	service := new(mockAuthService)
	service.On("Login", mock.Anything, mock.Anything).Return(nil, ErrInvalidCredentials)
	engine := setupAuthTest(service)

	w := postJSON(t, engine, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "wrongpass",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", responseMessage(t, w))
}

func TestRefreshExpiredTokenUnauthorized(t *testing.T) {
	service := new(mockAuthService)
	service.On("RefreshToken", mock.Anything, "stale-token").Return(nil, ErrTokenExpired)
	engine := setupAuthTest(service)

	w := postJSON(t, engine, http.MethodPost, "/auth/refresh", RefreshTokenRequest{
		RefreshToken: "stale-token",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired refresh token", responseMessage(t, w))
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	service := new(mockAuthService)
	service.On("ChangePassword", mock.Anything, "user-1", mock.Anything).Return(ErrInvalidCredentials)
	engine := setupAuthTest(service)

	w := postJSON(t, engine, http.MethodPut, "/auth/change-password", ChangePasswordRequest{
		CurrentPassword: "oldpass",
		NewPassword:     "newpass123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", responseMessage(t, w))
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	service := new(mockAuthService)
	engine := setupAuthTest(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
