package handler

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

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/service"
	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*dto.SignupResponse, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SignupResponse), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	args := m.Called(ctx, username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "alice", "alice@example.com").
		Return(&dto.SignupResponse{Username: "alice", Email: "alice@example.com"}, nil)

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "alice", Email: "alice@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "alice", response["username"])
	assert.Equal(t, "alice@example.com", response["email"])
	mockAuthService.AssertExpectations(t)
}

func TestSignup_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	w := postJSON(router, "/signup", map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_ReservedUsername(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "me", "me@example.com").
		Return(nil, apperror.BadRequest(`username "me" is reserved and cannot be used`))

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "me", Email: "me@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_EmailMismatch(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "alice", "other@example.com").
		Return(nil, service.ErrEmailMismatch)

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "alice", Email: "other@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "alice", "s3cretcode").Return("signed.jwt.token", nil)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "alice", ConfirmationCode: "s3cretcode"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed.jwt.token", response.Token)
}

func TestToken_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "whatever").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "ghost", ConfirmationCode: "whatever"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_WrongCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "alice", "wrongcode").
		Return("", service.ErrInvalidCode)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "alice", ConfirmationCode: "wrongcode"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
