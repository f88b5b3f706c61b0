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
	"github.com/VanZep/FeedbackBook/internal/middleware"
	"github.com/VanZep/FeedbackBook/internal/models"
)

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedUserResponse), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, d dto.CreateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, d dto.UpdateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(ctx, username, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, user *models.User, d dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	args := m.Called(ctx, user, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func setupUserRouter(userService *MockUserService, authService *MockAuthService, userRepo *MockUserRepo) *gin.Engine {
	router := setupRouter()
	auth := middleware.NewAuthMiddleware(authService, userRepo)
	NewUserHandler(userService).RegisterRoutes(router.Group("/users", auth.RequireAuth()), auth)
	return router
}

func authedGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetProfile(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	user := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	mockAuthenticated(mockAuthService, mockUserRepo, "user-token", user)

	w := authedGet(router, "/users/me", "user-token")

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "alice", response.Username)
	assert.Equal(t, models.RoleUser, response.Role)
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	router := setupUserRouter(new(MockUserService), new(MockAuthService), new(MockUserRepo))

	w := authedGet(router, "/users/me", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserList_NonAdminForbidden(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	mockAuthenticated(mockAuthService, mockUserRepo, "user-token", user)

	w := authedGet(router, "/users", "user-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUserService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserList_StaffFlagGrantsAccess(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	user := &models.User{ID: "u5", Username: "ops", Role: models.RoleUser, IsStaff: true}
	mockAuthenticated(mockAuthService, mockUserRepo, "staff-token", user)
	mockUserService.On("List", mock.Anything, "", 1, 20).
		Return(&dto.PaginatedUserResponse{Data: []dto.UserResponse{}}, nil)

	w := authedGet(router, "/users", "staff-token")

	assert.Equal(t, http.StatusOK, w.Code)
	mockUserService.AssertExpectations(t)
}

func TestUserCreate_Admin(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	admin := &models.User{ID: "u9", Username: "boss", Role: models.RoleAdmin}
	mockAuthenticated(mockAuthService, mockUserRepo, "admin-token", admin)

	role := models.RoleModerator
	mockUserService.On("Create", mock.Anything, dto.CreateUserDTO{Username: "mod", Email: "mod@example.com", Role: &role}).
		Return(&dto.UserResponse{Username: "mod", Email: "mod@example.com", Role: models.RoleModerator}, nil)

	w := authedPost(router, "/users", "admin-token", []byte(`{"username":"mod","email":"mod@example.com","role":"moderator"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUserService.AssertExpectations(t)
}

func TestUserCreate_BadRole(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	admin := &models.User{ID: "u9", Username: "boss", Role: models.RoleAdmin}
	mockAuthenticated(mockAuthService, mockUserRepo, "admin-token", admin)

	w := authedPost(router, "/users", "admin-token", []byte(`{"username":"x","email":"x@example.com","role":"emperor"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProfile_RoleFieldIgnored(t *testing.T) {
	mockUserService := new(MockUserService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupUserRouter(mockUserService, mockAuthService, mockUserRepo)

	user := &models.User{ID: "u1", Username: "alice", Role: models.RoleUser}
	mockAuthenticated(mockAuthService, mockUserRepo, "user-token", user)

	bio := "hello"
	mockUserService.On("UpdateProfile", mock.Anything, user, dto.UpdateProfileDTO{Bio: &bio}).
		Return(&dto.UserResponse{Username: "alice", Bio: &bio, Role: models.RoleUser}, nil)

	// a role field in the payload has no matching DTO field and is dropped
	req, _ := http.NewRequest("PATCH", "/users/me", bytes.NewBufferString(`{"bio":"hello","role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, models.RoleUser, response.Role)
	mockUserService.AssertExpectations(t)
}
