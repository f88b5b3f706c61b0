package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/middleware"
	"github.com/VanZep/FeedbackBook/internal/models"
	"github.com/VanZep/FeedbackBook/internal/service"
	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

// MockCategoryService mocks the CategoryService interface
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedCategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, d dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func setupCategoryRouter(categoryService *MockCategoryService, authService *MockAuthService, userRepo *MockUserRepo) *gin.Engine {
	router := setupRouter()
	auth := middleware.NewAuthMiddleware(authService, userRepo)
	NewCategoryHandler(categoryService).RegisterRoutes(router.Group("/categories"), auth)
	return router
}

func TestCategoryList_Anonymous(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	router := setupCategoryRouter(mockCategoryService, new(MockAuthService), new(MockUserRepo))

	mockCategoryService.On("List", mock.Anything, "", 1, 20).
		Return(&dto.PaginatedCategoryResponse{Data: []dto.CategoryResponse{{Name: "Books", Slug: "books"}}}, nil)

	req, _ := http.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryCreate_Unauthenticated(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	router := setupCategoryRouter(mockCategoryService, new(MockAuthService), new(MockUserRepo))

	w := postJSON(router, "/categories", dto.CreateCategoryDTO{Name: "Books", Slug: "books"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockCategoryService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_DuplicateSlug(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupCategoryRouter(mockCategoryService, mockAuthService, mockUserRepo)

	admin := &models.User{ID: "u9", Username: "boss", Role: models.RoleAdmin}
	mockAuthenticated(mockAuthService, mockUserRepo, "admin-token", admin)
	mockCategoryService.On("Create", mock.Anything, dto.CreateCategoryDTO{Name: "Books", Slug: "books"}).
		Return(nil, apperror.Conflict("a category with this name or slug already exists"))

	w := authedPost(router, "/categories", "admin-token", []byte(`{"name":"Books","slug":"books"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryDelete_Admin(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupCategoryRouter(mockCategoryService, mockAuthService, mockUserRepo)

	admin := &models.User{ID: "u9", Username: "boss", Role: models.RoleAdmin}
	mockAuthenticated(mockAuthService, mockUserRepo, "admin-token", admin)
	mockCategoryService.On("Delete", mock.Anything, "books").Return(nil)

	req, _ := http.NewRequest("DELETE", "/categories/books", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	mockCategoryService := new(MockCategoryService)
	mockAuthService := new(MockAuthService)
	mockUserRepo := new(MockUserRepo)
	router := setupCategoryRouter(mockCategoryService, mockAuthService, mockUserRepo)

	admin := &models.User{ID: "u9", Username: "boss", Role: models.RoleAdmin}
	mockAuthenticated(mockAuthService, mockUserRepo, "admin-token", admin)
	mockCategoryService.On("Delete", mock.Anything, "ghost").Return(service.ErrCategoryNotFound)

	req, _ := http.NewRequest("DELETE", "/categories/ghost", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
