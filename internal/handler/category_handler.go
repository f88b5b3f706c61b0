package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/middleware"
	"github.com/VanZep/FeedbackBook/internal/service"
	"github.com/VanZep/FeedbackBook/pkg/response"
	"github.com/VanZep/FeedbackBook/pkg/validator"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes: reads are public, writes are
// admin-only.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	rg.GET("", h.List)
	rg.POST("", auth.RequireAuth(), auth.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", auth.RequireAuth(), auth.RequireAdmin(), h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	resp, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
