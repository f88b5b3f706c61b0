package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VanZep/FeedbackBook/internal/dto"
	"github.com/VanZep/FeedbackBook/internal/service"
	"github.com/VanZep/FeedbackBook/pkg/response"
	"github.com/VanZep/FeedbackBook/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public auth routes. Each endpoint carries its
// own per-client throttle so a burst of signups cannot lock out token holders.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, signupThrottle, tokenThrottle gin.HandlerFunc) {
	rg.POST("/signup", signupThrottle, h.Signup)
	rg.POST("/token", tokenThrottle, h.Token)
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Token handles POST /v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
