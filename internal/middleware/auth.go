package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VanZep/FeedbackBook/internal/models"
	"github.com/VanZep/FeedbackBook/internal/permissions"
	"github.com/VanZep/FeedbackBook/internal/repository"
	"github.com/VanZep/FeedbackBook/internal/service"
)

const userContextKey = "user"

// AuthMiddleware authenticates requests with a bearer access token and loads
// the acting user into the request context.
type AuthMiddleware struct {
	authService service.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService service.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// RequireAuth rejects requests without a valid token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolveUser(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests from actors without admin-equivalence. Must
// run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if !permissions.IsPrivileged(user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func (m *AuthMiddleware) resolveUser(ctx context.Context, authHeader string) (*models.User, error) {
	if authHeader == "" {
		return nil, errMissingAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadAuthHeader
	}

	claims, err := m.authService.ValidateToken(parts[1])
	if err != nil {
		return nil, errInvalidToken
	}

	// load the full record: role changes take effect immediately and the
	// staff/superuser flags are not carried in the token
	user, err := m.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, errInvalidToken
	}
	return user, nil
}

var (
	errMissingAuthHeader = &authError{"missing authorization header"}
	errBadAuthHeader     = &authError{"invalid authorization header format"}
	errInvalidToken      = &authError{"invalid or expired token"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
