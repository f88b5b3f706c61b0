package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VanZep/FeedbackBook/pkg/apperror"
)

// Error writes a standardized error body with the status mapped from err.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[internal error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
