package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gwatch.ca/goosewatch/pkg/apperror"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors and keep the detail out of the response body
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
