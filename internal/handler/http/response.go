package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abhijitam01/drawr/internal/middleware"
)

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// requireUserID reads the id set by middleware.Auth and answers 401 when it
// is missing.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}
