package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/authdesk/internal/api/dto"
)

// ErrorHandlerMiddleware turns panics and unhandled handler errors into
// a generic JSON 500 instead of a blank response.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				c.JSON(http.StatusInternalServerError, dto.AuthResponse{
					Message: "An unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, dto.AuthResponse{
				Message: "An unexpected error occurred",
			})
		}
	}
}
