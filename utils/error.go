package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON envelope for failures that escape the handlers.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers handler panics into a structured 500 and logs any
// errors handlers attached to the context without writing a response
// themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger().Error("unhandled panic",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		logger := GetLogger()
		for _, ginErr := range c.Errors {
			logger.Error("request error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(ginErr.Err))
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Internal Server Error",
			})
		}
	}
}
