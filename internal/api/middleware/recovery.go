package middleware

import (
	"net/http"

	"costservice/internal/logger"
	"costservice/internal/models"

	"github.com/gin-gonic/gin"
)

// Recovery catches panics in later handlers, logs them and answers 500
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("panic", err),
					logger.String("method", c.Request.Method),
					logger.String("path", c.Request.URL.Path),
					logger.String("request_id", c.GetString(RequestIDKey)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Error: "internal server error",
				})
			}
		}()

		c.Next()
	}
}
