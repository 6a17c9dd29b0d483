package middleware

import (
	"log"
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/service"
	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				log.Printf("[%s] PANIC: %v", requestID, err)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error": service.ServerErrorMessage,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
