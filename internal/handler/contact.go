package handler

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/clientip"
	"github.com/devfolio/portfolio-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	service *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ip := clientip.FromRequest(c.Request)

	err := h.service.Submit(c.Request.Context(), req, ip)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": service.ReceivedMessage,
		})
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	var rateLimitErr *service.RateLimitedError
	if errors.As(err, &rateLimitErr) {
		if rateLimitErr.RetryAfter > 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))))
		}
		c.JSON(http.StatusTooManyRequests, gin.H{"error": service.RateLimitedMessage})
		return
	}

	// Infrastructure failure - log the cause, never echo it to the caller
	requestID := c.GetString("request_id")
	log.Printf("[%s] Contact submission failed: %v", requestID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": service.ServerErrorMessage})
}
