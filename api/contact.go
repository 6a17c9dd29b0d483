// Serverless entry point for the contact endpoint. The hosting platform
// routes requests straight to Handler; clients are bootstrapped once per
// process and reused across invocations.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/devfolio/portfolio-backend/internal/clientip"
	"github.com/devfolio/portfolio-backend/internal/config"
	"github.com/devfolio/portfolio-backend/internal/ratelimit"
	"github.com/devfolio/portfolio-backend/internal/repository"
	"github.com/devfolio/portfolio-backend/internal/service"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/joho/godotenv"
)

var (
	bootstrapOnce  sync.Once
	bootstrapErr   error
	contactService *service.ContactService
)

func bootstrap() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootstrapErr = fmt.Errorf("load config: %w", err)
		return
	}

	redis, err := storage.NewRedis(cfg.Redis.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		bootstrapErr = fmt.Errorf("connect redis: %w", err)
		return
	}

	postgres, err := storage.NewPostgres(cfg.Database.DSN)
	if err != nil {
		bootstrapErr = fmt.Errorf("connect postgres: %w", err)
		return
	}

	// Once per cold start, not per request
	if err := postgres.AutoMigrate(); err != nil {
		bootstrapErr = fmt.Errorf("run migrations: %w", err)
		return
	}

	limiter := ratelimit.NewLimiter(redis, cfg.RateLimit.Algorithm, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	contactService = service.NewContactService(limiter, repository.NewMessageRepository(postgres))
}

// Handler processes one contact-form submission. Same pipeline as the
// long-running server: the shared ContactService does all the work and this
// function only speaks HTTP.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}

	bootstrapOnce.Do(bootstrap)
	if bootstrapErr != nil {
		log.Printf("Bootstrap failed: %v", bootstrapErr)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": service.ServerErrorMessage})
		return
	}

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
		return
	}

	ip := clientip.FromRequest(r)

	err := contactService.Submit(r.Context(), req, ip)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": service.ReceivedMessage,
		})
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": validationErr.Message})
		return
	}

	var rateLimitErr *service.RateLimitedError
	if errors.As(err, &rateLimitErr) {
		if rateLimitErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))))
		}
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": service.RateLimitedMessage})
		return
	}

	log.Printf("Contact handler error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": service.ServerErrorMessage})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
