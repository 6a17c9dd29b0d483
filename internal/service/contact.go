package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/ratelimit"
)

// Deliberately permissive: something@something.something. Not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minMessageLength = 10

type SubmitRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// MessageStore persists accepted submissions.
type MessageStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// ContactService owns the whole submission pipeline: rate limit, validate,
// normalize, persist. Both transport adapters call Submit and nothing else,
// so the two hosting models cannot drift apart.
type ContactService struct {
	limiter ratelimit.Limiter
	store   MessageStore
}

func NewContactService(limiter ratelimit.Limiter, store MessageStore) *ContactService {
	return &ContactService{
		limiter: limiter,
		store:   store,
	}
}

// Submit processes one contact-form attempt from clientID. The rate limiter
// is charged before validation runs, so invalid submissions still spend
// quota. Returns *ValidationError or *RateLimitedError for terminal
// rejections; any other error is an infrastructure failure.
func (s *ContactService) Submit(ctx context.Context, req SubmitRequest, clientID string) error {
	allowed, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}

	if !allowed {
		rlErr := &RateLimitedError{}
		if reset, err := s.limiter.Reset(ctx, clientID); err == nil {
			if wait := time.Until(reset); wait > 0 {
				rlErr.RetryAfter = wait
			}
		}
		return rlErr
	}

	if err := validate(req); err != nil {
		return err
	}

	msg := &models.ContactMessage{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		IP:        clientID,
	}

	if err := s.store.Create(ctx, msg); err != nil {
		return fmt.Errorf("save message: %w", err)
	}

	return nil
}

// First failing rule wins; the caller gets exactly one reason.
func validate(req SubmitRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "First name is required"}
	}

	if strings.TrimSpace(req.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "Last name is required"}
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "A valid email is required"}
	}

	if strings.TrimSpace(req.Subject) == "" {
		return &ValidationError{Field: "subject", Message: "Subject is required"}
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Message)) < minMessageLength {
		return &ValidationError{Field: "message", Message: "Message must be at least 10 characters"}
	}

	return nil
}
