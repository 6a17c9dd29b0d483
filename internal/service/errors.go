package service

import (
	"fmt"
	"time"
)

// User-facing response copy shared by both transport adapters.
const (
	ReceivedMessage    = "Message received!"
	RateLimitedMessage = "Too many requests. Please wait an hour before trying again."
	ServerErrorMessage = "Something went wrong. Please try again."
)

// ValidationError is a terminal, deterministic rejection of one field. The
// message is shown to the caller verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RateLimitedError means the client's window quota is spent. RetryAfter is
// zero when the window's remaining lifetime could not be read.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}
