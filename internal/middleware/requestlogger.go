package middleware

import (
	"context"
	"log"
	"time"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

const (
	batchSize     = 100
	flushInterval = 5 * time.Second
)

// RequestLogWriter persists one request_logs row per handled request, batched
// off the request path through a buffered channel. Construct it once in the
// composition root and stop it on shutdown.
type RequestLogWriter struct {
	repo *repository.RequestLogRepository
	ch   chan models.RequestLog
	done chan struct{}
}

func NewRequestLogWriter(repo *repository.RequestLogRepository, bufferSize int) *RequestLogWriter {
	w := &RequestLogWriter{
		repo: repo,
		ch:   make(chan models.RequestLog, bufferSize),
		done: make(chan struct{}),
	}

	go w.run()

	return w
}

func (w *RequestLogWriter) run() {
	batch := make([]models.RequestLog, 0, batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-w.ch:
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				w.flush(batch)
				batch = make([]models.RequestLog, 0, batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = make([]models.RequestLog, 0, batchSize)
			}
		case <-w.done:
			// Drain whatever is queued before exiting
			for {
				select {
				case entry := <-w.ch:
					batch = append(batch, entry)
				default:
					w.flush(batch)
					return
				}
			}
		}
	}
}

func (w *RequestLogWriter) flush(batch []models.RequestLog) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, batch); err != nil {
		log.Printf("Failed to insert request logs: %v", err)
	}
}

// Stop flushes pending entries and stops the worker.
func (w *RequestLogWriter) Stop() {
	close(w.done)
}

// Middleware records every handled request
func (w *RequestLogWriter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)

		entry := models.RequestLog{
			Timestamp:      start,
			RequestID:      c.GetString("request_id"),
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: int(duration.Milliseconds()),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		}

		select {
		case w.ch <- entry:
		default:
			// Channel full, drop the entry rather than block the request
			log.Printf("Request log channel full, skipping log entry")
		}
	}
}
