package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/devfolio/portfolio-backend/internal/config"
	"github.com/devfolio/portfolio-backend/internal/handler"
	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/ratelimit"
	"github.com/devfolio/portfolio-backend/internal/repository"
	"github.com/devfolio/portfolio-backend/internal/service"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

const requestLogRetention = 30 * 24 * time.Hour

type Server struct {
	router         *gin.Engine
	config         *config.Config
	redis          *storage.RedisClient
	postgres       *storage.Postgres
	contactHandler *handler.ContactHandler
	logWriter      *middleware.RequestLogWriter
	logRepo        *repository.RequestLogRepository
	httpServer     *http.Server
	stopRetention  chan struct{}
}

func New(cfg *config.Config, redis *storage.RedisClient, postgres *storage.Postgres) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	messageRepo := repository.NewMessageRepository(postgres)
	logRepo := repository.NewRequestLogRepository(postgres)

	limiter := ratelimit.NewLimiter(redis, cfg.RateLimit.Algorithm, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	contactService := service.NewContactService(limiter, messageRepo)
	contactHandler := handler.NewContactHandler(contactService)
	logWriter := middleware.NewRequestLogWriter(logRepo, 1000)

	s := &Server{
		router:         router,
		config:         cfg,
		redis:          redis,
		postgres:       postgres,
		contactHandler: contactHandler,
		logWriter:      logWriter,
		logRepo:        logRepo,
		stopRetention:  make(chan struct{}),
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.runRetentionSweep()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigin))
	s.router.Use(s.logWriter.Middleware())
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.healthCheck)
	s.router.POST("/api/contact", s.contactHandler.Submit)

	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	redisHealthy := true
	if err := s.redis.Ping(c.Request.Context()); err != nil {
		redisHealthy = false
		log.Printf("Redis health check failed: %v", err)
	}

	dbHealthy := true
	if err := s.postgres.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	status := "ok"
	statusCode := http.StatusOK

	if !redisHealthy || !dbHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"redis":    redisHealthy,
			"database": dbHealthy,
		},
	})
}

// Deletes aged request logs once a day
func (s *Server) runRetentionSweep() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			deleted, err := s.logRepo.DeleteOlderThan(ctx, time.Now().Add(-requestLogRetention))
			cancel()

			if err != nil {
				log.Printf("Request log retention sweep failed: %v", err)
			} else if deleted > 0 {
				log.Printf("Request log retention sweep removed %d rows", deleted)
			}
		case <-s.stopRetention:
			return
		}
	}
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting portfolio backend on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopRetention)
	s.logWriter.Stop()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}
