// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/garyjia/settlement-portal/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	// AllowedOrigins enables CORS for browser frontends served elsewhere.
	AllowedOrigins []string
	// LoginRate and AICheckRate are limiter formats such as "5-M".
	LoginRate   string
	AICheckRate string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		LoginRate:    "5-M",
		AICheckRate:  "30-M",
	}
}

// Services are the use cases the handlers call.
type Services struct {
	Auth          service.AuthService
	Applications  service.ApplicationService
	Approval      service.ApprovalService
	History       service.HistoryService
	ReceiptChecks service.ReceiptCheckService
	Batch         service.BatchCheckService
	Leave         service.LeaveService
}

// HealthFunc reports component health for /health.
type HealthFunc func(ctx context.Context) map[string]string

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	health     HealthFunc
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, health HealthFunc, logger Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		health:   health,
		logger:   logger,
	}

	server.setupMiddleware()

	if err := server.setupRoutes(); err != nil {
		return nil, err
	}

	return server, nil
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.config.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// rateLimit builds a per-client-IP limiter from a formatted rate. An empty
// format disables limiting.
func (s *Server) rateLimit(format string) (gin.HandlerFunc, error) {
	if format == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", format, err)
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		lc, err := instance.Get(c.Request.Context(), ip)
		if err != nil {
			s.logger.Error("Rate limit check failed", "ip", ip, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
			return
		}
		if lc.Reached {
			s.logger.Info("Rate limit exceeded", "ip", ip, "path", c.FullPath(), "limit", lc.Limit)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Success: false, Error: "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	loginLimit, err := s.rateLimit(s.config.LoginRate)
	if err != nil {
		return err
	}
	aiLimit, err := s.rateLimit(s.config.AICheckRate)
	if err != nil {
		return err
	}

	handlers := NewHandlers(s.services, s.config, s.health, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	auth := s.router.Group("/api/auth")
	{
		auth.POST("/session", loginLimit, handlers.CreateSession)
		auth.GET("/me", handlers.Me)
		auth.POST("/logout", handlers.Logout)
	}

	api := s.router.Group("/api", handlers.RequireSession())
	{
		api.GET("/applications", handlers.ListApplications)
		api.GET("/applications/export", handlers.ExportApplications)

		api.POST("/check", handlers.SubmitCheck)

		api.POST("/ai-check", aiLimit, handlers.AICheck)
		api.POST("/ai-check/batch", aiLimit, handlers.AICheckBatch)

		api.GET("/approval-history", handlers.ListHistory)
		api.POST("/approval-history", handlers.AppendHistory)

		api.GET("/receipts/:fileId", handlers.GetReceipt)

		api.POST("/leave-approval", handlers.UpdateLeaveApproval)
		api.GET("/paid-leave-list", handlers.ListPaidLeave)
	}
	return nil
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
