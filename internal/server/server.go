// file: internal/server/server.go
// version: 2.1.0
// guid: da7f0134-727b-44e6-958d-17cdaa9d0fc7

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"

	"github.com/jdfalk/library-catalog/internal/cache"
	"github.com/jdfalk/library-catalog/internal/i18n"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/metrics"
	"github.com/jdfalk/library-catalog/internal/models"
	"github.com/jdfalk/library-catalog/internal/server/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const (
	heartbeatInterval = 15 * time.Second
	catalogCacheTTL   = 30 * time.Second
)

// HealthChecker reports whether the backing store can serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services the HTTP layer presents.
type Dependencies struct {
	Books        *library.BookService
	Loans        *library.LoanService
	Health       HealthChecker
	DatabaseType string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	deps       Dependencies
	cfg        ServerConfig

	// catalog snapshot ranked by the suggestion endpoint
	catalog *cache.Cache[[]models.Book]
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxConnections int

	// Requests per minute per client IP; 0 disables rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64

	DefaultLocale string
	Credentials   middleware.CredentialsProvider
}

// GetDefaultServerConfig returns default server configuration
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Host:           "localhost",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxConnections: 256,
		MaxBodyBytes:   middleware.DefaultMaxBodyBytes,
		DefaultLocale:  i18n.DefaultLocale,
	}
}

// NewServer creates a new server instance
func NewServer(deps Dependencies, cfg ServerConfig) (*Server, error) {
	if deps.Books == nil || deps.Loans == nil {
		return nil, errors.New("server requires book and loan services")
	}
	translator, err := i18n.NewTranslator(cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}
	if cfg.Credentials == nil {
		cfg.Credentials = func() middleware.Credentials { return middleware.Credentials{} }
	}

	registerValidators()
	// Register metrics (idempotent)
	metrics.Register()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Locale(translator))
	router.Use(metricsMiddleware())
	// Limit before auth so failed logins spend tokens too
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).Middleware())
	}
	router.Use(middleware.BasicAuth(cfg.Credentials))
	router.Use(middleware.MaxRequestBodySize(cfg.MaxBodyBytes))

	server := &Server{
		router:  router,
		deps:    deps,
		cfg:     cfg,
		catalog: cache.New[[]models.Book](catalogCacheTTL),
	}
	server.setupRoutes()

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.cfg.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, s.cfg.MaxConnections)
	}

	s.httpServer = &http.Server{
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Starting server on %s", listener.Addr())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.heartbeat(heartbeatCtx)
	}()
	defer func() {
		stopHeartbeat()
		wg.Wait()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] Server exited")
	return nil
}

// heartbeat refreshes gauges periodically while the server runs.
func (s *Server) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		s.refreshGauges(ctx)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) refreshGauges(ctx context.Context) {
	var alloc runtime.MemStats
	runtime.ReadMemStats(&alloc)
	metrics.SetMemoryAlloc(alloc.Alloc)
	metrics.SetGoroutines(runtime.NumGoroutine())

	if n, err := s.deps.Books.Count(ctx); err == nil {
		metrics.SetBooks(n)
	} else if ctx.Err() == nil {
		log.Printf("[DEBUG] Heartbeat: Failed to count books: %v", err)
	}
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	// Redirect /api/* to /api/v1/* for v1 compatibility
	s.router.Use(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") &&
			!strings.HasPrefix(path, "/api/v1/") &&
			!strings.HasPrefix(path, "/api/health") {
			newPath := strings.Replace(path, "/api/", "/api/v1/", 1)
			if c.Request.URL.RawQuery != "" {
				newPath += "?" + c.Request.URL.RawQuery
			}
			status := http.StatusMovedPermanently
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				status = http.StatusPermanentRedirect
			}
			c.Redirect(status, newPath)
			c.Abort()
			return
		}
		c.Next()
	})

	// API routes
	api := s.router.Group("/api/v1")
	{
		// Book routes
		api.POST("/books", s.createBook)
		api.GET("/books", s.findBooks)
		api.GET("/books/suggest", s.suggestBooks)
		api.GET("/books/:id", s.getBook)
		api.PUT("/books/:id", s.updateBook)
		api.DELETE("/books/:id", s.deleteBook)

		// Loan routes
		api.POST("/loans", s.createLoan)
		api.GET("/loans/:id", s.getLoan)
	}

	s.router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, i18n.MsgRouteNotFound)
	})
}

// metricsMiddleware records request durations by matched route.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	ol := operationLogger(c, "healthCheck")
	ctx := c.Request.Context()

	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(ctx); err != nil {
			ol.LogError(http.StatusServiceUnavailable, err)
			middleware.AbortWithError(c, http.StatusServiceUnavailable, i18n.MsgStoreUnavailable)
			return
		}
	}

	bookCount, err := s.deps.Books.Count(ctx)
	if err != nil {
		ol.LogError(http.StatusServiceUnavailable, err)
		middleware.AbortWithError(c, http.StatusServiceUnavailable, i18n.MsgStoreUnavailable)
		return
	}
	metrics.SetBooks(bookCount)

	c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Timestamp:    time.Now().Unix(),
		Version:      Version,
		DatabaseType: s.deps.DatabaseType,
		Metrics:      map[string]int{"books": bookCount},
	})
}
