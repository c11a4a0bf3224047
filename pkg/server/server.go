// Package server exposes the document cache and the analysis agent over
// REST.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/duynguyendang/pdfdesk/pkg/agent"
	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

// ModelFactory constructs the model backend. Called at most once, on the
// first chat request; the REST endpoints that only touch the cache work
// without any credentials configured.
type ModelFactory func(ctx context.Context) (models.Model, error)

// Server holds the state for the REST API server. One document store is
// shared by every request and by the lazily constructed agent.
type Server struct {
	router *gin.Engine
	loader *loader.Loader
	store  *docstore.Store
	logger *slog.Logger

	newModel ModelFactory
	mu       sync.Mutex
	agent    *agent.Agent
}

// NewServer creates a new Server instance.
func NewServer(l *loader.Loader, newModel ModelFactory) *Server {
	r := gin.Default()
	s := &Server{
		router:   r,
		loader:   l,
		store:    l.Store(),
		logger:   slog.Default().With("component", "server"),
		newModel: newModel,
	}
	r.Use(requestID(), cors())
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting REST API", "addr", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/chat", s.handleChat)
	s.router.GET("/pdfs", s.handleListPDFs)
	s.router.POST("/pdfs", s.handleLoadPDF)
	s.router.DELETE("/pdfs", s.handleClearPDFs)
	s.router.DELETE("/pdfs/*identifier", s.handleRemovePDF)
}

// getAgent returns the shared agent, constructing it on first use.
func (s *Server) getAgent(ctx context.Context) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.agent != nil {
		return s.agent, nil
	}

	s.logger.Info("initializing analysis agent")
	model, err := s.newModel(ctx)
	if err != nil {
		return nil, err
	}
	a, err := agent.New(agent.Options{Model: model, Loader: s.loader})
	if err != nil {
		return nil, err
	}
	s.agent = a
	s.logger.Info("analysis agent initialized", "model", model.Name())
	return a, nil
}

func (s *Server) agentInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent != nil
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		slog.Info("request",
			"id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	c.JSON(appErr.Code, gin.H{"success": false, "message": appErr.Error()})
}
