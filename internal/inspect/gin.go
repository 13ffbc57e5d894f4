package inspect

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinServer adapts a gin engine to WebServer
type GinServer struct {
	engine *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewGinServer creates a gin adapter with recovery middleware
func NewGinServer() *GinServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinServer{engine: engine}
}

// Handle registers a GET route
func (s *GinServer) Handle(path string, handler HandlerFunc) {
	s.engine.GET(path, func(c *gin.Context) {
		if err := handler(&ginContext{ctx: c}); err != nil {
			code, body := errorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	})
}

// Start serves until Stop is called. It returns at once after Stop.
func (s *GinServer) Start(addr string) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	server := &http.Server{Addr: addr, Handler: s.engine}
	s.server = server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *GinServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name returns the adapter name
func (s *GinServer) Name() string {
	return "Gin"
}

// Handler exposes the engine, mostly for tests
func (s *GinServer) Handler() http.Handler {
	return s.engine
}

type ginContext struct {
	ctx *gin.Context
}

func (c *ginContext) Param(key string) string {
	return c.ctx.Param(key)
}

func (c *ginContext) JSON(code int, v any) error {
	c.ctx.JSON(code, v)
	return nil
}
