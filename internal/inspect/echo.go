package inspect

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// EchoServer adapts an echo instance to WebServer
type EchoServer struct {
	engine *echo.Echo
}

// NewEchoServer creates an echo adapter with recovery middleware
func NewEchoServer() *EchoServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	return &EchoServer{engine: e}
}

// Handle registers a GET route
func (s *EchoServer) Handle(path string, handler HandlerFunc) {
	s.engine.GET(path, func(c echo.Context) error {
		if err := handler(&echoContext{ctx: c}); err != nil {
			code, body := errorResponse(err)
			return c.JSON(code, body)
		}
		return nil
	})
}

// Start serves until Stop is called
func (s *EchoServer) Start(addr string) error {
	if err := s.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *EchoServer) Stop(ctx context.Context) error {
	return s.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (s *EchoServer) Name() string {
	return "Echo"
}

// Handler exposes the echo instance, mostly for tests
func (s *EchoServer) Handler() http.Handler {
	return s.engine
}

type echoContext struct {
	ctx echo.Context
}

func (c *echoContext) Param(key string) string {
	return c.ctx.Param(key)
}

func (c *echoContext) JSON(code int, v any) error {
	return c.ctx.JSON(code, v)
}
