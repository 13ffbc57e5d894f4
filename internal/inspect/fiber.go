package inspect

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberServer adapts a fiber app to WebServer
type FiberServer struct {
	app *fiber.App
}

// NewFiberServer creates a fiber adapter with recovery middleware
func NewFiberServer() *FiberServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	return &FiberServer{app: app}
}

// Handle registers a GET route
func (s *FiberServer) Handle(path string, handler HandlerFunc) {
	s.app.Get(path, func(c *fiber.Ctx) error {
		if err := handler(&fiberContext{ctx: c}); err != nil {
			code, body := errorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	})
}

// Start serves until Stop is called
func (s *FiberServer) Start(addr string) error {
	return s.app.Listen(addr)
}

// Stop shuts the server down gracefully
func (s *FiberServer) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (s *FiberServer) Name() string {
	return "Fiber"
}

// App exposes the fiber app, mostly for tests
func (s *FiberServer) App() *fiber.App {
	return s.app
}

type fiberContext struct {
	ctx *fiber.Ctx
}

func (c *fiberContext) Param(key string) string {
	return c.ctx.Params(key)
}

func (c *fiberContext) JSON(code int, v any) error {
	return c.ctx.Status(code).JSON(v)
}
