package inspect

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/compiler"
	"github.com/toyz/metagen/internal/generator"
	"github.com/toyz/metagen/internal/models"
)

// Engines supported by NewServer
const (
	EngineGin   = "gin"
	EngineEcho  = "echo"
	EngineFiber = "fiber"
)

// WebServer is the contract every engine adapter implements
type WebServer interface {
	// Handle registers a GET route; path parameters use the ":name" form
	Handle(path string, handler HandlerFunc)
	Start(addr string) error
	Stop(ctx context.Context) error
	Name() string
}

// RequestContext gives handlers what they need from a request
type RequestContext interface {
	Param(key string) string
	JSON(code int, v any) error
}

// HandlerFunc handles an inspection request
type HandlerFunc func(RequestContext) error

// HTTPError is returned by handlers to answer with a status code
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError; the message defaults to the status text
func NewHTTPError(code int, message ...string) *HTTPError {
	msg := http.StatusText(code)
	if len(message) > 0 {
		msg = message[0]
	}
	return &HTTPError{Code: code, Message: msg}
}

// errorResponse maps a handler error to a status code and body
func errorResponse(err error) (int, map[string]string) {
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.Code, map[string]string{"error": httpErr.Message}
	}
	return http.StatusInternalServerError, map[string]string{"error": err.Error()}
}

// NewServer creates the adapter for engine
func NewServer(engine string) (WebServer, error) {
	switch strings.ToLower(engine) {
	case "", EngineGin:
		return NewGinServer(), nil
	case EngineEcho:
		return NewEchoServer(), nil
	case EngineFiber:
		return NewFiberServer(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, expected one of gin, echo, fiber", engine)
	}
}

// Inspector answers model queries for a compiled model
type Inspector struct {
	compiler *compiler.Compiler
	config   generator.Config
	logger   *zap.Logger
}

// New creates an inspector for c, which should already be compiled.
// config drives the source previews of the files route.
func New(c *compiler.Compiler, config generator.Config, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{compiler: c, config: config, logger: logger}
}

// Register installs the inspection routes on server
func (i *Inspector) Register(server WebServer) {
	server.Handle("/health", i.health)
	server.Handle("/stats", i.stats)
	server.Handle("/modules", i.modules)
	server.Handle("/modules/:module", i.module)
	server.Handle("/modules/:module/objects/:object", i.object)
	server.Handle("/modules/:module/objects/:object/files", i.files)
	server.Handle("/reports", i.reports)
	i.logger.Debug("inspection routes registered", zap.String("engine", server.Name()))
}

func (i *Inspector) health(c RequestContext) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "compiled": i.compiler.IsCompiled()})
}

func (i *Inspector) stats(c RequestContext) error {
	return c.JSON(http.StatusOK, i.compiler.Stats())
}

func (i *Inspector) modules(c RequestContext) error {
	views := []ModuleView{}
	for _, module := range i.compiler.Modules() {
		views = append(views, moduleView(module))
	}
	return c.JSON(http.StatusOK, views)
}

func (i *Inspector) module(c RequestContext) error {
	module, err := i.lookupModule(c.Param("module"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moduleView(module))
}

func (i *Inspector) object(c RequestContext) error {
	object, err := i.lookupObject(c.Param("module"), c.Param("object"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, objectView(object))
}

// files renders the generated source of an object without writing it
func (i *Inspector) files(c RequestContext) error {
	object, err := i.lookupObject(c.Param("module"), c.Param("object"))
	if err != nil {
		return err
	}
	if !object.IsFinalized() {
		return NewHTTPError(http.StatusConflict, "model is not compiled")
	}
	gen, err := generator.New(i.config, i.compiler.Hooks(), i.logger)
	if err != nil {
		return err
	}
	file, err := gen.Render(object)
	if err != nil {
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"path": file.Path, "content": string(file.Content)})
}

func (i *Inspector) reports(c RequestContext) error {
	return c.JSON(http.StatusOK, reportViews(i.compiler))
}

func (i *Inspector) lookupModule(name string) (*models.Module, error) {
	module, ok := i.compiler.Module(name)
	if !ok {
		return nil, NewHTTPError(http.StatusNotFound, fmt.Sprintf("module %q not found", name))
	}
	return module, nil
}

func (i *Inspector) lookupObject(moduleName, name string) (*models.DataObject, error) {
	module, err := i.lookupModule(moduleName)
	if err != nil {
		return nil, err
	}
	object, ok := module.DataObject(name)
	if !ok {
		return nil, NewHTTPError(http.StatusNotFound, fmt.Sprintf("data object %q not found in module %q", name, moduleName))
	}
	return object, nil
}
