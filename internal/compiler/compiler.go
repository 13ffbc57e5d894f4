// Package compiler runs the metagen pipeline: property control, generics
// validation, dependency resolution, hook collection and generation.
package compiler

import (
	"context"

	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/generator"
	"github.com/toyz/metagen/internal/generics"
	"github.com/toyz/metagen/internal/hooks"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/report"
	"github.com/toyz/metagen/internal/resolver"
	"github.com/toyz/metagen/internal/utils"
)

// Stats summarizes a compilation
type Stats struct {
	Modules    int `json:"modules"`
	Objects    int `json:"objects"`
	Properties int `json:"properties"`
	Bound      int `json:"bound"` // properties with generics bindings
	Hooks      int `json:"hooks"`
}

// Compiler owns the modules of one run and the engines that process them
type Compiler struct {
	logger   *zap.Logger
	engine   *generics.Engine
	resolver *resolver.Resolver
	hooks    *hooks.Registry
	modules  *utils.BaseRegistry[string, *models.Module]
	reports  []*report.Report
	after    []func() error
	compiled bool
}

// New creates an empty compiler
func New(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	modules := utils.NewBaseRegistry[string, *models.Module]("compiler", "module", "module")
	modules.SetValidator(func(name string, module *models.Module, existing map[string]*models.Module) error {
		if _, ok := existing[name]; ok {
			return errors.NewDuplicateObjectError("compiler", name)
		}
		return nil
	})
	return &Compiler{
		logger:   logger,
		engine:   generics.NewEngine(logger),
		resolver: resolver.New(logger),
		hooks:    hooks.NewRegistry(logger),
		modules:  modules,
	}
}

// AddModule adds a module to compile
func (c *Compiler) AddModule(module *models.Module) error {
	if c.compiled {
		return errors.NewIllegalStateError(module.Name, "add module", "compilation already ran")
	}
	return c.modules.Register(module.Name, module)
}

// Module looks up a module by name
func (c *Compiler) Module(name string) (*models.Module, bool) {
	return c.modules.Get(name)
}

// Modules returns the modules in the order they were added
func (c *Compiler) Modules() []*models.Module {
	return c.modules.Values()
}

// AddReport adds a report generated with the modules
func (c *Compiler) AddReport(r *report.Report) error {
	if c.compiled {
		return errors.NewIllegalStateError(r.Name, "add report", "compilation already ran")
	}
	c.reports = append(c.reports, r)
	return nil
}

// Reports returns the reports in the order they were added
func (c *Compiler) Reports() []*report.Report {
	return c.reports
}

// AfterControl registers fn to run once every property is controlled,
// before generics are validated. Steps that need instantiated properties use it.
func (c *Compiler) AfterControl(fn func() error) {
	c.after = append(c.after, fn)
}

// Engine returns the generics engine
func (c *Compiler) Engine() *generics.Engine { return c.engine }

// Hooks returns the merged hook registry, filled by Compile
func (c *Compiler) Hooks() *hooks.Registry { return c.hooks }

// IsCompiled reports whether Compile succeeded
func (c *Compiler) IsCompiled() bool { return c.compiled }

// Compile completes and freezes the model. Control and generics errors are
// collected across properties; resolution stops at the first error.
func (c *Compiler) Compile() (Stats, error) {
	if c.compiled {
		return c.stats(), nil
	}
	modules := c.Modules()

	if err := c.control(modules); err != nil {
		return Stats{}, err
	}
	for _, fn := range c.after {
		if err := fn(); err != nil {
			return Stats{}, err
		}
	}
	c.after = nil
	if err := c.validate(modules); err != nil {
		return Stats{}, err
	}
	if err := c.resolver.Resolve(modules...); err != nil {
		return Stats{}, err
	}
	if err := c.hooks.Collect(modules...); err != nil {
		return Stats{}, err
	}
	for _, module := range modules {
		module.Freeze()
	}
	c.compiled = true

	stats := c.stats()
	c.logger.Info("model compiled",
		zap.Int("modules", stats.Modules),
		zap.Int("objects", stats.Objects),
		zap.Int("properties", stats.Properties),
		zap.Int("bound", stats.Bound),
		zap.Int("hooks", stats.Hooks))
	return stats, nil
}

// Generate compiles the model if needed, then generates every module
// concurrently and every report
func (c *Compiler) Generate(ctx context.Context, config generator.Config) ([]generator.Result, error) {
	if _, err := c.Compile(); err != nil {
		return nil, err
	}
	g, err := generator.New(config, c.hooks, c.logger)
	if err != nil {
		return nil, err
	}
	results, err := g.GenerateAll(ctx, c.Modules())
	if err != nil {
		return results, err
	}
	for _, r := range c.reports {
		result, err := g.GenerateReport(r)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// control runs ControlAfterParentDefinition on every property until no
// property is left, including properties instantiated by other properties
func (c *Compiler) control(modules []*models.Module) error {
	ctx := &definitionContext{engine: c.engine, logger: c.logger}
	collected := errors.NewMultipleErrors()
	for round := 1; ; round++ {
		ran := 0
		for _, module := range modules {
			for _, object := range module.DataObjects() {
				for _, p := range object.Properties() {
					did, err := models.ControlProperty(p, ctx)
					if did {
						ran++
					}
					if err != nil {
						if !collect(collected, err) {
							return err
						}
					}
				}
			}
		}
		c.logger.Debug("control round", zap.Int("round", round), zap.Int("properties", ran))
		if ran == 0 {
			break
		}
	}
	return collected.ErrOrNil()
}

// validate checks the generics every property recorded on its own
func (c *Compiler) validate(modules []*models.Module) error {
	collected := errors.NewMultipleErrors()
	for _, module := range modules {
		for _, object := range module.DataObjects() {
			for _, p := range object.Properties() {
				if err := c.engine.Validate(p); err != nil {
					if !collect(collected, err) {
						return err
					}
				}
			}
		}
	}
	return collected.ErrOrNil()
}

// Stats counts the model as it currently stands
func (c *Compiler) Stats() Stats {
	return c.stats()
}

func (c *Compiler) stats() Stats {
	stats := Stats{
		Modules: c.modules.Size(),
		Bound:   len(c.engine.Bound()),
		Hooks:   c.hooks.Size(),
	}
	for _, module := range c.Modules() {
		for _, object := range module.DataObjects() {
			stats.Objects++
			stats.Properties += len(object.Properties())
		}
	}
	return stats
}

// collect adds err to collected when it is a metagen error
func collect(collected *errors.MultipleErrors, err error) bool {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		for _, e := range multi.Errors {
			collected.Add(e)
		}
		return true
	}
	var me errors.MetagenError
	if !errors.As(err, &me) {
		return false
	}
	collected.Add(me)
	return true
}

// definitionContext is what properties see while the model is completed
type definitionContext struct {
	engine *generics.Engine
	logger *zap.Logger
}

func (d *definitionContext) Bind(template models.Property, role string, object *models.DataObject) (*models.PropertyGenerics, error) {
	return d.engine.Bind(template, role, object)
}

func (d *definitionContext) Instantiate(template models.Property, target *models.DataObject, bindings ...*models.PropertyGenerics) error {
	return d.engine.Instantiate(template, target, bindings...)
}

func (d *definitionContext) Logger() *zap.Logger { return d.logger }
