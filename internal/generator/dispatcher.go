// Package generator emits Go source for finalized data objects, their
// module's choices and actions, and reports.
package generator

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/generics"
	"github.com/toyz/metagen/internal/hooks"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/report"
	"github.com/toyz/metagen/internal/utils"
)

// DefaultRuntimePackage is the runtime imported by generated code as rt
const DefaultRuntimePackage = "github.com/toyz/metagen/pkg/rt"

// runtimeAlias is the import alias of the runtime package in generated code
const runtimeAlias = "rt"

// Config controls where and how files are generated
type Config struct {
	OutputDir      string
	RuntimePackage string
	// Format runs the goimports format pass on generated source
	Format bool
	// Parallel bounds concurrent module generation, 0 for no limit
	Parallel int
}

// File is one rendered source file
type File struct {
	Path    string
	Content []byte
}

// Result reports what happened to one generated file
type Result struct {
	Path    string
	Written bool
}

// Generator dispatches code generation to the properties of finalized objects
type Generator struct {
	config    Config
	hooks     *hooks.Registry
	templates *TemplateRegistry
	logger    *zap.Logger
}

// New creates a generator. hookRegistry must hold the merged hooks of every module generated.
func New(config Config, hookRegistry *hooks.Registry, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RuntimePackage == "" {
		config.RuntimePackage = DefaultRuntimePackage
	}
	if hookRegistry == nil {
		hookRegistry = hooks.NewRegistry(logger)
	}
	templates, err := NewTemplateRegistry()
	if err != nil {
		return nil, err
	}
	return &Generator{config: config, hooks: hookRegistry, templates: templates, logger: logger}, nil
}

// ModuleDir returns the output directory of a module's generated package
func (g *Generator) ModuleDir(module *models.Module) string {
	return filepath.Join(g.config.OutputDir, module.PackageName())
}

// TypeID returns the stable identifier of object's generated type
func TypeID(object *models.DataObject) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(generics.QualifiedTypeName(object)))
}

// Render builds the source file of a finalized object without writing it
func (g *Generator) Render(object *models.DataObject) (*File, error) {
	if !object.IsFinalized() {
		err := errors.NewIllegalStateError(object.QualifiedName(), "generate", "data object is not finalized")
		err.WithSuggestion("Resolve the model before generating it")
		return nil, err
	}
	data, err := g.objectData(object)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(g.ModuleDir(object.Module()), utils.FileName(object.Name)+"_gen.go")
	return g.render("object", path, object.QualifiedName(), data)
}

// Generate renders object and writes its file when the content changed
func (g *Generator) Generate(object *models.DataObject) (Result, error) {
	file, err := g.Render(object)
	if err != nil {
		return Result{}, err
	}
	return g.write(object.QualifiedName(), file)
}

// RenderModule renders every file of module: objects in declaration order,
// then choices and actions when the module declares any. Nothing is returned
// when one file fails.
func (g *Generator) RenderModule(module *models.Module) ([]*File, error) {
	var files []*File
	for _, object := range module.DataObjects() {
		file, err := g.Render(object)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if len(module.Choices()) > 0 {
		file, err := g.renderChoices(module)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if len(module.Actions()) > 0 {
		file, err := g.renderActions(module)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// GenerateModule renders every file of module, then writes them.
// No file of the module is written when rendering fails.
func (g *Generator) GenerateModule(module *models.Module) ([]Result, error) {
	files, err := g.RenderModule(module)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(files))
	for _, file := range files {
		result, err := g.write(module.Name, file)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	g.logger.Info("module generated",
		zap.String("module", module.Name),
		zap.Int("files", len(results)),
		zap.Int("written", countWritten(results)))
	return results, nil
}

// GenerateAll generates modules concurrently. Models are read only.
func (g *Generator) GenerateAll(ctx context.Context, modules []*models.Module) ([]Result, error) {
	group, ctx := errgroup.WithContext(ctx)
	if g.config.Parallel > 0 {
		group.SetLimit(g.config.Parallel)
	}

	perModule := make([][]Result, len(modules))
	for i, module := range modules {
		i, module := i, module
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results, err := g.GenerateModule(module)
			perModule[i] = results
			return err
		})
	}
	err := group.Wait()

	var all []Result
	for _, results := range perModule {
		all = append(all, results...)
	}
	return all, err
}

// RenderReport builds the source file of a report
func (g *Generator) RenderReport(r *report.Report) (*File, error) {
	module := r.Module()
	if module == nil {
		return nil, errors.NewIllegalStateError(r.Name, "generate report", "report node has no module")
	}
	data, err := g.reportData(r)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(g.ModuleDir(module), utils.FileName(r.Name)+"_report_gen.go")
	return g.render("report", path, r.Name, data)
}

// GenerateReport renders and writes a report file
func (g *Generator) GenerateReport(r *report.Report) (Result, error) {
	file, err := g.RenderReport(r)
	if err != nil {
		return Result{}, err
	}
	return g.write(r.Name, file)
}

func (g *Generator) render(name, path, subject string, data interface{}) (*File, error) {
	content, err := g.templates.Execute(name, data)
	if err != nil {
		return nil, errors.NewGenerationError(subject, "", "template", err)
	}
	if g.config.Format {
		content, err = utils.FormatGoCode(filepath.Base(path), content)
		if err != nil {
			return nil, errors.NewGenerationError(subject, "", "format", err)
		}
	}
	return &File{Path: path, Content: content}, nil
}

func (g *Generator) write(subject string, file *File) (Result, error) {
	written, err := utils.WriteFileAtomic(file.Path, file.Content, 0o644)
	if err != nil {
		return Result{}, errors.NewGenerationError(subject, "", "write", errors.WrapFileSystemError("write", file.Path, err))
	}
	g.logger.Debug("file generated", zap.String("path", file.Path), zap.Bool("written", written))
	return Result{Path: file.Path, Written: written}, nil
}

// newImports starts the import set of a generated file with the runtime package
func (g *Generator) newImports() *ImportSet {
	imports := NewImportSet()
	_ = imports.AddPackage(runtimeAlias, g.config.RuntimePackage)
	return imports
}

func countWritten(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Written {
			n++
		}
	}
	return n
}

// sortWidgets orders widgets by display priority, keeping creation order for equal priorities
func sortWidgets(widgets []models.Widget) {
	sort.SliceStable(widgets, func(i, j int) bool {
		return widgets[i].DisplayPriority() < widgets[j].DisplayPriority()
	})
}
