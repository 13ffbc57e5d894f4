package cli

import (
	"fmt"
	"path"

	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// ModuleResolver gives import paths to modules declared without one
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// ResolveBasePath returns the import path of outputDir: configured, or
// derived from the go.mod that contains it
func (r *ModuleResolver) ResolveBasePath(configured, outputDir string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	base, err := r.gomod.ResolveImportPath(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module path: %w (consider setting module_path)", err)
	}
	return base, nil
}

// Apply sets "<base>/<package>" on every module with an empty import path.
// base is only resolved when some module needs it.
func (r *ModuleResolver) Apply(modules []*models.Module, configured, outputDir string) error {
	var base string
	for _, module := range modules {
		if module.Path != "" {
			continue
		}
		if base == "" {
			resolved, err := r.ResolveBasePath(configured, outputDir)
			if err != nil {
				return err
			}
			base = resolved
		}
		module.Path = path.Join(base, module.PackageName())
	}
	return nil
}
