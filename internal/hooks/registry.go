// Package hooks merges method additional processing declared by properties
// into per-method ordered lists.
package hooks

import (
	"sort"

	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
)

// Key identifies a hook slot of a data access method
type Key struct {
	Object   string // qualified data object name
	Property string // property code owning the method
	Method   models.MethodKind
	Phase    models.Phase
}

// KeyOf returns the slot of a hook
func KeyOf(method models.DataAccessMethod, phase models.Phase) Key {
	return Key{
		Object:   method.Owner.Parent().QualifiedName(),
		Property: method.Owner.Code(),
		Method:   method.Kind,
		Phase:    phase,
	}
}

// Registry manages the hooks of every data access method
type Registry struct {
	logger *zap.Logger
	hooks  map[Key][]*models.MethodAdditionalProcessing
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		hooks:  make(map[Key][]*models.MethodAdditionalProcessing),
	}
}

// Register adds a hook whose target is attached and whose declaring property is settled
func (r *Registry) Register(hook *models.MethodAdditionalProcessing) error {
	declaring := hook.Declaring()
	if declaring == nil {
		return errors.NewUnresolvedHookTargetError("<unknown>", hook.Method.String(), string(hook.Method.Kind),
			"hook was never added to a property")
	}
	owner := hook.Method.Owner
	if owner == nil || owner.Parent() == nil {
		return errors.NewUnresolvedHookTargetError(declaring.QualifiedCode(), hook.Method.String(), string(hook.Method.Kind),
			"target property is not attached")
	}
	if !models.IsSettled(declaring) || !models.IsSettled(owner) {
		return errors.NewIllegalStateError(owner.Parent().QualifiedName(), "merge hook "+hook.FuncName(),
			"properties must be resolved before their hooks are merged")
	}

	key := KeyOf(hook.Method, hook.Phase)
	for _, existing := range r.hooks[key] {
		if existing == hook {
			return nil
		}
	}
	list := append(r.hooks[key], hook)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Sequence() < list[j].Sequence() })
	r.hooks[key] = list

	r.logger.Debug("hook merged",
		zap.String("method", hook.Method.String()),
		zap.String("phase", hook.Phase.String()),
		zap.String("declaring", declaring.QualifiedCode()))
	return nil
}

// Collect registers every hook declared by properties of the modules' objects
func (r *Registry) Collect(modules ...*models.Module) error {
	for _, module := range modules {
		for _, object := range module.DataObjects() {
			for _, p := range object.Properties() {
				for _, hook := range p.AdditionalProcessing() {
					if err := r.Register(hook); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Hooks returns the hooks of method for phase, in registration order
func (r *Registry) Hooks(method models.DataAccessMethod, phase models.Phase) []*models.MethodAdditionalProcessing {
	if method.Owner == nil || method.Owner.Parent() == nil {
		return nil
	}
	return r.hooks[KeyOf(method, phase)]
}

// Before returns the hooks running ahead of the core body of method
func (r *Registry) Before(method models.DataAccessMethod) []*models.MethodAdditionalProcessing {
	return r.Hooks(method, models.Before)
}

// After returns the hooks running after the core body of method
func (r *Registry) After(method models.DataAccessMethod) []*models.MethodAdditionalProcessing {
	return r.Hooks(method, models.After)
}

// HasHooks returns true if any hook targets method
func (r *Registry) HasHooks(method models.DataAccessMethod) bool {
	return len(r.Before(method)) > 0 || len(r.After(method)) > 0
}

// Size returns the number of merged hooks
func (r *Registry) Size() int {
	total := 0
	for _, list := range r.hooks {
		total += len(list)
	}
	return total
}
