package resolver

import (
	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

// Resolver finalizes data objects. Prerequisites living on other objects are
// settled on demand, one property at a time, so link relationships between
// objects do not need an object-level order.
type Resolver struct {
	logger *zap.Logger
	state  map[models.Property]visitState
	stack  []models.Property
}

// New creates a resolver
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger: logger,
		state:  make(map[models.Property]visitState),
	}
}

// Resolve finalizes every data object of the modules, in declaration order
func (r *Resolver) Resolve(modules ...*models.Module) error {
	for _, module := range modules {
		for _, object := range module.DataObjects() {
			if _, err := r.ResolveObject(object); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveObject computes the property order of object, settles every property
// in that order and finalizes the object. An already finalized object returns
// its stored order.
func (r *Resolver) ResolveObject(object *models.DataObject) ([]models.Property, error) {
	if object.IsFinalized() {
		return object.OrderedProperties()
	}

	graph, err := NewGraph(object)
	if err != nil {
		return nil, err
	}
	order, err := graph.Order()
	if err != nil {
		return nil, err
	}

	for _, p := range order {
		if err := r.settle(p); err != nil {
			return nil, err
		}
	}

	if err := object.Finalize(order); err != nil {
		return nil, err
	}

	r.logger.Debug("data object finalized",
		zap.String("object", object.QualifiedName()),
		zap.Strings("order", qualifiedCodes(order)))
	return order, nil
}

// settle finalizes p after all its prerequisites, following them across
// objects. A failed settle leaves p unvisited so the resolver can run again.
func (r *Resolver) settle(p models.Property) error {
	switch r.state[p] {
	case done:
		return nil
	case visiting:
		return errors.NewCyclicDependencyError(qualifiedCodes(r.chainFrom(p)))
	}

	r.state[p] = visiting
	r.stack = append(r.stack, p)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		if r.state[p] == visiting {
			delete(r.state, p)
		}
	}()

	prerequisites, err := Prerequisites(p)
	if err != nil {
		return err
	}
	for _, q := range prerequisites {
		if q.Parent() != p.Parent() {
			r.logger.Debug("settling cross-object prerequisite",
				zap.String("property", p.QualifiedCode()),
				zap.String("prerequisite", q.QualifiedCode()))
		}
		if err := r.settle(q); err != nil {
			return err
		}
	}

	if err := models.SettleProperty(p); err != nil {
		return err
	}
	r.state[p] = done
	return nil
}

// chainFrom returns the settle stack from p to its top
func (r *Resolver) chainFrom(p models.Property) []models.Property {
	for i, member := range r.stack {
		if member == p {
			return append([]models.Property(nil), r.stack[i:]...)
		}
	}
	return []models.Property{p}
}
