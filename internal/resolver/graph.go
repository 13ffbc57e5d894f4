// Package resolver orders the properties of data objects so that every
// property is finalized after the properties it depends on.
package resolver

import (
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
)

// Graph is the same-object dependency graph of one data object
type Graph struct {
	object *models.DataObject
	nodes  []models.Property                     // insertion order
	edges  map[models.Property][]models.Property // property -> properties it requires
}

// NewGraph builds the graph of object from declared dependencies and
// generics bindings that point to the same object. Dependencies on codes
// absent from their object fail with MissingDependencyError. A property
// depending on itself is kept as a self edge and reported as a cycle.
func NewGraph(object *models.DataObject) (*Graph, error) {
	g := &Graph{
		object: object,
		nodes:  object.Properties(),
		edges:  make(map[models.Property][]models.Property),
	}

	for _, p := range g.nodes {
		prerequisites, err := Prerequisites(p)
		if err != nil {
			return nil, err
		}
		for _, q := range prerequisites {
			if q.Parent() == object {
				g.edges[p] = append(g.edges[p], q)
			}
		}
	}
	return g, nil
}

// Prerequisites returns every property p requires, on any object: declared
// dependencies followed by generics-bound properties, without duplicates.
func Prerequisites(p models.Property) ([]models.Property, error) {
	var result []models.Property
	seen := make(map[models.Property]bool)
	add := func(q models.Property) {
		if !seen[q] {
			seen[q] = true
			result = append(result, q)
		}
	}

	for _, dep := range p.Dependencies() {
		object := dep.Object
		if object == nil {
			object = p.Parent()
		}
		if object == nil {
			return nil, errors.NewMissingDependencyError("<unattached>", p.Code(), dep.Code)
		}
		q, err := object.PropertyByName(dep.Code)
		if err != nil {
			missing := dep.Code
			if object != p.Parent() {
				missing = object.QualifiedName() + "." + dep.Code
			}
			return nil, errors.NewMissingDependencyError(parentName(p), p.Code(), missing)
		}
		add(q)
	}

	for _, g := range p.Generics() {
		if g.Property != nil {
			add(g.Property)
		}
	}
	return result, nil
}

// Order returns the properties in dependency order. Properties with no
// relative dependency keep their insertion order.
func (g *Graph) Order() ([]models.Property, error) {
	index := make(map[models.Property]int, len(g.nodes))
	for i, p := range g.nodes {
		index[p] = i
	}

	// in-degree counts unmet prerequisites; dependents is the reverse edge list
	inDegree := make(map[models.Property]int, len(g.nodes))
	dependents := make(map[models.Property][]models.Property)
	for _, p := range g.nodes {
		inDegree[p] = len(g.edges[p])
		for _, q := range g.edges[p] {
			dependents[q] = append(dependents[q], p)
		}
	}

	var ready []models.Property
	for _, p := range g.nodes {
		if inDegree[p] == 0 {
			ready = append(ready, p)
		}
	}

	result := make([]models.Property, 0, len(g.nodes))
	for len(ready) > 0 {
		next := 0
		for i := 1; i < len(ready); i++ {
			if index[ready[i]] < index[ready[next]] {
				next = i
			}
		}
		p := ready[next]
		ready = append(ready[:next], ready[next+1:]...)
		result = append(result, p)

		for _, dependent := range dependents[p] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, errors.NewCyclicDependencyError(qualifiedCodes(g.DetectCycle()))
	}
	return result, nil
}

// DetectCycle returns the members of the first cycle found, in dependency
// order, or nil for an acyclic graph
func (g *Graph) DetectCycle() []models.Property {
	visited := make(map[models.Property]bool)
	recursionStack := make(map[models.Property]bool)
	var cycle []models.Property

	var dfs func(p models.Property, path []models.Property) bool
	dfs = func(p models.Property, path []models.Property) bool {
		visited[p] = true
		recursionStack[p] = true
		path = append(path, p)

		for _, q := range g.edges[p] {
			if !visited[q] {
				if dfs(q, path) {
					return true
				}
			} else if recursionStack[q] {
				for i, member := range path {
					if member == q {
						cycle = append([]models.Property(nil), path[i:]...)
						return true
					}
				}
			}
		}

		recursionStack[p] = false
		return false
	}

	for _, p := range g.nodes {
		if !visited[p] && dfs(p, nil) {
			return cycle
		}
	}
	return nil
}

func qualifiedCodes(properties []models.Property) []string {
	codes := make([]string, len(properties))
	for i, p := range properties {
		codes[i] = p.QualifiedCode()
	}
	return codes
}

func parentName(p models.Property) string {
	if p.Parent() == nil {
		return "<unattached>"
	}
	return p.Parent().QualifiedName()
}
