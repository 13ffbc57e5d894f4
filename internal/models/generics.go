package models

import (
	"fmt"
	"strings"
)

// Capability is something a property offers to generics bound on it
type Capability string

const (
	// CapabilityIdentity marks a property that gives its object a unique identifier
	CapabilityIdentity Capability = "identity-bearing"
	// CapabilityVersioned marks a property that keeps object versions
	CapabilityVersioned Capability = "versioned"
	// CapabilityLink marks a property that turns its object into a link between two objects
	CapabilityLink Capability = "link"
)

// GenericParameter is a role a property kind must be bound with
type GenericParameter struct {
	Role         string
	PropertyKind string       // required kind of the bound property, empty for any
	Capabilities []Capability // capabilities the bound property must offer
}

// Expectation describes the parameter contract for error messages
func (g GenericParameter) Expectation() string {
	var parts []string
	if g.PropertyKind != "" {
		parts = append(parts, "property of kind "+g.PropertyKind)
	}
	for _, c := range g.Capabilities {
		parts = append(parts, string(c))
	}
	if len(parts) == 0 {
		return "any attached property"
	}
	return strings.Join(parts, " and ")
}

// Accepts reports whether p satisfies the parameter, with a description of p otherwise
func (g GenericParameter) Accepts(p Property) (bool, string) {
	actual := fmt.Sprintf("property %s of kind %s", p.QualifiedCode(), p.Kind())
	if g.PropertyKind != "" && p.Kind() != g.PropertyKind {
		return false, actual
	}
	for _, required := range g.Capabilities {
		if !HasCapability(p, required) {
			return false, actual + " without " + string(required)
		}
	}
	return true, ""
}

// HasCapability reports whether p offers capability
func HasCapability(p Property, capability Capability) bool {
	for _, c := range p.Capabilities() {
		if c == capability {
			return true
		}
	}
	return false
}

// PropertyGenerics binds a role of a property to another object and one of its properties
type PropertyGenerics struct {
	Role     string
	Object   *DataObject
	Property Property
}

// NewPropertyGenerics creates a binding record
func NewPropertyGenerics(role string, object *DataObject, property Property) *PropertyGenerics {
	return &PropertyGenerics{Role: role, Object: object, Property: property}
}

// String describes the binding as "ROLE=module/object.CODE"
func (g *PropertyGenerics) String() string {
	target := "<nil>"
	if g.Property != nil {
		target = g.Property.QualifiedCode()
	} else if g.Object != nil {
		target = g.Object.QualifiedName()
	}
	return g.Role + "=" + target
}
