package models

import (
	"sync/atomic"

	"github.com/toyz/metagen/internal/utils"
)

// MethodKind names a generated data access method
type MethodKind string

const (
	MethodCreate MethodKind = "CREATE"
	MethodUpdate MethodKind = "UPDATE"
	MethodDelete MethodKind = "DELETE"
)

// Verb is the Go verb used in generated method names
func (k MethodKind) Verb() string {
	switch k {
	case MethodCreate:
		return "Insert"
	default:
		return utils.ClassName(string(k))
	}
}

// DataAccessMethod is a generated method owned by a property, which emits its core body
type DataAccessMethod struct {
	Kind  MethodKind
	Owner Property
}

// FuncName returns the generated method name, e.g. "DeleteVersioned"
func (m DataAccessMethod) FuncName() string {
	return m.Kind.Verb() + m.Owner.base().ClassName()
}

// String returns "module/object.CODE#KIND"
func (m DataAccessMethod) String() string {
	if m.Owner == nil {
		return "#" + string(m.Kind)
	}
	return m.Owner.QualifiedCode() + "#" + string(m.Kind)
}

// Phase places a hook relative to the core method body
type Phase int

const (
	Before Phase = iota
	After
)

func (p Phase) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

var hookSequence atomic.Uint64

func nextHookSequence() uint64 {
	return hookSequence.Add(1)
}

// MethodAdditionalProcessing is a hook woven into another property's data access method
type MethodAdditionalProcessing struct {
	Phase  Phase
	Method DataAccessMethod

	declaring Property
	sequence  uint64
}

// NewMethodAdditionalProcessing creates a hook on method
func NewMethodAdditionalProcessing(phase Phase, method DataAccessMethod) *MethodAdditionalProcessing {
	return &MethodAdditionalProcessing{Phase: phase, Method: method}
}

// Declaring returns the property that registered the hook
func (h *MethodAdditionalProcessing) Declaring() Property {
	return h.declaring
}

// Sequence returns the global registration rank of the hook
func (h *MethodAdditionalProcessing) Sequence() uint64 {
	return h.sequence
}

// FuncName returns the generated hook function name,
// e.g. "beforeDeleteVersionedRightforlinktomasterOrderline"
func (h *MethodAdditionalProcessing) FuncName() string {
	name := h.Phase.String() + h.Method.FuncName()
	if h.declaring != nil {
		name += h.declaring.base().ClassName()
	}
	return name
}
