package models

// Widget is a nested UI element generated for a property. It refers back
// to its property without owning it.
type Widget interface {
	Name() string
	Property() Property
	DisplayPriority() int
	ImportStatements() []string
	Code() []string
}
