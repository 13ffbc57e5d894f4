// Package dsl parses metagen model files and loads them into a compiler.
//
// A model file declares one module and its choices, data objects, actions,
// reports and action bindings:
//
//	module sales "example.com/shop/gen/sales"
//
//	choice OrderStatus {
//		OPEN "Open"
//		CLOSED "Closed"
//	}
//
//	object Order "Customer order" {
//		field number "Number" string
//		field status "Status" choice OrderStatus
//		property UNIQUEIDENTIFIED
//		property VERSIONED
//	}
//
//	object ORDERLINE "Order line" {
//		property UNIQUEIDENTIFIED
//		property LINKOBJECTTOMASTER(left = Order, right = Product, priority = 20)
//	}
//
//	action SHOWPRODUCT {
//		input product objectid Product
//	}
//
//	bind SHOWPRODUCT to RIGHTFORLINKTOMASTER:ORDERLINE of Product as object
//
//	report OrderByStatus "Orders by status" on Order {
//		column status suffix "orders" index 1
//	}
package dsl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is the root of a model file
type File struct {
	Pos     lexer.Position
	Module  *ModuleDecl `parser:"@@"`
	Entries []*Entry    `parser:"@@*"`
}

// ModuleDecl names the module and its import path
type ModuleDecl struct {
	Pos  lexer.Position
	Name string `parser:"'module' @Ident"`
	Path string `parser:"@String"`
}

// Entry is one top-level declaration
type Entry struct {
	Choice *ChoiceDecl `parser:"  @@"`
	Object *ObjectDecl `parser:"| @@"`
	Action *ActionDecl `parser:"| @@"`
	Report *ReportDecl `parser:"| @@"`
	Bind   *BindDecl   `parser:"| @@"`
}

// ChoiceDecl declares a choice category
type ChoiceDecl struct {
	Pos    lexer.Position
	Name   string             `parser:"'choice' @Ident"`
	Values []*ChoiceValueDecl `parser:"'{' @@* '}'"`
}

// ChoiceValueDecl is one value of a choice
type ChoiceValueDecl struct {
	Code  string `parser:"@Ident"`
	Label string `parser:"@String?"`
}

// ObjectDecl declares a data object
type ObjectDecl struct {
	Pos     lexer.Position
	Name    string    `parser:"'object' @Ident"`
	Label   string    `parser:"@String?"`
	Members []*Member `parser:"'{' @@* '}'"`
}

// Member is a field, a property or a dependency of an object
type Member struct {
	Field    *FieldDecl    `parser:"  @@"`
	Property *PropertyDecl `parser:"| @@"`
	Depends  *DependsDecl  `parser:"| @@"`
}

// FieldDecl declares a typed field; Choice is set for choice fields
type FieldDecl struct {
	Pos    lexer.Position
	Name   string `parser:"'field' @Ident"`
	Label  string `parser:"@String?"`
	Type   string `parser:"( @('string' | 'integer' | 'decimal' | 'date')"`
	Choice string `parser:"| 'choice' @(QualifiedIdent | Ident) )"`
}

// PropertyDecl attaches a property created by kind
type PropertyDecl struct {
	Pos  lexer.Position
	Code *Code  `parser:"'property' @@"`
	Args []*Arg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

// Code is a property code, KIND or KIND:NAME
type Code struct {
	Kind string `parser:"@Ident"`
	Name string `parser:"( ':' @Ident )?"`
}

func (c *Code) String() string {
	if c.Name == "" {
		return c.Kind
	}
	return c.Kind + ":" + c.Name
}

// Arg is a named property argument
type Arg struct {
	Key   string `parser:"@Ident '='"`
	Value string `parser:"@(String | Int | QualifiedIdent | Ident)"`
}

// DependsDecl makes a property depend on a code of its own object, or on a
// property of another object when Of is set
type DependsDecl struct {
	Pos      lexer.Position
	Property *Code  `parser:"'depends' @@"`
	Target   *Code  `parser:"'on' @@"`
	Of       string `parser:"( 'of' @(QualifiedIdent | Ident) )?"`
}

// ActionDecl declares an action and its arguments
type ActionDecl struct {
	Pos       lexer.Position
	Name      string          `parser:"'action' @Ident"`
	Arguments []*ArgumentDecl `parser:"'{' @@* '}'"`
}

// ArgumentDecl is one input or output argument of an action
type ArgumentDecl struct {
	Pos       lexer.Position
	Direction string `parser:"@('input' | 'output')"`
	Name      string `parser:"@Ident"`
	ObjectID  string `parser:"(   'objectid' @(QualifiedIdent | Ident)"`
	String    bool   `parser:"  | @'string'"`
	MaxLength int    `parser:"    @Int?"`
	Integer   bool   `parser:"  | @'integer'"`
	Choice    string `parser:"  | 'choice' @(QualifiedIdent | Ident) )"`
}

// BindDecl attaches an action to a link-from-right property once it exists
type BindDecl struct {
	Pos      lexer.Position
	Action   string `parser:"'bind' @(QualifiedIdent | Ident)"`
	Property *Code  `parser:"'to' @@"`
	Object   string `parser:"'of' @(QualifiedIdent | Ident)"`
	Slot     string `parser:"'as' @('object' | 'link' | 'left')"`
}

// ReportDecl declares a report over one data object
type ReportDecl struct {
	Pos     lexer.Position
	Name    string        `parser:"'report' @Ident"`
	Label   string        `parser:"@String?"`
	Object  string        `parser:"'on' @(QualifiedIdent | Ident)"`
	Columns []*ColumnDecl `parser:"'{' @@* '}'"`
}

// ColumnDecl splits the report on a field
type ColumnDecl struct {
	Pos    lexer.Position
	Field  string `parser:"'column' @Ident"`
	Suffix string `parser:"( 'suffix' @String )?"`
	Index  int    `parser:"( 'index' @Int )?"`
}

var modelLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(#|//)[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "QualifiedIdent", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*/[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "Punct", Pattern: `[{}():,=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})
