package generator

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/metagen/internal/errors"
)

const fileHeader = `// Code generated by metagen. DO NOT EDIT.

package {{.Package}}

{{.Imports}}`

const objectTemplate = fileHeader + `
// {{.Class}}TypeID identifies {{.QualifiedName}} in the runtime store.
const {{.Class}}TypeID rt.TypeID = {{quote .TypeID}}

// {{.Class}} is the {{.Label}} data object.
type {{.Class}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
{{- range .Properties}}
	{{.Field}} {{.Type}}
{{- end}}
}

// New{{.Class}} creates a {{.Class}} with every property initialized.
func New{{.Class}}() *{{.Class}} {
	o := &{{.Class}}{}
{{- range .Properties}}{{range .Init}}
	{{.}}
{{- end}}{{end}}
	return o
}

// Extract{{.Class}} reads a {{.Class}} from a stored row.
func Extract{{.Class}}(row rt.Row) *{{.Class}} {
	o := New{{.Class}}()
{{- range .Fields}}
	o.{{.Name}} = {{.Extract}}
{{- end}}
{{- range .Properties}}{{range .Extract}}
	{{.}}
{{- end}}{{end}}
	return o
}

// DeepCopy returns a copy of o sharing no property state.
func (o *{{.Class}}) DeepCopy() *{{.Class}} {
	c := *o
{{- range .Properties}}{{range .DeepCopy}}
	{{.}}
{{- end}}{{end}}
	return &c
}
{{- range .Properties}}{{if .Label}}

// {{.Class}}Label returns the label given by the {{.Code}} property.
func (o *{{$.Class}}) {{.Class}}Label() string {
	return {{.Label}}
}
{{- end}}{{if .Payload}}

// {{.Class}}Payload returns the payload of the {{.Code}} property.
func (o *{{$.Class}}) {{.Class}}Payload() {{.PayloadType}} {
	return {{.Payload}}
}
{{- end}}{{end}}
{{- range .Methods}}

// {{.Name}} runs the {{.Kind}} method of the {{.Owner}} property.
func (o *{{$.Class}}) {{.Name}}(ctx context.Context, store rt.Store) error {
{{- range .Before}}
	if err := o.{{.}}(ctx, store); err != nil {
		return err
	}
{{- end}}
{{- range .Body}}
	{{.}}
{{- end}}
{{- range .After}}
	if err := o.{{.}}(ctx, store); err != nil {
		return err
	}
{{- end}}
	return nil
}
{{- end}}
{{- range .Hooks}}

// {{.Name}} runs {{.Phase}} {{.Method}} on behalf of {{.Declaring}}.
func (o *{{$.Class}}) {{.Name}}(ctx context.Context, store rt.Store) error {
{{- range .Body}}
	{{.}}
{{- end}}
	return nil
}
{{- end}}
{{- range .Dependent}}

{{lines .}}
{{- end}}
{{- range .Widgets}}

{{lines .}}
{{- end}}
`

const choicesTemplate = fileHeader + `
{{- range .Choices}}

// {{.Class}} lists the values of the {{.Name}} choice.
type {{.Class}} struct{}

// Values returns the {{.Name}} values in declaration order.
func ({{.Class}}) Values() []rt.ChoiceEntry {
	return []rt.ChoiceEntry{
{{- range .Values}}
		{Code: {{quote .Code}}, Label: {{quote .Label}}},
{{- end}}
	}
}
{{- end}}
`

const actionsTemplate = fileHeader + `
{{- range .Actions}}

// {{.Class}}Input holds the input arguments of {{.Name}}.
type {{.Class}}Input struct {
{{- range .Inputs}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Class}}Output holds the output arguments of {{.Name}}.
type {{.Class}}Output struct {
{{- range .Outputs}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Class}}Name is the qualified name of the action.
const {{.Class}}Name = {{quote .QualifiedName}}
{{- end}}
`

const reportTemplate = fileHeader + `
// {{.Class}} is the {{.Label}} report on {{.Object}}.
var {{.Class}} = rt.Report[*{{.Object}}]{
	Name:  {{quote .Name}},
	Label: {{quote .Label}},
	Columns: []rt.Column[*{{.Object}}]{
{{- range .Columns}}
		rt.NewColumn({{.Label}}, {{.Payload}}, {{.Index}}, {{.ValueFunc}}),
{{- end}}
	},
}
{{- range .Columns}}

// {{.ValueFunc}} computes the column label of one {{$.Object}}.
func {{.ValueFunc}}({{.Step}} *{{$.Object}}) string {
{{- range .Value}}
	{{.}}
{{- end}}
	return columnvalue
}
{{- end}}
`

// TemplateRegistry holds the parsed templates of generated files
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry parses every generated file template
func NewTemplateRegistry() (*TemplateRegistry, error) {
	registry := &TemplateRegistry{templates: make(map[string]*template.Template)}
	sources := map[string]string{
		"object":  objectTemplate,
		"choices": choicesTemplate,
		"actions": actionsTemplate,
		"report":  reportTemplate,
	}
	for name, source := range sources {
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(source)
		if err != nil {
			return nil, errors.WrapTemplateError(name, "parse", err)
		}
		registry.templates[name] = tmpl
	}
	return registry, nil
}

// Execute renders the named template with data
func (r *TemplateRegistry) Execute(name string, data interface{}) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, errors.Newf(errors.TemplateErrorCode, "template '%s' is not registered", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.WrapTemplateError(name, "execute", err)
	}
	return buf.Bytes(), nil
}

var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
	"lines": func(lines []string) string { return strings.Join(lines, "\n") },
}
