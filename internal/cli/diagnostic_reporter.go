package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/metagen/internal/errors"
)

// DiagnosticReporter prints metagen errors with their context and suggestions
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{out: out, verbose: verbose}
}

// ReportError prints err; every error of a MultipleErrors is reported in turn
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if errors.As(err, &multi) && multi.Count() > 1 {
		r.printHeader(fmt.Sprintf("%d model errors", multi.Count()))
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "%d. ", i+1)
			r.reportOne(e)
		}
		return
	}

	var me errors.MetagenError
	if errors.As(err, &me) {
		r.printHeader(me.Category().String())
		r.reportOne(err)
		return
	}

	r.printHeader("Error")
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

// ReportWarning prints a warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

func (r *DiagnosticReporter) reportOne(err error) {
	var me errors.MetagenError
	if !errors.As(err, &me) {
		fmt.Fprintf(r.out, "%s\n\n", err.Error())
		return
	}

	fmt.Fprintf(r.out, "%s: %s\n", me.ErrorCode(), err.Error())
	if context := me.Context(); len(context) > 0 {
		r.printContext(context)
	}
	if suggestions := me.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
	if r.verbose {
		r.printChain(me.Unwrap())
	}
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printHeader(title string) {
	bold := color.New(color.FgRed, color.Bold)
	bold.Fprintf(r.out, "\n%s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("=", len(title)))
}

// printContext prints context keys sorted, object and property first
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "   Context:\n")
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	rank := func(key string) int {
		switch key {
		case "object":
			return 0
		case "property":
			return 1
		default:
			return 2
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if rank(keys[i]) != rank(keys[j]) {
			return rank(keys[i]) < rank(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		value := context[key]
		if value == "" || value == nil {
			continue
		}
		fmt.Fprintf(r.out, "      %s: %v\n", formatContextKey(key), value)
	}
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "   Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "      %d. %s\n", i+1, suggestion)
	}
}

// printChain prints the wrapped causes in verbose mode
func (r *DiagnosticReporter) printChain(cause error) {
	level := 1
	for cause != nil {
		if level == 1 {
			fmt.Fprintf(r.out, "   Error chain:\n")
		}
		fmt.Fprintf(r.out, "      %d. %s\n", level, cause.Error())
		cause = errors.Unwrap(cause)
		level++
	}
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
