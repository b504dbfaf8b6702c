// Package tmpl renders user-supplied text templates for CLI output.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

// DefaultTimeLayout is used by ts when no layout is given.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// timestamp formats Unix milliseconds in the local zone.
func timestamp(ms int64, layout ...string) string {
	l := DefaultTimeLayout
	if len(layout) > 0 && layout[0] != "" {
		l = layout[0]
	}
	return time.UnixMilli(ms).Format(l)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(n int, s string) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// oneline folds newlines so a record stays on a single line.
func oneline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var funcs = template.FuncMap{
	"ts":      timestamp,
	"trunc":   truncate,
	"oneline": oneline,
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
}

// Template is a parsed template that can be executed repeatedly.
type Template struct {
	t *template.Template
}

// Parse compiles a template. Undefined keys are errors at execution time.
//
// Available template functions:
//   - ts: format Unix milliseconds, optionally with a Go time layout
//   - trunc: shorten a string to N runes
//   - oneline: collapse whitespace and newlines to single spaces
//   - upper, lower: change case
func Parse(text string) (*Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Execute renders the template with data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render parses and executes a template in one step.
func Render(text string, data any) (string, error) {
	t, err := Parse(text)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
