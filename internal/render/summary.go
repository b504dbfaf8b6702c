package render

import (
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/hay-kot/chatlens/internal/styles"
)

// annotationPattern matches "[left·right]" spans in a summary.
var annotationPattern = regexp.MustCompile(`\[([^\]]+)·([^\]]+)\]`)

// Decorator turns the pieces of a summary into an output format.
type Decorator interface {
	// Text decorates plain text containing no newlines.
	Text(s string) string
	// LineBreak replaces each newline.
	LineBreak() string
	// Annotation wraps a matched span. left and right are already
	// decorated with Text and LineBreak.
	Annotation(left, right string) string
}

// FormatSummary rewrites s for a Decorator: annotations go through
// Annotation, newlines through LineBreak and everything else through Text.
// No other markup is interpreted.
func FormatSummary(s string, d Decorator) string {
	var b strings.Builder
	last := 0
	for _, m := range annotationPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(plain(s[last:m[0]], d))
		b.WriteString(d.Annotation(plain(s[m[2]:m[3]], d), plain(s[m[4]:m[5]], d)))
		last = m[1]
	}
	b.WriteString(plain(s[last:], d))
	return b.String()
}

func plain(s string, d Decorator) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = d.Text(l)
	}
	return strings.Join(lines, d.LineBreak())
}

// Summary writes a formatted summary, or the placeholder when it is empty.
func Summary(w io.Writer, summary string, d Decorator) error {
	if summary == "" {
		_, err := io.WriteString(w, d.Text(NoSummary)+"\n")
		return err
	}
	_, err := io.WriteString(w, FormatSummary(summary, d)+"\n")
	return err
}

// Plain reproduces the summary unchanged.
type Plain struct{}

func (Plain) Text(s string) string { return s }
func (Plain) LineBreak() string    { return "\n" }
func (Plain) Annotation(left, right string) string {
	return "[" + left + "·" + right + "]"
}

// Terminal highlights annotations with lipgloss styles.
type Terminal struct{}

func (Terminal) Text(s string) string { return s }
func (Terminal) LineBreak() string    { return "\n" }
func (Terminal) Annotation(left, right string) string {
	return styles.AnnotationStyle.Render("["+left) +
		styles.AnnotationDetailStyle.Render("·"+right) +
		styles.AnnotationStyle.Render("]")
}

// HTML escapes text and marks annotations with spans.
type HTML struct{}

func (HTML) Text(s string) string { return html.EscapeString(s) }
func (HTML) LineBreak() string    { return "<br>" }
func (HTML) Annotation(left, right string) string {
	return `<span class="font-semibold text-indigo-700">[` + left +
		`<span class="text-gray-600">·` + right + `</span>]</span>`
}

// Markdown emphasizes annotations and keeps line breaks hard.
type Markdown struct{}

func (Markdown) Text(s string) string { return s }
func (Markdown) LineBreak() string    { return "  \n" }
func (Markdown) Annotation(left, right string) string {
	return "**[" + left + "**·_" + right + "_**]**"
}
