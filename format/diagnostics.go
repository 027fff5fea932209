package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/fatih/color"
)

// DiagnosticsEncoder writes one "file:line:col: kind: message" line per
// diagnostic, optionally followed by the offending source line and a caret
// under the start column.
type DiagnosticsEncoder struct {
	w       io.Writer
	file    *groovy.File
	excerpt bool

	location *color.Color
	errorC   *color.Color
	warningC *color.Color
	caret    *color.Color
}

type DiagnosticsOption func(*DiagnosticsEncoder)

// WithExcerpt prints the source line and a caret under each diagnostic.
func WithExcerpt() DiagnosticsOption {
	return func(e *DiagnosticsEncoder) { e.excerpt = true }
}

// WithColor forces color on or off. By default fatih/color decides from
// the terminal and NO_COLOR.
func WithColor(enabled bool) DiagnosticsOption {
	return func(e *DiagnosticsEncoder) {
		for _, c := range []*color.Color{e.location, e.errorC, e.warningC, e.caret} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

func NewDiagnosticsEncoder(w io.Writer, opts ...DiagnosticsOption) *DiagnosticsEncoder {
	e := &DiagnosticsEncoder{
		w:        w,
		location: color.New(color.Bold),
		errorC:   color.New(color.FgRed, color.Bold),
		warningC: color.New(color.FgYellow, color.Bold),
		caret:    color.New(color.FgGreen),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *DiagnosticsEncoder) Encode(f *groovy.File) error {
	e.file = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DiagnosticsEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, d := range e.file.Diagnostics {
		e.writeDiagnostic(&sb, d)
	}
	return []byte(sb.String()), nil
}

func (e *DiagnosticsEncoder) writeDiagnostic(sb *strings.Builder, d parser.Diagnostic) {
	kind := e.errorC
	if d.Kind == parser.SyntaxUnavailable {
		kind = e.warningC
	}
	name := d.File
	if name == "" {
		name = e.file.Name
	}
	fmt.Fprintf(sb, "%s %s %s\n",
		e.location.Sprintf("%s:%s:", name, d.Span.Start),
		kind.Sprintf("%s:", d.Kind),
		d.Message)

	if !e.excerpt || d.Span.Start.Line < 1 {
		return
	}
	line := e.file.Line(d.Span.Start.Line)
	gutter := fmt.Sprintf("%4d | ", d.Span.Start.Line)
	fmt.Fprintf(sb, "%s%s\n", gutter, line)
	fmt.Fprintf(sb, "%s%s\n",
		strings.Repeat(" ", len(gutter)-2)+"| ",
		e.caret.Sprint(caretPad(line, d.Span.Start.Column)+"^"))
}

// caretPad returns the whitespace that puts a caret under byte column col
// of line. Tabs are kept so the caret lines up with the source.
func caretPad(line string, col int) string {
	var sb strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	for i := len(line); i < col-1; i++ {
		sb.WriteByte(' ')
	}
	return sb.String()
}
