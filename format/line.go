package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
)

// LineEncoder writes one tab-separated line per declaration:
// kind, name and span. Members are indented under their type.
type LineEncoder struct {
	w    io.Writer
	file *groovy.File
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(f *groovy.File) error {
	e.file = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeSymbols(&sb, e.file.Outline(), 0)
	return []byte(sb.String()), nil
}

func writeSymbols(sb *strings.Builder, symbols []parser.Symbol, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range symbols {
		fmt.Fprintf(sb, "%s%s\t%s\t%s\n", indent, s.Kind, s.Name, s.Span)
		writeSymbols(sb, s.Children, depth+1)
	}
}
