package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/token"
)

// ASTJSONEncoder writes a file's syntax tree and diagnostics as indented
// JSON.
type ASTJSONEncoder struct {
	w    io.Writer
	file *groovy.File
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(f *groovy.File) error {
	e.file = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

// EncodeNode writes a bare tree, such as one returned by
// parser.ParseExpression.
func (e *ASTJSONEncoder) EncodeNode(node *parser.Node) error {
	text, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	f := e.file
	doc := astDocument{
		File:        f.Name,
		Root:        f.Root,
		Diagnostics: make([]astDiagnostic, 0, len(f.Diagnostics)),
	}
	for _, d := range f.Diagnostics {
		ad := astDiagnostic{
			Kind:    d.Kind.String(),
			Message: d.Message,
			Span:    newSpanData(d.Span),
		}
		for _, k := range d.Expected {
			ad.Expected = append(ad.Expected, k.String())
		}
		doc.Diagnostics = append(doc.Diagnostics, ad)
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astDocument struct {
	File        string          `json:"file"`
	Root        *parser.Node    `json:"root"`
	Diagnostics []astDiagnostic `json:"diagnostics"`
}

type astDiagnostic struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Span     spanData `json:"span"`
	Expected []string `json:"expected,omitempty"`
}

type spanData struct {
	Start positionData `json:"start"`
	End   positionData `json:"end"`
}

type positionData struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func newSpanData(s token.Span) spanData {
	return spanData{
		Start: positionData{Line: s.Start.Line, Column: s.Start.Column},
		End:   positionData{Line: s.End.Line, Column: s.End.Column},
	}
}
