package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/parser"
)

// OutlineJSONEncoder writes the declarations of a file as JSON.
type OutlineJSONEncoder struct {
	w    io.Writer
	file *groovy.File
}

func NewOutlineJSONEncoder(w io.Writer) *OutlineJSONEncoder {
	return &OutlineJSONEncoder{w: w}
}

func (e *OutlineJSONEncoder) Encode(f *groovy.File) error {
	e.file = f
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *OutlineJSONEncoder) MarshalText() ([]byte, error) {
	data := outlineData{
		File:    e.file.Name,
		Symbols: buildSymbolData(e.file.Outline()),
	}
	return json.MarshalIndent(data, "", "  ")
}

type outlineData struct {
	File    string       `json:"file"`
	Symbols []symbolData `json:"symbols"`
}

type symbolData struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Span     spanData     `json:"span"`
	NameSpan spanData     `json:"nameSpan"`
	Children []symbolData `json:"children,omitempty"`
}

func buildSymbolData(symbols []parser.Symbol) []symbolData {
	result := make([]symbolData, 0, len(symbols))
	for _, s := range symbols {
		result = append(result, symbolData{
			Name:     s.Name,
			Kind:     s.Kind.String(),
			Span:     newSpanData(s.Span),
			NameSpan: newSpanData(s.NameSpan),
			Children: buildSymbolData(s.Children),
		})
	}
	return result
}
