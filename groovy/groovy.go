// Package groovy joins the lexer and the parser for tools that start
// from source text.
package groovy

import (
	"bytes"

	"github.com/dhamidi/grove/groovy/lexer"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/token"
)

// File is one parsed source file.
type File struct {
	Name        string
	Source      []byte
	Tokens      []token.Token
	Comments    []token.Token
	Root        *parser.Node
	Diagnostics parser.Diagnostics
}

// ParseFile tokenizes and parses src. The file name is attached to every
// diagnostic.
func ParseFile(name string, src []byte, opts ...parser.Option) *File {
	l := lexer.New(src, lexer.WithComments())
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	opts = append([]parser.Option{parser.WithFile(name)}, opts...)
	root, diags := parser.Parse(tokens, opts...)
	return &File{
		Name:        name,
		Source:      src,
		Tokens:      tokens,
		Comments:    l.Comments(),
		Root:        root,
		Diagnostics: diags,
	}
}

// HasErrors reports whether any diagnostic other than a version warning
// was produced.
func (f *File) HasErrors() bool {
	for _, d := range f.Diagnostics {
		if d.Kind != parser.SyntaxUnavailable {
			return true
		}
	}
	return false
}

// Outline returns the declarations of the file.
func (f *File) Outline() []parser.Symbol {
	return parser.Outline(f.Root)
}

// Line returns the text of the 1-based line n without its line ending.
func (f *File) Line(n int) string {
	if n < 1 {
		return ""
	}
	start := 0
	for line := 1; line < n; line++ {
		i := bytes.IndexByte(f.Source[start:], '\n')
		if i < 0 {
			return ""
		}
		start += i + 1
	}
	end := start
	for end < len(f.Source) && f.Source[end] != '\n' && f.Source[end] != '\r' {
		end++
	}
	return string(f.Source[start:end])
}
