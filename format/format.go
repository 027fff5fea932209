// Package format renders parsed Groovy files for the command line.
package format

import "github.com/dhamidi/grove/groovy"

// Encoder writes one rendering of a parsed file. MarshalText returns the
// rendering of the file given to the last Encode call.
type Encoder interface {
	Encode(f *groovy.File) error
	MarshalText() ([]byte, error)
}

var (
	_ Encoder = (*ASTJSONEncoder)(nil)
	_ Encoder = (*OutlineJSONEncoder)(nil)
	_ Encoder = (*LineEncoder)(nil)
	_ Encoder = (*DiagnosticsEncoder)(nil)
)
