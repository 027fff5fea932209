package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/grove/groovy/token"
	"github.com/hashicorp/go-multierror"
)

type DiagnosticKind int

const (
	// AlternativeExhausted means no alternative of a rule matched.
	AlternativeExhausted DiagnosticKind = iota
	// PredicateRejected means a lookahead matched but a semantic check
	// vetoed the only remaining alternative.
	PredicateRejected
	// ExpectedTokenMissing means a rule required a specific token.
	ExpectedTokenMissing
	// InvalidAssignmentTarget means the left side of an assignment
	// cannot be assigned to.
	InvalidAssignmentTarget
	// SyntaxUnavailable means the construct needs a newer grammar
	// version than the one configured.
	SyntaxUnavailable
)

var diagnosticKindNames = map[DiagnosticKind]string{
	AlternativeExhausted:    "alternative-exhausted",
	PredicateRejected:       "predicate-rejected",
	ExpectedTokenMissing:    "expected-token-missing",
	InvalidAssignmentTarget: "invalid-assignment-target",
	SyntaxUnavailable:       "syntax-unavailable",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Diagnostic struct {
	Kind     DiagnosticKind
	File     string
	Message  string
	Span     token.Span
	Expected []token.Kind
	Got      token.Token
}

func (d Diagnostic) Error() string {
	var sb strings.Builder
	if d.File != "" {
		sb.WriteString(d.File)
		sb.WriteString(":")
	}
	sb.WriteString(d.Span.Start.String())
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	return sb.String()
}

// ExpectedString renders the expected token kinds as "a, b or c".
func (d Diagnostic) ExpectedString() string {
	names := make([]string, len(d.Expected))
	for i, k := range d.Expected {
		names[i] = fmt.Sprintf("%q", k.String())
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

type Diagnostics []Diagnostic

// Err folds the diagnostics into a single error, or nil when there are none.
func (ds Diagnostics) Err() error {
	var result *multierror.Error
	for _, d := range ds {
		result = multierror.Append(result, d)
	}
	if result != nil {
		result.ErrorFormat = listFormat
	}
	return result.ErrorOrNil()
}

func listFormat(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}
