// Package parser turns a stream of Groovy tokens into a concrete syntax
// tree.
//
// # Overview
//
// The parser is hand-written recursive descent with a precedence-climbing
// loop for binary operators. It is error tolerant: Parse always returns a
// CompilationUnit node, and malformed input shows up as KindError nodes in
// the tree together with a Diagnostic for each recovery point.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Tokens    │────▶│   Parser    │────▶│    Node     │
//	│ ([]Token)   │     │             │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │
//	                           ▼
//	                    ┌─────────────┐
//	                    │ Diagnostics │
//	                    └─────────────┘
//
// Tokens come from any source. The groovy/lexer package produces them from
// source text, but the parser does not depend on it:
//
//	tokens := lexer.Tokenize(src)
//	root, diags := parser.Parse(tokens, parser.WithFile("build.gradle"))
//	if err := diags.Err(); err != nil {
//	    log.Print(err)
//	}
//
// # Disambiguation
//
// Groovy lets several constructs share a prefix. The parser settles them
// with side-effect-free predicates that look ahead and rewind:
//
//	foo bar        // command expression: foo(bar)
//	Foo bar        // local variable declaration
//	foo(x) { }     // call with a trailing closure
//	def foo(x) { } // method declaration
//	(int) x        // cast
//	(a) + b        // parenthesized expression
//
// Where a predicate is not enough, a rule runs a speculative trial with
// speculate. A failed trial rewinds the cursor, the switch-expression depth
// and the diagnostics list, so nothing it reported survives.
//
// # Tree Shape
//
// Every node has a Kind, a Span covering all of its children and, for
// rules with several forms, an Alt naming the form that matched. Binary
// expressions get one kind per precedence level. Paths (a.b(c)[d]) are
// flat: a primary followed by one child per path element, with the
// path's Alt recording whether it ends in a call, an index or a closure.
//
// Nodes also carry a Context bit set for values inherited from enclosing
// rules: script or type body, enum constants allowed, static qualifier and
// switch expression.
//
// # Grammar Versions
//
// WithGrammarVersion selects a language version. Syntax introduced later
// still parses, but each use is reported as SyntaxUnavailable so tools can
// flag code that an older compiler would reject.
package parser
