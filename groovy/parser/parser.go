package parser

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/grove/groovy/token"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithGrammarVersion selects the language version. Constructs introduced
// after v are still parsed but reported as SyntaxUnavailable.
func WithGrammarVersion(v *semver.Version) Option {
	return func(p *Parser) {
		if v != nil {
			p.version = v
		}
	}
}

// WithScriptMethods controls whether method declarations are accepted
// among script statements.
func WithScriptMethods(enabled bool) Option {
	return func(p *Parser) {
		p.scriptMethods = enabled
	}
}

// WithMaxErrors caps the number of recorded diagnostics. Zero means no cap.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

// DefaultGrammarVersion is the version assumed when none is configured.
var DefaultGrammarVersion = semver.MustParse("4.0.0")

type Parser struct {
	file          string
	version       *semver.Version
	scriptMethods bool
	maxErrors     int

	tokens      []token.Token
	pos         int
	switchDepth int
	diags       Diagnostics
	hard        int
	panicking   bool
}

func newParser(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		version:       DefaultGrammarVersion,
		scriptMethods: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokens = make([]token.Token, 0, len(tokens)+1)
	for _, tok := range tokens {
		if tok.Kind == token.Comment {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Kind != token.EOF {
		var end token.Position
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Span.End
		} else {
			end = token.Position{Line: 1, Column: 1}
		}
		p.tokens = append(p.tokens, token.Token{Kind: token.EOF, Span: token.Span{Start: end, End: end}})
	}
	return p
}

// Parse builds the tree for a whole compilation unit. It never fails:
// malformed input yields error nodes in the tree and matching entries in
// the returned diagnostics.
func Parse(tokens []token.Token, opts ...Option) (*Node, Diagnostics) {
	p := newParser(tokens, opts...)
	root := p.parseCompilationUnit()
	return root, p.diags
}

// ParseExpression parses tokens as a single expression. Trailing input
// other than separators is reported.
func ParseExpression(tokens []token.Token, opts ...Option) (*Node, Diagnostics) {
	p := newParser(tokens, opts...)
	p.skipSeparators()
	expr := p.parseExpression()
	p.skipSeparators()
	if !p.check(token.EOF) {
		n := p.startNode(KindExprStmt)
		n.AddChild(expr)
		n.AddChild(p.errorNode(AlternativeExhausted, "unexpected "+p.peek().String()+" after expression", nil))
		for !p.check(token.EOF) {
			p.advance()
		}
		return p.finishNode(n), p.diags
	}
	return expr, p.diags
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind token.Kind) *token.Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdentifier() *token.Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(token.EOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	return p.peek().Kind.IsIdentifier()
}

// skipNewlines consumes newline tokens.
func (p *Parser) skipNewlines() {
	for p.check(token.NL) {
		p.advance()
	}
}

// skipSeparators consumes newlines and semicolons.
func (p *Parser) skipSeparators() {
	for p.match(token.NL, token.Semi) {
		p.advance()
	}
}

// nextSignificant returns the offset of the first non-newline token.
func (p *Parser) nextSignificant() int {
	i := 0
	for p.peekN(i).Kind == token.NL {
		i++
	}
	return i
}

// nlsBefore consumes newlines when the token after them is one of kinds.
func (p *Parser) nlsBefore(kinds ...token.Kind) bool {
	i := p.nextSignificant()
	next := p.peekN(i).Kind
	for _, kind := range kinds {
		if next == kind {
			p.pos += i
			return true
		}
	}
	return false
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: token.Span{Start: p.peek().Span.Start},
	}
}

// finishNode closes the node's span at the last consumed token, ignoring
// trailing newlines, and widens it to cover every child. A node that
// consumed nothing collapses to a point after the previous token.
func (p *Parser) finishNode(n *Node) *Node {
	n.Span.End = p.prevEnd()
	if n.Span.End.Before(n.Span.Start) {
		n.Span.Start = n.Span.End
	}
	for _, child := range n.Children {
		if child.Span.Start.Before(n.Span.Start) {
			n.Span.Start = child.Span.Start
		}
		if n.Span.End.Before(child.Span.End) {
			n.Span.End = child.Span.End
		}
	}
	return n
}

// prevEnd is the end of the last consumed token other than a newline.
func (p *Parser) prevEnd() token.Position {
	for i := p.pos - 1; i >= 0; i-- {
		if p.tokens[i].Kind != token.NL {
			return p.tokens[i].Span.End
		}
	}
	return p.tokens[0].Span.Start
}

func (p *Parser) tokenNode(tok token.Token) *Node {
	return &Node{Kind: KindToken, Token: &tok, Span: tok.Span}
}

// take consumes the current token as a leaf.
func (p *Parser) take() *Node {
	return p.tokenNode(p.advance())
}

func (p *Parser) leaf(kind NodeKind, tok token.Token) *Node {
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) report(kind DiagnosticKind, span token.Span, msg string, expected ...token.Kind) {
	if kind != SyntaxUnavailable {
		p.hard++
		if p.panicking {
			return
		}
		p.panicking = true
	}
	if p.maxErrors > 0 && len(p.diags) >= p.maxErrors {
		return
	}
	p.diags = append(p.diags, Diagnostic{
		Kind:     kind,
		File:     p.file,
		Message:  msg,
		Span:     span,
		Expected: expected,
		Got:      p.peek(),
	})
}

// synced marks the end of panic mode; the next error is reported again.
func (p *Parser) synced() {
	p.panicking = false
}

// missing reports an absent token and returns a zero-width error node
// placed right after the last consumed token.
func (p *Parser) missing(expected ...token.Kind) *Node {
	got := p.peek()
	msg := fmt.Sprintf("expected %s, found %s", describe(expected), got)
	at := p.prevEnd()
	p.report(ExpectedTokenMissing, token.Span{Start: at, End: at}, msg, expected...)
	return &Node{
		Kind:  KindError,
		Span:  token.Span{Start: at, End: at},
		Error: &Error{Message: msg, Expected: expected, Got: &got},
	}
}

// want consumes a token of the given kind, attaching an error node to n
// when it is absent.
func (p *Parser) want(n *Node, kind token.Kind) bool {
	if p.expect(kind) != nil {
		return true
	}
	n.AddChild(p.missing(kind))
	return false
}

func describe(kinds []token.Kind) string {
	d := Diagnostic{Expected: kinds}
	if s := d.ExpectedString(); s != "" {
		return s
	}
	return "more input"
}
