package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// errorNode reports a diagnostic at the current token and, when stop is
// given, skips ahead to one of its kinds. The current token is consumed
// unless it closes a group or ends a statement, so enclosing rules can
// still match it.
func (p *Parser) errorNode(kind DiagnosticKind, msg string, stop []token.Kind, expected ...token.Kind) *Node {
	tok := p.peek()
	p.report(kind, tok.Span, msg, expected...)
	at := p.prevEnd()
	node := &Node{
		Kind: KindError,
		Span: token.Span{Start: at, End: at},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	if isBoundary(tok.Kind) {
		return node
	}
	p.advance()
	if len(stop) > 0 {
		p.skipTo(stop...)
	}
	node.Span = token.Span{Start: tok.Span.Start, End: p.prevEnd()}
	return node
}

// skipTo advances until one of stop appears outside any bracket group,
// or an unmatched closing bracket is reached.
func (p *Parser) skipTo(stop ...token.Kind) {
	depth := 0
	for !p.check(token.EOF) {
		kind := p.peek().Kind
		if depth == 0 {
			for _, s := range stop {
				if kind == s {
					return
				}
			}
		}
		switch kind {
		case token.LParen, token.LBrack, token.LBrace, token.SafeIndex:
			depth++
		case token.RParen, token.RBrack, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// syncStatement skips the remainder of a malformed statement and wraps
// the skipped tokens in an error node. Stray closing brackets are skipped
// too unless they are among ends. It returns nil when nothing had to be
// skipped.
func (p *Parser) syncStatement(msg string, ends []token.Kind) *Node {
	start := p.pos
	tok := p.peek()
	stop := append([]token.Kind{token.NL, token.Semi}, ends...)
	for {
		p.skipTo(stop...)
		if !p.match(token.RParen, token.RBrack, token.RBrace) || p.match(ends...) {
			break
		}
		p.advance()
	}
	if p.pos == start {
		return nil
	}
	return &Node{
		Kind:  KindError,
		Span:  token.Span{Start: tok.Span.Start, End: p.prevEnd()},
		Error: &Error{Message: msg, Got: &tok},
	}
}

func isBoundary(kind token.Kind) bool {
	switch kind {
	case token.EOF, token.NL, token.Semi, token.Comma,
		token.RParen, token.RBrack, token.RBrace:
		return true
	}
	return false
}

// atStatementEnd reports whether the current token may follow a
// complete statement.
func (p *Parser) atStatementEnd(ends []token.Kind) bool {
	if p.match(token.NL, token.Semi, token.EOF) {
		return true
	}
	for _, end := range ends {
		if p.check(end) {
			return true
		}
	}
	return p.pos > 0 && p.tokens[p.pos-1].Kind == token.RBrace
}

// parseStatements runs each for every statement up to one of ends,
// reporting a missing separator once per statement and resynchronising at
// the next newline or semicolon.
func (p *Parser) parseStatements(n *Node, each func() *Node, ends ...token.Kind) {
	for {
		p.skipSeparators()
		if p.check(token.EOF) || p.match(ends...) {
			return
		}
		progress := p.mustProgress()
		hard := p.hard
		n.AddChild(each())
		if !p.atStatementEnd(ends) {
			if p.hard == hard {
				tok := p.peek()
				p.report(ExpectedTokenMissing, tok.Span,
					"expected newline or ';', found "+tok.String(), token.NL, token.Semi)
			}
			n.AddChild(p.syncStatement("unexpected input after statement", ends))
		}
		p.synced()
		progress()
	}
}
