package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// parseGString parses an interpolated string: a begin token, then values
// separated by literal parts, then an end token. Values are dotted paths
// ($a.b) or closures (${...}), which may nest further strings.
func (p *Parser) parseGString() *Node {
	n := p.startNode(KindGString)
	n.AddChild(p.take())
	for {
		n.AddChild(p.parseGStringValue())
		switch p.peek().Kind {
		case token.GStringPart:
			n.AddChild(p.take())
		case token.GStringEnd:
			n.AddChild(p.take())
			return p.finishNode(n)
		default:
			n.AddChild(p.missing(token.GStringEnd))
			return p.finishNode(n)
		}
	}
}

func (p *Parser) parseGStringValue() *Node {
	if p.check(token.LBrace) {
		return p.parseClosure()
	}
	tok := p.peek()
	if !tok.Kind.IsIdentifier() && tok.Kind != token.This && tok.Kind != token.Super {
		return p.missing(token.Identifier, token.LBrace)
	}
	n := p.startNode(KindGStringPath)
	n.AddChild(p.leaf(KindIdentifier, p.advance()))
	for p.check(token.Dot) {
		next := p.peekN(1).Kind
		if !next.IsIdentifier() && !next.IsKeyword() {
			break
		}
		p.advance()
		n.AddChild(p.leaf(KindIdentifier, p.advance()))
	}
	return p.finishNode(n)
}
