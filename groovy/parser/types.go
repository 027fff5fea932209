package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// parseType parses a possibly annotated, generic or array type.
func (p *Parser) parseType() *Node {
	n := p.startNode(KindType)
	for p.check(token.At) {
		n.AddChild(p.parseAnnotation())
	}
	switch {
	case p.peek().Kind.IsPrimitive():
		n.Alt = TypePrimitive
		n.AddChild(p.take())
	case p.check(token.Void):
		n.Alt = TypeVoid
		n.AddChild(p.take())
	case p.isIdentifierLike():
		n.Alt = TypeClass
		p.parseClassTypeSegments(n, false)
	default:
		n.AddChild(p.missing(token.Identifier))
		return p.finishNode(n)
	}
	if dims := p.parseDims(); dims != nil {
		n.AddChild(dims)
	}
	return p.finishNode(n)
}

// parseClassTypeSegments appends the segments of a qualified class type
// to n, each optionally followed by type arguments.
func (p *Parser) parseClassTypeSegments(n *Node, diamond bool) {
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
		return
	}
	for {
		if p.check(token.Lt) {
			n.AddChild(p.parseTypeArguments(diamond))
		}
		if !p.check(token.Dot) || !p.peekN(1).Kind.IsIdentifier() {
			return
		}
		p.advance()
		n.AddChild(p.leaf(KindIdentifier, p.advance()))
	}
}

// parseDims parses trailing "[]" pairs, returning nil when there are none.
func (p *Parser) parseDims() *Node {
	if !p.check(token.LBrack) || p.peekN(1).Kind != token.RBrack {
		return nil
	}
	n := p.startNode(KindDims)
	for p.check(token.LBrack) && p.peekN(1).Kind == token.RBrack {
		n.AddChild(p.take())
		n.AddChild(p.take())
	}
	return p.finishNode(n)
}

// parseTypeArguments parses "<...>". With diamond set, "<>" is accepted.
func (p *Parser) parseTypeArguments(diamond bool) *Node {
	n := p.startNode(KindTypeArguments)
	p.advance()
	if p.check(token.Gt) {
		if !diamond {
			n.AddChild(p.missing(token.Identifier))
		}
		p.advance()
		return p.finishNode(n)
	}
	for {
		n.AddChild(p.parseTypeArgument())
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.Gt)
	return p.finishNode(n)
}

func (p *Parser) parseTypeArgument() *Node {
	n := p.startNode(KindTypeArgument)
	for p.check(token.At) {
		n.AddChild(p.parseAnnotation())
	}
	if p.expect(token.Question) == nil {
		n.Alt = ArgType
		n.AddChild(p.parseType())
		return p.finishNode(n)
	}
	n.Alt = ArgWildcard
	if p.match(token.Extends, token.Super) {
		bound := p.startNode(KindTypeBound)
		bound.AddChild(p.take())
		bound.AddChild(p.parseType())
		n.AddChild(p.finishNode(bound))
	}
	return p.finishNode(n)
}

func (p *Parser) parseTypeParameters() *Node {
	n := p.startNode(KindTypeParameters)
	p.advance()
	for {
		n.AddChild(p.parseTypeParameter())
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.Gt)
	return p.finishNode(n)
}

func (p *Parser) parseTypeParameter() *Node {
	n := p.startNode(KindTypeParameter)
	for p.check(token.At) {
		n.AddChild(p.parseAnnotation())
	}
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
		return p.finishNode(n)
	}
	if p.check(token.Extends) {
		bound := p.startNode(KindTypeBound)
		bound.AddChild(p.take())
		bound.AddChild(p.parseType())
		for p.check(token.BitAnd) {
			p.advance()
			bound.AddChild(p.parseType())
		}
		n.AddChild(p.finishNode(bound))
	}
	return p.finishNode(n)
}

// parseTypeList parses comma-separated types, as after extends.
func (p *Parser) parseTypeList(n *Node) {
	p.skipNewlines()
	for {
		n.AddChild(p.parseType())
		if !p.nlsBefore(token.Comma) {
			return
		}
		p.advance()
		p.skipNewlines()
	}
}

// parseQualifiedName parses dotted names. Segments after the first may be
// keywords, as in package names.
func (p *Parser) parseQualifiedName() *Node {
	n := p.startNode(KindQualifiedName)
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
		return p.finishNode(n)
	}
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
