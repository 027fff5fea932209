package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// parseModifiers parses annotations and modifier keywords. It returns nil
// when there are none so empty lists never appear in the tree.
func (p *Parser) parseModifiers() *Node {
	n := p.startNode(KindModifiers)
	for {
		switch {
		case p.check(token.At) && p.peekN(1).Kind != token.Interface:
			n.AddChild(p.parseAnnotation())
			p.skipNewlines()
		case p.isModifierHere():
			tok := p.advance()
			switch tok.Kind {
			case token.Sealed, token.NonSealed:
				p.gate(FeatureSealed, tok.Span)
			case token.Var:
				p.gate(FeatureVar, tok.Span)
			}
			n.AddChild(p.tokenNode(tok))
		default:
			if len(n.Children) == 0 {
				return nil
			}
			return p.finishNode(n)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	n := p.startNode(KindAnnotation)
	p.advance()
	n.AddChild(p.parseQualifiedName())
	if !p.check(token.LParen) {
		return p.finishNode(n)
	}
	p.advance()
	p.skipNewlines()
	for !p.check(token.RParen) && !p.check(token.EOF) {
		if p.isIdentifierLike() && p.peekN(1).Kind == token.Assign {
			pair := p.startNode(KindElementValuePair)
			pair.AddChild(p.leaf(KindIdentifier, p.advance()))
			p.advance()
			p.skipNewlines()
			pair.AddChild(p.parseElementValue())
			n.AddChild(p.finishNode(pair))
		} else {
			n.AddChild(p.parseElementValue())
		}
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RParen)
	return p.finishNode(n)
}

// parseElementValue parses an annotation value: a nested annotation, an
// array of values or any expression, closures included.
func (p *Parser) parseElementValue() *Node {
	switch {
	case p.check(token.At):
		return p.parseAnnotation()
	case p.check(token.LBrack) && p.lookahead(p.isElementValueArray):
		n := p.startNode(KindElementValueArray)
		p.advance()
		p.skipNewlines()
		for !p.check(token.RBrack) && !p.check(token.EOF) {
			n.AddChild(p.parseElementValue())
			p.skipNewlines()
			if p.expect(token.Comma) == nil {
				break
			}
			p.skipNewlines()
		}
		p.want(n, token.RBrack)
		return p.finishNode(n)
	}
	return p.parseExpression()
}

// isElementValueArray reports whether a bracketed value holds nested
// annotations, which an ordinary list literal cannot.
func (p *Parser) isElementValueArray() bool {
	p.advance()
	p.skipNewlines()
	return p.check(token.At)
}

// parseTypeDeclaration parses a class, interface, enum, annotation type,
// trait or record, including its modifiers.
func (p *Parser) parseTypeDeclaration() *Node {
	n := p.startNode(KindTypeDecl)
	n.AddChild(p.parseModifiers())

	kw := p.advance()
	switch kw.Kind {
	case token.Class:
		n.Alt = AltClass
	case token.Interface:
		n.Alt = AltInterface
	case token.Enum:
		n.Alt = AltEnum
	case token.Trait:
		n.Alt = AltTrait
	case token.Record:
		n.Alt = AltRecord
		p.gate(FeatureRecord, kw.Span)
	case token.At:
		n.Alt = AltAnnotationType
		p.advance()
	}

	name := ""
	if tok := p.expectIdentifier(); tok != nil {
		name = tok.Literal
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
	}
	if p.check(token.Lt) {
		n.AddChild(p.parseTypeParameters())
	}
	if n.Alt == AltRecord {
		n.AddChild(p.parseFormalParameters())
	}

	for {
		switch {
		case p.nlsBefore(token.Extends):
			clause := p.startNode(KindExtendsClause)
			p.advance()
			p.parseTypeList(clause)
			n.AddChild(p.finishNode(clause))
		case p.nlsBefore(token.Implements):
			clause := p.startNode(KindImplementsClause)
			p.advance()
			p.parseTypeList(clause)
			n.AddChild(p.finishNode(clause))
		case p.nlsBefore(token.Permits):
			clause := p.startNode(KindPermitsClause)
			tok := p.advance()
			p.gate(FeatureSealed, tok.Span)
			p.parseTypeList(clause)
			n.AddChild(p.finishNode(clause))
		default:
			p.skipNewlines()
			ctx := CtxTypeBody
			if n.Alt == AltEnum {
				ctx |= CtxEnum
			}
			n.AddChild(p.parseClassBody(ctx, name))
			return p.finishNode(n)
		}
	}
}

// parseClassBody parses "{ members }". Enum constants lead the body only
// when ctx permits them.
func (p *Parser) parseClassBody(ctx Context, className string) *Node {
	n := p.startNode(KindClassBody)
	n.Context = ctx
	if !p.want(n, token.LBrace) {
		return p.finishNode(n)
	}
	p.skipSeparators()
	if ctx.Has(CtxEnum) {
		p.parseEnumConstants(n)
	}
	p.parseStatements(n, func() *Node {
		return p.parseMember(ctx, className)
	}, token.RBrace)
	p.want(n, token.RBrace)
	return p.finishNode(n)
}

func (p *Parser) parseEnumConstants(body *Node) {
	for p.isEnumConstantStart() {
		body.AddChild(p.parseEnumConstant())
		if !p.nlsBefore(token.Comma) {
			break
		}
		p.advance()
		p.skipNewlines()
	}
	p.skipSeparators()
}

// isEnumConstantStart reports whether the cursor starts an enum constant:
// an optionally annotated name followed by arguments, a body, a comma or
// the end of the constant list.
func (p *Parser) isEnumConstantStart() bool {
	return p.lookahead(func() bool {
		for p.check(token.At) {
			p.advance()
			if !p.skipQualifiedName() {
				return false
			}
			if p.check(token.LParen) && !p.skipBalanced() {
				return false
			}
			p.skipNewlines()
		}
		if !p.isIdentifierLike() {
			return false
		}
		switch p.peekN(1).Kind {
		case token.Comma, token.LParen, token.LBrace, token.NL, token.Semi, token.RBrace, token.EOF:
			return true
		}
		return false
	})
}

func (p *Parser) parseEnumConstant() *Node {
	n := p.startNode(KindEnumConstant)
	for p.check(token.At) {
		n.AddChild(p.parseAnnotation())
		p.skipNewlines()
	}
	n.AddChild(p.leaf(KindIdentifier, p.advance()))
	if p.check(token.LParen) {
		n.AddChild(p.parseArguments())
	}
	if p.check(token.LBrace) {
		n.AddChild(p.parseClassBody(CtxTypeBody, ""))
	}
	return p.finishNode(n)
}

// parseMember dispatches one class body declaration: initializer blocks,
// nested types, constructors, methods and fields.
func (p *Parser) parseMember(ctx Context, className string) *Node {
	switch {
	case p.check(token.Static) && p.nextIs(1, token.LBrace):
		n := p.startNode(KindInitializer)
		n.Alt = InitStatic
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseBlock())
		return p.finishNode(n)
	case p.check(token.LBrace):
		n := p.startNode(KindInitializer)
		n.Alt = InitInstance
		n.AddChild(p.parseBlock())
		return p.finishNode(n)
	case p.isTypeDeclarationStart():
		return p.parseTypeDeclaration()
	case p.isEnumConstantStart() && p.peekN(1).Kind == token.Comma:
		tok := p.peek()
		p.report(PredicateRejected, tok.Span, "enum constants are only allowed in an enum body")
		return p.parseEnumConstant()
	}

	n := p.startNode(KindFieldDecl)
	mods := p.parseModifiers()
	n.AddChild(mods)
	var typeParams *Node
	if p.check(token.Lt) {
		typeParams = p.parseTypeParameters()
		n.AddChild(typeParams)
	}

	if p.isMethodName() && p.peekN(1).Kind == token.LParen {
		tok := p.peek()
		switch {
		case tok.Kind.IsIdentifier() && tok.Literal == className:
			n.Kind = KindConstructorDecl
		case mods == nil && typeParams == nil:
			p.report(PredicateRejected, tok.Span, "method declaration needs a return type or a modifier")
			n.Kind = KindMethodDecl
		default:
			n.Kind = KindMethodDecl
		}
		return p.parseMethodRest(n)
	}

	if mods != nil && p.isIdentifierLike() && isDeclaratorEnd(p.peekN(1).Kind) {
		p.parseVariableDeclarators(n)
		return p.finishNode(n)
	}

	n.AddChild(p.parseType())
	if p.isMethodName() && p.peekN(1).Kind == token.LParen {
		n.Kind = KindMethodDecl
		return p.parseMethodRest(n)
	}
	p.parseVariableDeclarators(n)
	return p.finishNode(n)
}

// nextIs reports whether the first token after offset i, ignoring
// newlines, has the given kind.
func (p *Parser) nextIs(i int, kind token.Kind) bool {
	for p.peekN(i).Kind == token.NL {
		i++
	}
	return p.peekN(i).Kind == kind
}

// parseMethodDeclaration parses a method at script scope, where the
// caller has already ruled out a call expression.
func (p *Parser) parseMethodDeclaration() *Node {
	n := p.startNode(KindMethodDecl)
	n.AddChild(p.parseModifiers())
	if p.check(token.Lt) {
		n.AddChild(p.parseTypeParameters())
	}
	if !(p.isMethodName() && p.peekN(1).Kind == token.LParen) {
		n.AddChild(p.parseType())
	}
	return p.parseMethodRest(n)
}

// parseMethodRest parses a method from its name onwards: parameters,
// throws and default clauses, and an optional body.
func (p *Parser) parseMethodRest(n *Node) *Node {
	tok := p.advance()
	name := p.leaf(KindIdentifier, tok)
	if tok.Kind == token.StringLiteral {
		name.Kind = KindLiteral
		name.Alt = LitString
	}
	n.AddChild(name)
	n.AddChild(p.parseFormalParameters())

	if p.nlsBefore(token.Throws) {
		clause := p.startNode(KindThrowsClause)
		p.advance()
		p.parseTypeList(clause)
		n.AddChild(p.finishNode(clause))
	}
	if p.check(token.Default) {
		clause := p.startNode(KindDefaultClause)
		p.advance()
		p.skipNewlines()
		clause.AddChild(p.parseElementValue())
		n.AddChild(p.finishNode(clause))
	}
	if p.nlsBefore(token.LBrace) {
		n.AddChild(p.parseBlock())
	}
	return p.finishNode(n)
}

func (p *Parser) parseFormalParameters() *Node {
	n := p.startNode(KindFormalParameters)
	if !p.want(n, token.LParen) {
		return p.finishNode(n)
	}
	p.skipNewlines()
	for !p.check(token.RParen) && !p.check(token.EOF) {
		n.AddChild(p.parseFormalParameter())
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RParen)
	return p.finishNode(n)
}

// parseFormalParameter parses "mods Type... name = default". The type is
// optional.
func (p *Parser) parseFormalParameter() *Node {
	n := p.startNode(KindFormalParameter)
	n.AddChild(p.parseModifiers())
	if !p.isIdentifierLike() || !isParameterEnd(p.peekN(1).Kind) {
		n.AddChild(p.parseType())
	}
	if p.check(token.Ellipsis) {
		n.AddChild(p.take())
	}
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
		return p.finishNode(n)
	}
	if p.check(token.Assign) {
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseExpression())
	}
	return p.finishNode(n)
}

func isParameterEnd(kind token.Kind) bool {
	switch kind {
	case token.Comma, token.RParen, token.Assign, token.Arrow, token.NL, token.EOF:
		return true
	}
	return false
}

// parseVariableDeclarators appends "name = init, name, ..." to n.
func (p *Parser) parseVariableDeclarators(n *Node) {
	for {
		n.AddChild(p.parseVariableDeclarator())
		if p.expect(token.Comma) == nil {
			return
		}
		p.skipNewlines()
	}
}

func (p *Parser) parseVariableDeclarator() *Node {
	n := p.startNode(KindVariableDeclarator)
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
		return p.finishNode(n)
	}
	if p.check(token.Assign) {
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseStatementExpression())
	}
	return p.finishNode(n)
}

// parseVariableNames parses "(a, b)" or "(int a, String b)".
func (p *Parser) parseVariableNames() *Node {
	n := p.startNode(KindVariableNames)
	p.want(n, token.LParen)
	for !p.check(token.RParen) && !p.check(token.EOF) {
		next := p.peekN(1).Kind
		if !p.isIdentifierLike() || (next != token.Comma && next != token.RParen) {
			n.AddChild(p.parseType())
		}
		if tok := p.expectIdentifier(); tok != nil {
			n.AddChild(p.leaf(KindIdentifier, *tok))
		} else {
			n.AddChild(p.missing(token.Identifier))
			break
		}
		if p.expect(token.Comma) == nil {
			break
		}
	}
	p.want(n, token.RParen)
	return p.finishNode(n)
}
