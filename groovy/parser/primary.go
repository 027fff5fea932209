package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

func (p *Parser) parsePath(flags exprFlags) *Node {
	return p.parsePathElements(p.parsePrimary(flags))
}

// parsePathElements collects the path elements following prim. The path
// node's Alt records how the chain ends: plain access, call, index or
// closure call.
func (p *Parser) parsePathElements(prim *Node) *Node {
	var path *Node
	for {
		elem := p.parsePathElement()
		if elem == nil {
			break
		}
		if path == nil {
			path = &Node{Kind: KindPath, Span: prim.Span}
			if prim.Context.Has(CtxStaticQualifier) {
				path.Context = CtxStaticQualifier
			}
			path.AddChild(prim)
		}
		path.AddChild(elem)
		path.Alt = interactionOf(elem)
	}
	if path == nil {
		return prim
	}
	return p.finishNode(path)
}

func interactionOf(elem *Node) Alt {
	switch elem.Kind {
	case KindArguments:
		return InteractCall
	case KindIndex:
		return InteractIndex
	case KindClosure, KindLambda:
		return InteractClosureCall
	}
	return InteractPlain
}

var memberOperators = []token.Kind{
	token.Dot, token.SafeDot, token.SpreadDot, token.SafeChainDot,
	token.MethodPointer, token.ColonColon,
}

func (p *Parser) startsPathElement() bool {
	switch p.peek().Kind {
	case token.Dot, token.SafeDot, token.SpreadDot, token.SafeChainDot,
		token.MethodPointer, token.ColonColon,
		token.LParen, token.LBrack, token.SafeIndex, token.LBrace:
		return true
	}
	return false
}

func (p *Parser) parsePathElement() *Node {
	p.nlsBefore(memberOperators...)
	switch p.peek().Kind {
	case token.Dot, token.SafeDot, token.SpreadDot, token.SafeChainDot:
		return p.parseMemberAccess()
	case token.MethodPointer, token.ColonColon:
		return p.parseMethodPointer()
	case token.LParen:
		return p.parseArguments()
	case token.LBrack, token.SafeIndex:
		return p.parseIndex()
	case token.LBrace:
		return p.parseClosure()
	}
	return nil
}

func (p *Parser) parseMemberAccess() *Node {
	n := p.startNode(KindMemberAccess)
	op := p.advance()
	n.AddChild(p.tokenNode(op))
	switch op.Kind {
	case token.Dot:
		n.Alt = AccessDot
	case token.SafeDot:
		n.Alt = AccessSafe
	case token.SpreadDot:
		n.Alt = AccessSpread
	case token.SafeChainDot:
		n.Alt = AccessSafeChain
		p.gate(FeatureSafeChainDot, op.Span)
	}
	p.skipNewlines()

	if op.Kind == token.Dot && p.check(token.New) {
		n.Kind = KindInnerCreator
		n.Alt = 0
		n.AddChild(p.parseCreator())
		return p.finishNode(n)
	}
	if p.check(token.At) {
		n.AddChild(p.take())
	}
	if p.check(token.Lt) {
		n.AddChild(p.parseTypeArguments(false))
	}
	n.AddChild(p.parseNamePart())
	return p.finishNode(n)
}

// parseNamePart parses the member name after a dot: an identifier, any
// keyword, a string, an interpolated string or a parenthesised
// expression.
func (p *Parser) parseNamePart() *Node {
	tok := p.peek()
	switch {
	case tok.Kind.IsIdentifier() || tok.Kind.IsKeyword():
		return p.leaf(KindIdentifier, p.advance())
	case tok.Kind == token.StringLiteral:
		n := p.leaf(KindLiteral, p.advance())
		n.Alt = LitString
		return n
	case tok.Kind == token.GStringBegin:
		return p.parseGString()
	case tok.Kind == token.LParen:
		return p.parseParExpression()
	}
	return p.missing(token.Identifier)
}

func (p *Parser) parseMethodPointer() *Node {
	n := p.startNode(KindMethodPointer)
	op := p.advance()
	n.AddChild(p.tokenNode(op))
	if op.Kind == token.ColonColon {
		n.Alt = PointerReference
		p.gate(FeatureMethodReference, op.Span)
	} else {
		n.Alt = PointerMethod
	}
	p.skipNewlines()
	tok := p.peek()
	if tok.Kind.IsIdentifier() || tok.Kind.IsKeyword() {
		n.AddChild(p.leaf(KindIdentifier, p.advance()))
	} else {
		n.AddChild(p.missing(token.Identifier))
	}
	return p.finishNode(n)
}

// parseArguments parses a parenthesised argument list.
func (p *Parser) parseArguments() *Node {
	n := p.startNode(KindArguments)
	p.advance()
	p.skipNewlines()
	for !p.check(token.RParen) && !p.check(token.EOF) {
		n.AddChild(p.parseArgument())
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RParen)
	return p.finishNode(n)
}

func (p *Parser) parseIndex() *Node {
	n := p.startNode(KindIndex)
	open := p.advance()
	n.Alt = IndexPlain
	if open.Kind == token.SafeIndex {
		n.Alt = IndexSafe
		p.gate(FeatureSafeIndex, open.Span)
	}
	p.skipNewlines()
	for !p.check(token.RBrack) && !p.check(token.EOF) {
		n.AddChild(p.parseArgument())
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RBrack)
	return p.finishNode(n)
}

func (p *Parser) parsePrimary(flags exprFlags) *Node {
	tok := p.peek()
	switch tok.Kind {
	case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral,
		token.True, token.False, token.Null:
		return p.parseLiteral()
	case token.GStringBegin:
		return p.parseGString()
	case token.New:
		return p.parseCreator()
	case token.This:
		return p.leaf(KindThis, p.advance())
	case token.Super:
		return p.leaf(KindSuper, p.advance())
	case token.LParen:
		if flags&noLambda == 0 && p.isLambdaStart() {
			return p.parseLambda()
		}
		return p.parseParExpression()
	case token.LBrack:
		return p.parseListOrMap()
	case token.LBrace:
		return p.parseClosure()
	case token.Switch:
		return p.parseSwitchExpression()
	case token.Void:
		return p.leaf(KindBuiltInType, p.advance())
	case token.Static:
		if p.isStaticQualifier() {
			n := p.leaf(KindIdentifier, p.advance())
			n.Context = CtxStaticQualifier
			return n
		}
	}
	switch {
	case tok.Kind.IsIdentifier():
		if flags&noLambda == 0 && p.peekN(1).Kind == token.Arrow {
			return p.parseLambda()
		}
		return p.leaf(KindIdentifier, p.advance())
	case tok.Kind.IsPrimitive():
		return p.leaf(KindBuiltInType, p.advance())
	}
	return p.errorNode(AlternativeExhausted, "expected expression, found "+tok.String(), nil)
}

func (p *Parser) parseLiteral() *Node {
	tok := p.advance()
	n := p.leaf(KindLiteral, tok)
	switch tok.Kind {
	case token.IntegerLiteral:
		n.Alt = LitInteger
	case token.FloatLiteral:
		n.Alt = LitFloat
	case token.StringLiteral:
		n.Alt = LitString
	case token.True, token.False:
		n.Alt = LitBoolean
	case token.Null:
		n.Alt = LitNull
	}
	return n
}

// parseParExpression parses "(expr)". The content may be a command
// expression.
func (p *Parser) parseParExpression() *Node {
	n := p.startNode(KindParenExpr)
	if !p.want(n, token.LParen) {
		return p.finishNode(n)
	}
	p.skipNewlines()
	n.AddChild(p.parseStatementExpression())
	p.skipNewlines()
	p.want(n, token.RParen)
	return p.finishNode(n)
}

// parseListOrMap parses "[...]". The literal is a map when its first
// element is a map entry or it is the empty map "[:]".
func (p *Parser) parseListOrMap() *Node {
	n := p.startNode(KindList)
	p.advance()
	p.skipNewlines()
	if p.check(token.Colon) {
		n.Kind = KindMap
		p.advance()
		p.skipNewlines()
		p.want(n, token.RBrack)
		return p.finishNode(n)
	}
	for i := 0; !p.check(token.RBrack) && !p.check(token.EOF); i++ {
		elem := p.parseArgument()
		if i == 0 && elem.Kind == KindMapEntry {
			n.Kind = KindMap
		}
		n.AddChild(elem)
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RBrack)
	return p.finishNode(n)
}

// parseMapEntry parses "key: value" or "*: map". A key already parsed as
// an expression is passed in.
func (p *Parser) parseMapEntry(key *Node) *Node {
	n := p.startNode(KindMapEntry)
	n.Alt = EntryKeyed
	switch {
	case key != nil:
		n.AddChild(key)
	case p.check(token.Star):
		n.Alt = EntrySpread
		n.AddChild(p.take())
	default:
		tok := p.peek()
		if tok.Kind.IsLiteral() {
			n.AddChild(p.parseLiteral())
		} else {
			n.AddChild(p.leaf(KindIdentifier, p.advance()))
		}
	}
	n.AddChild(p.take())
	p.skipNewlines()
	n.AddChild(p.parseExpression())
	return p.finishNode(n)
}

// parseClosure parses "{ params -> statements }". The parameter list and
// arrow are optional.
func (p *Parser) parseClosure() *Node {
	n := p.startNode(KindClosure)
	hasParams := p.isClosureWithParams()
	p.advance()
	p.skipNewlines()
	if hasParams {
		if !p.check(token.Arrow) {
			n.AddChild(p.parseClosureParameters())
		}
		p.skipNewlines()
		if tok := p.expect(token.Arrow); tok != nil {
			n.AddChild(p.tokenNode(*tok))
		} else {
			n.AddChild(p.missing(token.Arrow))
		}
	}
	body := p.startNode(KindBlock)
	p.parseStatements(body, p.parseBlockStatement, token.RBrace)
	n.AddChild(p.finishNode(body))
	p.want(n, token.RBrace)
	return p.finishNode(n)
}

func (p *Parser) parseClosureParameters() *Node {
	n := p.startNode(KindFormalParameters)
	for {
		n.AddChild(p.parseFormalParameter())
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	return p.finishNode(n)
}

// parseLambda parses "(params) -> body" or "name -> body".
func (p *Parser) parseLambda() *Node {
	n := p.startNode(KindLambda)
	p.gate(FeatureLambda, p.peek().Span)
	if p.check(token.LParen) {
		n.AddChild(p.parseFormalParameters())
	} else {
		params := p.startNode(KindFormalParameters)
		param := p.startNode(KindFormalParameter)
		param.AddChild(p.leaf(KindIdentifier, p.advance()))
		params.AddChild(p.finishNode(param))
		n.AddChild(p.finishNode(params))
	}
	p.skipNewlines()
	if tok := p.expect(token.Arrow); tok != nil {
		n.AddChild(p.tokenNode(*tok))
	} else {
		n.AddChild(p.missing(token.Arrow))
		return p.finishNode(n)
	}
	p.skipNewlines()
	if p.check(token.LBrace) {
		n.AddChild(p.parseBlock())
	} else {
		n.AddChild(p.parseStatementExpression())
	}
	return p.finishNode(n)
}

// parseCreator parses "new" followed by a constructor call, an
// anonymous class or an array creation.
func (p *Parser) parseCreator() *Node {
	n := p.startNode(KindNewExpr)
	p.advance()
	n.AddChild(p.parseCreatedName())
	switch {
	case p.check(token.LBrack):
		dims := p.startNode(KindDims)
		empty := false
		for p.check(token.LBrack) {
			p.advance()
			if p.check(token.RBrack) {
				empty = true
			} else {
				dims.AddChild(p.parseExpression())
			}
			p.want(dims, token.RBrack)
		}
		n.AddChild(p.finishNode(dims))
		if empty && p.check(token.LBrace) {
			n.AddChild(p.parseArrayInit())
		}
	case p.check(token.LParen):
		n.AddChild(p.parseArguments())
		if p.check(token.LBrace) {
			n.AddChild(p.parseClassBody(CtxTypeBody, ""))
		}
	default:
		n.AddChild(p.missing(token.LParen, token.LBrack))
	}
	return p.finishNode(n)
}

// parseCreatedName parses the type after new, which may use the diamond.
func (p *Parser) parseCreatedName() *Node {
	n := p.startNode(KindType)
	for p.check(token.At) {
		n.AddChild(p.parseAnnotation())
	}
	if p.peek().Kind.IsPrimitive() {
		n.Alt = TypePrimitive
		n.AddChild(p.take())
		return p.finishNode(n)
	}
	n.Alt = TypeClass
	p.parseClassTypeSegments(n, true)
	return p.finishNode(n)
}

func (p *Parser) parseArrayInit() *Node {
	n := p.startNode(KindArrayInit)
	p.advance()
	p.skipNewlines()
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.check(token.LBrace) {
			n.AddChild(p.parseArrayInit())
		} else {
			n.AddChild(p.parseExpression())
		}
		p.skipNewlines()
		if p.expect(token.Comma) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RBrace)
	return p.finishNode(n)
}
