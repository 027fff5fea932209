package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

func (p *Parser) parseBlock() *Node {
	n := p.startNode(KindBlock)
	if !p.want(n, token.LBrace) {
		return p.finishNode(n)
	}
	p.parseStatements(n, p.parseBlockStatement, token.RBrace)
	p.want(n, token.RBrace)
	return p.finishNode(n)
}

// parseBlockStatement parses a statement or a local type declaration.
func (p *Parser) parseBlockStatement() *Node {
	if p.isTypeDeclarationStart() {
		return p.parseTypeDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case token.LBrace:
		if !p.isClosureWithParams() {
			return p.parseBlock()
		}
	case token.Semi:
		n := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(n)
	case token.If:
		return p.parseIfStatement()
	case token.For:
		return p.parseForStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Break, token.Continue:
		return p.parseJumpStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Assert:
		return p.parseAssertStatement()
	case token.Synchronized:
		if p.peekN(1).Kind == token.LParen {
			return p.parseSynchronizedStatement()
		}
	case token.Yield:
		if p.isYieldStatement() {
			return p.parseYieldStatement()
		}
	}
	if p.isLabel() {
		return p.parseLabeledStatement()
	}
	if !p.isInvalidLocalVariableDeclaration() {
		return p.parseLocalVariableDeclaration()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() *Node {
	n := p.startNode(KindExprStmt)
	n.AddChild(p.parseStatementExpression())
	return p.finishNode(n)
}

// parseLocalVariableDeclaration parses "mods Type a = 1, b" or the
// multiple form "def (a, b) = expr".
func (p *Parser) parseLocalVariableDeclaration() *Node {
	n := p.startNode(KindLocalVarDecl)
	n.Alt = VarSingle
	mods := p.parseModifiers()
	n.AddChild(mods)
	if mods != nil && p.check(token.LParen) {
		n.Alt = VarMultiple
		n.AddChild(p.parseVariableNames())
		p.skipNewlines()
		if !p.want(n, token.Assign) {
			return p.finishNode(n)
		}
		p.skipNewlines()
		n.AddChild(p.parseStatementExpression())
		return p.finishNode(n)
	}
	if mods == nil || !p.isIdentifierLike() || !isDeclaratorEnd(p.peekN(1).Kind) {
		n.AddChild(p.parseType())
	}
	p.parseVariableDeclarators(n)
	return p.finishNode(n)
}

func (p *Parser) parseIfStatement() *Node {
	n := p.startNode(KindIfStmt)
	p.advance()
	n.AddChild(p.parseParExpression())
	p.skipNewlines()
	n.AddChild(p.parseStatement())
	if p.elseFollows() {
		p.skipSeparators()
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseStatement())
	}
	return p.finishNode(n)
}

// elseFollows reports whether else comes next, possibly after separators.
func (p *Parser) elseFollows() bool {
	i := 0
	for k := p.peekN(i).Kind; k == token.NL || k == token.Semi; k = p.peekN(i).Kind {
		i++
	}
	return p.peekN(i).Kind == token.Else
}

func (p *Parser) parseWhileStatement() *Node {
	n := p.startNode(KindWhileStmt)
	p.advance()
	n.AddChild(p.parseParExpression())
	p.skipNewlines()
	n.AddChild(p.parseStatement())
	return p.finishNode(n)
}

func (p *Parser) parseDoWhileStatement() *Node {
	n := p.startNode(KindDoWhileStmt)
	tok := p.advance()
	p.gate(FeatureDoWhile, tok.Span)
	p.skipNewlines()
	n.AddChild(p.parseStatement())
	p.skipSeparators()
	if !p.want(n, token.While) {
		return p.finishNode(n)
	}
	n.AddChild(p.parseParExpression())
	return p.finishNode(n)
}

func (p *Parser) parseForStatement() *Node {
	n := p.startNode(KindForStmt)
	p.advance()
	if !p.want(n, token.LParen) {
		return p.finishNode(n)
	}
	if p.isEnhancedForControl() {
		n.Alt = ForEnhanced
		param := p.startNode(KindFormalParameter)
		param.AddChild(p.parseModifiers())
		if !p.isIdentifierLike() || !isForInName(p.peekN(1).Kind) {
			param.AddChild(p.parseType())
		}
		if tok := p.expectIdentifier(); tok != nil {
			param.AddChild(p.leaf(KindIdentifier, *tok))
		} else {
			param.AddChild(p.missing(token.Identifier))
		}
		n.AddChild(p.finishNode(param))
		n.AddChild(p.take())
		n.AddChild(p.parseExpression())
	} else {
		n.Alt = ForClassic
		init := p.startNode(KindForInit)
		if !p.check(token.Semi) {
			if !p.isInvalidLocalVariableDeclaration() {
				init.AddChild(p.parseLocalVariableDeclaration())
			} else {
				p.parseExpressionList(init)
			}
		}
		n.AddChild(p.finishNode(init))
		p.want(n, token.Semi)
		if !p.check(token.Semi) {
			n.AddChild(p.parseExpression())
		}
		p.want(n, token.Semi)
		update := p.startNode(KindForUpdate)
		if !p.check(token.RParen) {
			p.parseExpressionList(update)
		}
		n.AddChild(p.finishNode(update))
	}
	if !p.want(n, token.RParen) {
		return p.finishNode(n)
	}
	p.skipNewlines()
	n.AddChild(p.parseStatement())
	return p.finishNode(n)
}

func isForInName(kind token.Kind) bool {
	return kind == token.In || kind == token.Colon
}

func (p *Parser) parseExpressionList(n *Node) {
	for {
		n.AddChild(p.parseStatementExpression())
		if p.expect(token.Comma) == nil {
			return
		}
		p.skipNewlines()
	}
}

func (p *Parser) parseTryStatement() *Node {
	n := p.startNode(KindTryStmt)
	p.advance()
	hasResources := false
	if p.check(token.LParen) {
		hasResources = true
		n.AddChild(p.parseResources())
	}
	p.skipNewlines()
	n.AddChild(p.parseBlock())

	clauses := 0
	for p.nlsBefore(token.Catch) {
		n.AddChild(p.parseCatchClause())
		clauses++
	}
	if p.nlsBefore(token.Finally) {
		clause := p.startNode(KindFinallyClause)
		p.advance()
		p.skipNewlines()
		clause.AddChild(p.parseBlock())
		n.AddChild(p.finishNode(clause))
		clauses++
	}
	if clauses == 0 && !hasResources {
		n.AddChild(p.missing(token.Catch, token.Finally))
	}
	return p.finishNode(n)
}

func (p *Parser) parseResources() *Node {
	n := p.startNode(KindResources)
	tok := p.advance()
	p.gate(FeatureTryResources, tok.Span)
	p.skipNewlines()
	for !p.check(token.RParen) && !p.check(token.EOF) {
		res := p.startNode(KindResource)
		if !p.isInvalidLocalVariableDeclaration() {
			res.AddChild(p.parseLocalVariableDeclaration())
		} else {
			res.AddChild(p.parseExpression())
		}
		n.AddChild(p.finishNode(res))
		p.skipNewlines()
		if p.expect(token.Semi) == nil {
			break
		}
		p.skipNewlines()
	}
	p.want(n, token.RParen)
	return p.finishNode(n)
}

// parseCatchClause parses "catch (A | B e) { }". The exception type is
// optional.
func (p *Parser) parseCatchClause() *Node {
	n := p.startNode(KindCatchClause)
	p.advance()
	if !p.want(n, token.LParen) {
		return p.finishNode(n)
	}
	n.AddChild(p.parseModifiers())
	if !p.isIdentifierLike() || p.peekN(1).Kind != token.RParen {
		types := p.startNode(KindCatchType)
		types.AddChild(p.parseType())
		for p.check(token.BitOr) {
			p.advance()
			types.AddChild(p.parseType())
		}
		n.AddChild(p.finishNode(types))
	}
	if tok := p.expectIdentifier(); tok != nil {
		n.AddChild(p.leaf(KindIdentifier, *tok))
	} else {
		n.AddChild(p.missing(token.Identifier))
	}
	p.want(n, token.RParen)
	p.skipNewlines()
	n.AddChild(p.parseBlock())
	return p.finishNode(n)
}

func (p *Parser) parseSwitchStatement() *Node {
	n := p.startNode(KindSwitchStmt)
	p.advance()
	n.AddChild(p.parseParExpression())
	p.skipNewlines()
	if !p.want(n, token.LBrace) {
		return p.finishNode(n)
	}
	p.parseSwitchGroups(n)
	p.want(n, token.RBrace)
	return p.finishNode(n)
}

// parseSwitchExpression parses a switch used as a value. Its groups may
// yield, so the switch-expression depth is raised while they are parsed.
func (p *Parser) parseSwitchExpression() *Node {
	n := p.startNode(KindSwitchExpr)
	n.Context = CtxSwitchExpr
	tok := p.advance()
	p.gate(FeatureSwitchExpression, tok.Span)
	n.AddChild(p.parseParExpression())
	p.skipNewlines()
	if !p.want(n, token.LBrace) {
		return p.finishNode(n)
	}
	leave := p.enterSwitchExpr()
	p.parseSwitchGroups(n)
	leave()
	p.want(n, token.RBrace)
	return p.finishNode(n)
}

func (p *Parser) parseSwitchGroups(n *Node) {
	for {
		p.skipSeparators()
		if p.check(token.RBrace) || p.check(token.EOF) {
			return
		}
		progress := p.mustProgress()
		if p.match(token.Case, token.Default) {
			n.AddChild(p.parseSwitchGroup())
		} else {
			n.AddChild(p.errorNode(AlternativeExhausted,
				"expected case or default, found "+p.peek().String(),
				[]token.Kind{token.Case, token.Default}, token.Case, token.Default))
			p.synced()
		}
		progress()
	}
}

// parseSwitchGroup parses labels and their statements. An arrow label
// takes a single expression, block or throw; colon labels fall through to
// the statements that follow.
func (p *Parser) parseSwitchGroup() *Node {
	n := p.startNode(KindSwitchGroup)
	n.Alt = GroupColon
	for p.match(token.Case, token.Default) {
		label, arrow := p.parseSwitchLabel()
		n.AddChild(label)
		if arrow {
			n.Alt = GroupArrow
			break
		}
		p.skipSeparators()
	}

	if n.Alt == GroupArrow {
		p.skipNewlines()
		switch {
		case p.check(token.LBrace):
			n.AddChild(p.parseBlock())
		case p.check(token.Throw):
			n.AddChild(p.parseThrowStatement())
		default:
			n.AddChild(p.parseExpressionStatement())
		}
		return p.finishNode(n)
	}

	p.parseStatements(n, p.parseBlockStatement, token.RBrace, token.Case, token.Default)
	return p.finishNode(n)
}

func (p *Parser) parseSwitchLabel() (*Node, bool) {
	n := p.startNode(KindSwitchLabel)
	if p.expect(token.Default) != nil {
		n.Alt = LabelDefault
	} else {
		p.advance()
		n.Alt = LabelCase
		n.AddChild(p.parseExpressionWith(noLambda))
		for p.check(token.Comma) {
			p.advance()
			p.skipNewlines()
			n.AddChild(p.parseExpressionWith(noLambda))
		}
	}
	switch {
	case p.check(token.Colon):
		p.advance()
		return p.finishNode(n), false
	case p.check(token.Arrow):
		tok := p.advance()
		p.gate(FeatureArrowCase, tok.Span)
		return p.finishNode(n), true
	}
	n.AddChild(p.missing(token.Colon, token.Arrow))
	return p.finishNode(n), false
}

func (p *Parser) parseReturnStatement() *Node {
	n := p.startNode(KindReturnStmt)
	p.advance()
	if !p.atStatementEnd([]token.Kind{token.RBrace, token.Case, token.Default}) {
		n.AddChild(p.parseExpression())
	}
	return p.finishNode(n)
}

func (p *Parser) parseJumpStatement() *Node {
	n := p.startNode(KindBreakStmt)
	if p.advance().Kind == token.Continue {
		n.Kind = KindContinueStmt
	}
	if p.isIdentifierLike() {
		n.AddChild(p.leaf(KindIdentifier, p.advance()))
	}
	return p.finishNode(n)
}

func (p *Parser) parseThrowStatement() *Node {
	n := p.startNode(KindThrowStmt)
	p.advance()
	n.AddChild(p.parseExpression())
	return p.finishNode(n)
}

func (p *Parser) parseAssertStatement() *Node {
	n := p.startNode(KindAssertStmt)
	p.advance()
	n.AddChild(p.parseExpression())
	if p.match(token.Colon, token.Comma) {
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseExpression())
	}
	return p.finishNode(n)
}

func (p *Parser) parseSynchronizedStatement() *Node {
	n := p.startNode(KindSynchronizedStmt)
	p.advance()
	n.AddChild(p.parseParExpression())
	p.skipNewlines()
	n.AddChild(p.parseBlock())
	return p.finishNode(n)
}

func (p *Parser) parseLabeledStatement() *Node {
	n := p.startNode(KindLabeledStmt)
	n.AddChild(p.leaf(KindIdentifier, p.advance()))
	p.advance()
	p.skipNewlines()
	n.AddChild(p.parseStatement())
	return p.finishNode(n)
}

func (p *Parser) parseYieldStatement() *Node {
	n := p.startNode(KindYieldStmt)
	n.Context = CtxSwitchExpr
	tok := p.advance()
	p.gate(FeatureYield, tok.Span)
	n.AddChild(p.parseStatementExpression())
	return p.finishNode(n)
}
