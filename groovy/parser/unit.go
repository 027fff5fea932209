package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// parseCompilationUnit parses a whole file: an optional package
// declaration followed by imports, type declarations, script methods and
// statements in any order.
func (p *Parser) parseCompilationUnit() *Node {
	n := p.startNode(KindCompilationUnit)
	n.Context = CtxScript
	p.skipSeparators()
	if p.isPackageDeclaration() {
		n.AddChild(p.parsePackageDeclaration())
		if !p.atStatementEnd(nil) {
			n.AddChild(p.missing(token.NL, token.Semi))
			n.AddChild(p.syncStatement("unexpected input after package declaration", nil))
		}
		p.synced()
	}
	p.parseStatements(n, p.parseScriptStatement)
	return p.finishNode(n)
}

func (p *Parser) isPackageDeclaration() bool {
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
		return p.check(token.Package)
	})
}

func (p *Parser) parsePackageDeclaration() *Node {
	n := p.startNode(KindPackageDecl)
	n.AddChild(p.parseModifiers())
	p.advance()
	n.AddChild(p.parseQualifiedName())
	return p.finishNode(n)
}

// parseScriptStatement parses one top-level element of a script.
func (p *Parser) parseScriptStatement() *Node {
	switch {
	case p.check(token.Import) || p.isAnnotatedImport():
		return p.parseImportDeclaration()
	case p.isTypeDeclarationStart():
		return p.parseTypeDeclaration()
	case !p.isInvalidMethodDeclaration():
		if !p.scriptMethods {
			tok := p.peek()
			p.report(PredicateRejected, tok.Span, "method declarations are not allowed in this script")
		}
		n := p.parseMethodDeclaration()
		n.Context = CtxScript
		return n
	case p.match(token.RParen, token.RBrack, token.RBrace):
		return p.errorNode(AlternativeExhausted, "unexpected "+p.peek().String(), nil)
	}
	return p.parseStatement()
}

func (p *Parser) isAnnotatedImport() bool {
	if !p.check(token.At) {
		return false
	}
	return p.lookahead(func() bool {
		p.skipModifiers()
		return p.check(token.Import)
	})
}

// parseImportDeclaration parses regular, static, star and aliased
// imports.
func (p *Parser) parseImportDeclaration() *Node {
	n := p.startNode(KindImportDecl)
	n.AddChild(p.parseModifiers())
	n.Alt = ImportRegular
	p.advance()
	if p.check(token.Static) {
		n.Alt = ImportStatic
		n.AddChild(p.take())
	}
	n.AddChild(p.parseQualifiedName())
	switch {
	case p.check(token.Dot) && p.peekN(1).Kind == token.Star:
		p.advance()
		n.AddChild(p.take())
	case p.check(token.Dot):
		p.advance()
		n.AddChild(p.missing(token.Identifier, token.Star))
	case p.check(token.As):
		p.advance()
		if tok := p.expectIdentifier(); tok != nil {
			n.AddChild(p.leaf(KindIdentifier, *tok))
		} else {
			n.AddChild(p.missing(token.Identifier))
		}
	}
	return p.finishNode(n)
}
