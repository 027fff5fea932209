package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/grove/groovy/token"
)

// Predicates decide between alternatives that share a prefix. Each one
// looks ahead through lookahead, so none of them moves the cursor or
// records a diagnostic.

// isInvalidMethodDeclaration reports whether the tokens at the cursor
// cannot start a method declaration. A name directly followed by "(" is a
// call unless modifiers precede it, and a declaration needs a body.
func (p *Parser) isInvalidMethodDeclaration() bool {
	return !p.lookahead(func() bool {
		mods := p.skipModifiers()
		if p.check(token.Lt) {
			if !p.skipTypeArguments() {
				return false
			}
			mods = true
		}
		if p.isMethodName() && p.peekN(1).Kind == token.LParen {
			if !mods {
				return false
			}
		} else {
			if ok, _, _ := p.skipType(); !ok {
				return false
			}
			if !p.isMethodName() || p.peekN(1).Kind != token.LParen {
				return false
			}
		}
		p.advance()
		if !p.skipBalanced() {
			return false
		}
		p.skipNewlines()
		return p.match(token.LBrace, token.Throws, token.Default)
	})
}

// isInvalidLocalVariableDeclaration reports whether the statement at the
// cursor must be read as an expression. "foo bar" is a command call while
// "Foo bar" declares a variable: without modifiers, a type whose last
// segment starts with a lowercase letter only declares when followed by
// "=", type arguments or dimensions.
func (p *Parser) isInvalidLocalVariableDeclaration() bool {
	return !p.lookahead(func() bool {
		if p.skipModifiers() {
			if p.check(token.LParen) {
				return p.isVariableNames()
			}
			if p.isIdentifierLike() && isDeclaratorEnd(p.peekN(1).Kind) {
				return true
			}
			ok, _, _ := p.skipType()
			return ok && p.isIdentifierLike()
		}
		ok, last, complex := p.skipType()
		if !ok || !p.isIdentifierLike() {
			return false
		}
		p.advance()
		if !complex && !last.Kind.IsPrimitive() && startsLower(last.Literal) && !p.check(token.Assign) {
			return false
		}
		return isDeclaratorEnd(p.peek().Kind)
	})
}

// alreadyHasArgumentsOrClosure reports whether a command head is already
// a call, in which case trailing bare words chain further calls instead of
// supplying its arguments.
func alreadyHasArgumentsOrClosure(head *Node) bool {
	if head == nil || head.Kind != KindPath {
		return false
	}
	return head.Alt == InteractCall || head.Alt == InteractClosureCall
}

// isStaticQualifier reports whether a leading static keyword heads a path
// such as static.field rather than starting a modifier list. The decision
// uses exactly two tokens of lookahead.
func (p *Parser) isStaticQualifier() bool {
	return p.check(token.Static) && p.peekN(1).Kind == token.Dot
}

// isYieldStatement gates yield on being inside a switch expression;
// elsewhere yield is an ordinary identifier.
func (p *Parser) isYieldStatement() bool {
	return p.check(token.Yield) && p.inSwitchExpr()
}

func (p *Parser) isTypeDeclarationStart() bool {
	return p.lookahead(func() bool {
		p.skipModifiers()
		switch p.peek().Kind {
		case token.Class, token.Interface, token.Enum, token.Trait:
			return true
		case token.At:
			return p.peekN(1).Kind == token.Interface
		case token.Record:
			return p.peekN(1).Kind.IsIdentifier() &&
				(p.peekN(2).Kind == token.LParen || p.peekN(2).Kind == token.Lt)
		}
		return false
	})
}

// isLambdaStart reports whether the cursor starts "(params) ->" or
// "name ->".
func (p *Parser) isLambdaStart() bool {
	if p.isIdentifierLike() {
		return p.peekN(1).Kind == token.Arrow
	}
	if !p.check(token.LParen) {
		return false
	}
	return p.lookahead(func() bool {
		if !p.skipBalanced() {
			return false
		}
		return p.nlsBefore(token.Arrow)
	})
}

// isClosureWithParams reports whether the brace at the cursor opens a
// closure with an explicit parameter list: an arrow at nesting depth zero
// before the first statement separator.
func (p *Parser) isClosureWithParams() bool {
	return p.lookahead(func() bool {
		p.advance()
		p.skipNewlines()
		depth := 0
		prev := token.LBrace
		for !p.check(token.EOF) {
			kind := p.peek().Kind
			switch kind {
			case token.Arrow:
				if depth == 0 {
					return true
				}
			case token.LParen, token.LBrack, token.LBrace, token.SafeIndex:
				depth++
			case token.RParen, token.RBrack, token.RBrace:
				if depth == 0 {
					return false
				}
				depth--
			case token.Semi:
				if depth == 0 {
					return false
				}
			case token.NL:
				if depth == 0 && prev != token.Comma {
					return false
				}
			}
			prev = kind
			p.advance()
		}
		return false
	})
}

// isEnhancedForControl reports whether a for header iterates with in or
// ":" rather than using the three-clause form.
func (p *Parser) isEnhancedForControl() bool {
	return p.lookahead(func() bool {
		p.skipModifiers()
		if p.isIdentifierLike() && (p.peekN(1).Kind == token.In || p.peekN(1).Kind == token.Colon) {
			return true
		}
		if ok, _, _ := p.skipType(); !ok || !p.isIdentifierLike() {
			return false
		}
		p.advance()
		return p.match(token.In, token.Colon)
	})
}

// isVariableNames reports whether the cursor starts "(a, b, ...)".
func (p *Parser) isVariableNames() bool {
	return p.lookahead(func() bool {
		if p.expect(token.LParen) == nil {
			return false
		}
		count := 0
		for {
			next := p.peekN(1).Kind
			if !p.isIdentifierLike() || (next != token.Comma && next != token.RParen) {
				if ok, _, _ := p.skipType(); !ok || !p.isIdentifierLike() {
					return false
				}
			}
			p.advance()
			count++
			if p.expect(token.Comma) == nil {
				break
			}
		}
		return count > 1 && p.expect(token.RParen) != nil
	})
}

// isLabel reports whether the cursor starts "name:".
func (p *Parser) isLabel() bool {
	return p.isIdentifierLike() && p.peekN(1).Kind == token.Colon
}

// isMapEntryLabel reports whether the cursor starts a map key such as
// "name:", "'key':", "class:" or "1:".
func (p *Parser) isMapEntryLabel() bool {
	kind := p.peek().Kind
	if p.peekN(1).Kind != token.Colon {
		return false
	}
	return kind.IsIdentifier() || kind.IsKeyword() || kind.IsLiteral()
}

func (p *Parser) isMethodName() bool {
	return p.isIdentifierLike() || p.check(token.StringLiteral)
}

// skipModifiers skips annotations and modifier keywords, reporting
// whether any were present.
func (p *Parser) skipModifiers() bool {
	found := false
	for {
		switch {
		case p.check(token.At) && p.peekN(1).Kind != token.Interface:
			p.advance()
			if !p.skipQualifiedName() {
				return found
			}
			if p.check(token.LParen) && !p.skipBalanced() {
				return found
			}
			p.skipNewlines()
		case p.isModifierHere():
			p.advance()
		default:
			return found
		}
		found = true
	}
}

// isModifierHere reports whether the current token acts as a modifier.
// Contextual modifiers such as var and sealed only count when something
// declarable follows them.
func (p *Parser) isModifierHere() bool {
	tok := p.peek()
	if !tok.Kind.IsModifier() {
		return false
	}
	switch tok.Kind {
	case token.Static:
		return !p.isStaticQualifier()
	case token.Synchronized:
		return p.peekN(1).Kind != token.LParen
	case token.Var, token.Sealed:
		next := p.peekN(1).Kind
		return next.IsIdentifier() || next.IsModifier() || next.IsPrimitive() ||
			next == token.Class || next == token.Interface || next == token.LParen
	}
	return true
}

func (p *Parser) skipQualifiedName() bool {
	if !p.isIdentifierLike() {
		return false
	}
	p.advance()
	for p.check(token.Dot) && p.peekN(1).Kind.IsIdentifier() {
		p.advance()
		p.advance()
	}
	return true
}

// skipType skips a type. It returns the token naming the type (the last
// segment of a qualified name) and whether type arguments or dimensions
// were present.
func (p *Parser) skipType() (ok bool, last token.Token, complex bool) {
	for p.check(token.At) {
		p.advance()
		if !p.skipQualifiedName() {
			return false, last, false
		}
		if p.check(token.LParen) && !p.skipBalanced() {
			return false, last, false
		}
	}
	switch {
	case p.peek().Kind.IsPrimitive() || p.check(token.Void):
		last = p.advance()
	case p.isIdentifierLike():
		last = p.advance()
		for {
			if p.check(token.Lt) {
				if !p.skipTypeArguments() {
					return false, last, false
				}
				complex = true
			}
			if p.check(token.Dot) && p.peekN(1).Kind.IsIdentifier() {
				p.advance()
				last = p.advance()
				continue
			}
			break
		}
	default:
		return false, last, false
	}
	for p.check(token.LBrack) && p.peekN(1).Kind == token.RBrack {
		p.advance()
		p.advance()
		complex = true
	}
	if p.check(token.Ellipsis) {
		complex = true
	}
	return true, last, complex
}

// skipTypeArguments skips a balanced "<...>" group made only of tokens
// that can appear in type arguments.
func (p *Parser) skipTypeArguments() bool {
	if !p.check(token.Lt) {
		return false
	}
	depth := 0
	for {
		tok := p.advance()
		switch tok.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return true
			}
		case token.Identifier, token.CapitalizedIdentifier, token.Question,
			token.Extends, token.Super, token.Comma, token.Dot, token.BitAnd,
			token.LBrack, token.RBrack, token.At, token.Void:
		default:
			if !tok.Kind.IsIdentifier() && !tok.Kind.IsPrimitive() {
				return false
			}
		}
	}
}

// skipBalanced skips from an opening bracket to its matching closer.
func (p *Parser) skipBalanced() bool {
	if !p.match(token.LParen, token.LBrack, token.LBrace, token.SafeIndex) {
		return false
	}
	depth := 0
	for !p.check(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBrack, token.LBrace, token.SafeIndex:
			depth++
		case token.RParen, token.RBrack, token.RBrace:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func isDeclaratorEnd(kind token.Kind) bool {
	switch kind {
	case token.Assign, token.Comma, token.NL, token.Semi, token.RBrace,
		token.RParen, token.EOF, token.Colon, token.In:
		return true
	}
	return false
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
