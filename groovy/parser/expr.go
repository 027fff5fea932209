package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

// exprFlags carries expression context that is threaded explicitly
// through the climbing recursion.
type exprFlags uint8

const (
	// allowCommand lets the right side of an assignment be a command
	// expression, as in x = foo 1, 2.
	allowCommand exprFlags = 1 << iota
	// noLambda reads "x -> y" as a switch rule rather than a lambda.
	noLambda
)

// Precedence levels, lowest first. Type tests share the relational slot
// above plain comparisons.
const (
	precNone = iota
	precAssignment
	precConditional
	precLogicalOr
	precLogicalAnd
	precBitOr
	precXor
	precBitAnd
	precRegex
	precEquality
	precRelational
	precTypeTest
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPower
	precPostfix
)

type binaryOp struct {
	prec  int
	kind  NodeKind
	right bool
	// newlines may precede the operator
	leadingNL bool
	// tokens forming the operator, more than one for << >> >>>
	width int
	// newlines to skip before the operator
	nls int
}

var binaryOps = map[token.Kind]binaryOp{
	token.OrOr:                {prec: precLogicalOr, kind: KindLogicalOrExpr, leadingNL: true},
	token.AndAnd:              {prec: precLogicalAnd, kind: KindLogicalAndExpr, leadingNL: true},
	token.BitOr:               {prec: precBitOr, kind: KindBitOrExpr, leadingNL: true},
	token.Xor:                 {prec: precXor, kind: KindXorExpr, leadingNL: true},
	token.BitAnd:              {prec: precBitAnd, kind: KindBitAndExpr, leadingNL: true},
	token.RegexFind:           {prec: precRegex, kind: KindRegexExpr, leadingNL: true},
	token.RegexMatch:          {prec: precRegex, kind: KindRegexExpr, leadingNL: true},
	token.Eq:                  {prec: precEquality, kind: KindEqualityExpr, leadingNL: true},
	token.Ne:                  {prec: precEquality, kind: KindEqualityExpr, leadingNL: true},
	token.Identical:           {prec: precEquality, kind: KindEqualityExpr, leadingNL: true},
	token.NotIdentical:        {prec: precEquality, kind: KindEqualityExpr, leadingNL: true},
	token.Spaceship:           {prec: precEquality, kind: KindEqualityExpr, leadingNL: true},
	token.Lt:                  {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.Le:                  {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.Gt:                  {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.Ge:                  {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.In:                  {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.NotIn:               {prec: precRelational, kind: KindRelationalExpr, leadingNL: true},
	token.Instanceof:          {prec: precTypeTest, kind: KindTypeTestExpr, leadingNL: true},
	token.NotInstanceof:       {prec: precTypeTest, kind: KindTypeTestExpr, leadingNL: true},
	token.As:                  {prec: precTypeTest, kind: KindTypeTestExpr, leadingNL: true},
	token.Range:               {prec: precShift, kind: KindRangeExpr, leadingNL: true},
	token.RangeExclusiveRight: {prec: precShift, kind: KindRangeExpr, leadingNL: true},
	token.RangeExclusiveLeft:  {prec: precShift, kind: KindRangeExpr, leadingNL: true},
	token.RangeExclusiveFull:  {prec: precShift, kind: KindRangeExpr, leadingNL: true},
	token.Plus:                {prec: precAdditive, kind: KindAdditiveExpr},
	token.Minus:               {prec: precAdditive, kind: KindAdditiveExpr},
	token.Star:                {prec: precMultiplicative, kind: KindMultiplicativeExpr, leadingNL: true},
	token.Slash:               {prec: precMultiplicative, kind: KindMultiplicativeExpr, leadingNL: true},
	token.Percent:             {prec: precMultiplicative, kind: KindMultiplicativeExpr, leadingNL: true},
	token.Power:               {prec: precPower, kind: KindPowerExpr, right: true},
	token.Question:            {prec: precConditional, kind: KindTernaryExpr, right: true, leadingNL: true},
	token.Elvis:               {prec: precConditional, kind: KindElvisExpr, right: true, leadingNL: true},
}

var operatorFeatures = map[token.Kind]Feature{
	token.NotIn:              FeatureNotIn,
	token.NotInstanceof:      FeatureNotInstanceof,
	token.Identical:          FeatureIdentity,
	token.NotIdentical:       FeatureIdentity,
	token.ElvisAssign:        FeatureElvisAssign,
	token.RangeExclusiveLeft: FeatureLeftOpenRange,
	token.RangeExclusiveFull: FeatureLeftOpenRange,
}

func (p *Parser) parseExpression() *Node {
	return p.parseExpressionWith(0)
}

// parseExpressionWith tries the forms that sit outside the precedence
// ladder before entering the climbing loop.
func (p *Parser) parseExpressionWith(flags exprFlags) *Node {
	if p.check(token.LParen) && p.isVariableNames() {
		if n := p.parseMultipleAssignment(flags); n != nil {
			return n
		}
	}
	return p.parseBinary(precAssignment, flags)
}

// parseStatementExpression parses an expression that may continue as a
// command expression.
func (p *Parser) parseStatementExpression() *Node {
	return p.parseCommandExpression(p.parseExpressionWith(allowCommand))
}

func (p *Parser) parseMultipleAssignment(flags exprFlags) *Node {
	var n *Node
	ok := p.speculate(func() bool {
		n = p.startNode(KindMultipleAssignmentExpr)
		n.AddChild(p.parseVariableNames())
		if !p.nlsBefore(token.Assign) {
			return false
		}
		n.AddChild(p.take())
		return true
	})
	if !ok {
		return nil
	}
	p.skipNewlines()
	rhs := p.parseBinary(precAssignment, flags)
	if flags&allowCommand != 0 {
		rhs = p.parseCommandExpression(rhs)
	}
	n.AddChild(rhs)
	return p.finishNode(n)
}

// parseBinary is the climbing loop: it folds every operator binding at
// least as tightly as minPrec into a left-leaning tree, recursing with a
// raised floor for the right operand.
func (p *Parser) parseBinary(minPrec int, flags exprFlags) *Node {
	left := p.parseUnary(flags)
	for {
		op, ok := p.peekBinary()
		if !ok || op.prec < minPrec {
			return left
		}
		p.pos += op.nls
		switch op.prec {
		case precAssignment:
			left = p.parseAssignment(left, flags)
		case precConditional:
			left = p.parseConditional(left, flags)
		case precTypeTest:
			left = p.parseTypeTest(left, op)
		default:
			n := p.startNode(op.kind)
			n.AddChild(left)
			n.AddChild(p.takeOperator(op))
			p.skipNewlines()
			next := op.prec + 1
			if op.right {
				next = op.prec
			}
			n.AddChild(p.parseBinary(next, flags))
			left = p.finishNode(n)
		}
	}
}

// peekBinary classifies the operator at the cursor, looking past newlines
// for operators that may start a continuation line.
func (p *Parser) peekBinary() (binaryOp, bool) {
	nls := p.nextSignificant()
	tok := p.peekN(nls)

	var op binaryOp
	switch {
	case tok.Kind.IsAssignment():
		op = binaryOp{prec: precAssignment, kind: KindAssignmentExpr, right: true, leadingNL: true}
	case tok.Kind == token.Lt || tok.Kind == token.Gt:
		op = binaryOps[tok.Kind]
		if width := p.shiftWidth(nls); width > 1 {
			op = binaryOp{prec: precShift, kind: KindShiftExpr, leadingNL: true, width: width}
		}
	default:
		var ok bool
		op, ok = binaryOps[tok.Kind]
		if !ok {
			return binaryOp{}, false
		}
	}
	if nls > 0 && !op.leadingNL {
		return binaryOp{}, false
	}
	if op.width == 0 {
		op.width = 1
	}
	op.nls = nls
	return op, true
}

// shiftWidth counts the directly adjacent < or > tokens at offset i that
// together spell <<, >> or >>>.
func (p *Parser) shiftWidth(i int) int {
	first := p.peekN(i)
	max := 2
	if first.Kind == token.Gt {
		max = 3
	}
	width := 1
	end := first.Span.End.Offset
	for width < max {
		next := p.peekN(i + width)
		if next.Kind != first.Kind || next.Span.Start.Offset != end {
			break
		}
		end = next.Span.End.Offset
		width++
	}
	return width
}

// takeOperator consumes an operator as one leaf, merging the tokens of a
// shift operator.
func (p *Parser) takeOperator(op binaryOp) *Node {
	first := p.advance()
	if f, ok := operatorFeatures[first.Kind]; ok {
		p.gate(f, first.Span)
	}
	merged := first
	for i := 1; i < op.width; i++ {
		next := p.advance()
		merged.Literal += next.Literal
		merged.Span.End = next.Span.End
	}
	return p.tokenNode(merged)
}

func (p *Parser) parseAssignment(left *Node, flags exprFlags) *Node {
	n := p.startNode(KindAssignmentExpr)
	if !isAssignable(left) {
		p.report(InvalidAssignmentTarget, left.Span, "invalid assignment target")
	}
	n.AddChild(left)
	n.AddChild(p.takeOperator(binaryOp{width: 1}))
	p.skipNewlines()
	rhs := p.parseBinary(precAssignment, flags)
	if flags&allowCommand != 0 {
		rhs = p.parseCommandExpression(rhs)
	}
	n.AddChild(rhs)
	return p.finishNode(n)
}

// isAssignable reports whether an expression may appear left of "=".
func isAssignable(n *Node) bool {
	switch n.Kind {
	case KindIdentifier, KindError:
		return true
	case KindPath:
		last := n.LastChild()
		return last.Kind == KindMemberAccess || last.Kind == KindIndex
	}
	return false
}

func (p *Parser) parseConditional(cond *Node, flags exprFlags) *Node {
	if p.check(token.Elvis) {
		n := p.startNode(KindElvisExpr)
		n.AddChild(cond)
		n.AddChild(p.take())
		p.skipNewlines()
		n.AddChild(p.parseBinary(precConditional, flags))
		return p.finishNode(n)
	}

	n := p.startNode(KindTernaryExpr)
	n.AddChild(cond)
	n.AddChild(p.take())
	p.skipNewlines()
	n.AddChild(p.parseBinary(precConditional, flags))
	p.nlsBefore(token.Colon)
	if tok := p.expect(token.Colon); tok != nil {
		n.AddChild(p.tokenNode(*tok))
	} else {
		n.AddChild(p.missing(token.Colon))
		return p.finishNode(n)
	}
	p.skipNewlines()
	n.AddChild(p.parseBinary(precConditional, flags))
	return p.finishNode(n)
}

func (p *Parser) parseTypeTest(left *Node, op binaryOp) *Node {
	n := p.startNode(KindTypeTestExpr)
	n.AddChild(left)
	n.AddChild(p.takeOperator(op))
	p.skipNewlines()
	n.AddChild(p.parseType())
	return p.finishNode(n)
}

// parseUnary handles prefix operators and casts. Arithmetic prefixes bind
// looser than **, so -2 ** 2 negates the power; ! and ~ bind tighter.
func (p *Parser) parseUnary(flags exprFlags) *Node {
	switch p.peek().Kind {
	case token.Plus, token.Minus, token.Inc, token.Dec:
		n := p.startNode(KindUnaryExpr)
		n.AddChild(p.take())
		n.AddChild(p.parseBinary(precPower, flags))
		return p.finishNode(n)
	case token.Not, token.BitNot:
		n := p.startNode(KindNotExpr)
		n.AddChild(p.take())
		p.skipNewlines()
		n.AddChild(p.parseUnary(flags))
		return p.finishNode(n)
	case token.LParen:
		if cast := p.parseCast(flags); cast != nil {
			return cast
		}
	}
	return p.parsePostfix(flags)
}

// parseCast tries "(Type) operand". The trial is abandoned when the
// parenthesised content is not a type or no operand can follow, leaving
// the tokens to be read as a parenthesised expression.
func (p *Parser) parseCast(flags exprFlags) *Node {
	var n *Node
	ok := p.speculate(func() bool {
		n = p.startNode(KindCastExpr)
		p.advance()
		typ := p.parseType()
		if !looksLikeType(typ) || p.expect(token.RParen) == nil {
			return false
		}
		if !p.canStartCastOperand(typ) {
			return false
		}
		n.AddChild(typ)
		n.AddChild(p.parseUnary(flags))
		return true
	})
	if !ok {
		return nil
	}
	return p.finishNode(n)
}

// looksLikeType rejects parenthesised names that are more likely values:
// a cast type is primitive, generic, an array, or capitalised.
func looksLikeType(typ *Node) bool {
	if typ.HasErrors() {
		return false
	}
	if typ.Alt == TypePrimitive {
		return true
	}
	if typ.Alt != TypeClass {
		return false
	}
	var last *Node
	for _, child := range typ.Children {
		switch child.Kind {
		case KindTypeArguments, KindDims:
			return true
		case KindIdentifier:
			last = child
		}
	}
	return last != nil && !startsLower(last.TokenLiteral())
}

func (p *Parser) canStartCastOperand(typ *Node) bool {
	kind := p.peek().Kind
	switch kind {
	case token.As, token.In:
		return false
	case token.Plus, token.Minus, token.Inc, token.Dec:
		return typ.Alt == TypePrimitive
	case token.StringLiteral, token.GStringBegin, token.IntegerLiteral, token.FloatLiteral,
		token.True, token.False, token.Null, token.This, token.Super, token.New,
		token.Not, token.BitNot, token.LParen, token.LBrack, token.LBrace, token.Switch:
		return true
	}
	return kind.IsIdentifier() || kind.IsPrimitive()
}

func (p *Parser) parsePostfix(flags exprFlags) *Node {
	expr := p.parsePath(flags)
	for p.match(token.Inc, token.Dec) {
		n := p.startNode(KindPostfixExpr)
		n.AddChild(expr)
		n.AddChild(p.take())
		expr = p.finishNode(n)
	}
	return expr
}

// parseCommandExpression extends head with implicit, parenthesis-free
// arguments: foo 1, 2 bar 3 calls foo(1, 2) and then bar(3) on the result.
// A head that is already a call takes no implicit arguments of its own;
// the trailing words chain further calls instead.
func (p *Parser) parseCommandExpression(head *Node) *Node {
	if !isCommandHead(head) || !p.startsCommandArgument() {
		return head
	}
	n := p.startNode(KindCommandExpr)
	n.AddChild(head)
	if !alreadyHasArgumentsOrClosure(head) {
		n.AddChild(p.parseArgumentList())
	}
	for p.startsCommandArgument() {
		n.AddChild(p.parseCommandArgument())
	}
	return p.finishNode(n)
}

func isCommandHead(n *Node) bool {
	switch n.Kind {
	case KindIdentifier, KindPath, KindThis, KindSuper:
		return true
	}
	return false
}

// startsCommandArgument reports whether the current token can begin an
// implicit argument. Tokens that could continue the head as an operator
// never do.
func (p *Parser) startsCommandArgument() bool {
	kind := p.peek().Kind
	switch kind {
	case token.As, token.In:
		return false
	case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral, token.GStringBegin,
		token.True, token.False, token.Null, token.This, token.Super, token.New,
		token.Not, token.BitNot:
		return true
	}
	return kind.IsIdentifier()
}

// parseArgumentList parses comma-separated implicit arguments.
func (p *Parser) parseArgumentList() *Node {
	n := p.startNode(KindArgumentList)
	n.AddChild(p.parseArgument())
	for p.check(token.Comma) {
		p.advance()
		p.skipNewlines()
		n.AddChild(p.parseArgument())
	}
	return p.finishNode(n)
}

// parseCommandArgument parses one link of a command chain: a primary
// followed either by path elements or by its own implicit arguments.
func (p *Parser) parseCommandArgument() *Node {
	n := p.startNode(KindCommandArgument)
	prim := p.parsePrimary(0)
	if p.startsPathElement() {
		n.AddChild(p.parsePathElements(prim))
	} else {
		n.AddChild(prim)
		if p.startsCommandArgument() {
			n.AddChild(p.parseArgumentList())
		}
	}
	return p.finishNode(n)
}

// parseArgument parses one call argument: a named argument, a spread
// argument or an expression.
func (p *Parser) parseArgument() *Node {
	switch {
	case p.check(token.Star) && p.peekN(1).Kind == token.Colon:
		return p.parseMapEntry(nil)
	case p.isMapEntryLabel():
		return p.parseMapEntry(nil)
	case p.check(token.Star):
		n := p.startNode(KindSpreadArgument)
		n.AddChild(p.take())
		n.AddChild(p.parseExpression())
		return p.finishNode(n)
	}
	expr := p.parseExpression()
	if p.check(token.Colon) {
		return p.parseMapEntry(expr)
	}
	return expr
}
