package lexer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/grove/groovy/token"
)

type Option func(*Lexer)

// WithComments makes the lexer collect comments. They never appear in the
// token stream; read them back with Comments.
func WithComments() Option {
	return func(l *Lexer) {
		l.includeComments = true
	}
}

// frame is one entry of the nesting stack. open is one of ( [ { or $ for
// the brace that opens an embedded ${...} value; delim is the delimiter of
// the enclosing string for $ frames.
type frame struct {
	open  byte
	delim string
}

type Lexer struct {
	input           []byte
	pos             int
	line            int
	column          int
	includeComments bool
	comments        []token.Token
	pending         []token.Token
	stack           []frame
	last            token.Kind
	emitted         bool
}

func New(input []byte, opts ...Option) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize returns every significant token of input, terminated by EOF.
func Tokenize(input []byte, opts ...Option) []token.Token {
	l := New(input, opts...)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) Comments() []token.Token {
	return l.comments
}

func (l *Lexer) Position() token.Position {
	return token.Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	l.last = tok.Kind
	l.emitted = true
	return tok
}

func (l *Lexer) next() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.pos == 0 && l.peek() == '#' && l.peekN(1) == '!' {
		l.scanLineComment(l.Position())
	}

	for {
		l.skipBlanks()
		start := l.Position()

		if l.pos >= len(l.input) {
			return token.Token{Kind: token.EOF, Span: token.Span{Start: start, End: start}}
		}

		ch := l.peek()
		switch {
		case ch == '/' && l.peekN(1) == '/':
			l.scanLineComment(start)
			continue
		case ch == '/' && l.peekN(1) == '*':
			l.scanBlockComment(start)
			continue
		case ch == '\n':
			if tok, ok := l.scanNewline(start); ok {
				return tok
			}
			continue
		}

		switch {
		case isIdentStart(l.input[l.pos:]):
			return l.scanIdentOrKeyword(start)
		case isDigit(ch):
			return l.scanNumber(start)
		case ch == '\'':
			return l.scanQuotedString(start)
		case ch == '"':
			return l.scanGString(start)
		case ch == '/' && l.isRegexAllowed():
			return l.scanSlashyString(start)
		}
		return l.scanOperator(start)
	}
}

// skipBlanks skips spaces, tabs, carriage returns, and backslash line
// continuations. Newlines are significant and are left alone.
func (l *Lexer) skipBlanks() {
	for {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f':
			l.advance()
		case ch == '\\' && l.peekN(1) == '\n':
			l.advanceN(2)
		case ch == '\\' && l.peekN(1) == '\r' && l.peekN(2) == '\n':
			l.advanceN(3)
		default:
			return
		}
	}
}

// scanNewline consumes a run of newlines, blanks and comments. It reports
// a single NL token unless newlines are insignificant here: inside ( or [,
// at the start of input, or right after another separator.
func (l *Lexer) scanNewline(start token.Position) (token.Token, bool) {
	l.advance()
	end := l.Position()
	for {
		l.skipBlanks()
		ch := l.peek()
		if ch == '\n' {
			l.advance()
			continue
		}
		if ch == '/' && l.peekN(1) == '/' {
			l.scanLineComment(l.Position())
			continue
		}
		if ch == '/' && l.peekN(1) == '*' {
			l.scanBlockComment(l.Position())
			continue
		}
		break
	}
	if !l.emitted || l.last == token.NL || l.newlinesHidden() {
		return token.Token{}, false
	}
	return token.Token{
		Kind:    token.NL,
		Span:    token.Span{Start: start, End: end},
		Literal: "\n",
	}, true
}

func (l *Lexer) newlinesHidden() bool {
	if len(l.stack) == 0 {
		return false
	}
	top := l.stack[len(l.stack)-1].open
	return top == '(' || top == '['
}

func (l *Lexer) scanLineComment(start token.Position) {
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	l.addComment(start)
}

func (l *Lexer) scanBlockComment(start token.Position) {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	l.addComment(start)
}

func (l *Lexer) addComment(start token.Position) {
	if !l.includeComments {
		return
	}
	end := l.Position()
	l.comments = append(l.comments, token.Token{
		Kind:    token.Comment,
		Span:    token.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	})
}

// isRegexAllowed reports whether a '/' here opens a slashy string rather
// than being a division operator.
func (l *Lexer) isRegexAllowed() bool {
	if l.peekN(1) == '*' || l.peekN(1) == '/' {
		return false
	}
	switch l.last {
	case token.Dec, token.Inc, token.This, token.RBrace, token.RBrack, token.RParen,
		token.GStringEnd, token.Null, token.StringLiteral, token.True, token.False,
		token.IntegerLiteral, token.FloatLiteral, token.Identifier, token.CapitalizedIdentifier:
		return false
	}
	return true
}

func (l *Lexer) scanIdentOrKeyword(start token.Position) token.Token {
	l.scanIdentRunes()
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])

	if literal == "non" && l.hasPrefix("-sealed") {
		after := l.pos + len("-sealed")
		if after >= len(l.input) || !isIdentPart(l.input[after:]) {
			l.advanceN(len("-sealed"))
			return l.token(token.NonSealed, start)
		}
	}

	return token.Token{
		Kind:    token.LookupKeyword(literal),
		Span:    token.Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanIdentRunes() {
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos:]) {
		if l.input[l.pos] < utf8.RuneSelf {
			l.advance()
			continue
		}
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.pos += size
		l.column++
	}
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(token.IntegerLiteral, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(token.IntegerLiteral, start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'g', 'G':
		l.advance()
	case 'l', 'L', 'i', 'I':
		if !isFloat {
			l.advance()
		}
	}

	if isFloat {
		return l.token(token.FloatLiteral, start)
	}
	return l.token(token.IntegerLiteral, start)
}

func (l *Lexer) scanIntegerSuffix() {
	switch l.peek() {
	case 'l', 'L', 'i', 'I', 'g', 'G':
		l.advance()
	}
}

func (l *Lexer) scanQuotedString(start token.Position) token.Token {
	delim := "'"
	if l.hasPrefix("'''") {
		delim = "'''"
	}
	l.advanceN(len(delim))
	for l.pos < len(l.input) {
		if l.hasPrefix(delim) {
			l.advanceN(len(delim))
			return l.token(token.StringLiteral, start)
		}
		if l.peek() == '\n' && delim == "'" {
			break
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	return l.token(token.Error, start)
}

func (l *Lexer) scanGString(start token.Position) token.Token {
	delim := `"`
	if l.hasPrefix(`"""`) {
		delim = `"""`
	}
	l.advanceN(len(delim))
	l.scanStringSegment(start, delim, true)
	return l.dequeue()
}

func (l *Lexer) scanSlashyString(start token.Position) token.Token {
	l.advance()
	l.scanStringSegment(start, "/", true)
	return l.dequeue()
}

func (l *Lexer) dequeue() token.Token {
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

func (l *Lexer) queue(tok token.Token) {
	l.pending = append(l.pending, tok)
}

// scanStringSegment scans string text up to the closing delimiter or up
// to a '$' that introduces an embedded value, queueing the resulting
// tokens. first is true for the segment right after the opening
// delimiter; a string with no values is queued as one StringLiteral.
func (l *Lexer) scanStringSegment(start token.Position, delim string, first bool) {
	for l.pos < len(l.input) {
		if l.hasPrefix(delim) {
			l.advanceN(len(delim))
			kind := token.GStringEnd
			if first {
				kind = token.StringLiteral
			}
			l.queue(l.token(kind, start))
			return
		}
		ch := l.peek()
		if ch == '\n' && delim == `"` {
			break
		}
		if ch == '\\' {
			l.advance()
			if delim != "/" || l.peek() == '/' {
				l.advance()
			}
			continue
		}
		if ch == '$' && (l.peekN(1) == '{' || isIdentStart(l.input[l.pos+1:])) {
			l.advance()
			kind := token.GStringPart
			if first {
				kind = token.GStringBegin
			}
			l.queue(l.token(kind, start))
			l.scanGStringValue(delim)
			return
		}
		l.advance()
	}
	l.queue(l.token(token.Error, start))
}

// scanGStringValue scans the value following a '$'. A braced value only
// queues its '{'; the lexer then continues in normal mode until the
// matching '}' resumes the string. A dotted path is queued whole, followed
// by the next string segment.
func (l *Lexer) scanGStringValue(delim string) {
	if l.peek() == '{' {
		start := l.Position()
		l.advance()
		l.queue(l.token(token.LBrace, start))
		l.stack = append(l.stack, frame{open: '$', delim: delim})
		return
	}

	l.queue(l.scanIdentOrKeyword(l.Position()))
	for l.peek() == '.' && isIdentStart(l.input[l.pos+1:]) {
		dot := l.Position()
		l.advance()
		l.queue(l.token(token.Dot, dot))
		l.queue(l.scanIdentOrKeyword(l.Position()))
	}
	l.scanStringSegment(l.Position(), delim, false)
}

func (l *Lexer) push(open byte) {
	l.stack = append(l.stack, frame{open: open})
}

// pop removes the innermost frame when it was opened by open. Unbalanced
// closers leave the stack alone.
func (l *Lexer) pop(open byte) {
	if n := len(l.stack); n > 0 && l.stack[n-1].open == open {
		l.stack = l.stack[:n-1]
	}
}

func (l *Lexer) closeBrace(start token.Position) token.Token {
	l.advance()
	n := len(l.stack)
	if n > 0 && l.stack[n-1].open == '$' {
		delim := l.stack[n-1].delim
		l.stack = l.stack[:n-1]
		l.queue(l.token(token.RBrace, start))
		l.scanStringSegment(l.Position(), delim, false)
		return l.dequeue()
	}
	l.pop('{')
	return l.token(token.RBrace, start)
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		l.push('(')
		return l.token(token.LParen, start)
	case ')':
		l.advance()
		l.pop('(')
		return l.token(token.RParen, start)
	case '{':
		l.advance()
		l.push('{')
		return l.token(token.LBrace, start)
	case '}':
		return l.closeBrace(start)
	case '[':
		l.advance()
		l.push('[')
		return l.token(token.LBrack, start)
	case ']':
		l.advance()
		l.pop('[')
		return l.token(token.RBrack, start)
	case ';':
		l.advance()
		return l.token(token.Semi, start)
	case ',':
		l.advance()
		return l.token(token.Comma, start)
	case '@':
		l.advance()
		return l.token(token.At, start)
	case '~':
		l.advance()
		return l.token(token.BitNot, start)

	case '.':
		switch {
		case l.hasPrefix("..."):
			return l.op(token.Ellipsis, 3, start)
		case l.hasPrefix("..<"):
			return l.op(token.RangeExclusiveRight, 3, start)
		case l.hasPrefix(".."):
			return l.op(token.Range, 2, start)
		case l.hasPrefix(".&"):
			return l.op(token.MethodPointer, 2, start)
		}
		return l.op(token.Dot, 1, start)

	case '?':
		switch {
		case l.hasPrefix("??."):
			return l.op(token.SafeChainDot, 3, start)
		case l.hasPrefix("?."):
			return l.op(token.SafeDot, 2, start)
		case l.hasPrefix("?["):
			l.push('[')
			return l.op(token.SafeIndex, 2, start)
		case l.hasPrefix("?:"):
			return l.op(token.Elvis, 2, start)
		case l.hasPrefix("?="):
			return l.op(token.ElvisAssign, 2, start)
		}
		return l.op(token.Question, 1, start)

	case '*':
		switch {
		case l.hasPrefix("*."):
			return l.op(token.SpreadDot, 2, start)
		case l.hasPrefix("**="):
			return l.op(token.PowerAssign, 3, start)
		case l.hasPrefix("**"):
			return l.op(token.Power, 2, start)
		case l.hasPrefix("*="):
			return l.op(token.MulAssign, 2, start)
		}
		return l.op(token.Star, 1, start)

	case ':':
		if l.hasPrefix("::") {
			return l.op(token.ColonColon, 2, start)
		}
		return l.op(token.Colon, 1, start)

	case '=':
		switch {
		case l.hasPrefix("==="):
			return l.op(token.Identical, 3, start)
		case l.hasPrefix("==~"):
			return l.op(token.RegexMatch, 3, start)
		case l.hasPrefix("=="):
			return l.op(token.Eq, 2, start)
		case l.hasPrefix("=~"):
			return l.op(token.RegexFind, 2, start)
		}
		return l.op(token.Assign, 1, start)

	case '!':
		switch {
		case l.hasPrefix("!=="):
			return l.op(token.NotIdentical, 3, start)
		case l.hasPrefix("!="):
			return l.op(token.Ne, 2, start)
		case l.hasWord("!instanceof"):
			return l.op(token.NotInstanceof, len("!instanceof"), start)
		case l.hasWord("!in"):
			return l.op(token.NotIn, 3, start)
		}
		return l.op(token.Not, 1, start)

	case '<':
		switch {
		case l.hasPrefix("<=>"):
			return l.op(token.Spaceship, 3, start)
		case l.hasPrefix("<<="):
			return l.op(token.ShlAssign, 3, start)
		case l.hasPrefix("<..<"):
			return l.op(token.RangeExclusiveFull, 4, start)
		case l.hasPrefix("<.."):
			return l.op(token.RangeExclusiveLeft, 3, start)
		case l.hasPrefix("<="):
			return l.op(token.Le, 2, start)
		}
		return l.op(token.Lt, 1, start)

	case '>':
		switch {
		case l.hasPrefix(">>>="):
			return l.op(token.UShrAssign, 4, start)
		case l.hasPrefix(">>="):
			return l.op(token.ShrAssign, 3, start)
		case l.hasPrefix(">="):
			return l.op(token.Ge, 2, start)
		}
		return l.op(token.Gt, 1, start)

	case '&':
		switch {
		case l.hasPrefix("&&"):
			return l.op(token.AndAnd, 2, start)
		case l.hasPrefix("&="):
			return l.op(token.AndAssign, 2, start)
		}
		return l.op(token.BitAnd, 1, start)

	case '|':
		switch {
		case l.hasPrefix("||"):
			return l.op(token.OrOr, 2, start)
		case l.hasPrefix("|="):
			return l.op(token.OrAssign, 2, start)
		}
		return l.op(token.BitOr, 1, start)

	case '^':
		if l.hasPrefix("^=") {
			return l.op(token.XorAssign, 2, start)
		}
		return l.op(token.Xor, 1, start)

	case '+':
		switch {
		case l.hasPrefix("++"):
			return l.op(token.Inc, 2, start)
		case l.hasPrefix("+="):
			return l.op(token.AddAssign, 2, start)
		}
		return l.op(token.Plus, 1, start)

	case '-':
		switch {
		case l.hasPrefix("--"):
			return l.op(token.Dec, 2, start)
		case l.hasPrefix("-="):
			return l.op(token.SubAssign, 2, start)
		case l.hasPrefix("->"):
			return l.op(token.Arrow, 2, start)
		}
		return l.op(token.Minus, 1, start)

	case '/':
		if l.hasPrefix("/=") {
			return l.op(token.DivAssign, 2, start)
		}
		return l.op(token.Slash, 1, start)

	case '%':
		if l.hasPrefix("%=") {
			return l.op(token.ModAssign, 2, start)
		}
		return l.op(token.Percent, 1, start)
	}

	l.advance()
	return l.token(token.Error, start)
}

// hasWord reports whether the input continues with word followed by a
// character that cannot extend an identifier.
func (l *Lexer) hasWord(word string) bool {
	if !l.hasPrefix(word) {
		return false
	}
	after := l.pos + len(word)
	return after >= len(l.input) || !isIdentPart(l.input[after:])
}

func (l *Lexer) op(kind token.Kind, n int, start token.Position) token.Token {
	l.advanceN(n)
	return l.token(kind, start)
}

func (l *Lexer) token(kind token.Kind, start token.Position) token.Token {
	end := l.Position()
	return token.Token{
		Kind:    kind,
		Span:    token.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStartByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentStart(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] < utf8.RuneSelf {
		return isIdentStartByte(b[0])
	}
	r, _ := utf8.DecodeRune(b)
	return unicode.IsLetter(r)
}

func isIdentPart(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] < utf8.RuneSelf {
		return isIdentStartByte(b[0]) || isDigit(b[0])
	}
	r, _ := utf8.DecodeRune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
