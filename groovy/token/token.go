package token

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q in the source.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.End.Line == 0
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return !o.Start.Before(s.Start) && !s.End.Before(o.End)
}

type Kind int

const (
	EOF Kind = iota
	Error
	Comment

	// Separators
	NL
	Semi

	// Literals
	Identifier
	CapitalizedIdentifier
	IntegerLiteral
	FloatLiteral
	StringLiteral
	GStringBegin
	GStringPart
	GStringEnd

	// Keywords
	Abstract
	As
	Assert
	Boolean
	Break
	Byte
	Case
	Catch
	Char
	Class
	Const
	Continue
	Def
	Default
	Do
	Double
	Else
	Enum
	Extends
	False
	Final
	Finally
	Float
	For
	Goto
	If
	Implements
	Import
	In
	Instanceof
	Int
	Interface
	Long
	Native
	New
	NonSealed
	Null
	Package
	Permits
	Private
	Protected
	Public
	Record
	Return
	Sealed
	Short
	Static
	Strictfp
	Super
	Switch
	Synchronized
	This
	Threadsafe
	Throw
	Throws
	Trait
	Transient
	True
	Try
	Var
	Void
	Volatile
	While
	Yield

	// Grouping and punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	Comma
	Dot
	Ellipsis
	At
	Question
	Colon
	Arrow
	ColonColon

	// Groovy navigation operators
	SafeDot
	SafeChainDot
	SpreadDot
	SafeIndex
	MethodPointer
	Elvis

	// Ranges
	Range
	RangeExclusiveRight
	RangeExclusiveLeft
	RangeExclusiveFull

	// Operators
	Assign
	Eq
	Ne
	Identical
	NotIdentical
	Spaceship
	Lt
	Le
	Gt
	Ge
	NotIn
	NotInstanceof
	RegexFind
	RegexMatch
	AndAnd
	OrOr
	Not
	BitAnd
	BitOr
	Xor
	BitNot
	Plus
	Minus
	Star
	Slash
	Percent
	Power
	Inc
	Dec

	// Compound assignment
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	PowerAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
	ShrAssign
	UShrAssign
	ElvisAssign
)

var kindNames = map[Kind]string{
	EOF:                   "EOF",
	Error:                 "Error",
	Comment:               "Comment",
	NL:                    "NL",
	Semi:                  ";",
	Identifier:            "Identifier",
	CapitalizedIdentifier: "CapitalizedIdentifier",
	IntegerLiteral:        "IntegerLiteral",
	FloatLiteral:          "FloatLiteral",
	StringLiteral:         "StringLiteral",
	GStringBegin:          "GStringBegin",
	GStringPart:           "GStringPart",
	GStringEnd:            "GStringEnd",
	Abstract:              "abstract",
	As:                    "as",
	Assert:                "assert",
	Boolean:               "boolean",
	Break:                 "break",
	Byte:                  "byte",
	Case:                  "case",
	Catch:                 "catch",
	Char:                  "char",
	Class:                 "class",
	Const:                 "const",
	Continue:              "continue",
	Def:                   "def",
	Default:               "default",
	Do:                    "do",
	Double:                "double",
	Else:                  "else",
	Enum:                  "enum",
	Extends:               "extends",
	False:                 "false",
	Final:                 "final",
	Finally:               "finally",
	Float:                 "float",
	For:                   "for",
	Goto:                  "goto",
	If:                    "if",
	Implements:            "implements",
	Import:                "import",
	In:                    "in",
	Instanceof:            "instanceof",
	Int:                   "int",
	Interface:             "interface",
	Long:                  "long",
	Native:                "native",
	New:                   "new",
	NonSealed:             "non-sealed",
	Null:                  "null",
	Package:               "package",
	Permits:               "permits",
	Private:               "private",
	Protected:             "protected",
	Public:                "public",
	Record:                "record",
	Return:                "return",
	Sealed:                "sealed",
	Short:                 "short",
	Static:                "static",
	Strictfp:              "strictfp",
	Super:                 "super",
	Switch:                "switch",
	Synchronized:          "synchronized",
	This:                  "this",
	Threadsafe:            "threadsafe",
	Throw:                 "throw",
	Throws:                "throws",
	Trait:                 "trait",
	Transient:             "transient",
	True:                  "true",
	Try:                   "try",
	Var:                   "var",
	Void:                  "void",
	Volatile:              "volatile",
	While:                 "while",
	Yield:                 "yield",
	LParen:                "(",
	RParen:                ")",
	LBrace:                "{",
	RBrace:                "}",
	LBrack:                "[",
	RBrack:                "]",
	Comma:                 ",",
	Dot:                   ".",
	Ellipsis:              "...",
	At:                    "@",
	Question:              "?",
	Colon:                 ":",
	Arrow:                 "->",
	ColonColon:            "::",
	SafeDot:               "?.",
	SafeChainDot:          "??.",
	SpreadDot:             "*.",
	SafeIndex:             "?[",
	MethodPointer:         ".&",
	Elvis:                 "?:",
	Range:                 "..",
	RangeExclusiveRight:   "..<",
	RangeExclusiveLeft:    "<..",
	RangeExclusiveFull:    "<..<",
	Assign:                "=",
	Eq:                    "==",
	Ne:                    "!=",
	Identical:             "===",
	NotIdentical:          "!==",
	Spaceship:             "<=>",
	Lt:                    "<",
	Le:                    "<=",
	Gt:                    ">",
	Ge:                    ">=",
	NotIn:                 "!in",
	NotInstanceof:         "!instanceof",
	RegexFind:             "=~",
	RegexMatch:            "==~",
	AndAnd:                "&&",
	OrOr:                  "||",
	Not:                   "!",
	BitAnd:                "&",
	BitOr:                 "|",
	Xor:                   "^",
	BitNot:                "~",
	Plus:                  "+",
	Minus:                 "-",
	Star:                  "*",
	Slash:                 "/",
	Percent:               "%",
	Power:                 "**",
	Inc:                   "++",
	Dec:                   "--",
	AddAssign:             "+=",
	SubAssign:             "-=",
	MulAssign:             "*=",
	DivAssign:             "/=",
	ModAssign:             "%=",
	PowerAssign:           "**=",
	AndAssign:             "&=",
	OrAssign:              "|=",
	XorAssign:             "^=",
	ShlAssign:             "<<=",
	ShrAssign:             ">>=",
	UShrAssign:            ">>>=",
	ElvisAssign:           "?=",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// NumKinds is one past the largest Kind value.
const NumKinds = int(ElvisAssign) + 1

type Token struct {
	Kind    Kind
	Span    Span
	Literal string
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case NL:
		return "newline"
	}
	if t.Literal != "" {
		return fmt.Sprintf("%q", t.Literal)
	}
	return t.Kind.String()
}

var keywords = map[string]Kind{
	"abstract":     Abstract,
	"as":           As,
	"assert":       Assert,
	"boolean":      Boolean,
	"break":        Break,
	"byte":         Byte,
	"case":         Case,
	"catch":        Catch,
	"char":         Char,
	"class":        Class,
	"const":        Const,
	"continue":     Continue,
	"def":          Def,
	"default":      Default,
	"do":           Do,
	"double":       Double,
	"else":         Else,
	"enum":         Enum,
	"extends":      Extends,
	"false":        False,
	"final":        Final,
	"finally":      Finally,
	"float":        Float,
	"for":          For,
	"goto":         Goto,
	"if":           If,
	"implements":   Implements,
	"import":       Import,
	"in":           In,
	"instanceof":   Instanceof,
	"int":          Int,
	"interface":    Interface,
	"long":         Long,
	"native":       Native,
	"new":          New,
	"null":         Null,
	"package":      Package,
	"permits":      Permits,
	"private":      Private,
	"protected":    Protected,
	"public":       Public,
	"record":       Record,
	"return":       Return,
	"sealed":       Sealed,
	"short":        Short,
	"static":       Static,
	"strictfp":     Strictfp,
	"super":        Super,
	"switch":       Switch,
	"synchronized": Synchronized,
	"this":         This,
	"threadsafe":   Threadsafe,
	"throw":        Throw,
	"throws":       Throws,
	"trait":        Trait,
	"transient":    Transient,
	"true":         True,
	"try":          Try,
	"var":          Var,
	"void":         Void,
	"volatile":     Volatile,
	"while":        While,
	"yield":        Yield,
}

// LookupKeyword returns the keyword kind for ident, or Identifier /
// CapitalizedIdentifier when ident is not reserved.
func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	if ident != "" && ident[0] >= 'A' && ident[0] <= 'Z' {
		return CapitalizedIdentifier
	}
	return Identifier
}

func (k Kind) IsKeyword() bool {
	return k >= Abstract && k <= Yield
}

// IsIdentifier reports whether k can name a variable, method or property.
// Contextual keywords are accepted, matching the language's identifier rule.
func (k Kind) IsIdentifier() bool {
	switch k {
	case Identifier, CapitalizedIdentifier,
		As, In, Permits, Record, Sealed, Trait, Var, Yield:
		return true
	}
	return false
}

func (k Kind) IsPrimitive() bool {
	switch k {
	case Boolean, Byte, Char, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

func (k Kind) IsModifier() bool {
	switch k {
	case Abstract, Def, Default, Final, Native, NonSealed, Private, Protected,
		Public, Sealed, Static, Strictfp, Synchronized, Threadsafe, Transient,
		Var, Volatile:
		return true
	}
	return false
}

func (k Kind) IsAssignment() bool {
	return k == Assign || (k >= AddAssign && k <= ElvisAssign)
}

func (k Kind) IsLiteral() bool {
	switch k {
	case IntegerLiteral, FloatLiteral, StringLiteral, True, False, Null:
		return true
	}
	return false
}
