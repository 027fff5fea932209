package parser

import (
	"strings"

	"github.com/dhamidi/grove/groovy/token"
)

type NodeKind int

const (
	KindError NodeKind = iota
	KindToken

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindQualifiedName

	// Modifiers and annotations
	KindModifiers
	KindAnnotation
	KindElementValuePair
	KindElementValueArray

	// Type declarations
	KindTypeDecl
	KindTypeParameters
	KindTypeParameter
	KindTypeBound
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause
	KindClassBody
	KindEnumConstant
	KindInitializer

	// Members
	KindMethodDecl
	KindConstructorDecl
	KindFieldDecl
	KindVariableDeclarator
	KindFormalParameters
	KindFormalParameter
	KindThrowsClause
	KindDefaultClause

	// Types
	KindType
	KindTypeArguments
	KindTypeArgument
	KindDims

	// Statements
	KindBlock
	KindEmptyStmt
	KindLocalVarDecl
	KindVariableNames
	KindExprStmt
	KindCommandExpr
	KindArgumentList
	KindCommandArgument
	KindIfStmt
	KindWhileStmt
	KindDoWhileStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindTryStmt
	KindResources
	KindResource
	KindCatchClause
	KindCatchType
	KindFinallyClause
	KindSwitchStmt
	KindSwitchGroup
	KindSwitchLabel
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindAssertStmt
	KindSynchronizedStmt
	KindLabeledStmt
	KindYieldStmt

	// Expressions, lowest precedence first
	KindAssignmentExpr
	KindMultipleAssignmentExpr
	KindTernaryExpr
	KindElvisExpr
	KindLogicalOrExpr
	KindLogicalAndExpr
	KindBitOrExpr
	KindXorExpr
	KindBitAndExpr
	KindRegexExpr
	KindEqualityExpr
	KindRelationalExpr
	KindTypeTestExpr
	KindRangeExpr
	KindShiftExpr
	KindAdditiveExpr
	KindMultiplicativeExpr
	KindUnaryExpr
	KindNotExpr
	KindPowerExpr
	KindPostfixExpr
	KindCastExpr
	KindSwitchExpr

	// Paths and primaries
	KindPath
	KindMemberAccess
	KindMethodPointer
	KindArguments
	KindIndex
	KindInnerCreator
	KindSpreadArgument
	KindIdentifier
	KindLiteral
	KindThis
	KindSuper
	KindBuiltInType
	KindParenExpr
	KindList
	KindMap
	KindMapEntry
	KindClosure
	KindLambda
	KindNewExpr
	KindArrayInit
	KindGString
	KindGStringPath
)

var nodeKindNames = map[NodeKind]string{
	KindError:                  "Error",
	KindToken:                  "Token",
	KindCompilationUnit:        "CompilationUnit",
	KindPackageDecl:            "PackageDecl",
	KindImportDecl:             "ImportDecl",
	KindQualifiedName:          "QualifiedName",
	KindModifiers:              "Modifiers",
	KindAnnotation:             "Annotation",
	KindElementValuePair:       "ElementValuePair",
	KindElementValueArray:      "ElementValueArray",
	KindTypeDecl:               "TypeDecl",
	KindTypeParameters:         "TypeParameters",
	KindTypeParameter:          "TypeParameter",
	KindTypeBound:              "TypeBound",
	KindExtendsClause:          "ExtendsClause",
	KindImplementsClause:       "ImplementsClause",
	KindPermitsClause:          "PermitsClause",
	KindClassBody:              "ClassBody",
	KindEnumConstant:           "EnumConstant",
	KindInitializer:            "Initializer",
	KindMethodDecl:             "MethodDecl",
	KindConstructorDecl:        "ConstructorDecl",
	KindFieldDecl:              "FieldDecl",
	KindVariableDeclarator:     "VariableDeclarator",
	KindFormalParameters:       "FormalParameters",
	KindFormalParameter:        "FormalParameter",
	KindThrowsClause:           "ThrowsClause",
	KindDefaultClause:          "DefaultClause",
	KindType:                   "Type",
	KindTypeArguments:          "TypeArguments",
	KindTypeArgument:           "TypeArgument",
	KindDims:                   "Dims",
	KindBlock:                  "Block",
	KindEmptyStmt:              "EmptyStmt",
	KindLocalVarDecl:           "LocalVarDecl",
	KindVariableNames:          "VariableNames",
	KindExprStmt:               "ExprStmt",
	KindCommandExpr:            "CommandExpr",
	KindArgumentList:           "ArgumentList",
	KindCommandArgument:        "CommandArgument",
	KindIfStmt:                 "IfStmt",
	KindWhileStmt:              "WhileStmt",
	KindDoWhileStmt:            "DoWhileStmt",
	KindForStmt:                "ForStmt",
	KindForInit:                "ForInit",
	KindForUpdate:              "ForUpdate",
	KindTryStmt:                "TryStmt",
	KindResources:              "Resources",
	KindResource:               "Resource",
	KindCatchClause:            "CatchClause",
	KindCatchType:              "CatchType",
	KindFinallyClause:          "FinallyClause",
	KindSwitchStmt:             "SwitchStmt",
	KindSwitchGroup:            "SwitchGroup",
	KindSwitchLabel:            "SwitchLabel",
	KindReturnStmt:             "ReturnStmt",
	KindBreakStmt:              "BreakStmt",
	KindContinueStmt:           "ContinueStmt",
	KindThrowStmt:              "ThrowStmt",
	KindAssertStmt:             "AssertStmt",
	KindSynchronizedStmt:       "SynchronizedStmt",
	KindLabeledStmt:            "LabeledStmt",
	KindYieldStmt:              "YieldStmt",
	KindAssignmentExpr:         "AssignmentExpr",
	KindMultipleAssignmentExpr: "MultipleAssignmentExpr",
	KindTernaryExpr:            "TernaryExpr",
	KindElvisExpr:              "ElvisExpr",
	KindLogicalOrExpr:          "LogicalOrExpr",
	KindLogicalAndExpr:         "LogicalAndExpr",
	KindBitOrExpr:              "BitOrExpr",
	KindXorExpr:                "XorExpr",
	KindBitAndExpr:             "BitAndExpr",
	KindRegexExpr:              "RegexExpr",
	KindEqualityExpr:           "EqualityExpr",
	KindRelationalExpr:         "RelationalExpr",
	KindTypeTestExpr:           "TypeTestExpr",
	KindRangeExpr:              "RangeExpr",
	KindShiftExpr:              "ShiftExpr",
	KindAdditiveExpr:           "AdditiveExpr",
	KindMultiplicativeExpr:     "MultiplicativeExpr",
	KindUnaryExpr:              "UnaryExpr",
	KindNotExpr:                "NotExpr",
	KindPowerExpr:              "PowerExpr",
	KindPostfixExpr:            "PostfixExpr",
	KindCastExpr:               "CastExpr",
	KindSwitchExpr:             "SwitchExpr",
	KindPath:                   "Path",
	KindMemberAccess:           "MemberAccess",
	KindMethodPointer:          "MethodPointer",
	KindArguments:              "Arguments",
	KindIndex:                  "Index",
	KindInnerCreator:           "InnerCreator",
	KindSpreadArgument:         "SpreadArgument",
	KindIdentifier:             "Identifier",
	KindLiteral:                "Literal",
	KindThis:                   "This",
	KindSuper:                  "Super",
	KindBuiltInType:            "BuiltInType",
	KindParenExpr:              "ParenExpr",
	KindList:                   "List",
	KindMap:                    "Map",
	KindMapEntry:               "MapEntry",
	KindClosure:                "Closure",
	KindLambda:                 "Lambda",
	KindNewExpr:                "NewExpr",
	KindArrayInit:              "ArrayInit",
	KindGString:                "GString",
	KindGStringPath:            "GStringPath",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Alt records which alternative of a rule produced a node. Its meaning
// depends on the node kind; zero means the rule has a single form.
type Alt int

// Type declaration alternatives (KindTypeDecl).
const (
	AltClass Alt = iota + 1
	AltInterface
	AltEnum
	AltAnnotationType
	AltTrait
	AltRecord
)

// Literal alternatives (KindLiteral).
const (
	LitInteger Alt = iota + 1
	LitFloat
	LitString
	LitBoolean
	LitNull
)

// Path interaction of the last element (KindPath).
const (
	InteractPlain Alt = iota + 1
	InteractCall
	InteractIndex
	InteractClosureCall
)

// Member access operators (KindMemberAccess).
const (
	AccessDot Alt = iota + 1
	AccessSafe
	AccessSpread
	AccessSafeChain
)

// Method pointer operators (KindMethodPointer).
const (
	PointerMethod Alt = iota + 1
	PointerReference
)

// Index forms (KindIndex).
const (
	IndexPlain Alt = iota + 1
	IndexSafe
)

// Loop forms (KindForStmt).
const (
	ForClassic Alt = iota + 1
	ForEnhanced
)

// Switch label forms (KindSwitchLabel) and group forms (KindSwitchGroup).
const (
	LabelCase Alt = iota + 1
	LabelDefault
)

const (
	GroupColon Alt = iota + 1
	GroupArrow
)

// Import forms (KindImportDecl).
const (
	ImportRegular Alt = iota + 1
	ImportStatic
)

// Local variable declaration forms (KindLocalVarDecl).
const (
	VarSingle Alt = iota + 1
	VarMultiple
)

// Type argument forms (KindTypeArgument).
const (
	ArgType Alt = iota + 1
	ArgWildcard
)

// Initializer forms (KindInitializer).
const (
	InitInstance Alt = iota + 1
	InitStatic
)

// Map entry forms (KindMapEntry).
const (
	EntryKeyed Alt = iota + 1
	EntrySpread
)

// Type forms (KindType).
const (
	TypeClass Alt = iota + 1
	TypePrimitive
	TypeVoid
)

// Context carries values a rule inherits from its ancestors.
type Context uint8

const (
	// CtxEnum permits enum constants in a class body.
	CtxEnum Context = 1 << iota
	// CtxScript marks the body of a script rather than a type.
	CtxScript
	// CtxTypeBody marks a class, interface, enum, trait or record body.
	CtxTypeBody
	// CtxStaticQualifier marks a path headed by the static keyword.
	CtxStaticQualifier
	// CtxSwitchExpr marks constructs inside a switch expression.
	CtxSwitchExpr
)

func (c Context) Has(flag Context) bool {
	return c&flag != 0
}

func (c Context) String() string {
	var parts []string
	names := []struct {
		flag Context
		name string
	}{
		{CtxEnum, "enum"},
		{CtxScript, "script"},
		{CtxTypeBody, "type-body"},
		{CtxStaticQualifier, "static-qualifier"},
		{CtxSwitchExpr, "switch-expr"},
	}
	for _, n := range names {
		if c.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type Error struct {
	Message  string
	Expected []token.Kind
	Got      *token.Token
}

type Node struct {
	Kind     NodeKind
	Span     token.Span
	Children []*Node
	Token    *token.Token
	Error    *Error
	Alt      Alt
	Context  Context
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// LastChild returns the final child, or nil for a leaf.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Walk calls fn for n and every descendant in source order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// HasErrors reports whether the tree contains an error node.
func (n *Node) HasErrors() bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c.Kind == KindError {
			found = true
		}
		return !found
	})
	return found
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

// Sexp renders the tree as a compact S-expression of kinds and token
// literals. Token leaves render as their literal text.
func (n *Node) Sexp() string {
	var sb strings.Builder
	n.writeSexp(&sb)
	return sb.String()
}

func (n *Node) writeSexp(sb *strings.Builder) {
	if n.Token != nil && len(n.Children) == 0 {
		sb.WriteString(n.Token.Literal)
		return
	}
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	for _, child := range n.Children {
		sb.WriteString(" ")
		child.writeSexp(sb)
	}
	sb.WriteString(")")
}
