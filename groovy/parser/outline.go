package parser

import (
	"github.com/dhamidi/grove/groovy/token"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolInterface
	SymbolEnum
	SymbolAnnotation
	SymbolTrait
	SymbolRecord
	SymbolMethod
	SymbolConstructor
	SymbolField
	SymbolEnumConstant
	SymbolScriptMethod
)

var symbolKindNames = map[SymbolKind]string{
	SymbolClass:        "class",
	SymbolInterface:    "interface",
	SymbolEnum:         "enum",
	SymbolAnnotation:   "annotation",
	SymbolTrait:        "trait",
	SymbolRecord:       "record",
	SymbolMethod:       "method",
	SymbolConstructor:  "constructor",
	SymbolField:        "field",
	SymbolEnumConstant: "enum-constant",
	SymbolScriptMethod: "script-method",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is a declaration found in a parse tree. Span covers the whole
// declaration and NameSpan only its name.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     token.Span
	NameSpan token.Span
	Children []Symbol
}

// Outline lists the declarations of a compilation unit: types with their
// members, and methods declared at script scope. Declarations whose name
// is missing are skipped.
func Outline(root *Node) []Symbol {
	if root == nil {
		return nil
	}
	var symbols []Symbol
	for _, child := range root.Children {
		switch child.Kind {
		case KindTypeDecl:
			if sym, ok := typeSymbol(child); ok {
				symbols = append(symbols, sym)
			}
		case KindMethodDecl:
			if sym, ok := namedSymbol(child, SymbolScriptMethod); ok {
				symbols = append(symbols, sym)
			}
		}
	}
	return symbols
}

var typeSymbolKinds = map[Alt]SymbolKind{
	AltClass:          SymbolClass,
	AltInterface:      SymbolInterface,
	AltEnum:           SymbolEnum,
	AltAnnotationType: SymbolAnnotation,
	AltTrait:          SymbolTrait,
	AltRecord:         SymbolRecord,
}

func typeSymbol(n *Node) (Symbol, bool) {
	sym, ok := namedSymbol(n, typeSymbolKinds[n.Alt])
	if !ok {
		return sym, false
	}
	if body := n.FirstChildOfKind(KindClassBody); body != nil {
		sym.Children = memberSymbols(body)
	}
	return sym, true
}

func memberSymbols(body *Node) []Symbol {
	var symbols []Symbol
	for _, member := range body.Children {
		switch member.Kind {
		case KindTypeDecl:
			if sym, ok := typeSymbol(member); ok {
				symbols = append(symbols, sym)
			}
		case KindMethodDecl:
			if sym, ok := namedSymbol(member, SymbolMethod); ok {
				symbols = append(symbols, sym)
			}
		case KindConstructorDecl:
			if sym, ok := namedSymbol(member, SymbolConstructor); ok {
				symbols = append(symbols, sym)
			}
		case KindEnumConstant:
			if sym, ok := namedSymbol(member, SymbolEnumConstant); ok {
				symbols = append(symbols, sym)
			}
		case KindFieldDecl:
			for _, decl := range member.ChildrenOfKind(KindVariableDeclarator) {
				if sym, ok := namedSymbol(decl, SymbolField); ok {
					sym.Span = member.Span
					symbols = append(symbols, sym)
				}
			}
		}
	}
	return symbols
}

// namedSymbol builds a symbol from the first direct name child of n.
// Method names may be string literals.
func namedSymbol(n *Node, kind SymbolKind) (Symbol, bool) {
	for _, child := range n.Children {
		if child.Token == nil {
			continue
		}
		if child.Kind != KindIdentifier && !(child.Kind == KindLiteral && child.Alt == LitString) {
			continue
		}
		return Symbol{
			Name:     child.Token.Literal,
			Kind:     kind,
			Span:     n.Span,
			NameSpan: child.Span,
		}, true
	}
	return Symbol{}, false
}
