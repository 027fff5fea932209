package token

import (
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{EOF, "EOF"},
		{NL, "NL"},
		{Semi, ";"},
		{Identifier, "Identifier"},
		{CapitalizedIdentifier, "CapitalizedIdentifier"},
		{GStringBegin, "GStringBegin"},
		{Def, "def"},
		{Trait, "trait"},
		{NonSealed, "non-sealed"},
		{SafeDot, "?."},
		{SafeChainDot, "??."},
		{SpreadDot, "*."},
		{MethodPointer, ".&"},
		{Elvis, "?:"},
		{ElvisAssign, "?="},
		{RangeExclusiveFull, "<..<"},
		{Spaceship, "<=>"},
		{NotInstanceof, "!instanceof"},
		{Power, "**"},
		{Kind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestEveryKindIsNamed(t *testing.T) {
	for k := 0; k < NumKinds; k++ {
		if Kind(k).String() == "Unknown" {
			t.Errorf("Kind(%d) has no name", k)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"class", Class},
		{"def", Def},
		{"trait", Trait},
		{"in", In},
		{"as", As},
		{"yield", Yield},
		{"threadsafe", Threadsafe},
		{"foo", Identifier},
		{"Foo", CapitalizedIdentifier},
		{"_Foo", Identifier},
		{"$x", Identifier},
		{"Class", CapitalizedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupKeyword(tt.ident); got != tt.want {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestKindClasses(t *testing.T) {
	if !Yield.IsIdentifier() || !As.IsIdentifier() || Class.IsIdentifier() {
		t.Error("IsIdentifier misclassifies contextual keywords")
	}
	if !Int.IsPrimitive() || Void.IsPrimitive() {
		t.Error("IsPrimitive misclassifies")
	}
	if !ElvisAssign.IsAssignment() || !Assign.IsAssignment() || Eq.IsAssignment() {
		t.Error("IsAssignment misclassifies")
	}
	if !Static.IsModifier() || Class.IsModifier() {
		t.Error("IsModifier misclassifies")
	}
	if !Yield.IsKeyword() || Identifier.IsKeyword() {
		t.Error("IsKeyword misclassifies")
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{Start: Position{Line: 1, Column: 1}, End: Position{Line: 3, Column: 5}}
	inner := Span{Start: Position{Line: 2, Column: 1}, End: Position{Line: 3, Column: 5}}
	if !outer.Contains(inner) {
		t.Error("outer should contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner should not contain outer")
	}
	if !outer.Contains(outer) {
		t.Error("a span contains itself")
	}
}
