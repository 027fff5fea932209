package parser

import (
	"encoding/json"
	"testing"

	"github.com/dhamidi/grove/groovy/lexer"
	"github.com/dhamidi/grove/groovy/token"
	"github.com/google/go-cmp/cmp"
	"github.com/shoenig/test/must"
	"pgregory.net/rapid"
)

// corpus mixes well-formed and broken scripts.
var corpus = []string{
	"",
	"println 'hello'",
	"def x = 1 + 2 * 3\nprintln x",
	"package com.example\nimport java.util.List\nclass Foo<T> extends Bar implements Baz {\n  int x = 1\n  static def create() { new Foo() }\n}",
	"enum Color { RED, GREEN\n  Color() {}\n}",
	"def r = switch (x) {\n  case 1 -> 'one'\n  case 2:\n    yield 'two'\n  default -> { yield 'many' }\n}",
	"foo 1, 2 bar 3\nfoo(1) { it } baz qux",
	"list.findAll { a, b -> a > b }.collect { \"${it.name}: $it.value\" }",
	"static.foo = (int) x\n(a, b) = [1, 2]\ndef (c, d) = [3, 4]",
	"try (def r = open()) { r.read() } catch (IOException | Error e) { } finally { }",
	"for (int i = 0; i < 10; i++) { if (i % 2) continue else break }",
	"a = )\nb = ]\nc = }",
	"class { def ( }",
	"def f(int a, String... rest) throws IOException {\n  assert a > 0 : 'bad'\n  return a ?: rest?.size()\n}",
	"x = a ? b : c ?: d ?= e",
	"@Ann(value = [1, 2], other = @B) class C { @interface D { String v() default 'x' } }",
	"record P(int x, int y) {}\nsealed trait T permits A {}",
	"1 << 2 >> 3 >>> 4 < 5 <=> 6",
	"switch (a) { case 1: case 2: yield 3; default: foo }",
	"\"unterminated ${",
	"if (a) { b } else if (c) d else { e",
	"new int[3][]\nnew String[] { 'a', 'b' }\nouter.new Inner()",
}

func tokensOf(kinds []token.Kind) []token.Token {
	toks := make([]token.Token, 0, len(kinds))
	col := 1
	for _, k := range kinds {
		lit := k.String()
		start := token.Position{Offset: col - 1, Line: 1, Column: col}
		col += len(lit)
		end := token.Position{Offset: col - 1, Line: 1, Column: col}
		col++
		toks = append(toks, token.Token{Kind: k, Literal: lit, Span: token.Span{Start: start, End: end}})
	}
	return toks
}

func genTokens() *rapid.Generator[[]token.Token] {
	var kinds []token.Kind
	for k := token.Kind(1); int(k) < token.NumKinds; k++ {
		kinds = append(kinds, k)
	}
	return rapid.Custom(func(t *rapid.T) []token.Token {
		return tokensOf(rapid.SliceOfN(rapid.SampledFrom(kinds), 0, 60).Draw(t, "kinds"))
	})
}

func checkSpans(t must.T, n *Node) {
	var prev *Node
	for _, child := range n.Children {
		must.True(t, n.Span.Contains(child.Span),
			must.Sprintf("%v [%s] does not contain %v [%s]", n.Kind, n.Span, child.Kind, child.Span))
		if prev != nil {
			must.False(t, child.Span.Start.Before(prev.Span.End),
				must.Sprintf("%v [%s] overlaps %v [%s]", child.Kind, child.Span, prev.Kind, prev.Span))
		}
		checkSpans(t, child)
		prev = child
	}
}

func TestSpanContainment(t *testing.T) {
	for _, src := range corpus {
		root, _ := parseSource(src)
		checkSpans(t, root)
	}

	rapid.Check(t, func(t *rapid.T) {
		root, _ := Parse(genTokens().Draw(t, "tokens"))
		checkSpans(t, root)
	})
}

func TestRecoveryTerminates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		toks := genTokens().Draw(t, "tokens")
		root, diags := Parse(toks, WithMaxErrors(rapid.IntRange(0, 5).Draw(t, "max")))
		must.NotNil(t, root)
		must.Eq(t, KindCompilationUnit, root.Kind)
		for _, d := range diags {
			must.NotEq(t, "", d.Message)
		}
	})
}

func TestParseDeterministic(t *testing.T) {
	tree := func(src string) any {
		root, _ := parseSource(src)
		data, err := json.Marshal(root)
		must.NoError(t, err)
		var v any
		must.NoError(t, json.Unmarshal(data, &v))
		return v
	}
	for _, src := range corpus {
		if diff := cmp.Diff(tree(src), tree(src)); diff != "" {
			t.Errorf("parse of %q is not deterministic (-first +second):\n%s", src, diff)
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		toks := genTokens().Draw(t, "tokens")
		first, firstDiags := Parse(toks)
		second, secondDiags := Parse(toks)
		must.Eq(t, first.StringWithPositions(), second.StringWithPositions())
		must.Eq(t, len(firstDiags), len(secondDiags))
	})
}

func TestPredicatesArePure(t *testing.T) {
	predicates := map[string]func(*Parser) bool{
		"isInvalidMethodDeclaration":        (*Parser).isInvalidMethodDeclaration,
		"isInvalidLocalVariableDeclaration": (*Parser).isInvalidLocalVariableDeclaration,
		"isStaticQualifier":                 (*Parser).isStaticQualifier,
		"isYieldStatement":                  (*Parser).isYieldStatement,
		"isTypeDeclarationStart":            (*Parser).isTypeDeclarationStart,
		"isLambdaStart":                     (*Parser).isLambdaStart,
		"isClosureWithParams":               (*Parser).isClosureWithParams,
		"isEnhancedForControl":              (*Parser).isEnhancedForControl,
		"isVariableNames":                   (*Parser).isVariableNames,
		"isLabel":                           (*Parser).isLabel,
		"isMapEntryLabel":                   (*Parser).isMapEntryLabel,
		"isEnumConstantStart":               (*Parser).isEnumConstantStart,
		"isPackageDeclaration":              (*Parser).isPackageDeclaration,
		"isAnnotatedImport":                 (*Parser).isAnnotatedImport,
	}

	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SampledFrom(corpus).Draw(t, "src")
		p := newParser(lexer.Tokenize([]byte(src)))
		p.pos = rapid.IntRange(0, len(p.tokens)-1).Draw(t, "pos")
		p.switchDepth = rapid.IntRange(0, 2).Draw(t, "depth")
		if rapid.Bool().Draw(t, "diagnosed") {
			p.report(AlternativeExhausted, p.peek().Span, "earlier error")
		}
		before := p.mark()
		for name, pred := range predicates {
			pred(p)
			must.True(t, before == p.mark(), must.Sprintf("%s moved the parser at %d in %q", name, before.pos, src))
		}
	})
}

func TestSpeculateRestoresState(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SampledFrom(corpus).Draw(t, "src")
		p := newParser(lexer.Tokenize([]byte(src)))
		p.pos = rapid.IntRange(0, len(p.tokens)-1).Draw(t, "pos")
		before := p.mark()

		steps := rapid.IntRange(0, 10).Draw(t, "steps")
		nested := rapid.Bool().Draw(t, "nested")
		report := rapid.Bool().Draw(t, "report")
		accept := rapid.Bool().Draw(t, "accept")

		ok := p.speculate(func() bool {
			p.enterSwitchExpr()
			for i := 0; i < steps; i++ {
				p.advance()
			}
			if nested {
				p.speculate(func() bool {
					p.advance()
					p.report(ExpectedTokenMissing, p.peek().Span, "inner")
					return true
				})
			}
			if report {
				p.report(AlternativeExhausted, p.peek().Span, "trial")
			}
			return accept
		})

		must.Eq(t, accept && !report, ok)
		if !ok {
			must.True(t, before == p.mark(), must.Sprintf("state not restored: %+v vs %+v", before, p.mark()))
		} else {
			must.Eq(t, before.switchDepth+1, p.switchDepth)
			must.Eq(t, before.diags, len(p.diags))
		}
	})
}

func TestLookaheadAlwaysRewinds(t *testing.T) {
	p := newParser(lexer.Tokenize([]byte("a b c")))
	before := p.mark()
	got := p.lookahead(func() bool {
		p.advance()
		p.advance()
		p.report(AlternativeExhausted, p.peek().Span, "ignored")
		return true
	})
	must.True(t, got)
	must.True(t, before == p.mark())
	must.SliceEmpty(t, p.diags)
}
