package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/grove/groovy/lexer"
)

func parseSource(src string, opts ...Option) (*Node, Diagnostics) {
	return Parse(lexer.Tokenize([]byte(src)), opts...)
}

func parseExpr(src string, opts ...Option) (*Node, Diagnostics) {
	return ParseExpression(lexer.Tokenize([]byte(src)), opts...)
}

func printErrors(t *testing.T, diags Diagnostics) {
	t.Helper()
	for _, d := range diags {
		t.Logf("  %s: %s", d.Kind, d.Error())
	}
}

func countKind(root *Node, kind NodeKind) int {
	count := 0
	root.Walk(func(n *Node) bool {
		if n.Kind == kind {
			count++
		}
		return true
	})
	return count
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(AdditiveExpr 1 + (MultiplicativeExpr 2 * 3))"},
		{"1 * 2 + 3", "(AdditiveExpr (MultiplicativeExpr 1 * 2) + 3)"},
		{"1 - 2 - 3", "(AdditiveExpr (AdditiveExpr 1 - 2) - 3)"},
		{"2 ** 3 ** 2", "(PowerExpr 2 ** (PowerExpr 3 ** 2))"},
		{"-2 ** 2", "(UnaryExpr - (PowerExpr 2 ** 2))"},
		{"-a + b", "(AdditiveExpr (UnaryExpr - a) + b)"},
		{"!a ** 2", "(PowerExpr (NotExpr ! a) ** 2)"},
		{"a = b = c", "(AssignmentExpr a = (AssignmentExpr b = c))"},
		{"a += 1 + 2", "(AssignmentExpr a += (AdditiveExpr 1 + 2))"},
		{"a ?: b ?: c", "(ElvisExpr a ?: (ElvisExpr b ?: c))"},
		{"a ? b : c ? d : e", "(TernaryExpr a ? b : (TernaryExpr c ? d : e))"},
		{"a || b && c", "(LogicalOrExpr a || (LogicalAndExpr b && c))"},
		{"a | b ^ c & d", "(BitOrExpr a | (XorExpr b ^ (BitAndExpr c & d)))"},
		{"a == b < c", "(EqualityExpr a == (RelationalExpr b < c))"},
		{"a <=> b", "(EqualityExpr a <=> b)"},
		{"1 << 2 + 3", "(ShiftExpr 1 << (AdditiveExpr 2 + 3))"},
		{"a >>> 2", "(ShiftExpr a >>> 2)"},
		{"a >> 1 > b", "(RelationalExpr (ShiftExpr a >> 1) > b)"},
		{"1..n + 1", "(RangeExpr 1 .. (AdditiveExpr n + 1))"},
		{"1..<10", "(RangeExpr 1 ..< 10)"},
		{"a in b || c", "(LogicalOrExpr (RelationalExpr a in b) || c)"},
		{"x instanceof String && y", "(LogicalAndExpr (TypeTestExpr x instanceof (Type String)) && y)"},
		{"a + b as int", "(TypeTestExpr (AdditiveExpr a + b) as (Type int))"},
		{"!a && b", "(LogicalAndExpr (NotExpr ! a) && b)"},
		{"i++ + 1", "(AdditiveExpr (PostfixExpr i ++) + 1)"},
		{"a.b(c)[0]", "(Path a (MemberAccess . b) (Arguments c) (Index 0))"},
		{"a?.b*.c", "(Path a (MemberAccess ?. b) (MemberAccess *. c))"},
		{"a.&b", "(Path a (MethodPointer .& b))"},
		{"[1, 2]", "(List 1 2)"},
		{"[a: 1, b: 2]", "(Map (MapEntry a : 1) (MapEntry b : 2))"},
		{"[:]", "(Map)"},
		{"(a, b) -> a + b", "(Lambda (FormalParameters (FormalParameter a) (FormalParameter b)) -> (AdditiveExpr a + b))"},
		{"{ a, b -> a + b }", "(Closure (FormalParameters (FormalParameter a) (FormalParameter b)) -> (Block (ExprStmt (AdditiveExpr a + b))))"},
		{"int.class", "(Path int (MemberAccess . class))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, diags := parseExpr(tt.input)
			if len(diags) > 0 {
				t.Errorf("unexpected diagnostics for %q", tt.input)
				printErrors(t, diags)
			}
			if got := node.Sexp(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestCastVersusParenthesized(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(int) x + 1", "(AdditiveExpr (CastExpr (Type int) x) + 1)"},
		{"(String) x", "(CastExpr (Type String) x)"},
		{"(a) + b", "(AdditiveExpr (ParenExpr a) + b)"},
		{"(String) - x", "(AdditiveExpr (ParenExpr String) - x)"},
		{"(int) -x", "(CastExpr (Type int) (UnaryExpr - x))"},
		{"(List<String>) xs", "(CastExpr (Type List (TypeArguments (TypeArgument (Type String)))) xs)"},
		{"(String[]) xs", "(CastExpr (Type String (Dims [ ])) xs)"},
		{"(foo)", "(ParenExpr foo)"},
		{"(Foo)", "(ParenExpr Foo)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, diags := parseExpr(tt.input)
			if len(diags) > 0 {
				t.Errorf("unexpected diagnostics for %q", tt.input)
				printErrors(t, diags)
			}
			if got := node.Sexp(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDeclarationVsStatement(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"foo bar", KindExprStmt},
		{"Foo bar", KindLocalVarDecl},
		{"foo bar = 1", KindLocalVarDecl},
		{"int x", KindLocalVarDecl},
		{"def x = 1", KindLocalVarDecl},
		{"var x = 1", KindLocalVarDecl},
		{"final String s = name", KindLocalVarDecl},
		{"def (a, b) = [1, 2]", KindLocalVarDecl},
		{"List<String> xs = []", KindLocalVarDecl},
		{"String[] names", KindLocalVarDecl},
		{"Map<String, List<Integer>> m = [:]", KindLocalVarDecl},
		{"foo.bar()", KindExprStmt},
		{"foo(bar)", KindExprStmt},
		{"foo(bar) { it }", KindExprStmt},
		{"a b, c", KindExprStmt},
		{"x = 1", KindExprStmt},
		{"x.y = 1", KindExprStmt},
		{"foo -1", KindExprStmt},
		{"def foo() { }", KindMethodDecl},
		{"String greet(String name) { name }", KindMethodDecl},
		{"static void main(String[] args) {}", KindMethodDecl},
		{"def <T> T first(List<T> xs) { xs[0] }", KindMethodDecl},
		{"class Foo {}", KindTypeDecl},
		{"@groovy.transform.CompileStatic\nclass Foo {}", KindTypeDecl},
		{"import java.util.List", KindImportDecl},
		{"label: for (x in xs) {}", KindLabeledStmt},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, diags := parseSource(tt.input)
			if len(diags) > 0 {
				t.Errorf("unexpected diagnostics for %q", tt.input)
				printErrors(t, diags)
			}
			if len(root.Children) == 0 {
				t.Fatalf("no statements in %q", tt.input)
			}
			if got := root.Children[0].Kind; got != tt.kind {
				t.Errorf("got %v, want %v\n%s", got, tt.kind, root)
			}
		})
	}
}

func TestMultipleLocalVariable(t *testing.T) {
	root, diags := parseSource("def (a, b) = [1, 2]")
	if len(diags) > 0 {
		printErrors(t, diags)
		t.FailNow()
	}
	decl := root.Children[0]
	if decl.Alt != VarMultiple {
		t.Errorf("got alt %d, want VarMultiple", decl.Alt)
	}
	if decl.FirstChildOfKind(KindVariableNames) == nil {
		t.Errorf("missing VariableNames in\n%s", decl)
	}
}

func TestScriptMethodsDisabled(t *testing.T) {
	root, diags := parseSource("def foo() { 1 }", WithScriptMethods(false))
	if len(diags) != 1 || diags[0].Kind != PredicateRejected {
		t.Fatalf("got %d diagnostics, want one predicate-rejected", len(diags))
	}
	if root.Children[0].Kind != KindMethodDecl {
		t.Errorf("got %v, want MethodDecl", root.Children[0].Kind)
	}
}

func TestCommandChain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo 1, 2", "(ExprStmt (CommandExpr foo (ArgumentList 1 2)))"},
		{"foo 1, 2 bar 3", "(ExprStmt (CommandExpr foo (ArgumentList 1 2) (CommandArgument bar (ArgumentList 3))))"},
		{"foo(1) bar 2", "(ExprStmt (CommandExpr (Path foo (Arguments 1)) (CommandArgument bar (ArgumentList 2))))"},
		{"move left by 10", "(ExprStmt (CommandExpr move (ArgumentList left) (CommandArgument by (ArgumentList 10))))"},
		{"x = foo 1", "(ExprStmt (AssignmentExpr x = (CommandExpr foo (ArgumentList 1))))"},
		{"foo a: 1, b: 2", "(ExprStmt (CommandExpr foo (ArgumentList (MapEntry a : 1) (MapEntry b : 2))))"},
		{"foo.bar baz", "(ExprStmt (CommandExpr (Path foo (MemberAccess . bar)) (ArgumentList baz)))"},
		{"foo -1", "(ExprStmt (AdditiveExpr foo - 1))"},
		{"foo { it }", "(ExprStmt (Path foo (Closure (Block (ExprStmt it)))))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, diags := parseSource(tt.input)
			if len(diags) > 0 {
				t.Errorf("unexpected diagnostics for %q", tt.input)
				printErrors(t, diags)
			}
			if got := root.Children[0].Sexp(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestCommandChainHeadAlreadyCalled(t *testing.T) {
	head := &Node{Kind: KindPath, Alt: InteractCall}
	if !alreadyHasArgumentsOrClosure(head) {
		t.Error("call path should already have arguments")
	}
	head.Alt = InteractClosureCall
	if !alreadyHasArgumentsOrClosure(head) {
		t.Error("closure call path should already have arguments")
	}
	head.Alt = InteractPlain
	if alreadyHasArgumentsOrClosure(head) {
		t.Error("plain path has no arguments")
	}
	if alreadyHasArgumentsOrClosure(&Node{Kind: KindIdentifier}) {
		t.Error("identifier has no arguments")
	}
}

func TestYieldGating(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		yields int
	}{
		{
			"colon groups in switch expression",
			"def r = switch (x) {\n  case 1:\n    yield 'one'\n  default:\n    yield 'many'\n}",
			2,
		},
		{
			"arrow block in switch expression",
			"def r = switch (x) {\n  case 1 -> { yield 2 }\n  default -> 3\n}",
			1,
		},
		{
			"yield outside switch is a command",
			"yield 1",
			0,
		},
		{
			"yield in switch statement is a command",
			"switch (x) {\n  case 1:\n    yield 2\n}",
			0,
		},
		{
			"yield as variable name",
			"def yield = 1\nprintln yield",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseSource(tt.input)
			if len(diags) > 0 {
				t.Errorf("unexpected diagnostics for %q", tt.input)
				printErrors(t, diags)
			}
			if got := countKind(root, KindYieldStmt); got != tt.yields {
				t.Errorf("got %d yield statements, want %d\n%s", got, tt.yields, root)
			}
		})
	}
}

func TestSwitchDepthRestored(t *testing.T) {
	p := newParser(lexer.Tokenize([]byte("switch (x) { case 1 -> 2 }")))
	p.parseExpression()
	if p.switchDepth != 0 {
		t.Errorf("switch depth %d after switch expression, want 0", p.switchDepth)
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"package and imports", "package com.example\n\nimport java.util.List\nimport static java.lang.Math.*\nimport java.util.Map as JMap\n"},
		{"semicolons", "package a.b; import c.d; class E {}"},
		{"annotated package", "@Field\npackage com.example"},
		{"class with members", "class Foo {\n  int x = 5\n  String name\n  Foo() {}\n  void bar(int a, String... rest) {}\n  static {\n    println 'init'\n  }\n}"},
		{"interface", "interface Shape {\n  double area()\n}"},
		{"generic class", "class Box<T extends Comparable<T> & Serializable> implements Container<T> {}"},
		{"enum", "enum Color { RED, GREEN, BLUE }"},
		{"enum with members", "enum Planet {\n  EARTH(1.0), MARS(0.5)\n\n  final double mass\n  Planet(double mass) { this.mass = mass }\n}"},
		{"trait", "trait Greeter {\n  String greet() { \"hi\" }\n}"},
		{"record", "record Point(int x, int y) {}"},
		{"annotation type", "@interface Ann {\n  String value() default 'x'\n}"},
		{"annotated method", "class Foo {\n  @Override\n  String toString() { 'foo' }\n}"},
		{"anonymous class", "def r = new Runnable() {\n  void run() {}\n}"},
		{"sealed", "sealed class Shape permits Circle, Square {}"},
		{"script method and statements", "def add(a, b) { a + b }\nprintln add(1, 2)"},
		{"string method name", "class Spec {\n  def 'adds numbers'() { expect: 1 + 1 == 2 }\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseSource(tt.input, WithFile("test.groovy"))
			if root.Kind != KindCompilationUnit {
				t.Errorf("got %v, want CompilationUnit", root.Kind)
			}
			if !root.Context.Has(CtxScript) {
				t.Error("compilation unit should carry the script context")
			}
			if root.HasErrors() || len(diags) > 0 {
				t.Errorf("parse error in: %s", tt.input)
				printErrors(t, diags)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"if", "if (a) { b }"},
		{"if-else chain", "if (a) {\n  b\n}\nelse if (c) {\n  d\n} else {\n  e\n}"},
		{"if without braces", "if (a) return b"},
		{"classic for", "for (int i = 0; i < 10; i++) { println i }"},
		{"empty for", "for (;;) { break }"},
		{"for in", "for (x in xs) println x"},
		{"typed for each", "for (String s : names) {}"},
		{"while", "while (true) { continue }"},
		{"do while", "do { x++ } while (x < 10)"},
		{"try catch finally", "try {\n  risky()\n} catch (IOException | RuntimeException e) {\n  log e\n} finally {\n  close()\n}"},
		{"untyped catch", "try { a() } catch (e) { b() }"},
		{"try with resources", "try (def r = open()) { r.read() }"},
		{"switch", "switch (x) {\n  case 1:\n  case 2:\n    println 'small'\n    break\n  default:\n    println 'big'\n}"},
		{"arrow switch", "switch (x) {\n  case 1, 2 -> println 'small'\n  default -> { println 'big' }\n}"},
		{"return", "def f() { return }"},
		{"throw", "throw new IllegalStateException('no')"},
		{"assert with message", "assert x > 0 : 'positive'"},
		{"synchronized", "synchronized (lock) { count++ }"},
		{"labeled", "outer: while (true) { break outer }"},
		{"multiple assignment", "(a, b) = [1, 2]"},
		{"closure with params on new lines", "list.each { a,\n b -> println a }"},
		{"method chain on new lines", "list\n  .findAll { it > 1 }\n  .collect { it * 2 }"},
		{"safe chain", "a?.b?.c()"},
		{"spread argument", "foo(*args)"},
		{"named arguments", "foo(a: 1, 'b': 2, *:rest)"},
		{"gstring", "println \"hello $name\""},
		{"nested gstring", "println \"a ${\"b $c\"} d\""},
		{"static qualifier", "static.foo()"},
		{"lambda argument", "list.forEach(x -> println(x))"},
		{"method reference", "list.stream().map(String::valueOf)"},
		{"array creation", "int[] a = new int[10]\nString[] b = new String[] { 'x' }"},
		{"inner creator", "outer.new Inner()"},
		{"local class", "def f() {\n  class Local {}\n  new Local()\n}"},
		{"ternary across lines", "def x = a\n  ? b\n  : c"},
		{"elvis assignment", "x ?= 1"},
		{"safe index", "a?[0]"},
		{"identity", "a === b"},
		{"not in", "a !in b"},
		{"not instanceof", "a !instanceof String"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseSource(tt.input)
			if root.HasErrors() || len(diags) > 0 {
				t.Errorf("parse error in: %s\n%s", tt.input, root)
				printErrors(t, diags)
			}
		})
	}
}

func TestGStringNesting(t *testing.T) {
	root, diags := parseSource(`println "a ${"b $c.d"} e $f"`)
	if len(diags) > 0 {
		printErrors(t, diags)
		t.FailNow()
	}
	if got := countKind(root, KindGString); got != 2 {
		t.Errorf("got %d GString nodes, want 2\n%s", got, root)
	}
	if got := countKind(root, KindGStringPath); got != 2 {
		t.Errorf("got %d GStringPath nodes, want 2\n%s", got, root)
	}
	var path *Node
	root.Walk(func(n *Node) bool {
		if n.Kind == KindGStringPath && path == nil {
			path = n
		}
		return true
	})
	if path == nil || len(path.Children) != 2 {
		t.Fatalf("want a two-segment path for $c.d, got\n%s", path)
	}
}

func TestGrammarVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		version string
		want    int
	}{
		{"switch expression on 4", "def r = switch (x) { case 1 -> 'a'; default -> 'b' }", "4.0.0", 0},
		{"switch expression on 3", "def r = switch (x) { case 1 -> 'a'; default -> 'b' }", "3.0.0", 3},
		{"not in on 2.5", "a !in b", "2.5.0", 1},
		{"lambda on 2.5", "list.each(x -> x)", "2.5.0", 1},
		{"record on 3", "record P(int x) {}", "3.0.9", 1},
		{"classic syntax on 2.5", "def x = [1, 2].collect { it * 2 }", "2.5.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseSource(tt.input, WithGrammarVersion(semver.MustParse(tt.version)))
			if root.HasErrors() {
				t.Errorf("gated syntax should still parse:\n%s", root)
			}
			if len(diags) != tt.want {
				t.Errorf("got %d diagnostics, want %d", len(diags), tt.want)
				printErrors(t, diags)
			}
			for _, d := range diags {
				if d.Kind != SyntaxUnavailable {
					t.Errorf("got %v, want syntax-unavailable", d.Kind)
				}
			}
		})
	}
}

func TestSupports(t *testing.T) {
	v3 := semver.MustParse("3.0.0")
	if !Supports(v3, FeatureLambda) {
		t.Error("3.0.0 should support lambdas")
	}
	if Supports(v3, FeatureYield) {
		t.Error("3.0.0 should not support yield")
	}
	if !Supports(DefaultGrammarVersion, FeatureRecord) {
		t.Error("default version should support records")
	}
}

func TestErrorRecovery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		minErrors int
	}{
		{"missing expression", "int x = )\nint y = ]\nprintln 'ok'", 2},
		{"unclosed call", "foo(1, 2\nbar()", 1},
		{"unclosed block", "def f() {\n  return 1\n", 1},
		{"missing separator", "a = 1 b = 2", 1},
		{"stray closer", "}\nprintln 1", 1},
		{"bad class member", "class Foo {\n  int = 5\n  void ok() {}\n}", 1},
		{"try without catch", "try { a() }", 1},
		{"bad switch body", "switch (x) { foo }", 1},
		{"invalid assignment target", "1 = 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags := parseSource(tt.input, WithFile("bad.groovy"))
			if root.Kind != KindCompilationUnit {
				t.Fatalf("got %v, want CompilationUnit", root.Kind)
			}
			if len(diags) < tt.minErrors {
				t.Errorf("got %d diagnostics, want at least %d\n%s", len(diags), tt.minErrors, root)
			}
			for _, d := range diags {
				if d.File != "bad.groovy" {
					t.Errorf("diagnostic file %q, want bad.groovy", d.File)
				}
			}
		})
	}
}

func TestUnrelatedErrorsReportedSeparately(t *testing.T) {
	_, diags := parseSource("a = )\nb = )\nc = )")
	if len(diags) != 3 {
		t.Errorf("got %d diagnostics, want 3", len(diags))
		printErrors(t, diags)
	}
}

func TestMaxErrors(t *testing.T) {
	_, diags := parseSource("a = )\nb = )\nc = )", WithMaxErrors(2))
	if len(diags) != 2 {
		t.Errorf("got %d diagnostics, want 2", len(diags))
	}
}

func TestDiagnosticsErr(t *testing.T) {
	var none Diagnostics
	if err := none.Err(); err != nil {
		t.Errorf("got %v, want nil", err)
	}
	_, diags := parseSource("a = )\nb = )", WithFile("x.groovy"))
	err := diags.Err()
	if err == nil {
		t.Fatal("want an error")
	}
	lines := strings.Split(err.Error(), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), err.Error())
	}
	if !strings.HasPrefix(lines[0], "x.groovy:1:") {
		t.Errorf("got %q, want x.groovy:1: prefix", lines[0])
	}
}

func TestParseExpressionTrailingInput(t *testing.T) {
	_, diags := parseExpr("a + b c")
	if len(diags) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(diags))
	}
}

func TestPositionTracking(t *testing.T) {
	root, _ := parseSource("class Foo {\n    int x\n}")
	if root.Span.Start.Line != 1 || root.Span.Start.Column != 1 {
		t.Errorf("start: got %s, want 1:1", root.Span.Start)
	}
	decl := root.Children[0]
	if decl.Span.End.Line != 3 {
		t.Errorf("class end line: got %d, want 3", decl.Span.End.Line)
	}
	field := decl.FirstChildOfKind(KindClassBody).FirstChildOfKind(KindFieldDecl)
	if field == nil {
		t.Fatalf("no field in\n%s", root)
	}
	if field.Span.Start.Line != 2 || field.Span.Start.Column != 5 {
		t.Errorf("field start: got %s, want 2:5", field.Span.Start)
	}
}

func TestMarshalJSON(t *testing.T) {
	root, _ := parseSource("x = 1")
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["kind"] != "CompilationUnit" {
		t.Errorf("got kind %v, want CompilationUnit", decoded["kind"])
	}
	if decoded["context"] != "script" {
		t.Errorf("got context %v, want script", decoded["context"])
	}
	if _, ok := decoded["children"]; !ok {
		t.Error("missing children")
	}
}
