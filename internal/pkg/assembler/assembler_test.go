package assembler

import (
	"errors"
	"strings"
	"testing"

	"lark-compiler/internal/pkg/ast/il"
	"lark-compiler/internal/pkg/common"
)

func emitExpr(t *testing.T, e il.Expr) string {
	t.Helper()
	sb := strings.Builder{}
	if err := EmitExpr(&sb, e); err != nil {
		t.Fatalf("EmitExpr: %v", err)
	}
	return sb.String()
}

func emitStmt(t *testing.T, s il.Stmt) string {
	t.Helper()
	sb := strings.Builder{}
	if err := EmitStmt(&sb, s); err != nil {
		t.Fatalf("EmitStmt: %v", err)
	}
	return sb.String()
}

func ref(name string) il.Expr { return &il.Ref{Name: name} }

func TestWrappingInAppliedPositions(t *testing.T) {
	fn := &il.Func{Body: []il.Stmt{&il.Return{Value: ref("x")}}}
	newExpr := &il.New{Ctor: ref("Array"), Args: []il.Expr{&il.Literal{Text: "10", Numeric: true}, &il.Literal{Text: "0", Numeric: true}}}
	chain := &il.BinOp{Op: "+", Operands: []il.Expr{ref("a"), ref("b")}}
	object := &il.Object{Fields: []il.Field{{Name: "a", Value: ref("x")}}}
	number := &il.Literal{Text: "1", Numeric: true}

	wrapped := []struct {
		name string
		in   il.Expr
		want string
	}{
		{"function literal applied", &il.App{Fn: fn}, "(function() {return x;})()"},
		{"new as field base", &il.FieldRef{Base: newExpr, Field: "property"}, "(new Array(10,0)).property"},
		{"chain applied", &il.App{Fn: chain}, "(a+b)()"},
		{"object as index base", &il.Index{Base: object, Key: ref("k")}, "({a: x})[k]"},
		{"number as field base", &il.FieldRef{Base: number, Field: "toString"}, "(1).toString"},
	}
	for _, tc := range wrapped {
		t.Run(tc.name, func(t *testing.T) {
			got := emitExpr(t, tc.in)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}

	unwrapped := []struct {
		name string
		in   il.Expr
		want string
	}{
		{"identifier applied", &il.App{Fn: ref("f"), Args: []il.Expr{ref("x")}}, "f(x)"},
		{"application applied", &il.App{Fn: &il.App{Fn: ref("f")}}, "f()()"},
		{"field chain", &il.FieldRef{Base: &il.FieldRef{Base: ref("global"), Field: "window"}, Field: "document"}, "global.window.document"},
		{"index base field ref", &il.Index{Base: &il.FieldRef{Base: ref("a"), Field: "b"}, Key: ref("i")}, "a.b[i]"},
		{"array as field base", &il.FieldRef{Base: &il.Array{Items: []il.Expr{ref("x")}}, Field: "length"}, "[x].length"},
		{"string literal applied base", &il.FieldRef{Base: &il.Literal{Text: `"s"`}, Field: "length"}, `"s".length`},
	}
	for _, tc := range unwrapped {
		t.Run(tc.name, func(t *testing.T) {
			got := emitExpr(t, tc.in)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBinOpNestedChainsKeepGrouping(t *testing.T) {
	inner := &il.BinOp{Op: "*", Operands: []il.Expr{ref("a"), ref("b")}}
	outer := &il.BinOp{Op: "+", Operands: []il.Expr{inner, ref("c"), ref("d")}}
	got := emitExpr(t, outer)
	want := "(a*b)+c+d"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStatements(t *testing.T) {
	cases := []struct {
		name string
		in   il.Stmt
		want string
	}{
		{"var with init", &il.VarDecl{Name: "x", Init: ref("y")}, "var x = y;"},
		{"var without init", &il.VarDecl{Name: "x"}, "var x;"},
		{"return", &il.Return{Value: ref("x")}, "return x;"},
		{"bare return", &il.Return{}, "return;"},
		{"assign", &il.Assign{Target: ref("x"), Value: ref("y")}, "x = y;"},
		{"expression statement", &il.ExprStmt{Expr: ref("x")}, "x;"},
		{"continue", &il.Continue{}, "continue;"},
		{"labeled continue", &il.Continue{Label: "loop"}, "continue loop;"},
		{"label", &il.Label{Name: "loop"}, "loop:"},
		{
			"while",
			&il.While{Pred: ref("p"), Body: []il.Stmt{&il.ExprStmt{Expr: ref("x")}}},
			"while (p) {x;}",
		},
		{
			"if without else",
			&il.If{Pred: ref("p"), Then: []il.Stmt{&il.ExprStmt{Expr: ref("x")}}},
			"if (p) {x;}",
		},
		{
			"if else",
			&il.If{
				Pred: ref("p"),
				Then: []il.Stmt{&il.ExprStmt{Expr: ref("x")}},
				Else: []il.Stmt{&il.ExprStmt{Expr: ref("y")}},
			},
			"if (p) {x;} else {y;}",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := emitStmt(t, tc.in)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestObjectLiteralKeys(t *testing.T) {
	object := &il.Object{Fields: []il.Field{
		{Name: "plain", Value: ref("a")},
		{Name: "not plain", Value: ref("b")},
	}}
	got := emitExpr(t, object)
	want := `{plain: a, "not plain": b}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestModuleFraming(t *testing.T) {
	m := &il.Module{
		Id:      "app",
		Imports: []il.Import{{Alias: "$M0", Path: "./lib/core.js"}},
		Body:    []il.Stmt{&il.VarDecl{Name: "main", Init: ref("x")}},
		Exports: []il.Export{{Name: "main"}},
	}
	sb := strings.Builder{}
	if err := AssembleModule(&sb, m, "./runtime/core.js"); err != nil {
		t.Fatalf("AssembleModule: %v", err)
	}
	want := "import * as $rt from \"./runtime/core.js\";\n" +
		"import * as $M0 from \"./lib/core.js\";\n" +
		"var main = x;\n" +
		"export { main };\n"
	if sb.String() != want {
		t.Fatalf("framing\n got: %q\nwant: %q", sb.String(), want)
	}
}

func TestModuleFramingWithoutExports(t *testing.T) {
	m := &il.Module{Id: "app", Body: []il.Stmt{&il.ExprStmt{Expr: ref("x")}}}
	sb := strings.Builder{}
	if err := AssembleModule(&sb, m, "./runtime/core.js"); err != nil {
		t.Fatalf("AssembleModule: %v", err)
	}
	if strings.Contains(sb.String(), "export") {
		t.Fatalf("empty export clause must be omitted, got %q", sb.String())
	}
}

func TestMultipleExportsSingleClause(t *testing.T) {
	m := &il.Module{Id: "app", Exports: []il.Export{{Name: "a"}, {Name: "b"}}}
	sb := strings.Builder{}
	if err := AssembleModule(&sb, m, "./runtime/core.js"); err != nil {
		t.Fatalf("AssembleModule: %v", err)
	}
	if !strings.Contains(sb.String(), "export { a, b };") {
		t.Fatalf("expected single export clause, got %q", sb.String())
	}
}

func TestAssembleBodySuppressesFraming(t *testing.T) {
	m := &il.Module{
		Id:      "app",
		Imports: []il.Import{{Alias: "$M0", Path: "./lib/core.js"}},
		Body:    []il.Stmt{&il.ExprStmt{Expr: ref("x")}},
		Exports: []il.Export{{Name: "x"}},
	}
	sb := strings.Builder{}
	if err := AssembleBody(&sb, m); err != nil {
		t.Fatalf("AssembleBody: %v", err)
	}
	if sb.String() != "x;\n" {
		t.Fatalf("stream mode must emit the body only, got %q", sb.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestSinkErrorsPropagate(t *testing.T) {
	err := EmitExpr(failingWriter{}, ref("x"))
	if err == nil {
		t.Fatal("expected write failure to propagate")
	}
	if common.IsCompilerError(err) {
		t.Fatalf("sink failure must not be a compiler-internal error: %v", err)
	}
}
