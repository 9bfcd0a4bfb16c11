// Package assembler serializes IL into JavaScript text. Each call
// writes directly to the sink and keeps no state of its own, so it is
// safe to invoke repeatedly against one stream.
package assembler

import (
	"fmt"
	"io"
	"strings"

	"lark-compiler/internal/pkg/ast/il"
	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/names"
)

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	_, err := io.WriteString(w.w, s)
	if err != nil {
		w.err = common.NewSystemError(err)
	}
}

// EmitExpr writes one IL expression.
func EmitExpr(sink io.Writer, e il.Expr) error {
	w := &writer{w: sink}
	w.expr(e)
	return w.err
}

// EmitStmt writes one IL statement including its terminator.
func EmitStmt(sink io.Writer, s il.Stmt) error {
	w := &writer{w: sink}
	w.stmt(s)
	return w.err
}

// AssembleModule writes a standalone compiled unit: the runtime core
// import first, then the user imports, the body, and the export
// clause. runtimePath is derived by the caller from the module's own
// output location.
func AssembleModule(sink io.Writer, m *il.Module, runtimePath string) error {
	w := &writer{w: sink}
	w.str("import * as " + names.RuntimeAlias + " from \"" + runtimePath + "\";\n")
	for _, imp := range m.Imports {
		w.str("import * as " + imp.Alias + " from \"" + imp.Path + "\";\n")
	}
	w.body(m)
	if len(m.Exports) > 0 {
		exported := common.Map(func(e il.Export) string { return e.Name }, m.Exports)
		w.str("export { " + strings.Join(exported, ", ") + " };\n")
	}
	return w.err
}

// AssembleBody writes only the body statements. Used when the output
// is combined into a parent stream and framing is supplied elsewhere.
func AssembleBody(sink io.Writer, m *il.Module) error {
	w := &writer{w: sink}
	w.body(m)
	return w.err
}

func (w *writer) body(m *il.Module) {
	for _, s := range m.Body {
		w.stmt(s)
		w.str("\n")
	}
}

func (w *writer) stmt(s il.Stmt) {
	switch n := s.(type) {
	case *il.VarDecl:
		w.str("var " + n.Name)
		if n.Init != nil {
			w.str(" = ")
			w.expr(n.Init)
		}
		w.str(";")
	case *il.Return:
		if n.Value == nil {
			w.str("return;")
			return
		}
		w.str("return ")
		w.expr(n.Value)
		w.str(";")
	case *il.If:
		w.str("if (")
		w.expr(n.Pred)
		w.str(") {")
		w.stmts(n.Then)
		w.str("}")
		if n.Else != nil {
			w.str(" else {")
			w.stmts(n.Else)
			w.str("}")
		}
	case *il.While:
		w.str("while (")
		w.expr(n.Pred)
		w.str(") {")
		w.stmts(n.Body)
		w.str("}")
	case *il.Assign:
		w.expr(n.Target)
		w.str(" = ")
		w.expr(n.Value)
		w.str(";")
	case *il.Continue:
		if n.Label == "" {
			w.str("continue;")
			return
		}
		w.str("continue " + n.Label + ";")
	case *il.Label:
		w.str(n.Name + ":")
	case *il.ExprStmt:
		w.expr(n.Expr)
		w.str(";")
	default:
		w.fail("assembler: unknown statement %T", s)
	}
}

func (w *writer) stmts(xs []il.Stmt) {
	for _, s := range xs {
		w.stmt(s)
	}
}

func (w *writer) expr(e il.Expr) {
	switch n := e.(type) {
	case *il.Func:
		w.str("function(" + strings.Join(n.Params, ", ") + ") {")
		w.stmts(n.Body)
		w.str("}")
	case *il.App:
		w.applied(n.Fn)
		w.str("(")
		w.exprList(n.Args)
		w.str(")")
	case *il.BinOp:
		for i, operand := range n.Operands {
			if i > 0 {
				w.str(n.Op)
			}
			// Nested chains keep their grouping regardless of target
			// operator precedence.
			if _, chain := operand.(*il.BinOp); chain {
				w.str("(")
				w.expr(operand)
				w.str(")")
			} else {
				w.expr(operand)
			}
		}
	case *il.Literal:
		w.str(n.Text)
	case *il.FieldRef:
		w.applied(n.Base)
		w.str("." + n.Field)
	case *il.Index:
		w.applied(n.Base)
		w.str("[")
		w.expr(n.Key)
		w.str("]")
	case *il.New:
		w.str("new ")
		w.applied(n.Ctor)
		w.str("(")
		w.exprList(n.Args)
		w.str(")")
	case *il.Array:
		w.str("[")
		w.exprList(n.Items)
		w.str("]")
	case *il.Object:
		w.str("{")
		for i, f := range n.Fields {
			if i > 0 {
				w.str(", ")
			}
			w.str(fieldKey(f.Name) + ": ")
			w.expr(f.Value)
		}
		w.str("}")
	case *il.Ref:
		w.str(n.Name)
	default:
		w.fail("assembler: unknown expression %T", e)
	}
}

func (w *writer) exprList(xs []il.Expr) {
	for i, x := range xs {
		if i > 0 {
			w.str(",")
		}
		w.expr(x)
	}
}

// applied emits an expression in call-target, field-base, or
// index-base position, wrapping it only when the target grammar would
// otherwise change the parse: function literals, new expressions,
// operator chains, object literals, and bare number tokens.
func (w *writer) applied(e il.Expr) {
	if needsWrap(e) {
		w.str("(")
		w.expr(e)
		w.str(")")
		return
	}
	w.expr(e)
}

func needsWrap(e il.Expr) bool {
	switch n := e.(type) {
	case *il.Func, *il.New, *il.BinOp, *il.Object:
		return true
	case *il.Literal:
		return n.Numeric
	}
	return false
}

// fieldKey renders an object-literal key, quoting it when it is not a
// plain identifier.
func fieldKey(name string) string {
	plain := name != ""
	for i, c := range name {
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$' ||
			i > 0 && c >= '0' && c <= '9'
		if !ok {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func (w *writer) fail(format string, args ...any) {
	if w.err == nil {
		w.err = common.NewCompilerError(format, args...)
	}
}
