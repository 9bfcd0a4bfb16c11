// Package processors holds the lowering pass (absyn to il) and the
// literal value encoder. Both are closed case analyses: a node or
// datum without a rule is a compiler defect, never user input.
package processors

import (
	"lark-compiler/internal/pkg/ast"
	"lark-compiler/internal/pkg/ast/absyn"
	"lark-compiler/internal/pkg/ast/il"
	"lark-compiler/internal/pkg/ast/sexpr"
	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/names"
)

type lowerer struct {
	module  *absyn.Module
	reg     *names.Registry
	imports []il.Import
	exports []il.Export
	subs    []*absyn.Module
}

// LowerModule rewrites every absyn form of the module into IL. Nested
// sub-modules are returned for the caller to compile as independent
// units.
func LowerModule(m *absyn.Module, reg *names.Registry) (*il.Module, []*absyn.Module, error) {
	l := &lowerer{module: m, reg: reg}
	var body []il.Stmt
	for _, form := range m.Forms {
		stmts, err := l.lowerForm(form)
		if err != nil {
			return nil, nil, err
		}
		body = append(body, stmts...)
	}
	return &il.Module{
		Id:      m.Id,
		Imports: l.imports,
		Body:    body,
		Exports: l.exports,
	}, l.subs, nil
}

func (l *lowerer) lowerForm(form absyn.Form) ([]il.Stmt, error) {
	switch f := form.(type) {
	case *absyn.DefineValues:
		return l.lowerBindingStmts(f.Ids, f.Value, false)
	case *absyn.Require:
		l.addImport(string(f.Module), f.Path)
		return nil, nil
	case *absyn.Provide:
		name := l.reg.Render(f.Id)
		if !common.Any(func(e il.Export) bool { return e.Name == name }, l.exports) {
			l.exports = append(l.exports, il.Export{Name: name})
		}
		return nil, nil
	case *absyn.Module:
		l.subs = append(l.subs, f)
		return nil, nil
	}
	expr, ok := form.(absyn.Expr)
	if !ok {
		return nil, common.NewCompilerError("lowering: no rule for form %T in module %s", form, l.module.Id)
	}
	return l.lowerEffect(expr)
}

// lowerEffect lowers an expression in statement position, discarding
// the result. Conditionals and sequences keep their statement shape
// instead of going through a result temporary.
func (l *lowerer) lowerEffect(e absyn.Expr) ([]il.Stmt, error) {
	switch n := e.(type) {
	case *absyn.If:
		predStmts, pred, err := l.lowerExpr(n.Pred)
		if err != nil {
			return nil, err
		}
		thenStmts, err := l.lowerEffect(n.Then)
		if err != nil {
			return nil, err
		}
		elseStmts, err := l.lowerEffect(n.Else)
		if err != nil {
			return nil, err
		}
		return append(predStmts, &il.If{Pred: pred, Then: thenStmts, Else: elseStmts}), nil
	case *absyn.Begin:
		var result []il.Stmt
		for _, x := range n.Exprs {
			stmts, err := l.lowerEffect(x)
			if err != nil {
				return nil, err
			}
			result = append(result, stmts...)
		}
		return result, nil
	case *absyn.Set:
		stmts, value, err := l.lowerExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return append(stmts, &il.Assign{Target: &il.Ref{Name: l.reg.Render(n.Id)}, Value: value}), nil
	case *absyn.JSAssign:
		return l.lowerJSAssign(n)
	}
	stmts, expr, err := l.lowerExpr(e)
	if err != nil {
		return nil, err
	}
	return append(stmts, &il.ExprStmt{Expr: expr}), nil
}

// lowerExpr lowers an expression in value position: a statement prefix
// plus a renderable result expression.
func (l *lowerer) lowerExpr(e absyn.Expr) ([]il.Stmt, il.Expr, error) {
	switch n := e.(type) {
	case *absyn.Quote:
		encoded, err := EncodeValue(n.Datum)
		return nil, encoded, err
	case *absyn.VarRef:
		return l.lowerVarRef(n.Id)
	case *absyn.If:
		return l.lowerIfExpr(n)
	case *absyn.Lambda:
		fn, err := l.lowerLambda(n)
		return nil, fn, err
	case *absyn.CaseLambda:
		clauses := make([]il.Expr, len(n.Clauses))
		for i, clause := range n.Clauses {
			fn, err := l.lowerLambda(clause)
			if err != nil {
				return nil, nil, err
			}
			clauses[i] = fn
		}
		return nil, runtimeCall("Procedure", "makeCaseLambda", clauses...), nil
	case *absyn.LetValues:
		return l.lowerLetValues(n)
	case *absyn.Begin:
		if len(n.Exprs) == 0 {
			return nil, runtimeValue("VOID"), nil
		}
		var stmts []il.Stmt
		for _, x := range n.Exprs[:len(n.Exprs)-1] {
			s, err := l.lowerEffect(x)
			if err != nil {
				return nil, nil, err
			}
			stmts = append(stmts, s...)
		}
		last, result, err := l.lowerExpr(n.Exprs[len(n.Exprs)-1])
		if err != nil {
			return nil, nil, err
		}
		return append(stmts, last...), result, nil
	case *absyn.Begin0:
		return l.lowerBegin0(n)
	case *absyn.Set:
		stmts, err := l.lowerEffect(n)
		return stmts, runtimeValue("VOID"), err
	case *absyn.WithContinuationMark:
		return l.lowerMark(n)
	case *absyn.App:
		stmts, results, err := l.lowerOperands(append([]absyn.Expr{n.Fn}, n.Args...))
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.App{Fn: results[0], Args: results[1:]}, nil
	case *absyn.JSRef:
		stmts, base, err := l.lowerExpr(n.Base)
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.FieldRef{Base: base, Field: string(n.Field)}, nil
	case *absyn.JSIndex:
		stmts, results, err := l.lowerOperands([]absyn.Expr{n.Base, n.Index})
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.Index{Base: results[0], Key: results[1]}, nil
	case *absyn.JSVar:
		return nil, &il.Ref{Name: string(n.Name)}, nil
	case *absyn.JSAssign:
		stmts, err := l.lowerJSAssign(n)
		return stmts, runtimeValue("VOID"), err
	case *absyn.JSNew:
		stmts, results, err := l.lowerOperands(append([]absyn.Expr{n.Ctor}, n.Args...))
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.New{Ctor: results[0], Args: results[1:]}, nil
	case *absyn.JSObject:
		values := common.Map(func(f absyn.JSField) absyn.Expr { return f.Value }, n.Fields)
		stmts, results, err := l.lowerOperands(values)
		if err != nil {
			return nil, nil, err
		}
		fields := make([]il.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = il.Field{Name: string(f.Name), Value: results[i]}
		}
		return stmts, &il.Object{Fields: fields}, nil
	case *absyn.JSArray:
		stmts, items, err := l.lowerOperands(n.Items)
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.Array{Items: items}, nil
	case *absyn.JSRequire:
		alias := l.addImport("js:"+n.Path, n.Path)
		return nil, &il.Ref{Name: alias}, nil
	case *absyn.JSOperator:
		stmts, operands, err := l.lowerOperands(n.Operands)
		if err != nil {
			return nil, nil, err
		}
		return stmts, &il.BinOp{Op: n.Op, Operands: operands}, nil
	}
	return nil, nil, common.NewCompilerError("lowering: no rule for node %T in module %s", e, l.module.Id)
}

// lowerVarRef renders a reference. Top-level identifiers listed among
// the module's quoted bindings are encoded as symbol data instead.
func (l *lowerer) lowerVarRef(id ast.Ident) ([]il.Stmt, il.Expr, error) {
	if id.Kind() == ast.KindTopLevel && l.module.IsQuotedBinding(id.Name()) {
		encoded, err := EncodeValue(sexpr.Symbol(id.Name()))
		return nil, encoded, err
	}
	if id.Kind() == ast.KindImported && !id.Reachable() {
		return nil, nil, common.NewCompilerError(
			"lowering: reference to `%s`, eliminated upstream from module %s", id.Name(), id.Module())
	}
	return nil, &il.Ref{Name: l.reg.Render(id)}, nil
}

// Conditionals have no expression rendering in IL, so a value-position
// `if` captures both branch results in a fresh temporary.
func (l *lowerer) lowerIfExpr(n *absyn.If) ([]il.Stmt, il.Expr, error) {
	predStmts, pred, err := l.lowerExpr(n.Pred)
	if err != nil {
		return nil, nil, err
	}
	tmp := l.reg.FreshTemp()
	thenStmts, thenExpr, err := l.lowerExpr(n.Then)
	if err != nil {
		return nil, nil, err
	}
	elseStmts, elseExpr, err := l.lowerExpr(n.Else)
	if err != nil {
		return nil, nil, err
	}
	tmpRef := &il.Ref{Name: tmp}
	stmts := append(predStmts, &il.VarDecl{Name: tmp})
	stmts = append(stmts, &il.If{
		Pred: pred,
		Then: append(thenStmts, &il.Assign{Target: tmpRef, Value: thenExpr}),
		Else: append(elseStmts, &il.Assign{Target: tmpRef, Value: elseExpr}),
	})
	return stmts, tmpRef, nil
}

func (l *lowerer) lowerLambda(n *absyn.Lambda) (il.Expr, error) {
	params := common.Map(func(id ast.Ident) string { return l.reg.Render(id) }, n.Params)
	var body []il.Stmt
	if n.Rest != nil {
		body = append(body, &il.VarDecl{
			Name: l.reg.Render(*n.Rest),
			Init: runtimeCall("Pair", "sliceArguments", &il.Ref{Name: "arguments"}, intLiteral(int64(len(params)))),
		})
	}
	bodyStmts, result, err := l.lowerBody(n.Body)
	if err != nil {
		return nil, err
	}
	body = append(body, bodyStmts...)
	body = append(body, &il.Return{Value: result})
	return &il.Func{Params: params, Body: body}, nil
}

// lowerBody lowers a body sequence: all but the last form for effect,
// the last for its value. An empty body yields void.
func (l *lowerer) lowerBody(body []absyn.Expr) ([]il.Stmt, il.Expr, error) {
	if len(body) == 0 {
		return nil, runtimeValue("VOID"), nil
	}
	var stmts []il.Stmt
	for _, x := range body[:len(body)-1] {
		s, err := l.lowerEffect(x)
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, s...)
	}
	last, result, err := l.lowerExpr(body[len(body)-1])
	if err != nil {
		return nil, nil, err
	}
	return append(stmts, last...), result, nil
}

// lowerLetValues relies on pre-freshened binding names: declarations
// hoist into the enclosing statement list, recursive binding groups
// become declarations followed by assignments.
func (l *lowerer) lowerLetValues(n *absyn.LetValues) ([]il.Stmt, il.Expr, error) {
	var stmts []il.Stmt
	if n.Rec {
		for _, b := range n.Bindings {
			for _, id := range b.Ids {
				stmts = append(stmts, &il.VarDecl{Name: l.reg.Render(id)})
			}
		}
	}
	for _, b := range n.Bindings {
		s, err := l.lowerBindingStmts(b.Ids, b.Value, n.Rec)
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, s...)
	}
	bodyStmts, result, err := l.lowerBody(n.Body)
	if err != nil {
		return nil, nil, err
	}
	return append(stmts, bodyStmts...), result, nil
}

// lowerBindingStmts binds ids to the values of a right-hand side. With
// assignOnly the ids are already declared and only get assigned.
// Multiple ids go through a temporary holding the values container.
func (l *lowerer) lowerBindingStmts(ids []ast.Ident, value absyn.Expr, assignOnly bool) ([]il.Stmt, error) {
	stmts, expr, err := l.lowerExpr(value)
	if err != nil {
		return nil, err
	}
	bind := func(name string, init il.Expr) il.Stmt {
		if assignOnly {
			return &il.Assign{Target: &il.Ref{Name: name}, Value: init}
		}
		return &il.VarDecl{Name: name, Init: init}
	}
	if len(ids) == 1 {
		return append(stmts, bind(l.reg.Render(ids[0]), expr)), nil
	}
	tmp := l.reg.FreshTemp()
	stmts = append(stmts, &il.VarDecl{Name: tmp, Init: expr})
	for i, id := range ids {
		stmts = append(stmts, bind(l.reg.Render(id),
			runtimeCall("Values", "ref", &il.Ref{Name: tmp}, intLiteral(int64(i)))))
	}
	return stmts, nil
}

// lowerBegin0 captures the first value before the remaining forms run.
func (l *lowerer) lowerBegin0(n *absyn.Begin0) ([]il.Stmt, il.Expr, error) {
	if len(n.Exprs) == 0 {
		return nil, runtimeValue("VOID"), nil
	}
	stmts, first, err := l.lowerExpr(n.Exprs[0])
	if err != nil {
		return nil, nil, err
	}
	tmp := l.reg.FreshTemp()
	stmts = append(stmts, &il.VarDecl{Name: tmp, Init: first})
	for _, x := range n.Exprs[1:] {
		s, err := l.lowerEffect(x)
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, s...)
	}
	return stmts, &il.Ref{Name: tmp}, nil
}

// Dynamic-extent marks bracket the marked expression with a runtime
// call around a thunk.
func (l *lowerer) lowerMark(n *absyn.WithContinuationMark) ([]il.Stmt, il.Expr, error) {
	stmts, results, err := l.lowerOperands([]absyn.Expr{n.Key, n.Value})
	if err != nil {
		return nil, nil, err
	}
	resultStmts, result, err := l.lowerExpr(n.Result)
	if err != nil {
		return nil, nil, err
	}
	thunk := &il.Func{Body: append(resultStmts, &il.Return{Value: result})}
	return stmts, runtimeCall("Marks", "wrap", results[0], results[1], thunk), nil
}

func (l *lowerer) lowerJSAssign(n *absyn.JSAssign) ([]il.Stmt, error) {
	stmts, target, err := l.lowerExpr(n.Target)
	if err != nil {
		return nil, err
	}
	valueStmts, value, err := l.lowerExpr(n.Value)
	if err != nil {
		return nil, err
	}
	if len(valueStmts) > 0 {
		target = l.pinTarget(target, &stmts)
	}
	stmts = append(stmts, valueStmts...)
	return append(stmts, &il.Assign{Target: target, Value: value}), nil
}

// lowerOperands lowers an operand list with left-to-right value
// semantics: once a later operand carries a statement prefix, every
// earlier result whose value those statements could change is captured
// in a temporary before the prefix runs.
func (l *lowerer) lowerOperands(exprs []absyn.Expr) ([]il.Stmt, []il.Expr, error) {
	prefixes := make([][]il.Stmt, len(exprs))
	results := make([]il.Expr, len(exprs))
	for i, x := range exprs {
		s, expr, err := l.lowerExpr(x)
		if err != nil {
			return nil, nil, err
		}
		prefixes[i] = s
		results[i] = expr
	}
	var stmts []il.Stmt
	for i := range results {
		stmts = append(stmts, prefixes[i]...)
		if anyPrefixAfter(prefixes, i) {
			results[i] = l.pin(results[i], &stmts)
		}
	}
	return stmts, results, nil
}

func anyPrefixAfter(prefixes [][]il.Stmt, i int) bool {
	for _, p := range prefixes[i+1:] {
		if len(p) > 0 {
			return true
		}
	}
	return false
}

// pinTarget captures the constituent parts of an lvalue in temporaries
// so later statements cannot run before they are evaluated. A plain
// reference is the assignment target itself and stays.
func (l *lowerer) pinTarget(target il.Expr, stmts *[]il.Stmt) il.Expr {
	switch t := target.(type) {
	case *il.FieldRef:
		return &il.FieldRef{Base: l.pin(t.Base, stmts), Field: t.Field}
	case *il.Index:
		return &il.Index{Base: l.pin(t.Base, stmts), Key: l.pin(t.Key, stmts)}
	}
	return target
}

// pin binds the expression's current value to a fresh temporary.
// Freshly built literals cannot change and pass through unbound.
func (l *lowerer) pin(e il.Expr, stmts *[]il.Stmt) il.Expr {
	switch e.(type) {
	case *il.Literal, *il.Func:
		return e
	}
	tmp := l.reg.FreshTemp()
	*stmts = append(*stmts, &il.VarDecl{Name: tmp, Init: e})
	return &il.Ref{Name: tmp}
}

// addImport records one import per module key, keeping first-require
// order. The alias is stable per key, so it doubles as the dedup key.
func (l *lowerer) addImport(key, path string) string {
	alias := l.reg.ModuleAlias(key)
	if _, ok := common.Find(func(imp il.Import) bool { return imp.Alias == alias }, l.imports); !ok {
		l.imports = append(l.imports, il.Import{Alias: alias, Path: path})
	}
	return alias
}
