package absyn

import (
	"fmt"

	"lark-compiler/internal/pkg/ast"
)

// The embedding layer hands the backend a small fixed set of primitive
// JavaScript operations. Each variant carries its own operand shape;
// the builders below validate shape before lowering ever sees a node.

// JSRef is a field reference: base.field.
type JSRef struct {
	Base  Expr
	Field ast.Symbol
}

func (e *JSRef) _expr() {}
func (e *JSRef) _form() {}

// JSIndex is a computed subscript: base[index].
type JSIndex struct {
	Base  Expr
	Index Expr
}

func (e *JSIndex) _expr() {}
func (e *JSIndex) _form() {}

// JSVar references a target-language variable verbatim, bypassing the
// identifier service.
type JSVar struct {
	Name ast.Symbol
}

func (e *JSVar) _expr() {}
func (e *JSVar) _form() {}

// JSAssign assigns to a reference, subscript, verbatim variable, or a
// freshened binding.
type JSAssign struct {
	Target Expr
	Value  Expr
}

func (e *JSAssign) _expr() {}
func (e *JSAssign) _form() {}

// JSNew constructs an object: new ctor(args...).
type JSNew struct {
	Ctor Expr
	Args []Expr
}

func (e *JSNew) _expr() {}
func (e *JSNew) _form() {}

type JSField struct {
	Name  ast.Symbol
	Value Expr
}

// JSObject is an object literal.
type JSObject struct {
	Fields []JSField
}

func (e *JSObject) _expr() {}
func (e *JSObject) _form() {}

// JSArray is an array literal.
type JSArray struct {
	Items []Expr
}

func (e *JSArray) _expr() {}
func (e *JSArray) _form() {}

// JSRequire imports an external target-language module and evaluates
// to the module object.
type JSRequire struct {
	Path string
}

func (e *JSRequire) _expr() {}
func (e *JSRequire) _form() {}

// JSOperator chains operands with a binary operator token.
type JSOperator struct {
	Op       string
	Operands []Expr
}

func (e *JSOperator) _expr() {}
func (e *JSOperator) _form() {}

func NewJSRef(base Expr, field ast.Symbol) (*JSRef, error) {
	if base == nil {
		return nil, fmt.Errorf("js reference: missing base operand")
	}
	if field == "" {
		return nil, fmt.Errorf("js reference: empty field name")
	}
	return &JSRef{Base: base, Field: field}, nil
}

func NewJSIndex(base, index Expr) (*JSIndex, error) {
	if base == nil || index == nil {
		return nil, fmt.Errorf("js index: requires base and index operands")
	}
	return &JSIndex{Base: base, Index: index}, nil
}

func NewJSVar(name ast.Symbol) (*JSVar, error) {
	if name == "" {
		return nil, fmt.Errorf("js var: empty name")
	}
	return &JSVar{Name: name}, nil
}

func NewJSAssign(target, value Expr) (*JSAssign, error) {
	if value == nil {
		return nil, fmt.Errorf("js assign: missing value operand")
	}
	switch target.(type) {
	case *JSRef, *JSIndex, *JSVar, *VarRef:
		return &JSAssign{Target: target, Value: value}, nil
	}
	return nil, fmt.Errorf("js assign: target %T is not assignable", target)
}

func NewJSNew(ctor Expr, args []Expr) (*JSNew, error) {
	if ctor == nil {
		return nil, fmt.Errorf("js new: missing constructor operand")
	}
	return &JSNew{Ctor: ctor, Args: args}, nil
}

func NewJSObject(fields []JSField) (*JSObject, error) {
	seen := map[ast.Symbol]struct{}{}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("js object: empty field name")
		}
		if f.Value == nil {
			return nil, fmt.Errorf("js object: field `%s` has no value", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("js object: duplicate field `%s`", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &JSObject{Fields: fields}, nil
}

func NewJSArray(items []Expr) (*JSArray, error) {
	for i, x := range items {
		if x == nil {
			return nil, fmt.Errorf("js array: item %d is missing", i)
		}
	}
	return &JSArray{Items: items}, nil
}

func NewJSRequire(path string) (*JSRequire, error) {
	if path == "" {
		return nil, fmt.Errorf("js require: empty module path")
	}
	return &JSRequire{Path: path}, nil
}

func NewJSOperator(op string, operands []Expr) (*JSOperator, error) {
	if op == "" {
		return nil, fmt.Errorf("js operator: empty operator token")
	}
	if len(operands) < 2 {
		return nil, fmt.Errorf("js operator `%s`: needs at least two operands, got %d", op, len(operands))
	}
	return &JSOperator{Op: op, Operands: operands}, nil
}
