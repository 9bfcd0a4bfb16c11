// Package absyn is the abstract-syntax form handed over by the front
// end. Nodes are immutable after construction; binding identifiers are
// already freshened upstream, so no scope analysis happens below this
// layer.
package absyn

import (
	"lark-compiler/internal/pkg/ast"
	"lark-compiler/internal/pkg/ast/sexpr"
)

type Expr interface {
	_expr()
}

// Quote is a literal datum position.
type Quote struct {
	Datum sexpr.Datum
}

func (e *Quote) _expr() {}

type VarRef struct {
	Id ast.Ident
}

func (e *VarRef) _expr() {}

type If struct {
	Pred Expr
	Then Expr
	Else Expr
}

func (e *If) _expr() {}

// Lambda is a single-arity function. Rest, when non-nil, collects the
// trailing arguments into a list.
type Lambda struct {
	Params []ast.Ident
	Rest   *ast.Ident
	Body   []Expr
}

func (e *Lambda) _expr() {}

// CaseLambda dispatches between clauses on argument count at call
// time; the dispatch itself is a runtime-library responsibility.
type CaseLambda struct {
	Clauses []*Lambda
}

func (e *CaseLambda) _expr() {}

// Binding binds one or more identifiers to the values produced by a
// single right-hand side.
type Binding struct {
	Ids   []ast.Ident
	Value Expr
}

// LetValues is let-values / letrec-values. When Rec is set the
// bindings may be mutually recursive.
type LetValues struct {
	Rec      bool
	Bindings []Binding
	Body     []Expr
}

func (e *LetValues) _expr() {}

type Begin struct {
	Exprs []Expr
}

func (e *Begin) _expr() {}

// Begin0 evaluates its first expression for the result, then the rest
// for effect.
type Begin0 struct {
	Exprs []Expr
}

func (e *Begin0) _expr() {}

type Set struct {
	Id    ast.Ident
	Value Expr
}

func (e *Set) _expr() {}

// WithContinuationMark brackets Result with a dynamic-extent mark.
type WithContinuationMark struct {
	Key    Expr
	Value  Expr
	Result Expr
}

func (e *WithContinuationMark) _expr() {}

type App struct {
	Fn   Expr
	Args []Expr
}

func (e *App) _expr() {}
