// Package il is the imperative intermediate language. Every node has a
// direct rendering in the JavaScript grammar; no symbolic dispatch
// survives at this layer. Nodes are allocated by the lowering pass and
// read-only for the assembler.
package il

import "lark-compiler/internal/pkg/ast"

type Expr interface {
	_ilExpr()
}

type Func struct {
	Params []string
	Body   []Stmt
}

func (e *Func) _ilExpr() {}

type App struct {
	Fn   Expr
	Args []Expr
}

func (e *App) _ilExpr() {}

// BinOp joins two or more operands with an operator token.
type BinOp struct {
	Op       string
	Operands []Expr
}

func (e *BinOp) _ilExpr() {}

// Literal is a fully rendered token. Numeric marks values that the
// target grammar would misparse as the start of a member access on a
// number token.
type Literal struct {
	Text    string
	Numeric bool
}

func (e *Literal) _ilExpr() {}

type FieldRef struct {
	Base  Expr
	Field string
}

func (e *FieldRef) _ilExpr() {}

type Index struct {
	Base Expr
	Key  Expr
}

func (e *Index) _ilExpr() {}

type New struct {
	Ctor Expr
	Args []Expr
}

func (e *New) _ilExpr() {}

type Array struct {
	Items []Expr
}

func (e *Array) _ilExpr() {}

type Field struct {
	Name  string
	Value Expr
}

type Object struct {
	Fields []Field
}

func (e *Object) _ilExpr() {}

// Ref is a raw, already-rendered identifier.
type Ref struct {
	Name string
}

func (e *Ref) _ilExpr() {}

type Stmt interface {
	_ilStmt()
}

// VarDecl declares a variable; Init may be nil.
type VarDecl struct {
	Name string
	Init Expr
}

func (s *VarDecl) _ilStmt() {}

type Return struct {
	Value Expr
}

func (s *Return) _ilStmt() {}

// If renders the conditional statement; Else may be nil.
type If struct {
	Pred Expr
	Then []Stmt
	Else []Stmt
}

func (s *If) _ilStmt() {}

type While struct {
	Pred Expr
	Body []Stmt
}

func (s *While) _ilStmt() {}

type Assign struct {
	Target Expr
	Value  Expr
}

func (s *Assign) _ilStmt() {}

// Continue with an optional label.
type Continue struct {
	Label string
}

func (s *Continue) _ilStmt() {}

type Label struct {
	Name string
}

func (s *Label) _ilStmt() {}

type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) _ilStmt() {}

// Import binds a compiled module's exports to an alias.
type Import struct {
	Alias string
	Path  string
}

// Export names one provided identifier, already rendered.
type Export struct {
	Name string
}

// Module is an assembled unit: runtime import plus user imports, the
// body in source order, and the export list.
type Module struct {
	Id      ast.QualifiedIdentifier
	Imports []Import
	Body    []Stmt
	Exports []Export
}
