package absyn

import (
	"fmt"

	"lark-compiler/internal/pkg/ast"
)

// Form is a module-level form. Expressions are forms too: a module
// body may contain bare expressions evaluated for effect.
type Form interface {
	_form()
}

func (e *Quote) _form()                {}
func (e *VarRef) _form()               {}
func (e *If) _form()                   {}
func (e *Lambda) _form()               {}
func (e *CaseLambda) _form()           {}
func (e *LetValues) _form()            {}
func (e *Begin) _form()                {}
func (e *Begin0) _form()               {}
func (e *Set) _form()                  {}
func (e *WithContinuationMark) _form() {}
func (e *App) _form()                  {}

// DefineValues binds module-level identifiers to the values of a
// single right-hand side.
type DefineValues struct {
	Ids   []ast.Ident
	Value Expr
}

func (f *DefineValues) _form() {}

// Require records a dependency on another compiled module.
type Require struct {
	Module ast.QualifiedIdentifier
	Path   string
}

func (f *Require) _form() {}

// Provide exports one identifier from the module.
type Provide struct {
	Id ast.Ident
}

func (f *Provide) _form() {}

// Module is the unit of compilation. Forms keep source order because
// order is observable through initialization effects. Sub-modules may
// appear among the forms.
type Module struct {
	Id     ast.QualifiedIdentifier
	Path   string
	Lang   string
	Quoted map[ast.Symbol]struct{}
	Forms  []Form
}

func (m *Module) _form() {}

// NewModule validates the module invariants: no duplicate quoted
// bindings, no duplicate requires among the forms.
func NewModule(id ast.QualifiedIdentifier, path, lang string, quoted []ast.Symbol, forms []Form) (*Module, error) {
	quotedSet := map[ast.Symbol]struct{}{}
	for _, q := range quoted {
		if _, ok := quotedSet[q]; ok {
			return nil, fmt.Errorf("module %s: duplicate quoted binding `%s`", id, q)
		}
		quotedSet[q] = struct{}{}
	}
	seenRequires := map[ast.QualifiedIdentifier]struct{}{}
	for _, f := range forms {
		if r, ok := f.(*Require); ok {
			if _, dup := seenRequires[r.Module]; dup {
				return nil, fmt.Errorf("module %s: duplicate require of `%s`", id, r.Module)
			}
			seenRequires[r.Module] = struct{}{}
		}
	}
	return &Module{Id: id, Path: path, Lang: lang, Quoted: quotedSet, Forms: forms}, nil
}

// IsQuotedBinding reports whether uses of the symbol must be encoded
// as quoted data.
func (m *Module) IsQuotedBinding(name ast.Symbol) bool {
	_, ok := m.Quoted[name]
	return ok
}
