package ast

import (
	"fmt"

	"github.com/google/uuid"
)

type Symbol string

type QualifiedIdentifier string

type IdentKind uint8

const (
	KindLocal IdentKind = iota
	KindImported
	KindTopLevel
)

func (k IdentKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindImported:
		return "imported"
	case KindTopLevel:
		return "top-level"
	}
	return fmt.Sprintf("ident-kind(%d)", k)
}

// Ident is a binding name handed to the backend by the front end.
// Local identifiers are freshened upstream: the key is unique within
// the compilation unit and the symbol text is only a display hint.
type Ident struct {
	kind      IdentKind
	key       string
	name      Symbol
	module    QualifiedIdentifier
	reachable bool
}

func NewLocalId(name Symbol) Ident {
	return NewLocalIdKeyed(name, uuid.NewString())
}

// NewLocalIdKeyed builds a local identifier with a caller-supplied
// unique key. The front end uses this to carry its own gensym keys.
func NewLocalIdKeyed(name Symbol, key string) Ident {
	return Ident{kind: KindLocal, key: "l:" + key, name: name}
}

func NewImportedId(name Symbol, from QualifiedIdentifier, reachable bool) Ident {
	return Ident{
		kind:      KindImported,
		key:       "i:" + string(from) + ":" + string(name),
		name:      name,
		module:    from,
		reachable: reachable,
	}
}

func NewTopLevelId(name Symbol, module QualifiedIdentifier) Ident {
	return Ident{
		kind:   KindTopLevel,
		key:    "t:" + string(module) + ":" + string(name),
		name:   name,
		module: module,
	}
}

func (id Ident) Kind() IdentKind { return id.kind }

// Key is opaque and unique over the compilation unit. Two idents with
// the same symbol text but different kinds never share a key.
func (id Ident) Key() string { return id.key }

func (id Ident) Name() Symbol { return id.name }

// Module is the source module for imported identifiers and the owning
// module for top-level ones. Empty for locals.
func (id Ident) Module() QualifiedIdentifier { return id.module }

// Reachable reports whether an imported definition survived upstream
// dead-code elimination. Always false for other kinds.
func (id Ident) Reachable() bool { return id.reachable }

func (id Ident) String() string {
	return fmt.Sprintf("%s(%s)", id.kind, id.name)
}
