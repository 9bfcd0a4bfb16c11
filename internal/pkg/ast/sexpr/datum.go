// Package sexpr models the literal data the front end can embed in a
// program. The set of variants is closed: the value encoder dispatches
// over exactly these types and treats anything else as a defect.
package sexpr

import (
	"fmt"
	"strings"
)

type Datum interface {
	fmt.Stringer
	_datum()
}

type Bool bool

func (d Bool) _datum() {}

func (d Bool) String() string {
	if d {
		return "#t"
	}
	return "#f"
}

// Integer is an exact integer.
type Integer int64

func (d Integer) _datum() {}

func (d Integer) String() string { return fmt.Sprintf("%d", int64(d)) }

// Rational is an exact non-integer ratio. Den is never zero.
type Rational struct {
	Num int64
	Den int64
}

func (d Rational) _datum() {}

func (d Rational) String() string { return fmt.Sprintf("%d/%d", d.Num, d.Den) }

// Float is an inexact number, including the +inf.0/-inf.0/+nan.0 edge
// cases.
type Float float64

func (d Float) _datum() {}

func (d Float) String() string { return fmt.Sprintf("%v", float64(d)) }

type String struct {
	Val     string
	Mutable bool
}

func (d String) _datum() {}

func (d String) String() string { return fmt.Sprintf("%q", d.Val) }

// Symbol is interned: two symbols with the same text are one value.
type Symbol string

func (d Symbol) _datum() {}

func (d Symbol) String() string { return "'" + string(d) }

type Keyword string

func (d Keyword) _datum() {}

func (d Keyword) String() string { return "#:" + string(d) }

// Char is distinct from a one-character string.
type Char rune

func (d Char) _datum() {}

func (d Char) String() string { return fmt.Sprintf("#\\%c", rune(d)) }

// Null is the empty list.
type Null struct{}

func (d Null) _datum() {}

func (d Null) String() string { return "()" }

type Pair struct {
	Car Datum
	Cdr Datum
}

func (d Pair) _datum() {}

func (d Pair) String() string {
	sb := strings.Builder{}
	sb.WriteString("(")
	var cur Datum = d
	first := true
	for {
		p, ok := cur.(Pair)
		if !ok {
			break
		}
		if !first {
			sb.WriteString(" ")
		}
		first = false
		sb.WriteString(p.Car.String())
		cur = p.Cdr
	}
	if _, ok := cur.(Null); !ok {
		sb.WriteString(" . ")
		sb.WriteString(cur.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// IsList reports whether the pair chain ends in the empty list.
func (d Pair) IsList() bool {
	var cur Datum = d
	for {
		p, ok := cur.(Pair)
		if !ok {
			_, isNull := cur.(Null)
			return isNull
		}
		cur = p.Cdr
	}
}

// List builds a proper list from items.
func List(items ...Datum) Datum {
	var result Datum = Null{}
	for i := len(items) - 1; i >= 0; i-- {
		result = Pair{Car: items[i], Cdr: result}
	}
	return result
}

type Vector struct {
	Items   []Datum
	Mutable bool
}

func (d Vector) _datum() {}

func (d Vector) String() string {
	sb := strings.Builder{}
	sb.WriteString("#(")
	for i, x := range d.Items {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(x.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// HashKind selects the equality discipline of a hash table.
type HashKind uint8

const (
	HashEqual HashKind = iota
	HashEqv
	HashEq
)

func (k HashKind) String() string {
	switch k {
	case HashEqual:
		return "equal"
	case HashEqv:
		return "eqv"
	case HashEq:
		return "eq"
	}
	return fmt.Sprintf("hash-kind(%d)", k)
}

type HashEntry struct {
	Key   Datum
	Value Datum
}

type Hash struct {
	Kind    HashKind
	Mutable bool
	Entries []HashEntry
}

func (d Hash) _datum() {}

func (d Hash) String() string {
	sb := strings.Builder{}
	sb.WriteString("#hash" + d.Kind.String() + "(")
	for i, e := range d.Entries {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(" + e.Key.String() + " . " + e.Value.String() + ")")
	}
	sb.WriteString(")")
	return sb.String()
}

type Bytes []byte

func (d Bytes) _datum() {}

func (d Bytes) String() string { return fmt.Sprintf("#%q", string(d)) }

type Regexp struct {
	Pattern string
}

func (d Regexp) _datum() {}

func (d Regexp) String() string { return "#rx" + fmt.Sprintf("%q", d.Pattern) }

// Void is the unit value.
type Void struct{}

func (d Void) _datum() {}

func (d Void) String() string { return "#<void>" }

// Quoted marks a datum that must be encoded as data even where it
// would otherwise be treated as code.
type Quoted struct {
	Datum Datum
}

func (d Quoted) _datum() {}

func (d Quoted) String() string { return "'" + d.Datum.String() }
