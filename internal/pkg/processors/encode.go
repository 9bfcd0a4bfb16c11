package processors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"lark-compiler/internal/pkg/ast/il"
	"lark-compiler/internal/pkg/ast/sexpr"
	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/names"
)

// runtimeCall builds <runtime-alias>.<Namespace>.<operation>(args...).
// The names are a stable contract with the runtime library.
func runtimeCall(namespace, operation string, args ...il.Expr) il.Expr {
	return &il.App{
		Fn: &il.FieldRef{
			Base:  &il.FieldRef{Base: &il.Ref{Name: names.RuntimeAlias}, Field: namespace},
			Field: operation,
		},
		Args: args,
	}
}

func runtimeValue(field string) il.Expr {
	return &il.FieldRef{Base: &il.Ref{Name: names.RuntimeAlias}, Field: field}
}

func runtimeField(namespace, field string) il.Expr {
	return &il.FieldRef{
		Base:  &il.FieldRef{Base: &il.Ref{Name: names.RuntimeAlias}, Field: namespace},
		Field: field,
	}
}

func boolLiteral(b bool) il.Expr {
	if b {
		return &il.Literal{Text: "true"}
	}
	return &il.Literal{Text: "false"}
}

func intLiteral(n int64) il.Expr {
	return &il.Literal{Text: strconv.FormatInt(n, 10), Numeric: true}
}

func stringLiteral(s string) il.Expr {
	return &il.Literal{Text: quoteString(s)}
}

// EncodeValue maps a literal source datum to an IL expression that
// reconstructs an observably equal value in the target runtime. It is
// deterministic and total over the sexpr variants; anything else is an
// internal defect.
func EncodeValue(datum sexpr.Datum) (il.Expr, error) {
	switch d := datum.(type) {
	case sexpr.Quoted:
		return EncodeValue(d.Datum)
	case sexpr.Bool:
		return boolLiteral(bool(d)), nil
	case sexpr.Integer:
		return intLiteral(int64(d)), nil
	case sexpr.Rational:
		return runtimeCall("Numbers", "makeRational", intLiteral(d.Num), intLiteral(d.Den)), nil
	case sexpr.Float:
		return encodeFloat(float64(d)), nil
	case sexpr.String:
		if d.Mutable {
			return runtimeCall("Strings", "makeMutable", stringLiteral(d.Val)), nil
		}
		return stringLiteral(d.Val), nil
	case sexpr.Symbol:
		return runtimeCall("Symbol", "intern", stringLiteral(string(d))), nil
	case sexpr.Keyword:
		return runtimeCall("Keyword", "make", stringLiteral(string(d))), nil
	case sexpr.Char:
		return runtimeCall("Char", "fromCodepoint", intLiteral(int64(d))), nil
	case sexpr.Null:
		return runtimeField("Pair", "EMPTY"), nil
	case sexpr.Pair:
		return encodePair(d)
	case sexpr.Vector:
		items, err := encodeAll(d.Items)
		if err != nil {
			return nil, err
		}
		return runtimeCall("Vector", "make", &il.Array{Items: items}, boolLiteral(d.Mutable)), nil
	case sexpr.Hash:
		return encodeHash(d)
	case sexpr.Bytes:
		items := make([]il.Expr, len(d))
		for i, b := range d {
			items[i] = intLiteral(int64(b))
		}
		return runtimeCall("Bytes", "fromArray", &il.Array{Items: items}), nil
	case sexpr.Regexp:
		return &il.Literal{Text: "/" + escapeRegexp(d.Pattern) + "/"}, nil
	case sexpr.Void:
		return runtimeValue("VOID"), nil
	}
	return nil, common.NewCompilerError("value encoder: no encoding for datum %T (%v)", datum, datum)
}

func encodeAll(items []sexpr.Datum) ([]il.Expr, error) {
	result := make([]il.Expr, len(items))
	for i, x := range items {
		encoded, err := EncodeValue(x)
		if err != nil {
			return nil, err
		}
		result[i] = encoded
	}
	return result, nil
}

// encodePair keeps proper lists and improper pairs apart: a one
// element list is never encoded as a pair.
func encodePair(p sexpr.Pair) (il.Expr, error) {
	if p.IsList() {
		var items []sexpr.Datum
		var cur sexpr.Datum = p
		for {
			pp, ok := cur.(sexpr.Pair)
			if !ok {
				break
			}
			items = append(items, pp.Car)
			cur = pp.Cdr
		}
		encoded, err := encodeAll(items)
		if err != nil {
			return nil, err
		}
		return runtimeCall("Pair", "makeList", encoded...), nil
	}
	car, err := EncodeValue(p.Car)
	if err != nil {
		return nil, err
	}
	cdr, err := EncodeValue(p.Cdr)
	if err != nil {
		return nil, err
	}
	return runtimeCall("Pair", "make", car, cdr), nil
}

func encodeHash(h sexpr.Hash) (il.Expr, error) {
	var op string
	switch h.Kind {
	case sexpr.HashEqual:
		op = "makeEqual"
	case sexpr.HashEqv:
		op = "makeEqv"
	case sexpr.HashEq:
		op = "makeEq"
	default:
		return nil, common.NewCompilerError("value encoder: unknown hash discipline %v", h.Kind)
	}
	entries := make([]il.Expr, len(h.Entries))
	for i, e := range h.Entries {
		k, err := EncodeValue(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := EncodeValue(e.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = &il.Array{Items: []il.Expr{k, v}}
	}
	return runtimeCall("Hash", op, &il.Array{Items: entries}, boolLiteral(h.Mutable)), nil
}

// Infinities and NaN are representable natively and need no wrapper.
func encodeFloat(f float64) il.Expr {
	switch {
	case math.IsInf(f, 1):
		return &il.Literal{Text: "Infinity"}
	case math.IsInf(f, -1):
		return &il.Literal{Text: "-Infinity"}
	case math.IsNaN(f):
		return &il.Literal{Text: "NaN"}
	}
	return &il.Literal{Text: strconv.FormatFloat(f, 'g', -1, 64), Numeric: true}
}

// quoteString renders s as a double-quoted JavaScript string literal.
func quoteString(s string) string {
	sb := strings.Builder{}
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(fmt.Sprintf(`\u%04x`, c))
			} else {
				sb.WriteRune(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// escapeRegexp escapes the literal-delimiter character before the
// pattern is re-quoted into /.../ syntax.
func escapeRegexp(pattern string) string {
	sb := strings.Builder{}
	escaped := false
	for _, c := range pattern {
		if c == '/' && !escaped {
			sb.WriteString(`\/`)
			continue
		}
		escaped = c == '\\' && !escaped
		sb.WriteRune(c)
	}
	return sb.String()
}
