package processors

import (
	"math"
	"strings"
	"testing"

	"lark-compiler/internal/pkg/assembler"
	"lark-compiler/internal/pkg/ast/sexpr"
)

func encodeToString(t *testing.T, d sexpr.Datum) string {
	t.Helper()
	expr, err := EncodeValue(d)
	if err != nil {
		t.Fatalf("EncodeValue(%v): %v", d, err)
	}
	sb := strings.Builder{}
	if err := assembler.EmitExpr(&sb, expr); err != nil {
		t.Fatalf("emit of encoded %v: %v", d, err)
	}
	return sb.String()
}

func TestEncodeValue(t *testing.T) {
	cases := []struct {
		name string
		in   sexpr.Datum
		want string
	}{
		{"true", sexpr.Bool(true), "true"},
		{"false", sexpr.Bool(false), "false"},
		{"integer", sexpr.Integer(42), "42"},
		{"negative", sexpr.Integer(-7), "-7"},
		{"rational", sexpr.Rational{Num: 1, Den: 3}, `$rt.Numbers.makeRational(1,3)`},
		{"float", sexpr.Float(1.5), "1.5"},
		{"positive infinity", sexpr.Float(math.Inf(1)), "Infinity"},
		{"negative infinity", sexpr.Float(math.Inf(-1)), "-Infinity"},
		{"nan", sexpr.Float(math.NaN()), "NaN"},
		{"string", sexpr.String{Val: "Hello"}, `"Hello"`},
		{"string escapes", sexpr.String{Val: "a\"b\nc\\"}, `"a\"b\nc\\"`},
		{"mutable string", sexpr.String{Val: "s", Mutable: true}, `$rt.Strings.makeMutable("s")`},
		{"symbol", sexpr.Symbol("foo"), `$rt.Symbol.intern("foo")`},
		{"keyword", sexpr.Keyword("mode"), `$rt.Keyword.make("mode")`},
		{"char", sexpr.Char('A'), `$rt.Char.fromCodepoint(65)`},
		{"char is not a string", sexpr.Char('s'), `$rt.Char.fromCodepoint(115)`},
		{"empty list", sexpr.Null{}, `$rt.Pair.EMPTY`},
		{"list", sexpr.List(sexpr.Integer(1), sexpr.Integer(2)), `$rt.Pair.makeList(1,2)`},
		{"one element list", sexpr.List(sexpr.Integer(1)), `$rt.Pair.makeList(1)`},
		{"pair", sexpr.Pair{Car: sexpr.Integer(1), Cdr: sexpr.Integer(2)}, `$rt.Pair.make(1,2)`},
		{
			"nested list",
			sexpr.List(sexpr.Integer(1), sexpr.List(sexpr.Integer(2))),
			`$rt.Pair.makeList(1,$rt.Pair.makeList(2))`,
		},
		{
			"immutable vector",
			sexpr.Vector{Items: []sexpr.Datum{sexpr.Integer(1), sexpr.Integer(2), sexpr.Integer(3)}},
			`$rt.Vector.make([1,2,3],false)`,
		},
		{
			"mutable vector",
			sexpr.Vector{Items: []sexpr.Datum{sexpr.Integer(1)}, Mutable: true},
			`$rt.Vector.make([1],true)`,
		},
		{
			"equal hash",
			sexpr.Hash{Kind: sexpr.HashEqual, Entries: []sexpr.HashEntry{
				{Key: sexpr.String{Val: "a"}, Value: sexpr.Integer(1)},
			}},
			`$rt.Hash.makeEqual([["a",1]],false)`,
		},
		{
			"eqv hash",
			sexpr.Hash{Kind: sexpr.HashEqv},
			`$rt.Hash.makeEqv([],false)`,
		},
		{
			"mutable eq hash",
			sexpr.Hash{Kind: sexpr.HashEq, Mutable: true, Entries: []sexpr.HashEntry{
				{Key: sexpr.Symbol("k"), Value: sexpr.Integer(2)},
			}},
			`$rt.Hash.makeEq([[$rt.Symbol.intern("k"),2]],true)`,
		},
		{"bytes", sexpr.Bytes{1, 2, 255}, `$rt.Bytes.fromArray([1,2,255])`},
		{"regexp", sexpr.Regexp{Pattern: "ab+c"}, `/ab+c/`},
		{"regexp delimiter escape", sexpr.Regexp{Pattern: "a/b"}, `/a\/b/`},
		{"already escaped delimiter", sexpr.Regexp{Pattern: `a\/b`}, `/a\/b/`},
		{"void", sexpr.Void{}, `$rt.VOID`},
		{"quoted wrapper", sexpr.Quoted{Datum: sexpr.Symbol("s")}, `$rt.Symbol.intern("s")`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := encodeToString(t, tc.in)
			if got != tc.want {
				t.Errorf("encode %v\n got: %s\nwant: %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	datum := sexpr.List(
		sexpr.Symbol("a"),
		sexpr.Vector{Items: []sexpr.Datum{sexpr.Integer(1)}, Mutable: true},
		sexpr.Hash{Kind: sexpr.HashEqual, Entries: []sexpr.HashEntry{
			{Key: sexpr.Keyword("k"), Value: sexpr.Float(2.5)},
		}},
	)
	first := encodeToString(t, datum)
	second := encodeToString(t, datum)
	if first != second {
		t.Fatalf("encoding not deterministic:\n%s\n%s", first, second)
	}
}
