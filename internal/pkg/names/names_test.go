package names

import (
	"strings"
	"testing"

	"lark-compiler/internal/pkg/ast"
)

func TestMangle(t *testing.T) {
	cases := []struct {
		in   ast.Symbol
		want string
	}{
		{"foo", "foo"},
		{"list-ref", "list_ref"},
		{"set!", "set$21$"},
		{"null?", "null$3f$"},
		{"_x", "$5f$x"},
		{"do", "$do"},
		{"function", "$function"},
		{"1x", "$1x"},
		{"a$b", "a$$b"},
		{"", "$"},
	}
	for _, tc := range cases {
		got := Mangle(tc.in)
		if got != tc.want {
			t.Errorf("Mangle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMangleInjectiveOverEscapes(t *testing.T) {
	// '-' maps onto '_', so a literal '_' must escape away from it.
	if Mangle("a-b") == Mangle("a_b") {
		t.Fatalf("mangle conflates a-b and a_b: %q", Mangle("a-b"))
	}
}

func TestMangleNormalizesComposition(t *testing.T) {
	composed := ast.Symbol("café")
	decomposed := ast.Symbol("café")
	if Mangle(composed) != Mangle(decomposed) {
		t.Fatalf("NFC normalization missing: %q vs %q", Mangle(composed), Mangle(decomposed))
	}
}

func TestRenderInjectiveOverKeys(t *testing.T) {
	r := NewRegistry()
	a := ast.NewLocalId("x")
	b := ast.NewLocalId("x")
	nameA := r.Render(a)
	nameB := r.Render(b)
	if nameA == nameB {
		t.Fatalf("distinct identifiers rendered identically: %q", nameA)
	}
}

func TestRenderStable(t *testing.T) {
	r := NewRegistry()
	id := ast.NewLocalId("value")
	first := r.Render(id)
	second := r.Render(id)
	if first != second {
		t.Fatalf("rendering not stable: %q then %q", first, second)
	}
}

func TestRenderKindsShareText(t *testing.T) {
	r := NewRegistry()
	top := ast.NewTopLevelId("x", "app")
	local := ast.NewLocalId("x")
	imported := ast.NewImportedId("x", "lib/core", true)

	topName := r.Render(top)
	localName := r.Render(local)
	importedName := r.Render(imported)

	if topName == localName {
		t.Fatalf("top-level and local `x` collide: %q", topName)
	}
	if !strings.HasPrefix(importedName, "$M") || !strings.HasSuffix(importedName, ".x") {
		t.Fatalf("imported rendering = %q, want module-alias qualified", importedName)
	}
}

func TestFreshTempDistinct(t *testing.T) {
	r := NewRegistry()
	a := r.FreshTemp()
	b := r.FreshTemp()
	if a == b {
		t.Fatalf("temporaries collide: %q", a)
	}
}

func TestModuleAliases(t *testing.T) {
	r := NewRegistry()
	first := r.ModuleAlias("lib/core")
	again := r.ModuleAlias("lib/core")
	other := r.ModuleAlias("lib/extra")
	if first != again {
		t.Fatalf("alias not stable: %q then %q", first, again)
	}
	if first == other {
		t.Fatalf("distinct modules share alias %q", first)
	}
	if len(r.Aliases()) != 2 {
		t.Fatalf("expected 2 aliases, got %v", r.Aliases())
	}
}
