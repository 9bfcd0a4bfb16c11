// Package names is the identifier service: it renders front-end
// identifiers as JavaScript identifiers, injectively over one
// compilation unit and stably within one run.
package names

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/text/unicode/norm"

	"lark-compiler/internal/pkg/ast"
)

// RuntimeAlias binds the shared runtime core module. The "$" prefix
// keeps it outside the image of the mangler, so no source identifier
// can collide with it.
const RuntimeAlias = "$rt"

// reservedWords covers the ECMAScript reserved and future-reserved
// words plus the literals that cannot name a variable.
var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"break", "case", "catch", "class", "const", "continue", "debugger",
		"default", "delete", "do", "else", "enum", "export", "extends",
		"false", "finally", "for", "function", "if", "implements", "import",
		"in", "instanceof", "interface", "let", "new", "null", "package",
		"private", "protected", "public", "return", "static", "super",
		"switch", "this", "throw", "true", "try", "typeof", "undefined",
		"var", "void", "while", "with", "yield",
	} {
		reservedWords[w] = struct{}{}
	}
}

// Registry memoizes identifier-key to rendered-name mappings for one
// compilation unit.
type Registry struct {
	rendered map[string]string
	used     map[string]string
	aliases  map[string]string
	temps    int
	modules  int
}

func NewRegistry() *Registry {
	return &Registry{
		rendered: map[string]string{},
		used:     map[string]string{},
		aliases:  map[string]string{},
	}
}

// Render maps an identifier to its JavaScript rendering. The same key
// always yields the same name; distinct keys never share one. Imported
// identifiers render through their module alias, which is how the same
// symbol text may exist in several kinds at once without collision.
func (r *Registry) Render(id ast.Ident) string {
	if name, ok := r.rendered[id.Key()]; ok {
		return name
	}
	var name string
	switch id.Kind() {
	case ast.KindImported:
		name = r.ModuleAlias(string(id.Module())) + "." + Mangle(id.Name())
	case ast.KindTopLevel:
		// Top-level names must render identically on the defining and
		// the importing side, so they get the bare mangle. Locals are
		// freshened upstream; a clash here means the freshener broke.
		name = r.claim(Mangle(id.Name()), id.Key())
	default:
		name = r.claim(Mangle(id.Name()), id.Key())
	}
	r.rendered[id.Key()] = name
	return name
}

// FreshTemp mints a unit-unique temporary for the lowering pass. The
// "$t" prefix is unreachable from Mangle.
func (r *Registry) FreshTemp() string {
	name := fmt.Sprintf("$t%d", r.temps)
	r.temps++
	r.used[name] = name
	return name
}

// ModuleAlias assigns a stable import alias per required module path.
func (r *Registry) ModuleAlias(path string) string {
	if alias, ok := r.aliases[path]; ok {
		return alias
	}
	alias := fmt.Sprintf("$M%d", r.modules)
	r.modules++
	r.aliases[path] = alias
	return alias
}

// Aliases lists the assigned module aliases in a stable order.
func (r *Registry) Aliases() []string {
	aliases := maps.Values(r.aliases)
	slices.Sort(aliases)
	return aliases
}

func (r *Registry) claim(base string, key string) string {
	name := base
	for n := 1; ; n++ {
		owner, taken := r.used[name]
		if !taken || owner == key {
			break
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
	r.used[name] = key
	return name
}

// Mangle renders a symbol as a valid JavaScript identifier. It is
// injective over symbol texts: '$' introduces every escape, a literal
// '$' doubles, and '_' escapes so that '-' can map onto it readably.
func Mangle(name ast.Symbol) string {
	text := norm.NFC.String(string(name))
	sb := strings.Builder{}
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
			sb.WriteRune(c)
		case c == '-':
			sb.WriteByte('_')
		case c == '_':
			sb.WriteString("$5f$")
		case c == '$':
			sb.WriteString("$$")
		default:
			sb.WriteString(fmt.Sprintf("$%x$", c))
		}
	}
	result := sb.String()
	if result == "" || result[0] >= '0' && result[0] <= '9' {
		return "$" + result
	}
	if _, reserved := reservedWords[result]; reserved {
		return "$" + result
	}
	return result
}
