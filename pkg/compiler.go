// Package larkc is the compile entry point: it lowers front-end
// modules to IL and assembles them into JavaScript files or a stream.
package larkc

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lark-compiler/internal/pkg/assembler"
	"lark-compiler/internal/pkg/ast/absyn"
	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/linkers"
	"lark-compiler/internal/pkg/names"
	"lark-compiler/internal/pkg/processors"
)

// Compile lowers and assembles each module, plus any nested
// sub-modules, into outDir. Modules are independent: a failed one is
// recorded in the log and the rest still compile. The returned paths
// list the artifacts written.
func Compile(modules []*absyn.Module, outDir string, log *common.LogWriter) []string {
	var paths []string
	queue := append([]*absyn.Module{}, modules...)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		reg := names.NewRegistry()
		ilModule, subs, err := processors.LowerModule(m, reg)
		if err != nil {
			log.Err(err)
			continue
		}
		queue = append(queue, subs...)

		path := OutputPath(outDir, m)
		err = writeModule(path, func(w io.Writer) error {
			return assembler.AssembleModule(w, ilModule, runtimeImportPath(m))
		})
		if err != nil {
			log.Err(err)
			continue
		}
		if aliases := reg.Aliases(); len(aliases) > 0 {
			log.Trace("compiled %s (imports %s)", path, strings.Join(aliases, ", "))
		} else {
			log.Trace("compiled %s", path)
		}
		paths = append(paths, path)
	}
	return paths
}

// CompileTo lowers the module and its sub-modules onto one stream.
// Import/export framing is suppressed: the parent build supplies it.
func CompileTo(sink io.Writer, m *absyn.Module) error {
	queue := []*absyn.Module{m}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		ilModule, subs, err := processors.LowerModule(current, names.NewRegistry())
		if err != nil {
			return err
		}
		queue = append(queue, subs...)
		err = assembler.AssembleBody(sink, ilModule)
		if err != nil {
			return err
		}
	}
	return nil
}

// OutputPath derives the artifact path from the module identifier.
func OutputPath(outDir string, m *absyn.Module) string {
	return filepath.Join(outDir, filepath.FromSlash(string(m.Id))+".js")
}

// runtimeImportPath points from the module's own output location back
// to the runtime core installed at the output root.
func runtimeImportPath(m *absyn.Module) string {
	depth := strings.Count(string(m.Id), "/")
	if depth == 0 {
		return "./" + linkers.RuntimeDir + "/core.js"
	}
	return strings.Repeat("../", depth) + linkers.RuntimeDir + "/core.js"
}

// writeModule writes through a temporary file and renames it into
// place, so a failed write never leaves a partial artifact under the
// final name.
func writeModule(path string, emit func(io.Writer) error) error {
	err := os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		return common.NewSystemError(err)
	}
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return common.NewSystemError(err)
	}

	buffered := bufio.NewWriter(file)
	err = emit(buffered)
	if err == nil {
		err = buffered.Flush()
		if err != nil {
			err = common.NewSystemError(err)
		}
	}
	closeErr := file.Close()
	if err == nil && closeErr != nil {
		err = common.NewSystemError(closeErr)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	err = os.Rename(tmp, path)
	if err != nil {
		_ = os.Remove(tmp)
		return common.NewSystemError(err)
	}
	return nil
}
