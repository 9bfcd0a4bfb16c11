// Package linkers prepares the output tree around the generated
// modules. The compiled units import the shared runtime core from a
// fixed relative path; the JS linker puts it there.
package linkers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	cp "github.com/otiai10/copy"

	"lark-compiler/internal/pkg/common"
)

const defaultRuntimeRepo = "https://github.com/lark-lang/runtime-js.git"

// RuntimeDir is the directory of the runtime core inside the output
// tree; generated imports resolve against it.
const RuntimeDir = "runtime"

type JSLinker struct {
	RuntimeRepo string
	CacheDir    string
}

func NewJSLinker(runtimeRepo, cacheDir string) *JSLinker {
	if runtimeRepo == "" {
		runtimeRepo = defaultRuntimeRepo
	}
	return &JSLinker{RuntimeRepo: runtimeRepo, CacheDir: cacheDir}
}

// Install places the runtime core under outDir. The checkout is cached
// between runs; upgrade pulls the latest revision first.
func (l *JSLinker) Install(outDir string, upgrade bool, log *common.LogWriter) error {
	cached, err := l.cacheRuntime(upgrade, log)
	if err != nil {
		return err
	}
	target := filepath.Join(outDir, RuntimeDir)
	err = os.RemoveAll(target)
	if err != nil {
		return common.NewSystemError(err)
	}
	err = cp.Copy(cached, target, cp.Options{
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			_, name := filepath.Split(src)
			return strings.HasPrefix(name, "."), nil
		},
	})
	if err != nil {
		return common.NewSystemError(err)
	}
	log.Trace("runtime installed to %s", target)
	return nil
}

func (l *JSLinker) cacheRuntime(upgrade bool, log *common.LogWriter) (string, error) {
	runtimeDir, err := filepath.Abs(filepath.Join(l.CacheDir, "runtime-js"))
	if err != nil {
		return "", common.NewSystemError(err)
	}
	_, err = os.Stat(filepath.Join(runtimeDir, "core.js"))
	if err != nil && !os.IsNotExist(err) {
		return "", common.NewSystemError(err)
	}
	cached := err == nil

	if !cached {
		log.Trace("cloning runtime `%s`", l.RuntimeRepo)
		_, err := git.PlainClone(runtimeDir, false, &git.CloneOptions{URL: l.RuntimeRepo})
		if err != nil {
			return "", common.NewSystemError(err)
		}
	} else if upgrade {
		r, err := git.PlainOpen(runtimeDir)
		if err == nil {
			w, err := r.Worktree()
			if err != nil {
				log.Trace("runtime upgrade skipped: %s", err.Error())
			} else {
				log.Trace("upgrading runtime `%s`", l.RuntimeRepo)
				err = w.Pull(&git.PullOptions{})
				if err != nil && err != git.NoErrAlreadyUpToDate {
					log.Trace("runtime upgrade failed: %s", err.Error())
				}
			}
		}
	}
	return runtimeDir, nil
}
