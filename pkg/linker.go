package larkc

import (
	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/linkers"
	"lark-compiler/internal/pkg/project"
)

// InstallRuntime places the shared runtime core into the project's
// output directory, where the generated imports expect it.
func InstallRuntime(config *project.Config, upgrade bool, log *common.LogWriter) error {
	linker := linkers.NewJSLinker(config.Runtime.Repo, config.Cache)
	return linker.Install(config.Out, upgrade, log)
}
