package main

import (
	"flag"
	"fmt"
	"os"

	"lark-compiler/internal/pkg/common"
	"lark-compiler/internal/pkg/project"
	larkc "lark-compiler/pkg"
)

const version = "0.3.0"

// The backend consumes absyn handed over by the front end through
// larkc.Compile; this tool drives the surrounding project tasks:
// reading lark.toml and installing the runtime core into the output
// tree.
func main() {
	projectRoot := flag.String("project", ".", "project root (directory with lark.toml)")
	out := flag.String("out", "", "output directory (overrides lark.toml)")
	cacheDir := flag.String("cache", "", "runtime cache directory (overrides lark.toml)")
	upgrade := flag.Bool("upgrade", false, "upgrade cached runtime")
	installRuntime := flag.Bool("install-runtime", true, "install the runtime core into the output directory")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lark compiler backend version: %s\n", version)
		return
	}

	log := &common.LogWriter{}

	config, err := project.Load(*projectRoot)
	if err != nil {
		log.Err(err)
		log.Flush(os.Stderr)
		os.Exit(1)
	}
	if *out != "" {
		config.Out = *out
	}
	if *cacheDir != "" {
		config.Cache = *cacheDir
	}

	if *installRuntime {
		if err := larkc.InstallRuntime(config, *upgrade, log); err != nil {
			log.Err(err)
		}
	}

	failed := log.HasErrors()
	log.Flush(os.Stdout)
	if failed {
		os.Exit(1)
	}
}
