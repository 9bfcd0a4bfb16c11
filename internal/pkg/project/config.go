// Package project reads the lark.toml project file.
package project

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"lark-compiler/internal/pkg/common"
)

const FileName = "lark.toml"

type RuntimeConfig struct {
	Repo string `toml:"repo"`
}

type Config struct {
	Name    string        `toml:"name"`
	Out     string        `toml:"out"`
	Cache   string        `toml:"cache"`
	Runtime RuntimeConfig `toml:"runtime"`
}

// Load reads lark.toml from projectRoot. A missing file yields the
// defaults; a malformed one is an error.
func Load(projectRoot string) (*Config, error) {
	config := defaults()
	data, err := os.ReadFile(filepath.Join(projectRoot, FileName))
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, common.NewSystemError(err)
	}
	err = toml.Unmarshal(data, config)
	if err != nil {
		return nil, common.NewSystemError(err)
	}
	if config.Out == "" {
		config.Out = "build"
	}
	return config, nil
}

func defaults() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Name:  "untitled",
		Out:   "build",
		Cache: filepath.Join(homeDir, ".lark"),
	}
}
