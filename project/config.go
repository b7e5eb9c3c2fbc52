// Package project drives whole-project compilation: it locates source
// files, reads the project configuration and compiles every file through
// the compiler front end.
// config.go reads compose.yaml.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "compose.yaml"

// Config is the project-level configuration. All paths are relative to
// the project root.
type Config struct {
	Name  string `yaml:"name"`
	Src   string `yaml:"src"`
	Entry string `yaml:"entry"`
}

// DefaultConfig is used when a project carries no compose.yaml.
func DefaultConfig() *Config {
	return &Config{Src: "src"}
}

// LoadConfig reads compose.yaml from root. A missing file is not an
// error: defaults apply.
func LoadConfig(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if cfg.Src == "" {
		cfg.Src = "src"
	}
	return cfg, nil
}

// SrcRoot returns the absolute source root for the project.
func (c *Config) SrcRoot(root string) string {
	return filepath.Join(root, c.Src)
}
