// Package config loads the .envlens.yml project configuration. A missing
// file yields the default config; invalid rule fields are tolerated and
// surfaced as warnings by the rules compiler, never as hard failures.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/soradev/envlens/internal/rules"
)

// fileNames are checked in order when locating the config file.
var fileNames = []string{".envlens.yml", ".envlens.yaml"}

// Config is the on-disk project configuration.
type Config struct {
	// EnvFiles replaces the default definition file list, lowest priority
	// first.
	EnvFiles []string `yaml:"envFiles"`
	// Template points at the documentation template for the sync check.
	Template string `yaml:"template"`
	// Framework overrides detection ("next", "vite", ...).
	Framework string `yaml:"framework"`
	// Rules holds per-variable constraints.
	Rules map[string]rules.Rule `yaml:"rules"`
	// Ignores exempts variables and folders from reporting.
	Ignores Ignores `yaml:"ignores"`
}

// Ignores lists exemptions for the missing and unused checks plus folders
// whose files are scanned without reporting.
type Ignores struct {
	Missing []string `yaml:"missing"`
	Unused  []string `yaml:"unused"`
	Folders []string `yaml:"folders"`
}

// Load reads the config file under root. No file means default config.
func Load(root string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// CompileRules validates the raw rules into a Set, folding in the ignore
// lists.
func (c *Config) CompileRules() *rules.Set {
	return rules.Compile(c.Rules, c.Ignores.Missing, c.Ignores.Unused)
}

// Default is the scaffold written by `envlens init-config`.
const Default = `# .envlens.yml
# Project configuration for envlens.

# Definition files, lowest priority first. Later files override earlier ones.
# envFiles:
#   - .env
#   - .env.local

# Documentation template checked for sync drift.
# template: .env.example

# Framework override; detected from package.json when omitted.
# framework: next

# Per-variable constraints.
# rules:
#   DATABASE_URL:
#     required: true
#     pattern: "^postgres://"
#   PORT:
#     type: number
#     default: "3000"
#   LOG_LEVEL:
#     enum: [debug, info, warn, error]
#   SESSION_SECRET:
#     secret: true

ignores:
  # Variables configured outside env files; never reported as missing.
  missing: []
  # Variables kept on purpose; never reported as unused.
  unused: []
  # Folders scanned for usage tracking but excluded from reports.
  folders: []
`
