package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soradev/envlens/internal/analyzer"
)

// defaultFiles are loaded, in priority order, when present. Later entries
// override earlier ones.
var defaultFiles = []string{".env", ".env.local"}

// Loader resolves and parses definition files for a scan root.
type Loader struct {
	files      []string
	autoDetect bool
}

// NewLoader returns a loader with the default file list and auto-detection
// of additional definition files enabled.
func NewLoader() *Loader {
	return &Loader{
		files:      append([]string{}, defaultFiles...),
		autoDetect: true,
	}
}

// SetAutoDetect enables or disables discovery of definition files beyond
// the configured list.
func (l *Loader) SetAutoDetect(enabled bool) {
	l.autoDetect = enabled
}

// AddFile appends a definition file with the highest priority so far.
func (l *Loader) AddFile(path string) {
	l.files = append(l.files, path)
}

// SetFiles replaces the priority-ordered definition file list.
func (l *Loader) SetFiles(files []string) {
	l.files = append([]string{}, files...)
}

// ParseFile parses one definition file with the parser matching its format.
func ParseFile(path string) ([]analyzer.DefinedVariable, []analyzer.FileError, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch detectFileType(path) {
	case typeEnvrc, typeShell:
		vars, errs := parseExports(content, path)
		return vars, errs, nil
	case typeSystemd:
		vars, errs := parseSystemd(content, path)
		return vars, errs, nil
	case typeCompose:
		vars, errs := parseCompose(content, path)
		return vars, errs, nil
	case typeK8s:
		vars, errs := parseK8s(content, path)
		return vars, errs, nil
	default:
		vars, errs := Parse(content, path)
		return vars, errs, nil
	}
}

// Resolve returns the definition files to load for root, lowest priority
// first. Explicitly configured files that don't exist are skipped;
// auto-detected files rank below the configured list so they never
// override an explicit choice.
func (l *Loader) Resolve(root string) []string {
	var detected []string
	if l.autoDetect {
		detected = l.detect(root)
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range detected {
		add(path)
	}
	for _, f := range l.files {
		path := f
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, f)
		}
		if _, err := os.Stat(path); err == nil {
			add(path)
		}
	}
	return files
}

// detect finds definition files in the root directory that aren't in the
// configured list: extra .env.* files, direnv files, compose files,
// kubernetes manifests, systemd units.
func (l *Loader) detect(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	configured := make(map[string]bool, len(l.files))
	for _, f := range l.files {
		configured[filepath.Base(f)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if configured[name] {
			continue
		}
		path := filepath.Join(root, name)

		// Template files feed the sync-drift check, not the live set.
		if IsTemplate(name) {
			continue
		}

		switch detectFileType(path) {
		case typeEnvrc, typeCompose, typeK8s, typeSystemd:
			files = append(files, path)
		case typeDotenv:
			if strings.HasPrefix(name, ".env") {
				files = append(files, path)
			}
		}
	}
	return files
}

// templateNames are checked, in order, when locating the documentation
// template for the sync-drift check.
var templateNames = []string{".env.example", ".env.sample", ".env.template", "env.example"}

// IsTemplate reports whether a file name is a documentation template
// rather than a live definition file.
func IsTemplate(name string) bool {
	for _, t := range templateNames {
		if name == t {
			return true
		}
	}
	return false
}

// FindTemplate locates the documentation template under root, returning an
// empty string when none exists.
func FindTemplate(root string) string {
	for _, name := range templateNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load parses every resolved definition file and merges the results in
// priority order. Per-file and per-line failures are collected, not fatal.
// The returned file list is what was actually loaded.
func (l *Loader) Load(root string) ([]analyzer.DefinedVariable, []analyzer.FileError, []string) {
	files := l.Resolve(root)

	var sets [][]analyzer.DefinedVariable
	var allErrs []analyzer.FileError
	var loaded []string
	for _, path := range files {
		vars, errs, err := ParseFile(path)
		allErrs = append(allErrs, errs...)
		if err != nil {
			allErrs = append(allErrs, analyzer.FileError{File: path, Message: err.Error()})
			continue
		}
		sets = append(sets, vars)
		loaded = append(loaded, path)
	}

	return Merge(sets...), allErrs, loaded
}
