// Package discover walks a project tree and selects the source files worth
// scanning, tagging each with its language and whether it sits inside an
// ignored folder. Files in ignored folders are still scanned so their
// variables never show up as missing; they just don't raise issues.
package discover

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Language names match the scanner's grammar names.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangGo         = "go"
	LangPython     = "python"
	LangRust       = "rust"
	LangJava       = "java"
)

// File is one source file selected for scanning.
type File struct {
	Path     string // absolute
	Rel      string // relative to the scan root, slash-separated
	Language string
	Ignored  bool // inside an ignored folder
}

// Walker discovers source files under a root.
type Walker struct {
	excludeDirs   map[string]bool
	ignoreFolders []string // relative path prefixes whose files are scanned but not reported
	includeGlobs  []string
	excludeGlobs  []string
}

// NewWalker returns a walker with the usual build/dependency directories
// excluded.
func NewWalker() *Walker {
	return &Walker{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
			"target":       true,
			"__pycache__":  true,
		},
	}
}

// SetIncludeGlobs restricts discovery to files matching at least one glob.
func (w *Walker) SetIncludeGlobs(globs []string) { w.includeGlobs = globs }

// SetExcludeGlobs removes files matching any glob.
func (w *Walker) SetExcludeGlobs(globs []string) { w.excludeGlobs = globs }

// AddIgnored registers folders whose files are scanned without reporting.
// Bare names are treated as directory-name excludes; anything with a path
// separator becomes a relative-path prefix.
func (w *Walker) AddIgnored(folders []string) {
	for _, f := range folders {
		if strings.ContainsAny(f, `/\`) {
			w.ignoreFolders = append(w.ignoreFolders, filepath.ToSlash(f))
		} else {
			w.ignoreFolders = append(w.ignoreFolders, f)
		}
	}
}

// DetectLanguage maps a file extension to a scanner language; empty means
// unsupported.
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript
	case ".ts", ".tsx", ".mts", ".cts":
		return LangTypeScript
	case ".go":
		return LangGo
	case ".py":
		return LangPython
	case ".rs":
		return LangRust
	case ".java":
		return LangJava
	default:
		return ""
	}
}

// inIgnoredFolder reports whether rel sits under one of the ignored
// folders (by path prefix or by any path segment matching a bare name).
func (w *Walker) inIgnoredFolder(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, folder := range w.ignoreFolders {
		if strings.Contains(folder, "/") {
			prefix := strings.TrimSuffix(folder, "/*")
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		for _, seg := range segments[:max(len(segments)-1, 0)] {
			if seg == folder {
				return true
			}
		}
	}
	return false
}

// matchesGlob matches against the base name first, then the full relative
// path.
func matchesGlob(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, filepath.Base(rel)); ok {
			return true
		}
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) selected(rel string) bool {
	if len(w.includeGlobs) > 0 {
		return matchesGlob(rel, w.includeGlobs)
	}
	if len(w.excludeGlobs) > 0 {
		return !matchesGlob(rel, w.excludeGlobs)
	}
	return true
}

// Walk returns all scannable files under root in walk order.
func (w *Walker) Walk(root string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && w.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		language := DetectLanguage(path)
		if language == "" {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !w.selected(rel) {
			return nil
		}

		files = append(files, File{
			Path:     path,
			Rel:      rel,
			Language: language,
			Ignored:  w.inIgnoredFolder(rel),
		})
		return nil
	})
	return files, err
}
