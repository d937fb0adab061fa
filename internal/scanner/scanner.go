// Package scanner extracts environment variable usages from source files.
// The primary path parses the file with tree-sitter and classifies each
// access by idiom; when structural parsing is impossible the scanner falls
// back to a conservative regex pass over the raw text (fallback.go).
package scanner

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/framework"
	"github.com/soradev/envlens/internal/lang"
)

// Scanner turns source file content into usage records. Grammars are
// cached per instance; nothing survives across runs beyond that cache.
type Scanner struct {
	grammars map[string]*sitter.Language
	mu       sync.RWMutex
	log      zerolog.Logger
}

// New creates a scanner. The logger is used for per-file diagnostics only.
func New(log zerolog.Logger) *Scanner {
	return &Scanner{
		grammars: make(map[string]*sitter.Language),
		log:      log,
	}
}

// grammar returns a cached grammar, loading it on first use.
func (s *Scanner) grammar(language string) (*sitter.Language, error) {
	s.mu.RLock()
	if g, ok := s.grammars[language]; ok {
		s.mu.RUnlock()
		return g, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.grammars[language]; ok {
		return g, nil
	}
	g, err := loadGrammar(language)
	if err != nil {
		return nil, err
	}
	s.grammars[language] = g
	return g, nil
}

// ScanFile reads and scans one file. The returned error covers only the
// read; scan failures degrade to the regex fallback and never error.
func (s *Scanner) ScanFile(path, relPath, language string, profile framework.Profile) ([]analyzer.UsedVariable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.Scan(content, relPath, language, profile), nil
}

// Scan extracts usages from content. It never fails: if the structural
// parse is unusable the regex fallback runs instead, which recovers direct
// and bracket accesses only.
func (s *Scanner) Scan(content []byte, file, language string, profile framework.Profile) []analyzer.UsedVariable {
	spec := lang.Get(language)
	if spec == nil {
		return nil
	}

	usages, err := s.structural(content, file, spec, profile)
	if err != nil {
		s.log.Debug().Str("file", file).Err(err).Msg("structural parse failed, using regex fallback")
		return fallbackScan(content, file, spec, profile)
	}
	return usages
}

// structural runs the tree-sitter pass. An error means the parse produced
// nothing usable and the caller should fall back.
func (s *Scanner) structural(content []byte, file string, spec *lang.Spec, profile framework.Profile) ([]analyzer.UsedVariable, error) {
	grammar, err := s.grammar(spec.Name)
	if err != nil {
		return nil, err
	}

	// One parser per file: tree-sitter parsers are not safe for
	// concurrent use across goroutines.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse produced no root node")
	}

	query, qerr := sitter.NewQuery(grammar, strings.TrimSpace(spec.Query))
	if qerr != nil {
		return nil, fmt.Errorf("query failed to compile: %v", qerr)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, root, content)
	captureNames := query.CaptureNames()

	var usages []analyzer.UsedVariable
	seen := make(map[string]bool)
	add := func(u analyzer.UsedVariable) {
		key := fmt.Sprintf("%s:%d:%d:%s", u.File, u.Line, u.Column, u.Name)
		if !seen[key] {
			seen[key] = true
			usages = append(usages, u)
		}
	}

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		nodes := make(map[string]*sitter.Node, len(match.Captures))
		for i := range match.Captures {
			capture := &match.Captures[i]
			if int(capture.Index) < len(captureNames) {
				nodes[captureNames[capture.Index]] = &capture.Node
			}
		}
		s.handleMatch(nodes, content, file, spec, profile, add)
	}

	// A tree that is all errors and yielded nothing is as good as no
	// parse; let the fallback try.
	if len(usages) == 0 && root.HasError() {
		return nil, fmt.Errorf("syntax tree unusable (parse errors, no matches)")
	}

	sort.SliceStable(usages, func(i, j int) bool {
		if usages[i].Line != usages[j].Line {
			return usages[i].Line < usages[j].Line
		}
		return usages[i].Column < usages[j].Column
	})
	return usages, nil
}

// handleMatch classifies one query match by which captures are present.
func (s *Scanner) handleMatch(
	nodes map[string]*sitter.Node,
	content []byte,
	file string,
	spec *lang.Spec,
	profile framework.Profile,
	add func(analyzer.UsedVariable),
) {
	access := nodes["access"]
	accessors := profile.Accessors

	// Destructuring: const {A, B: c} = process.env
	if pattern, src := nodes["pattern"], nodes["src"]; pattern != nil && src != nil && spec.Destructure {
		if spec.IsAccessor(text(src, content), accessors) {
			s.collectDestructured(pattern, content, file, spec, profile, add)
		}
		return
	}

	// Call-style access: os.Getenv("KEY"), System.getenv("KEY")
	if arg := nodes["arg"]; arg != nil {
		fnText := ""
		if fn := nodes["fn"]; fn != nil {
			fnText = text(fn, content)
		} else if obj, name := nodes["callobj"], nodes["callname"]; obj != nil && name != nil {
			fnText = text(obj, content) + "." + text(name, content)
		}
		if !spec.IsCallAccessor(fnText) {
			return
		}
		if name, ok := stringLiteral(arg, content, spec); ok {
			add(usage(name, analyzer.AccessDirect, arg, access, content, file, spec, profile))
		} else {
			add(usage(analyzer.DynamicName, analyzer.AccessDynamic, arg, access, content, file, spec, profile))
		}
		return
	}

	obj := nodes["obj"]
	if obj == nil || !spec.IsAccessor(text(obj, content), accessors) {
		return
	}

	// Direct member access: ENV.NAME
	if key := nodes["key"]; key != nil {
		add(usage(text(key, content), analyzer.AccessDirect, key, access, content, file, spec, profile))
		return
	}

	// Computed access: ENV["NAME"] is bracket, ENV[expr] is dynamic.
	if index := nodes["index"]; index != nil {
		if name, ok := stringLiteral(index, content, spec); ok {
			add(usage(name, analyzer.AccessBracket, index, access, content, file, spec, profile))
		} else {
			add(usage(analyzer.DynamicName, analyzer.AccessDynamic, index, access, content, file, spec, profile))
		}
	}
}

// collectDestructured emits one usage per identifier bound from the
// environment object.
func (s *Scanner) collectDestructured(
	pattern *sitter.Node,
	content []byte,
	file string,
	spec *lang.Spec,
	profile framework.Profile,
	add func(analyzer.UsedVariable),
) {
	count := pattern.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := pattern.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			name := text(child, content)
			add(usage(name, analyzer.AccessDestructure, child, nil, content, file, spec, profile))
		case "pair_pattern":
			// {NAME: alias}: the key is the variable name.
			key := child.ChildByFieldName("key")
			if key == nil {
				continue
			}
			name := text(key, content)
			if lit, ok := stringLiteral(key, content, spec); ok {
				name = lit
			}
			add(usage(name, analyzer.AccessDestructure, key, nil, content, file, spec, profile))
		}
	}
}

// usage assembles a record. Position refers to the accessed identifier
// itself (at), not the surrounding statement; inference anchors on the
// whole access expression.
func usage(
	name string,
	idiom analyzer.AccessIdiom,
	at *sitter.Node,
	access *sitter.Node,
	content []byte,
	file string,
	spec *lang.Spec,
	profile framework.Profile,
) analyzer.UsedVariable {
	pos := at.StartPosition()
	u := analyzer.UsedVariable{
		Name:    name,
		File:    file,
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Idiom:   idiom,
		Type:    analyzer.TypeUnknown,
		Snippet: lineSnippet(content, int(pos.Row)),
	}
	if access != nil {
		u.Type = inferType(access, spec, content)
	}
	if name != analyzer.DynamicName {
		u.ClientSide = profile.IsClientAccessible(name)
	}
	return u
}

// stringLiteral extracts the content of a plain string literal node.
// Interpolated strings (template substitution, f-strings) don't count.
func stringLiteral(node *sitter.Node, content []byte, spec *lang.Spec) (string, bool) {
	if !spec.StringKinds[node.Kind()] {
		return "", false
	}
	raw := text(node, content)
	if strings.Contains(raw, "${") {
		return "", false
	}
	trimmed := trimQuotes(raw)
	if trimmed == raw || trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// trimQuotes removes one layer of matching quotes.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') ||
			(s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// text returns a node's source text.
func text(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

// lineSnippet returns the trimmed source line at a 0-based row.
func lineSnippet(content []byte, row int) string {
	start := 0
	for i := 0; i < len(content) && row > 0; i++ {
		if content[i] == '\n' {
			row--
			start = i + 1
		}
	}
	end := start
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return strings.TrimSpace(string(content[start:end]))
}
