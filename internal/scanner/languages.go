package scanner

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// loadGrammar loads the tree-sitter grammar for a language name.
// TSX files are scanned with the TypeScript grammar; the env access
// expressions we query for parse identically under both.
func loadGrammar(language string) (*sitter.Language, error) {
	var ptr unsafe.Pointer
	switch language {
	case "javascript":
		ptr = tree_sitter_javascript.Language()
	case "typescript":
		ptr = tree_sitter_typescript.LanguageTypescript()
	case "go":
		ptr = tree_sitter_go.Language()
	case "python":
		ptr = tree_sitter_python.Language()
	case "rust":
		ptr = tree_sitter_rust.Language()
	case "java":
		ptr = tree_sitter_java.Language()
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	if ptr == nil {
		return nil, fmt.Errorf("failed to load %s grammar", language)
	}
	return sitter.NewLanguage(ptr), nil
}
