// Package lang describes, per supported language, how environment variable
// accesses look: the tree-sitter query that finds candidate expressions,
// the accessor roots that identify the environment object, and the hints
// used for single-hop type inference.
//
// Capture names shared by all queries:
//
//	@access          whole access expression (context + inference anchor)
//	@obj + @key      member access on the environment object
//	@obj + @index    computed/bracket access on the environment object
//	@fn + @arg       call-style access (os.Getenv, env::var, ...)
//	@callobj/@callname + @arg  call access with a split receiver (Java)
//	@pattern + @src  destructuring the environment object
package lang

import "github.com/soradev/envlens/internal/analyzer"

// Spec is the static scanning description for one language.
type Spec struct {
	Name string
	// Query finds candidate access expressions. Matches are validated
	// against the accessor tables below; the query itself stays broad.
	Query string
	// Accessors are environment-object expression texts for member and
	// bracket access ("process.env", "os.environ"). JS/TS specs are
	// augmented at scan time with the framework profile's accessors.
	Accessors []string
	// CallAccessors are function expression texts for call-style access.
	CallAccessors []string
	// StringKinds are the grammar node kinds of string literals.
	StringKinds map[string]bool
	// ArgsKinds are node kinds holding call arguments, used when walking
	// from an access to a wrapping conversion call.
	ArgsKinds map[string]bool
	// CompareKinds are node kinds of binary/comparison expressions, used
	// for the boolean-literal comparison heuristic.
	CompareKinds map[string]bool
	// MemberKinds + MemberField locate a property access on the result of
	// an env access (for the ".split(" array heuristic).
	MemberKinds map[string]bool
	MemberField string
	// WrapperCalls maps a wrapping call's function text to the type it
	// implies (parseInt -> number, JSON.parse -> json).
	WrapperCalls map[string]analyzer.InferredType
	// SplitMethod is the method name that implies an array result.
	SplitMethod string
	// Destructure is true when the language supports destructuring the
	// environment object into bindings.
	Destructure bool
}

var specs = map[string]*Spec{
	"javascript": javascriptSpec,
	"typescript": typescriptSpec,
	"go":         goSpec,
	"python":     pythonSpec,
	"rust":       rustSpec,
	"java":       javaSpec,
}

// Get returns the spec for a language name, or nil when unsupported.
func Get(name string) *Spec {
	return specs[name]
}

// IsAccessor reports whether expression text names the environment object.
// extra holds framework-profile accessors merged in at scan time.
func (s *Spec) IsAccessor(text string, extra []string) bool {
	for _, a := range s.Accessors {
		if a == text {
			return true
		}
	}
	for _, a := range extra {
		if a == text {
			return true
		}
	}
	return false
}

// IsCallAccessor reports whether a function expression text reads the
// environment.
func (s *Spec) IsCallAccessor(text string) bool {
	for _, a := range s.CallAccessors {
		if a == text {
			return true
		}
	}
	return false
}
