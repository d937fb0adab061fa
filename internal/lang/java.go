package lang

import "github.com/soradev/envlens/internal/analyzer"

// javaQuery matches method invocations with an identifier receiver; the
// scanner keeps System.getenv by joining the receiver and method names.
const javaQuery = `
(method_invocation
  object: (identifier) @callobj
  name: (identifier) @callname
  arguments: (argument_list (_) @arg)
) @access
`

var javaSpec = &Spec{
	Name:          "java",
	Query:         javaQuery,
	CallAccessors: []string{"System.getenv"},
	StringKinds:   map[string]bool{"string_literal": true},
	ArgsKinds:     map[string]bool{"argument_list": true},
	CompareKinds:  map[string]bool{"binary_expression": true},
	WrapperCalls: map[string]analyzer.InferredType{
		"Integer.parseInt":     analyzer.TypeNumber,
		"Double.parseDouble":   analyzer.TypeNumber,
		"Long.parseLong":       analyzer.TypeNumber,
		"Boolean.parseBoolean": analyzer.TypeBoolean,
	},
}
