package lang

// rustQuery matches any call through a scoped path; the scanner keeps only
// the env::var family by function text.
const rustQuery = `
(call_expression
  function: (_) @fn
  arguments: (arguments (_) @arg)
) @access
`

var rustSpec = &Spec{
	Name:  "rust",
	Query: rustQuery,
	CallAccessors: []string{
		"std::env::var",
		"std::env::var_os",
		"env::var",
		"env::var_os",
	},
	StringKinds:  map[string]bool{"string_literal": true},
	ArgsKinds:    map[string]bool{"arguments": true},
	CompareKinds: map[string]bool{"binary_expression": true},
}
