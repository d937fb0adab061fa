package lang

import "github.com/soradev/envlens/internal/analyzer"

// goQuery matches selector calls; the scanner keeps only os.Getenv and
// os.LookupEnv by function text.
const goQuery = `
(call_expression
  function: (selector_expression) @fn
  arguments: (argument_list (_) @arg)
) @access
`

var goSpec = &Spec{
	Name:          "go",
	Query:         goQuery,
	CallAccessors: []string{"os.Getenv", "os.LookupEnv"},
	StringKinds: map[string]bool{
		"interpreted_string_literal": true,
		"raw_string_literal":         true,
	},
	ArgsKinds:    map[string]bool{"argument_list": true},
	CompareKinds: map[string]bool{"binary_expression": true},
	WrapperCalls: map[string]analyzer.InferredType{
		"strconv.Atoi":       analyzer.TypeNumber,
		"strconv.ParseInt":   analyzer.TypeNumber,
		"strconv.ParseFloat": analyzer.TypeNumber,
		"strconv.ParseBool":  analyzer.TypeBoolean,
	},
}
