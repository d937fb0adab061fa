package lang

import "github.com/soradev/envlens/internal/analyzer"

// pythonQuery covers os.environ["KEY"] subscripts plus os.getenv and
// os.environ.get calls.
const pythonQuery = `
[
  (subscript
    value: (attribute) @obj
    subscript: (_) @index
  ) @access
  (call
    function: (attribute) @fn
    arguments: (argument_list (_) @arg)
  ) @access
]
`

var pythonSpec = &Spec{
	Name:          "python",
	Query:         pythonQuery,
	Accessors:     []string{"os.environ"},
	CallAccessors: []string{"os.getenv", "os.environ.get"},
	StringKinds:   map[string]bool{"string": true},
	ArgsKinds:     map[string]bool{"argument_list": true},
	CompareKinds:  map[string]bool{"comparison_operator": true},
	MemberKinds:   map[string]bool{"attribute": true},
	MemberField:   "attribute",
	WrapperCalls: map[string]analyzer.InferredType{
		"int":        analyzer.TypeNumber,
		"float":      analyzer.TypeNumber,
		"json.loads": analyzer.TypeJSON,
	},
	SplitMethod: "split",
}
