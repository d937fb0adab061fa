package lang

import "github.com/soradev/envlens/internal/analyzer"

// javascriptQuery matches every member, subscript, and destructuring
// candidate; the scanner filters by accessor text so that both process.env
// and import.meta.env (and any framework-profile accessor) are covered by
// one query.
const javascriptQuery = `
[
  (member_expression
    object: (_) @obj
    property: (property_identifier) @key
  ) @access
  (subscript_expression
    object: (_) @obj
    index: (_) @index
  ) @access
  (variable_declarator
    name: (object_pattern) @pattern
    value: (_) @src
  )
]
`

var javascriptSpec = &Spec{
	Name:          "javascript",
	Query:         javascriptQuery,
	Accessors:     []string{"process.env", "import.meta.env"},
	CallAccessors: nil,
	StringKinds:   map[string]bool{"string": true, "template_string": true},
	ArgsKinds:     map[string]bool{"arguments": true},
	CompareKinds:  map[string]bool{"binary_expression": true},
	MemberKinds:   map[string]bool{"member_expression": true},
	MemberField:   "property",
	WrapperCalls: map[string]analyzer.InferredType{
		"parseInt":   analyzer.TypeNumber,
		"parseFloat": analyzer.TypeNumber,
		"Number":     analyzer.TypeNumber,
		"JSON.parse": analyzer.TypeJSON,
	},
	SplitMethod: "split",
	Destructure: true,
}

// The TypeScript grammar extends the JavaScript one; node kinds relevant
// to env access are identical, so the spec differs only by name.
var typescriptSpec = &Spec{
	Name:          "typescript",
	Query:         javascriptQuery,
	Accessors:     javascriptSpec.Accessors,
	CallAccessors: nil,
	StringKinds:   javascriptSpec.StringKinds,
	ArgsKinds:     javascriptSpec.ArgsKinds,
	CompareKinds:  javascriptSpec.CompareKinds,
	MemberKinds:   javascriptSpec.MemberKinds,
	MemberField:   javascriptSpec.MemberField,
	WrapperCalls:  javascriptSpec.WrapperCalls,
	SplitMethod:   javascriptSpec.SplitMethod,
	Destructure:   true,
}
