package scanner

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/lang"
)

// inferType examines only the immediate syntactic parent of an access
// expression. Multi-hop inference (through intermediate variables) is an
// intentional non-feature; the result is advisory, never ground truth.
func inferType(access *sitter.Node, spec *lang.Spec, content []byte) analyzer.InferredType {
	parent := access.Parent()
	if parent == nil {
		return analyzer.TypeUnknown
	}

	// Wrapped in a conversion call: parseInt(ENV.X), strconv.Atoi(...).
	if spec.ArgsKinds[parent.Kind()] {
		if call := parent.Parent(); call != nil {
			if t, ok := spec.WrapperCalls[callFunctionText(call, content)]; ok {
				return t
			}
		}
		return analyzer.TypeUnknown
	}

	// Receiver of a split call: ENV.X.split(",").
	if spec.MemberKinds[parent.Kind()] && spec.SplitMethod != "" {
		prop := parent.ChildByFieldName(spec.MemberField)
		obj := parent.ChildByFieldName("object")
		if prop != nil && obj != nil &&
			obj.StartByte() == access.StartByte() && obj.EndByte() == access.EndByte() &&
			text(prop, content) == spec.SplitMethod {
			return analyzer.TypeArray
		}
		return analyzer.TypeUnknown
	}

	// Compared against a boolean literal string: ENV.X === "true".
	if spec.CompareKinds[parent.Kind()] {
		count := parent.NamedChildCount()
		for i := uint(0); i < count; i++ {
			child := parent.NamedChild(i)
			if child == nil || !spec.StringKinds[child.Kind()] {
				continue
			}
			switch trimQuotes(text(child, content)) {
			case "true", "false":
				return analyzer.TypeBoolean
			}
		}
	}

	return analyzer.TypeUnknown
}

// callFunctionText returns the function expression text of a call node,
// joining receiver and method for grammars that split them (Java).
func callFunctionText(call *sitter.Node, content []byte) string {
	if fn := call.ChildByFieldName("function"); fn != nil {
		return text(fn, content)
	}
	obj := call.ChildByFieldName("object")
	name := call.ChildByFieldName("name")
	if obj != nil && name != nil {
		return text(obj, content) + "." + text(name, content)
	}
	return ""
}
