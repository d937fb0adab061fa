package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/soradev/envlens/internal/rules"
	"github.com/soradev/envlens/internal/secrets"
)

// booleanLexicon is the set of accepted boolean spellings.
var booleanLexicon = map[string]bool{
	"true": true, "false": true,
	"1": true, "0": true,
	"yes": true, "no": true,
	"on": true, "off": true,
}

// checkTypes validates each used variable's literal value against its
// expected type. An explicit rule type wins over inference; inference
// takes the most common inferred type across usages, ties breaking toward
// the first seen. Type failures are type-mismatch; pattern and enum
// failures are invalid-value. Empty values are skipped - emptiness is the
// unused/placeholder passes' concern.
func checkTypes(defined []DefinedVariable, used []UsedVariable, rs *rules.Set) []Issue {
	usagesByName := make(map[string][]UsedVariable)
	for _, u := range used {
		if u.Name != DynamicName {
			usagesByName[u.Name] = append(usagesByName[u.Name], u)
		}
	}

	var issues []Issue
	for _, v := range defined {
		usages, isUsed := usagesByName[v.Name]
		if !isUsed || v.Value == "" {
			continue
		}

		rule, hasRule := rs.Get(v.Name)

		expected := InferredType("")
		explicit := false
		if hasRule && rule.Type != "" {
			expected = InferredType(rule.Type)
			explicit = true
		} else {
			expected = dominantType(usages)
		}

		display := v.Value
		if v.Secret || (hasRule && rule.Secret != nil && *rule.Secret) {
			display = secrets.Redact(v.Value)
		}

		if expected != "" && !valueMatchesType(v.Value, expected) {
			severity := SeverityWarning
			if explicit {
				severity = SeverityError
			}
			issues = append(issues, Issue{
				Kind:     KindTypeMismatch,
				Severity: severity,
				Variable: v.Name,
				Message:  fmt.Sprintf("%s is expected to be %s but its value %q does not parse as one", v.Name, expected, display),
				File:     v.File,
				Line:     v.Line,
				Context:  map[string]string{"expected": string(expected)},
			})
		}

		if hasRule && rule.Pattern != nil && !rule.Pattern.MatchString(v.Value) {
			issues = append(issues, Issue{
				Kind:     KindInvalidValue,
				Severity: SeverityError,
				Variable: v.Name,
				Message:  fmt.Sprintf("%s value %q does not match the configured pattern", v.Name, display),
				File:     v.File,
				Line:     v.Line,
				Context:  map[string]string{"pattern": rule.Pattern.String()},
			})
		}

		if hasRule && len(rule.Enum) > 0 && !contains(rule.Enum, v.Value) {
			issues = append(issues, Issue{
				Kind:       KindInvalidValue,
				Severity:   SeverityError,
				Variable:   v.Name,
				Message:    fmt.Sprintf("%s value %q is not one of the allowed values", v.Name, display),
				File:       v.File,
				Line:       v.Line,
				Suggestion: "use one of: " + strings.Join(rule.Enum, ", "),
			})
		}
	}
	return issues
}

// dominantType picks the most common non-unknown inferred type across
// usages; ties break toward the type seen first.
func dominantType(usages []UsedVariable) InferredType {
	counts := make(map[InferredType]int)
	var order []InferredType
	for _, u := range usages {
		if u.Type == TypeUnknown || u.Type == "" {
			continue
		}
		if counts[u.Type] == 0 {
			order = append(order, u.Type)
		}
		counts[u.Type]++
	}
	best := InferredType("")
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}

// valueMatchesType checks a literal against an expected type. String and
// array always pass: any value is a string, and any string splits.
func valueMatchesType(value string, expected InferredType) bool {
	switch expected {
	case TypeNumber:
		_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil
	case TypeBoolean:
		return booleanLexicon[strings.ToLower(strings.TrimSpace(value))]
	case TypeJSON:
		return json.Valid([]byte(value))
	default:
		return true
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
