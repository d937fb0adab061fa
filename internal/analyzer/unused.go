package analyzer

import (
	"fmt"

	"github.com/soradev/envlens/internal/framework"
	"github.com/soradev/envlens/internal/rules"
	"github.com/soradev/envlens/internal/secrets"
)

// checkUnused reports defined variables that no code reads. Framework
// runtime variables, placeholder values, empty values, and configured
// ignores are exempt.
func checkUnused(defined []DefinedVariable, used []UsedVariable, rs *rules.Set, profile framework.Profile) []Issue {
	usedNames := make(map[string]bool, len(used))
	for _, u := range used {
		if u.Name != DynamicName {
			usedNames[u.Name] = true
		}
	}

	var issues []Issue
	for _, v := range defined {
		if usedNames[v.Name] {
			continue
		}
		if profile.ShouldAutoIgnore(v.Name) {
			continue
		}
		if v.Value == "" || secrets.IsPlaceholder(v.Value) {
			continue
		}
		if rs.IgnoreUnused(v.Name) {
			continue
		}
		issues = append(issues, Issue{
			Kind:       KindUnused,
			Severity:   SeverityWarning,
			Variable:   v.Name,
			Message:    fmt.Sprintf("%s is defined but never used", v.Name),
			File:       v.File,
			Line:       v.Line,
			Suggestion: fmt.Sprintf("remove `%s` from %s or reference it in code", v.Name, v.File),
		})
	}
	return issues
}
