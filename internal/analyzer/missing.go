package analyzer

import (
	"fmt"
	"sort"

	"github.com/soradev/envlens/internal/rules"
)

// checkMissing reports variables read in code with no definition, plus a
// dynamic-access note for every computed access whose key could not be
// resolved. Dynamic usages carry the sentinel name and are never matched
// against real definitions.
func checkMissing(used []UsedVariable, defined []DefinedVariable, rs *rules.Set) []Issue {
	byName := definedNames(defined)

	var issues []Issue
	reported := make(map[string]bool)
	usageCount := make(map[string]int)
	for _, u := range used {
		if u.Name != DynamicName {
			usageCount[u.Name]++
		}
	}

	for _, u := range used {
		if u.Ignored {
			continue
		}
		if u.Name == DynamicName {
			issues = append(issues, Issue{
				Kind:     KindDynamicAccess,
				Severity: SeverityWarning,
				Variable: DynamicName,
				Message:  "environment variable accessed with a dynamic key; its name cannot be verified statically",
				File:     u.File,
				Line:     u.Line,
				Column:   u.Column,
				Context:  map[string]string{"snippet": u.Snippet},
			})
			continue
		}

		if reported[u.Name] {
			continue
		}
		if _, ok := byName[u.Name]; ok {
			continue
		}
		if rs.IgnoreMissing(u.Name) {
			continue
		}

		rule, hasRule := rs.Get(u.Name)
		if hasRule && rule.HasDefault {
			continue
		}

		severity := SeverityWarning
		if hasRule && rule.Required {
			severity = SeverityError
		}

		reported[u.Name] = true
		issues = append(issues, Issue{
			Kind:       KindMissing,
			Severity:   severity,
			Variable:   u.Name,
			Message:    fmt.Sprintf("%s is used but not defined in any env file", u.Name),
			File:       u.File,
			Line:       u.Line,
			Column:     u.Column,
			Suggestion: fmt.Sprintf("add `%s=` to your env file", u.Name),
			Context:    map[string]string{"usages": fmt.Sprintf("%d", usageCount[u.Name])},
		})
	}

	// Required variables from the rule set must exist even when nothing
	// reads them yet.
	names := rs.Names()
	sort.Strings(names)
	for _, name := range names {
		rule, _ := rs.Get(name)
		if !rule.Required || rule.HasDefault || reported[name] {
			continue
		}
		if _, ok := byName[name]; ok {
			continue
		}
		if usageCount[name] > 0 {
			continue // already handled above with a location
		}
		issues = append(issues, Issue{
			Kind:       KindMissing,
			Severity:   SeverityError,
			Variable:   name,
			Message:    fmt.Sprintf("%s is required by configuration but not defined", name),
			Suggestion: fmt.Sprintf("add `%s=` to your env file", name),
		})
	}

	return issues
}
