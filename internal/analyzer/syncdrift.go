package analyzer

import (
	"fmt"
	"sort"
)

// checkSyncDrift diffs the live variable set against the documentation
// template by name. The diff is symmetric: variables defined live but
// missing from the template drift one way, template entries absent from
// the live set drift the other.
func checkSyncDrift(live, template []DefinedVariable) (SyncStatus, []Issue) {
	liveNames := definedNames(live)
	templateNames := definedNames(template)

	status := SyncStatus{
		MissingFromTemplate: []string{},
		MissingFromEnv:      []string{},
	}

	for name := range liveNames {
		if _, ok := templateNames[name]; !ok {
			status.MissingFromTemplate = append(status.MissingFromTemplate, name)
		}
	}
	for name := range templateNames {
		if _, ok := liveNames[name]; !ok {
			status.MissingFromEnv = append(status.MissingFromEnv, name)
		}
	}
	sort.Strings(status.MissingFromTemplate)
	sort.Strings(status.MissingFromEnv)
	status.InSync = len(status.MissingFromTemplate) == 0 && len(status.MissingFromEnv) == 0

	var issues []Issue
	for _, name := range status.MissingFromTemplate {
		v := liveNames[name]
		issues = append(issues, Issue{
			Kind:       KindSyncDrift,
			Severity:   SeverityWarning,
			Variable:   name,
			Message:    fmt.Sprintf("%s is defined in %s but missing from the template", name, v.File),
			File:       v.File,
			Line:       v.Line,
			Suggestion: fmt.Sprintf("add `%s=` to the template", name),
		})
	}
	for _, name := range status.MissingFromEnv {
		v := templateNames[name]
		issues = append(issues, Issue{
			Kind:       KindSyncDrift,
			Severity:   SeverityInfo,
			Variable:   name,
			Message:    fmt.Sprintf("%s appears in the template but is not defined in your env file", name),
			File:       v.File,
			Line:       v.Line,
			Suggestion: fmt.Sprintf("add `%s=` to your env file", name),
		})
	}

	return status, issues
}

// CompareSync is the standalone entry point for the sync command; it runs
// the same diff the full analysis uses.
func CompareSync(live, template []DefinedVariable) (SyncStatus, []Issue) {
	return checkSyncDrift(live, template)
}
