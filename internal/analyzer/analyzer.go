// Package analyzer compares definition facts against usage facts under a
// rule set and produces a normalized issue list. Every pass is a pure
// function of its inputs; nothing here mutates shared state or caches
// across invocations.
package analyzer

import (
	"sort"

	"github.com/soradev/envlens/internal/framework"
	"github.com/soradev/envlens/internal/rules"
)

// Input is the combined fact set one analysis run operates on.
type Input struct {
	Defined []DefinedVariable
	Used    []UsedVariable
	Rules   *rules.Set
	Profile framework.Profile
	// Template is the documentation template's variable set; nil disables
	// the sync-drift pass.
	Template []DefinedVariable
}

// Analyze runs all passes and assembles an AnalysisResult. Output ordering
// is deterministic: issues sort by file, line, variable, then kind, so
// identical inputs always produce identical results.
func Analyze(in Input) AnalysisResult {
	if in.Rules == nil {
		in.Rules = rules.Empty()
	}

	issues := checkMissing(in.Used, in.Defined, in.Rules)
	issues = append(issues, checkUnused(in.Defined, in.Used, in.Rules, in.Profile)...)
	issues = append(issues, checkTypes(in.Defined, in.Used, in.Rules)...)

	var sync *SyncStatus
	if in.Template != nil {
		status, driftIssues := checkSyncDrift(in.Defined, in.Template)
		sync = &status
		issues = append(issues, driftIssues...)
	}

	issues = append(issues, checkSecrets(in.Defined, in.Rules)...)

	sortIssues(issues)

	result := AnalysisResult{
		Issues:    issues,
		Defined:   in.Defined,
		Used:      in.Used,
		Framework: in.Profile.Name,
		Sync:      sync,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			result.Stats.ErrorCount++
		case SeverityWarning:
			result.Stats.WarningCount++
		case SeverityInfo:
			result.Stats.InfoCount++
		}
	}
	return result
}

// sortIssues orders issues by file path, line, variable, then kind.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Kind < b.Kind
	})
}

// definedNames indexes a definition set by name.
func definedNames(defined []DefinedVariable) map[string]DefinedVariable {
	byName := make(map[string]DefinedVariable, len(defined))
	for _, v := range defined {
		byName[v.Name] = v
	}
	return byName
}
