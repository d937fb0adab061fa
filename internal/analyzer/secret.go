package analyzer

import (
	"fmt"

	"github.com/soradev/envlens/internal/rules"
	"github.com/soradev/envlens/internal/secrets"
)

// checkSecrets reports secret-looking variables whose real value sits in a
// committed file. The issue message never contains the value; a redacted
// preview goes into the context only.
func checkSecrets(defined []DefinedVariable, rs *rules.Set) []Issue {
	var issues []Issue
	for _, v := range defined {
		secret := v.Secret
		if rule, ok := rs.Get(v.Name); ok && rule.Secret != nil {
			// Explicit configuration overrides the heuristics both ways.
			secret = *rule.Secret
		}
		if !secret || v.Value == "" || secrets.IsPlaceholder(v.Value) {
			continue
		}
		issues = append(issues, Issue{
			Kind:       KindSecretExposed,
			Severity:   SeverityError,
			Variable:   v.Name,
			Message:    fmt.Sprintf("%s looks like a secret with a real value committed in %s", v.Name, v.File),
			File:       v.File,
			Line:       v.Line,
			Suggestion: fmt.Sprintf("move %s to an untracked env file or a secret manager", v.Name),
			Context:    map[string]string{"preview": secrets.Redact(v.Value)},
		})
	}
	return issues
}
