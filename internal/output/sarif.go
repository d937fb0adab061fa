package output

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/soradev/envlens/internal/analyzer"
)

// SARIF 2.1.0 document shape, trimmed to the fields code scanning
// services actually read.
type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

var ruleDescriptions = map[analyzer.Kind]string{
	analyzer.KindMissing:       "Environment variable used in code but not defined",
	analyzer.KindUnused:        "Environment variable defined but never used",
	analyzer.KindTypeMismatch:  "Defined value does not match the type the code expects",
	analyzer.KindSyncDrift:     "Definition files and documentation template have drifted apart",
	analyzer.KindSecretExposed: "Secret-looking variable carries a committed real value",
	analyzer.KindInvalidValue:  "Defined value violates a configured pattern or enum",
	analyzer.KindDynamicAccess: "Environment accessed with a key computed at runtime",
}

func sarifLevel(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityError:
		return "error"
	case analyzer.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// formatSARIF emits the result as a single-run SARIF log. Rules are
// listed only for kinds that actually occurred, sorted for stable output.
func formatSARIF(w io.Writer, result *analyzer.AnalysisResult) error {
	seen := make(map[analyzer.Kind]bool)
	results := make([]sarifResult, 0, len(result.Issues))
	for _, issue := range result.Issues {
		seen[issue.Kind] = true

		text := issue.Message
		if issue.Suggestion != "" {
			text += ". " + issue.Suggestion
		}
		res := sarifResult{
			RuleID:  string(issue.Kind),
			Level:   sarifLevel(issue.Severity),
			Message: sarifMessage{Text: text},
		}
		if issue.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: issue.File},
				},
			}
			if issue.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   issue.Line,
					StartColumn: issue.Column,
				}
			}
			res.Locations = []sarifLocation{loc}
		}
		results = append(results, res)
	}

	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	sarifRules := make([]sarifRule, 0, len(kinds))
	for _, kind := range kinds {
		sarifRules = append(sarifRules, sarifRule{
			ID:               kind,
			ShortDescription: sarifMessage{Text: ruleDescriptions[analyzer.Kind(kind)]},
		})
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "envlens",
				InformationURI: "https://github.com/soradev/envlens",
				Rules:          sarifRules,
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
