// Package output renders an AnalysisResult for humans (ANSI console), for
// machines (JSON), and for code scanning services (SARIF). Reporters see
// only the result shape, never scanner or parser internals.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/soradev/envlens/internal/analyzer"
)

var colorEnabled = initColorSupport()

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// initColorSupport enables colors when stdout is a terminal that accepts
// ANSI sequences (the Windows toggle lives in formatter_windows.go).
func initColorSupport() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

// Format renders the result in the requested format.
func Format(w io.Writer, result *analyzer.AnalysisResult, format string) error {
	switch format {
	case "json":
		return formatJSON(w, result)
	case "sarif":
		return formatSARIF(w, result)
	default:
		return formatConsole(w, result)
	}
}

// formatJSON emits the result as indented JSON; the result shape is the
// whole contract.
func formatJSON(w io.Writer, result *analyzer.AnalysisResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func severityColor(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityError:
		return colorRed
	case analyzer.SeverityWarning:
		return colorYellow
	default:
		return colorCyan
	}
}

// kindOrder fixes the section order in console output.
var kindOrder = []analyzer.Kind{
	analyzer.KindMissing,
	analyzer.KindSecretExposed,
	analyzer.KindTypeMismatch,
	analyzer.KindInvalidValue,
	analyzer.KindSyncDrift,
	analyzer.KindDynamicAccess,
	analyzer.KindUnused,
}

var kindHeadings = map[analyzer.Kind]string{
	analyzer.KindMissing:       "Missing environment variables",
	analyzer.KindSecretExposed: "Secrets with committed values",
	analyzer.KindTypeMismatch:  "Type mismatches",
	analyzer.KindInvalidValue:  "Invalid values",
	analyzer.KindSyncDrift:     "Template drift",
	analyzer.KindDynamicAccess: "Dynamic accesses",
	analyzer.KindUnused:        "Unused variables",
}

// formatConsole renders a sectioned, colorized report.
func formatConsole(w io.Writer, result *analyzer.AnalysisResult) error {
	byKind := make(map[analyzer.Kind][]analyzer.Issue)
	for _, issue := range result.Issues {
		byKind[issue.Kind] = append(byKind[issue.Kind], issue)
	}

	for _, kind := range kindOrder {
		issues := byKind[kind]
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s%s (%d):%s\n\n", getColor(colorBold), kindHeadings[kind], len(issues), getColor(colorReset))
		for _, issue := range issues {
			color := severityColor(issue.Severity)
			fmt.Fprintf(w, "  %s%-7s%s %s%s%s  %s\n", getColor(color), issue.Severity, getColor(colorReset), getColor(colorBold), issue.Variable, getColor(colorReset), issue.Message)
			if issue.File != "" {
				fmt.Fprintf(w, "          %sat %s", getColor(colorGray), issue.File)
				if issue.Line > 0 {
					fmt.Fprintf(w, ":%d", issue.Line)
					if issue.Column > 0 {
						fmt.Fprintf(w, ":%d", issue.Column)
					}
				}
				fmt.Fprintf(w, "%s\n", getColor(colorReset))
			}
			if snippet := issue.Context["snippet"]; snippet != "" {
				fmt.Fprintf(w, "          %s%s%s\n", getColor(colorGray), truncate(snippet, 80), getColor(colorReset))
			}
			if preview := issue.Context["preview"]; preview != "" {
				fmt.Fprintf(w, "          %svalue: %s%s\n", getColor(colorGray), preview, getColor(colorReset))
			}
			if issue.Suggestion != "" {
				fmt.Fprintf(w, "          %shint: %s%s\n", getColor(colorGray), issue.Suggestion, getColor(colorReset))
			}
		}
		fmt.Fprintln(w)
	}

	if result.Sync != nil {
		if result.Sync.InSync {
			fmt.Fprintf(w, "%sTemplate is in sync.%s\n", getColor(colorGreen), getColor(colorReset))
		} else {
			fmt.Fprintf(w, "%sTemplate drift:%s %d missing from template, %d missing from env\n",
				getColor(colorYellow), getColor(colorReset),
				len(result.Sync.MissingFromTemplate), len(result.Sync.MissingFromEnv))
		}
		fmt.Fprintln(w)
	}

	for _, fe := range result.Errors {
		if fe.Line > 0 {
			fmt.Fprintf(w, "%swarning:%s %s:%d: %s\n", getColor(colorYellow), getColor(colorReset), fe.File, fe.Line, fe.Message)
		} else {
			fmt.Fprintf(w, "%swarning:%s %s: %s\n", getColor(colorYellow), getColor(colorReset), fe.File, fe.Message)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(w)
	}

	stats := result.Stats
	if len(result.Issues) == 0 {
		fmt.Fprintf(w, "%s%s✓ No issues found.%s %d files scanned in %s.\n",
			getColor(colorGreen), getColor(colorBold), getColor(colorReset),
			stats.FilesScanned, stats.Duration.Round(time.Millisecond))
		return nil
	}
	fmt.Fprintf(w, "%d issue(s): %s%d error(s)%s, %s%d warning(s)%s, %d info. %d files scanned in %s.\n",
		len(result.Issues),
		getColor(colorRed), stats.ErrorCount, getColor(colorReset),
		getColor(colorYellow), stats.WarningCount, getColor(colorReset),
		stats.InfoCount, stats.FilesScanned, stats.Duration.Round(time.Millisecond))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// HasErrors reports whether any error-severity issue exists; the CLI uses
// it for the exit code.
func HasErrors(result *analyzer.AnalysisResult) bool {
	return result.Stats.ErrorCount > 0
}
