package scanner

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/framework"
	"github.com/soradev/envlens/internal/lang"
)

// fallbackScan is the best-effort pass used when structural parsing fails.
// It recovers direct and bracket accesses only; dynamic and destructuring
// idioms are not recoverable from raw text and are deliberately omitted.
// All patterns are linear (Go's RE2 engine), so adversarial input cannot
// trigger catastrophic backtracking.
func fallbackScan(content []byte, file string, spec *lang.Spec, profile framework.Profile) []analyzer.UsedVariable {
	type pattern struct {
		re    *regexp.Regexp
		idiom analyzer.AccessIdiom
	}
	var patterns []pattern

	accessors := append(append([]string{}, spec.Accessors...), profile.Accessors...)
	for _, acc := range accessors {
		quoted := regexp.QuoteMeta(acc)
		patterns = append(patterns,
			pattern{
				re:    regexp.MustCompile(quoted + `\.([A-Za-z_][A-Za-z0-9_]*)`),
				idiom: analyzer.AccessDirect,
			},
			pattern{
				re:    regexp.MustCompile(quoted + `\[\s*["'` + "`" + `]([A-Za-z_][A-Za-z0-9_]*)["'` + "`" + `]\s*\]`),
				idiom: analyzer.AccessBracket,
			},
		)
	}
	for _, fn := range spec.CallAccessors {
		patterns = append(patterns, pattern{
			re:    regexp.MustCompile(regexp.QuoteMeta(fn) + `\(\s*["'` + "`" + `]([^"'` + "`" + `\n]+)["'` + "`" + `]`),
			idiom: analyzer.AccessDirect,
		})
	}

	lineStarts := buildLineIndex(content)
	var usages []analyzer.UsedVariable
	seen := make(map[string]bool)

	for _, p := range patterns {
		for _, loc := range p.re.FindAllSubmatchIndex(content, -1) {
			// loc[2]:loc[3] is the captured variable name.
			name := string(content[loc[2]:loc[3]])
			line, col := position(lineStarts, loc[2])
			key := fmt.Sprintf("%s:%s:%d:%d", file, name, line, col)
			if seen[key] {
				continue
			}
			seen[key] = true
			usages = append(usages, analyzer.UsedVariable{
				Name:       name,
				File:       file,
				Line:       line,
				Column:     col,
				Idiom:      p.idiom,
				Type:       analyzer.TypeUnknown,
				ClientSide: profile.IsClientAccessible(name),
				Snippet:    lineSnippet(content, line-1),
			})
		}
	}

	sort.SliceStable(usages, func(i, j int) bool {
		if usages[i].Line != usages[j].Line {
			return usages[i].Line < usages[j].Line
		}
		return usages[i].Column < usages[j].Column
	})
	return usages
}

// buildLineIndex returns the byte offset of each line start.
func buildLineIndex(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// position converts a byte offset into a 1-based line and column.
func position(lineStarts []int, offset int) (line, col int) {
	i := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset }) - 1
	return i + 1, offset - lineStarts[i] + 1
}
