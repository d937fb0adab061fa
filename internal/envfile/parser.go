// Package envfile parses environment definition files into located
// variable facts. The canonical format is dotenv; additional formats
// (direnv, docker-compose, kubernetes, systemd, shell) are handled by the
// loader in formats.go.
package envfile

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/secrets"
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse parses dotenv-style content. Malformed lines produce a per-line
// error and parsing continues; a bad line never fails the file.
func Parse(content []byte, file string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var vars []analyzer.DefinedVariable
	var errs []analyzer.FileError
	index := make(map[string]int)

	lines := strings.Split(string(content), "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "export"); ok {
			// Only treat it as the shell keyword when followed by whitespace.
			if trimmed := strings.TrimLeft(rest, " \t"); trimmed != rest {
				line = trimmed
			}
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			errs = append(errs, analyzer.FileError{
				File:    file,
				Line:    lineNum,
				Message: "not a NAME=VALUE line",
			})
			continue
		}

		name := strings.TrimSpace(line[:eq])
		if !nameRegexp.MatchString(name) {
			errs = append(errs, analyzer.FileError{
				File:    file,
				Line:    lineNum,
				Message: "invalid variable name " + strconv.Quote(name),
			})
			continue
		}

		value := unquote(line[eq+1:])
		v := analyzer.DefinedVariable{
			Name:   name,
			Value:  value,
			File:   file,
			Line:   lineNum,
			Secret: secrets.Looks(name, value),
		}

		// Within one file the last occurrence of a name wins.
		if at, ok := index[name]; ok {
			vars[at] = v
		} else {
			index[name] = len(vars)
			vars = append(vars, v)
		}
	}

	return vars, errs
}

// unquote applies dotenv value semantics: single quotes are verbatim,
// double quotes process escapes, bare values are trimmed with a trailing
// whitespace-separated comment stripped.
func unquote(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		switch {
		case s[0] == '\'' && s[len(s)-1] == '\'':
			return s[1 : len(s)-1]
		case s[0] == '"' && s[len(s)-1] == '"':
			return expandEscapes(s[1 : len(s)-1])
		}
	}
	return stripInlineComment(s)
}

// expandEscapes processes the standard escape sequences inside a
// double-quoted value.
func expandEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// stripInlineComment removes a trailing "# ..." comment from an unquoted
// value. The hash only starts a comment when preceded by whitespace.
func stripInlineComment(s string) string {
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

// Merge combines variable sets in priority order: a name defined in a later
// set overrides earlier sets, and the winning definition's location is
// kept. Output is sorted by name so merging is order-stable.
func Merge(sets ...[]analyzer.DefinedVariable) []analyzer.DefinedVariable {
	byName := make(map[string]analyzer.DefinedVariable)
	for _, set := range sets {
		for _, v := range set {
			byName[v.Name] = v
		}
	}
	merged := make([]analyzer.DefinedVariable, 0, len(byName))
	for _, v := range byName {
		merged = append(merged, v)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}
