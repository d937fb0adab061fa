// Package secrets holds the pure heuristics used to decide whether a
// variable looks like a credential and to redact its value for reporting.
// Every function here is deterministic so tests can pin exact thresholds.
package secrets

import (
	"math"
	"regexp"
	"strings"
)

const (
	// entropyThreshold is the minimum Shannon entropy (bits per character)
	// for a value to be considered high-entropy.
	entropyThreshold = 4.0
	// entropyMinLength is the minimum value length before the entropy check
	// applies; short strings trip the threshold too easily.
	entropyMinLength = 20
	// revealWindow is how many characters are kept at each end of a
	// redacted value.
	revealWindow = 4
)

// secretNameFragments are case-insensitive substrings that mark a variable
// name as secret-bearing.
var secretNameFragments = []string{
	"secret",
	"password",
	"passwd",
	"api_key",
	"apikey",
	"token",
	"private_key",
	"credential",
	"auth_key",
}

// credentialShapes match well-known credential formats by value alone.
var credentialShapes = []*regexp.Regexp{
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),                                  // AWS access key ID
	regexp.MustCompile(`^(sk|pk|rk)_(live|test)_[0-9a-zA-Z]{10,}$`),           // Stripe
	regexp.MustCompile(`^gh[pousr]_[0-9A-Za-z]{36,}$`),                        // GitHub tokens
	regexp.MustCompile(`^xox[baprs]-[0-9A-Za-z-]{10,}$`),                      // Slack
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),                             // Google API key
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`), // JWT
}

var pemHeader = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)

// placeholderPatterns match values conventionally used as non-secret
// stand-ins in committed env files.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^your[_-]`),
	regexp.MustCompile(`(?i)^change[_-]?me$`),
	regexp.MustCompile(`(?i)^placeholder$`),
	regexp.MustCompile(`(?i)^todo$`),
	regexp.MustCompile(`(?i)^xxx+$`),
	regexp.MustCompile(`^<[^>]*>$`),
	regexp.MustCompile(`^\[[^\]]*\]$`),
	regexp.MustCompile(`^\$\{[^}]*\}$`),
	regexp.MustCompile(`(?i)^(example|sample|dummy|test)[_-]?`),
}

// IsSecretName reports whether the variable name alone suggests a secret.
func IsSecretName(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range secretNameFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// IsSecretValue reports whether the value matches a known credential shape
// or carries enough entropy to look like generated key material.
func IsSecretValue(value string) bool {
	if value == "" {
		return false
	}
	for _, re := range credentialShapes {
		if re.MatchString(value) {
			return true
		}
	}
	if pemHeader.MatchString(value) {
		return true
	}
	if len(value) > entropyMinLength && Entropy(value) >= entropyThreshold {
		return true
	}
	return false
}

// Looks reports whether name or value marks the variable as a likely secret.
// Advisory only; explicit rule configuration overrides it.
func Looks(name, value string) bool {
	return IsSecretName(name) || IsSecretValue(value)
}

// IsPlaceholder reports whether a value is a conventional stand-in rather
// than a real configuration value.
func IsPlaceholder(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, re := range placeholderPatterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// Entropy returns the Shannon entropy of s in bits per character.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	var total float64
	for _, r := range s {
		freq[r]++
		total++
	}
	var entropy float64
	for _, count := range freq {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Redact masks the middle of a value, keeping at most revealWindow
// characters at each end. Values too short to mask meaningfully are fully
// masked.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= revealWindow*2 {
		return strings.Repeat("*", len(value))
	}
	masked := len(value) - revealWindow*2
	if masked > 8 {
		masked = 8
	}
	return value[:revealWindow] + strings.Repeat("*", masked) + value[len(value)-revealWindow:]
}
