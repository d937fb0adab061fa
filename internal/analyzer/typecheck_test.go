package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soradev/envlens/internal/rules"
)

func TestCheckTypes_InferredMismatchIsWarning(t *testing.T) {
	defined := []DefinedVariable{
		{Name: "PORT", Value: "abc", File: ".env", Line: 2},
	}
	used := []UsedVariable{
		{Name: "PORT", File: "server.js", Line: 5, Type: TypeNumber},
	}

	issues := checkTypes(defined, used, rules.Empty())

	require.Len(t, issues, 1)
	assert.Equal(t, KindTypeMismatch, issues[0].Kind)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "number", issues[0].Context["expected"])
	assert.Equal(t, ".env", issues[0].File)
	assert.Equal(t, 2, issues[0].Line)
}

func TestCheckTypes_ExplicitRuleMismatchIsError(t *testing.T) {
	defined := []DefinedVariable{
		{Name: "PORT", Value: "abc", File: ".env", Line: 2},
	}
	used := []UsedVariable{{Name: "PORT", File: "server.js", Line: 5}}
	rs := rules.Compile(map[string]rules.Rule{"PORT": {Type: "number"}}, nil, nil)

	issues := checkTypes(defined, used, rs)

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestCheckTypes_ValidValuesPass(t *testing.T) {
	tests := []struct {
		value string
		typ   InferredType
	}{
		{"3000", TypeNumber},
		{"3.14", TypeNumber},
		{"true", TypeBoolean},
		{"YES", TypeBoolean},
		{"off", TypeBoolean},
		{`{"a":1}`, TypeJSON},
		{"[1,2]", TypeJSON},
		{"anything", TypeString},
		{"a,b,c", TypeArray},
	}
	for _, tt := range tests {
		defined := []DefinedVariable{{Name: "V", Value: tt.value, File: ".env", Line: 1}}
		used := []UsedVariable{{Name: "V", File: "a.js", Line: 1, Type: tt.typ}}
		issues := checkTypes(defined, used, rules.Empty())
		assert.Empty(t, issues, "value %q should satisfy %s", tt.value, tt.typ)
	}
}

func TestCheckTypes_DominantTypeAcrossUsages(t *testing.T) {
	defined := []DefinedVariable{{Name: "RETRIES", Value: "not-a-number", File: ".env", Line: 1}}
	used := []UsedVariable{
		{Name: "RETRIES", File: "a.js", Line: 1, Type: TypeNumber},
		{Name: "RETRIES", File: "b.js", Line: 2, Type: TypeNumber},
		{Name: "RETRIES", File: "c.js", Line: 3, Type: TypeString},
	}

	issues := checkTypes(defined, used, rules.Empty())

	require.Len(t, issues, 1)
	assert.Equal(t, "number", issues[0].Context["expected"])
}

func TestCheckTypes_TieBreaksTowardFirstSeen(t *testing.T) {
	defined := []DefinedVariable{{Name: "FLAG", Value: "maybe", File: ".env", Line: 1}}
	used := []UsedVariable{
		{Name: "FLAG", File: "a.js", Line: 1, Type: TypeBoolean},
		{Name: "FLAG", File: "b.js", Line: 2, Type: TypeNumber},
	}

	issues := checkTypes(defined, used, rules.Empty())

	require.Len(t, issues, 1)
	assert.Equal(t, "boolean", issues[0].Context["expected"])
}

func TestCheckTypes_EmptyAndUnusedSkipped(t *testing.T) {
	defined := []DefinedVariable{
		{Name: "EMPTY", Value: "", File: ".env", Line: 1},
		{Name: "UNTOUCHED", Value: "abc", File: ".env", Line: 2},
	}
	used := []UsedVariable{{Name: "EMPTY", File: "a.js", Line: 1, Type: TypeNumber}}

	issues := checkTypes(defined, used, rules.Empty())
	assert.Empty(t, issues)
}

func TestCheckTypes_PatternAndEnum(t *testing.T) {
	defined := []DefinedVariable{
		{Name: "DATABASE_URL", Value: "mysql://h", File: ".env", Line: 1},
		{Name: "LOG_LEVEL", Value: "verbose", File: ".env", Line: 2},
	}
	used := []UsedVariable{
		{Name: "DATABASE_URL", File: "db.js", Line: 1},
		{Name: "LOG_LEVEL", File: "log.js", Line: 2},
	}
	rs := rules.Compile(map[string]rules.Rule{
		"DATABASE_URL": {Pattern: "^postgres://"},
		"LOG_LEVEL":    {Enum: []string{"debug", "info", "warn", "error"}},
	}, nil, nil)

	issues := checkTypes(defined, used, rs)

	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, KindInvalidValue, issue.Kind)
		assert.Equal(t, SeverityError, issue.Severity)
	}
	assert.Contains(t, issues[1].Suggestion, "use one of: debug, info, warn, error")
}

func TestCheckTypes_SecretValuesRedactedInMessages(t *testing.T) {
	defined := []DefinedVariable{
		{Name: "API_TOKEN", Value: "supersecretvalue123", File: ".env", Line: 1, Secret: true},
	}
	used := []UsedVariable{{Name: "API_TOKEN", File: "a.js", Line: 1}}
	rs := rules.Compile(map[string]rules.Rule{"API_TOKEN": {Type: "number"}}, nil, nil)

	issues := checkTypes(defined, used, rs)

	require.Len(t, issues, 1)
	assert.NotContains(t, issues[0].Message, "supersecretvalue123")
}
