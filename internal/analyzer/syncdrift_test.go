package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSyncDrift_BothDirections(t *testing.T) {
	live := []DefinedVariable{
		{Name: "API_URL", Value: "http://localhost", File: ".env", Line: 1},
		{Name: "SECRET_KEY", Value: "abc", File: ".env", Line: 2},
	}
	template := []DefinedVariable{
		{Name: "API_URL", Value: "", File: ".env.example", Line: 1},
		{Name: "NEW_FEATURE_FLAG", Value: "", File: ".env.example", Line: 2},
	}

	status, issues := CompareSync(live, template)

	assert.False(t, status.InSync)
	assert.Equal(t, []string{"SECRET_KEY"}, status.MissingFromTemplate)
	assert.Equal(t, []string{"NEW_FEATURE_FLAG"}, status.MissingFromEnv)

	require.Len(t, issues, 2)
	byName := map[string]Issue{}
	for _, i := range issues {
		byName[i.Variable] = i
		assert.Equal(t, KindSyncDrift, i.Kind)
	}
	assert.Equal(t, SeverityWarning, byName["SECRET_KEY"].Severity)
	assert.Equal(t, SeverityInfo, byName["NEW_FEATURE_FLAG"].Severity)
}

func TestCheckSyncDrift_InSync(t *testing.T) {
	live := []DefinedVariable{{Name: "A", Value: "1", File: ".env", Line: 1}}
	template := []DefinedVariable{{Name: "A", Value: "", File: ".env.example", Line: 1}}

	status, issues := CompareSync(live, template)

	assert.True(t, status.InSync)
	assert.Empty(t, issues)
	assert.Empty(t, status.MissingFromTemplate)
	assert.Empty(t, status.MissingFromEnv)
}

func TestCheckSyncDrift_ValuesDoNotMatter(t *testing.T) {
	// The diff is by name only; differing values are not drift.
	live := []DefinedVariable{{Name: "A", Value: "real-value", File: ".env", Line: 1}}
	template := []DefinedVariable{{Name: "A", Value: "placeholder", File: ".env.example", Line: 1}}

	status, _ := CompareSync(live, template)
	assert.True(t, status.InSync)
}

func TestCheckSyncDrift_SortedOutput(t *testing.T) {
	live := []DefinedVariable{
		{Name: "ZULU", Value: "1", File: ".env", Line: 1},
		{Name: "ALPHA", Value: "1", File: ".env", Line: 2},
		{Name: "MIKE", Value: "1", File: ".env", Line: 3},
	}

	status, _ := CompareSync(live, []DefinedVariable{})
	assert.Equal(t, []string{"ALPHA", "MIKE", "ZULU"}, status.MissingFromTemplate)
}
