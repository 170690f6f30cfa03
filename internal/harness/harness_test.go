package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "prune_histology.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "prune-histology", scenario.Name)
	assert.Equal(t, []string{"histology"}, scenario.Targets)
	require.Len(t, scenario.Documents, 3)
	assert.Equal(t, "trial-1", scenario.Documents[0].ID)
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: catches field typos
document:
  - id: a
    text: age(min=18)
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing name",
			body: "description: d\ndocuments:\n  - id: a\n    text: age(min=18)\n",
			want: "name is required",
		},
		{
			name: "missing documents",
			body: "name: n\ndescription: d\n",
			want: "documents list is required",
		},
		{
			name: "document without id",
			body: "name: n\ndescription: d\ndocuments:\n  - text: age(min=18)\n",
			want: "id is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
