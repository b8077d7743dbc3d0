package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const cleanSource = `process Order {
	start
	task review
	end

	review -> end
}
`

func TestRunCheckCleanFile(t *testing.T) {
	path := writeFixture(t, "order.bpmn", cleanSource)

	var out bytes.Buffer
	err := runCheck(&out, []string{path}, &checkOptions{format: "human", noColor: true})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "no issues found")
}

func TestRunCheckReportsErrors(t *testing.T) {
	path := writeFixture(t, "broken.bpmn", `process P {
	start
	task a
	end

	a -> nowhere
}
`)

	var out bytes.Buffer
	err := runCheck(&out, []string{path}, &checkOptions{format: "human", noColor: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, out.String(), "Unknown flow target: 'nowhere'")
}

func TestRunCheckWarningsDoNotFail(t *testing.T) {
	path := writeFixture(t, "nostart.bpmn", `process P {
	task a
	end
}
`)

	var out bytes.Buffer
	err := runCheck(&out, []string{path}, &checkOptions{format: "human", noColor: true})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "must contain at least one start event")
}

func TestRunCheckJSONFormat(t *testing.T) {
	path := writeFixture(t, "order.bpmn", cleanSource)

	var out bytes.Buffer
	err := runCheck(&out, []string{path}, &checkOptions{format: "json", noColor: true})
	require.NoError(t, err)

	var payload struct {
		File    string `json:"file"`
		Summary struct {
			HasErrors bool `json:"has_errors"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.False(t, payload.Summary.HasErrors)
	assert.Contains(t, payload.File, "order.bpmn")
}

func TestRunCheckUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := runCheck(&out, []string{"whatever.bpmn"}, &checkOptions{format: "yaml"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestRunCheckMissingFileSuggestsNeighbors(t *testing.T) {
	path := writeFixture(t, "order.bpmn", cleanSource)
	missing := filepath.Join(filepath.Dir(path), "ordr.bpmn")

	var out bytes.Buffer
	err := runCheck(&out, []string{missing}, &checkOptions{format: "human", noColor: true})

	require.Error(t, err)
	assert.Contains(t, out.String(), "did you mean")
	assert.Contains(t, out.String(), "order.bpmn")
}

func TestRunCheckMultipleFilesSummary(t *testing.T) {
	a := writeFixture(t, "a.bpmn", cleanSource)
	b := writeFixture(t, "b.bpmn", cleanSource)

	var out bytes.Buffer
	err := runCheck(&out, []string{a, b}, &checkOptions{format: "human", noColor: true})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 files checked")
}

func TestCountSummary(t *testing.T) {
	assert.Equal(t, "3 errors", countSummary(3, 0))
	assert.Equal(t, "1 errors, 2 warnings", countSummary(1, 2))
}
