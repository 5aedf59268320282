package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csvlens/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "ERROR"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProfileCommandPrintsTables(t *testing.T) {
	out, err := run(t, "profile", writeFile(t, "mixed.csv", testkit.MixedCSV), "--preview", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "PROFILE: mixed.csv")
	assert.Contains(t, out, "NUMERIC SUMMARY")
	assert.Contains(t, out, "CATEGORICAL SUMMARY")
	assert.Contains(t, out, "┌")
}

func TestProfileCommandJSON(t *testing.T) {
	path := writeFile(t, "s.csv", testkit.ScenarioCSV)
	out, err := run(t, "profile", path, "-c", "a", "-c", "b", "-k", "ScatterMatrix", "--json")
	require.NoError(t, err)

	var res struct {
		Rows   int `json:"rows"`
		Charts []struct {
			Kind string `json:"kind"`
		} `json:"charts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 6, res.Rows)
	require.Len(t, res.Charts, 1)
	assert.Equal(t, "ScatterMatrix", res.Charts[0].Kind)
}

func TestProfileCommandErrors(t *testing.T) {
	_, err := run(t, "profile", writeFile(t, "r.csv", testkit.RaggedCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	_, err = run(t, "profile", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestChartCommand(t *testing.T) {
	path := writeFile(t, "s.csv", testkit.ScenarioCSV)

	out, err := run(t, "chart", path, "-k", "BoxPlot", "-c", "a")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind":"BoxPlot"`)

	svg := filepath.Join(t.TempDir(), "box.svg")
	_, err = run(t, "chart", path, "-k", "BoxPlot", "-c", "a", "--format", "svg", "-o", svg)
	require.NoError(t, err)
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, err = run(t, "chart", path, "-k", "BoxPlot", "-c", "a", "--format", "png")
	assert.Error(t, err)
}

func TestExportAndReportCommands(t *testing.T) {
	path := writeFile(t, "mixed.csv", testkit.MixedCSV)
	book := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := run(t, "export", path, "-o", book)
	require.NoError(t, err)
	f, err := excelize.OpenFile(book)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Correlation")

	out, err := run(t, "report", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Profile of mixed.csv"))

	out, err = run(t, "report", path, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
}

func TestDemoCommandFeedsProfile(t *testing.T) {
	demo := filepath.Join(t.TempDir(), "demo.csv")
	_, err := run(t, "demo", "--customers", "40", "--seed", "7", "-o", demo)
	require.NoError(t, err)

	out, err := run(t, "profile", demo)
	require.NoError(t, err)
	assert.Contains(t, out, "total_spend")

	_, err = run(t, "demo", "--missing-rate", "1.5")
	assert.Error(t, err)
}
