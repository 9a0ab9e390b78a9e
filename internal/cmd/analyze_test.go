package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject builds a small annotated project under a temp dir.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"main.go":             "package main\n\n// GynTree: application entry point\nfunc main() {}\n",
		"README.md":           "# demo\n",
		"src/handler.py":      "# GynTree: request handlers\nimport os\n",
		"src/util.py":         "import sys\n",
		"node_modules/x/a.js": "var a = 1\n",
	}
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	rules := "manual:\n  - text: node_modules\n    kind: glob\n    scope: dir\n"
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".treescout"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".treescout", "rules.yaml"), []byte(rules), 0o644))

	return root
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	root := writeProject(t)

	out, err := runCLI(t, "analyze", root)
	require.NoError(t, err)

	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "src/")
	assert.Contains(t, out, "handler.py")
	// Excluded entries are hidden by default.
	assert.NotContains(t, out, "node_modules")
	// Summary line.
	assert.Contains(t, out, "comments")
}

func TestAnalyzeShowExcluded(t *testing.T) {
	root := writeProject(t)

	out, err := runCLI(t, "analyze", "--show-excluded", root)
	require.NoError(t, err)
	assert.Contains(t, out, "node_modules/ [excluded]")
}

func TestAnalyzeInlineComments(t *testing.T) {
	root := writeProject(t)

	out, err := runCLI(t, "analyze", "--comments", root)
	require.NoError(t, err)
	assert.Contains(t, out, "application entry point")
	assert.Contains(t, out, "request handlers")
}

func TestAnalyzeMissingRoot(t *testing.T) {
	_, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestAnalyzeBadMaxFileSize(t *testing.T) {
	root := writeProject(t)
	_, err := runCLI(t, "analyze", "--max-file-size", "12parsecs", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid max-file-size")
}

func TestAnalyzeBadRulesFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".treescout"), 0o755))
	bad := "manual:\n  - text: '['\n    kind: glob\n    scope: file\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".treescout", "rules.yaml"), []byte(bad), 0o644))

	_, err := runCLI(t, "analyze", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules file")
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	root := writeProject(t)

	_, err := runCLI(t, "analyze", root)
	require.NoError(t, err)

	// History is enabled by default and lands under the project root.
	_, statErr := os.Stat(filepath.Join(root, ".treescout", "history.db"))
	assert.NoError(t, statErr)

	out, err := runCLI(t, "history", root)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	abs, _ := filepath.Abs(root)
	assert.Contains(t, out, abs)
}

func TestAnalyzeWorkersFlagMatchesSequential(t *testing.T) {
	root := writeProject(t)

	seq, err := runCLI(t, "analyze", root)
	require.NoError(t, err)
	par, err := runCLI(t, "analyze", "--workers", "4", root)
	require.NoError(t, err)

	// History timestamps go to the database, not stdout, so the two
	// renderings must be byte-identical.
	assert.Equal(t, seq, par)
}

func TestHistoryDisabled(t *testing.T) {
	root := writeProject(t)
	cfg := "history:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".treescout", "config.yaml"), []byte(cfg), 0o644))

	_, err := runCLI(t, "history", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func TestHistoryEmpty(t *testing.T) {
	root := writeProject(t)

	out, err := runCLI(t, "history", root)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No recorded runs."))
}
