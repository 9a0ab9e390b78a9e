package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/treescout/internal/analyzer"
	"github.com/harrison/treescout/internal/comment"
)

func sampleResult() *analyzer.Result {
	tree := &analyzer.Node{
		Name: ".", Path: ".", Kind: analyzer.KindDir,
		Children: []*analyzer.Node{
			{
				Name: "main.go", Path: "main.go", Kind: analyzer.KindFile,
				Comments: []comment.PurposeComment{
					{Text: "entry point", Path: "main.go", Line: 1},
				},
			},
			{Name: "util.go", Path: "util.go", Kind: analyzer.KindFile},
			{
				Name: "src", Path: "src", Kind: analyzer.KindDir,
				Children: []*analyzer.Node{
					{
						Name: "app.py", Path: "src/app.py", Kind: analyzer.KindFile,
						Comments: []comment.PurposeComment{
							{Text: "request handlers", Path: "src/app.py", Line: 3},
							{Text: "startup wiring", Path: "src/app.py", Line: 40},
						},
					},
				},
			},
		},
	}
	return &analyzer.Result{
		RunID:     "run-1",
		Root:      "/proj/demo",
		Status:    analyzer.StatusCompleted,
		Tree:      tree,
		Stats:     tree.CollectStats(),
		StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestMarkdownReport(t *testing.T) {
	b := NewBuilder(Options{})
	md, err := b.Markdown(sampleResult())
	require.NoError(t, err)

	assert.Contains(t, md, "# Purpose Comment Report")
	assert.Contains(t, md, "Root: `/proj/demo`")
	assert.Contains(t, md, "### `main.go`")
	assert.Contains(t, md, "- line 1: entry point")
	assert.Contains(t, md, "- line 40: startup wiring")

	// util.go has no comments: listed in the missing section only.
	assert.Contains(t, md, "## Files Without Comments")
	assert.Contains(t, md, "- `util.go`")
	assert.NotContains(t, md, "### `util.go`")

	// Annotated sections come in sorted path order.
	assert.Less(t, strings.Index(md, "### `main.go`"), strings.Index(md, "### `src/app.py`"))
}

func TestMarkdownMissingOnly(t *testing.T) {
	b := NewBuilder(Options{MissingOnly: true})
	md, err := b.Markdown(sampleResult())
	require.NoError(t, err)

	assert.NotContains(t, md, "## Comments")
	assert.Contains(t, md, "- `util.go`")
	assert.NotContains(t, md, "entry point")
}

func TestMarkdownCustomTitle(t *testing.T) {
	b := NewBuilder(Options{Title: "Demo Annotations"})
	md, err := b.Markdown(sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Demo Annotations\n"))
}

func TestMarkdownNoTree(t *testing.T) {
	b := NewBuilder(Options{})
	_, err := b.Markdown(&analyzer.Result{Root: "/x", Status: analyzer.StatusFailed})
	assert.Error(t, err)
}

func TestHTMLReport(t *testing.T) {
	b := NewBuilder(Options{Title: "Demo <Annotations>"})
	page, err := b.HTML(sampleResult())
	require.NoError(t, err)

	out := string(page)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Demo &lt;Annotations&gt;</title>")
	assert.Contains(t, out, "entry point")
	assert.Contains(t, out, "<h1")
}

func TestMarkdownAllAnnotated(t *testing.T) {
	res := sampleResult()
	// Annotate the one bare file.
	res.Tree.Children[1].Comments = []comment.PurposeComment{
		{Text: "shared helpers", Path: "util.go", Line: 2},
	}
	res.Stats = res.Tree.CollectStats()

	b := NewBuilder(Options{})
	md, err := b.Markdown(res)
	require.NoError(t, err)
	assert.Contains(t, md, "Every analyzed file carries a purpose comment.")
}
