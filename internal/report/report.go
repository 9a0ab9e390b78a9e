// Package report renders comment summaries for a finished analysis,
// as markdown or as a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/treescout/internal/analyzer"
	"github.com/harrison/treescout/internal/comment"
)

// Options controls what the report includes
type Options struct {
	// Title overrides the default report heading.
	Title string
	// MissingOnly restricts the report to files without any purpose
	// comment, for annotation triage.
	MissingOnly bool
}

// Builder renders analysis results. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	markdown goldmark.Markdown
	opts     Options
}

// NewBuilder creates a report builder
func NewBuilder(opts Options) *Builder {
	return &Builder{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		opts:     opts,
	}
}

// Markdown renders the comment summary for a completed result.
func (b *Builder) Markdown(res *analyzer.Result) (string, error) {
	if res.Tree == nil {
		return "", fmt.Errorf("result for %s has no tree (status %s)", res.Root, res.Status)
	}

	index := res.Tree.CommentIndex()
	annotated, missing := partition(index)

	var sb strings.Builder

	title := b.opts.Title
	if title == "" {
		title = "Purpose Comment Report"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Root: `%s`  \n", res.Root)
	fmt.Fprintf(&sb, "Analyzed: %s  \n", res.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Files: %d, comments: %d, without comments: %d\n\n",
		res.Stats.Files, res.Stats.Comments, len(missing))

	if !b.opts.MissingOnly {
		sb.WriteString("## Comments\n\n")
		if len(annotated) == 0 {
			sb.WriteString("No purpose comments found.\n\n")
		}
		for _, path := range annotated {
			fmt.Fprintf(&sb, "### `%s`\n\n", path)
			for _, c := range index[path] {
				fmt.Fprintf(&sb, "- line %d: %s\n", c.Line, c.Text)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Files Without Comments\n\n")
	if len(missing) == 0 {
		sb.WriteString("Every analyzed file carries a purpose comment.\n")
	}
	for _, path := range missing {
		fmt.Fprintf(&sb, "- `%s`\n", path)
	}

	return sb.String(), nil
}

// HTML renders the markdown report as a standalone HTML page.
func (b *Builder) HTML(res *analyzer.Result) ([]byte, error) {
	md, err := b.Markdown(res)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := b.markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("convert report to HTML: %w", err)
	}

	title := b.opts.Title
	if title == "" {
		title = "Purpose Comment Report"
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto;padding:0 1em}code{background:#f2f2f2;padding:0 .2em}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.Bytes(), nil
}

// partition splits the comment index into sorted annotated and
// unannotated path lists.
func partition(index map[string][]comment.PurposeComment) (annotated, missing []string) {
	for path, comments := range index {
		if len(comments) > 0 {
			annotated = append(annotated, path)
		} else {
			missing = append(missing, path)
		}
	}
	sort.Strings(annotated)
	sort.Strings(missing)
	return annotated, missing
}
