package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/treescout/internal/analyzer"
)

// TreeOptions controls tree rendering
type TreeOptions struct {
	// Color enables ANSI color markers.
	Color bool
	// ShowComments prints extracted purpose comments under each file.
	ShowComments bool
	// ShowExcluded keeps excluded entries in the listing, marked.
	ShowExcluded bool
}

// TreeRenderer prints an analysis tree in the familiar tree(1) layout
type TreeRenderer struct {
	out  io.Writer
	opts TreeOptions
}

// NewTreeRenderer creates a renderer writing to out
func NewTreeRenderer(out io.Writer, opts TreeOptions) *TreeRenderer {
	return &TreeRenderer{out: out, opts: opts}
}

// Render prints the whole tree rooted at node
func (r *TreeRenderer) Render(node *analyzer.Node) {
	fmt.Fprintf(r.out, "%s\n", r.label(node))
	r.renderChildren(node, "")
}

func (r *TreeRenderer) renderChildren(node *analyzer.Node, prefix string) {
	children := node.Children
	if !r.opts.ShowExcluded {
		kept := make([]*analyzer.Node, 0, len(children))
		for _, c := range children {
			if !c.Excluded {
				kept = append(kept, c)
			}
		}
		children = kept
	}

	for i, child := range children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		fmt.Fprintf(r.out, "%s%s%s\n", prefix, connector, r.label(child))

		if r.opts.ShowComments {
			for _, c := range child.Comments {
				fmt.Fprintf(r.out, "%s%s\n", childPrefix, r.comment(c.Text))
			}
		}

		r.renderChildren(child, childPrefix)
	}
}

// label formats one node name with its status markers
func (r *TreeRenderer) label(node *analyzer.Node) string {
	name := node.Name
	if node.Kind == analyzer.KindDir && name != "." {
		name += "/"
	}

	var markers []string
	if node.Excluded {
		markers = append(markers, "excluded")
	}
	if node.Cycle {
		markers = append(markers, "cycle")
	}
	if node.TooLarge {
		markers = append(markers, "too large")
	}
	if node.Err != "" {
		markers = append(markers, "error: "+node.Err)
	}
	if node.Kind == analyzer.KindSymlink && !node.Cycle {
		markers = append(markers, "symlink")
	}

	if len(markers) == 0 {
		return name
	}

	suffix := " [" + strings.Join(markers, ", ") + "]"
	if r.opts.Color {
		switch {
		case node.Err != "":
			suffix = "\x1b[31m" + suffix + "\x1b[0m"
		case node.Excluded:
			suffix = "\x1b[90m" + suffix + "\x1b[0m"
		default:
			suffix = "\x1b[33m" + suffix + "\x1b[0m"
		}
	}
	return name + suffix
}

// comment formats an extracted purpose comment line
func (r *TreeRenderer) comment(text string) string {
	line := "» " + text
	if r.opts.Color {
		return "\x1b[36m" + line + "\x1b[0m"
	}
	return line
}
