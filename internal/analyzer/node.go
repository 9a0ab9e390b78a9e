// Package analyzer walks a project tree, applies exclusion rules at every
// node, extracts purpose comments from included files, and assembles a
// deterministic result tree. The Runner type executes analyses on a
// background goroutine with progress reporting and cooperative
// cancellation.
package analyzer

import (
	"github.com/harrison/treescout/internal/comment"
)

// NodeKind classifies a node in the result tree.
type NodeKind int

const (
	// KindFile is a regular file.
	KindFile NodeKind = iota
	// KindDir is a directory.
	KindDir
	// KindSymlink is a symbolic link recorded as a leaf, either because
	// link following is disabled or because following it would revisit
	// an ancestor.
	KindSymlink
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Node is one entry of the analysis result tree. A tree is built fresh per
// run and never mutated afterwards; a node's Excluded flag is computed once
// at creation.
//
// An excluded directory still appears in the tree, as a leaf, so callers
// can show what was skipped; its children are never traversed. Nodes that
// failed to read carry the error text in Err and traversal continues with
// their siblings.
type Node struct {
	// Name is the base name of the entry.
	Name string
	// Path is the path relative to the analysis root, normalized; the
	// root node's Path is ".".
	Path string
	// Kind classifies the node.
	Kind NodeKind
	// Excluded marks nodes matched by the rule set. Excluded files are
	// never opened; excluded directories are never descended into.
	Excluded bool
	// Cycle marks a followed symlink whose target is an ancestor already
	// on the traversal stack.
	Cycle bool
	// TooLarge marks files over the maximum-file-size guard. They are
	// listed with zero comments but are not errors.
	TooLarge bool
	// Err carries a per-node read failure (permission denied, vanished
	// file). Empty for healthy nodes.
	Err string
	// Comments are the purpose comments extracted from a file, in file
	// order. Nil for directories and skipped files.
	Comments []comment.PurposeComment
	// Children holds a directory's entries: files first, then
	// subdirectories, each group in lexicographic name order.
	Children []*Node
}

// Walk visits the node and all descendants depth-first in tree order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CommentIndex returns the flat mapping from file path to extracted
// purpose comments, for comment-summary views. Files with no comments
// appear with a nil slice so callers can report unannotated files.
func (n *Node) CommentIndex() map[string][]comment.PurposeComment {
	index := make(map[string][]comment.PurposeComment)
	n.Walk(func(node *Node) {
		if node.Kind == KindFile && !node.Excluded {
			index[node.Path] = node.Comments
		}
	})
	return index
}

// Stats summarizes a finished tree.
type Stats struct {
	Dirs     int
	Files    int
	Comments int
	Excluded int
	Errors   int
}

// CollectStats tallies node counts over the whole tree.
func (n *Node) CollectStats() Stats {
	var s Stats
	n.Walk(func(node *Node) {
		switch {
		case node.Excluded:
			s.Excluded++
		case node.Kind == KindDir:
			s.Dirs++
		case node.Kind == KindFile:
			s.Files++
			s.Comments += len(node.Comments)
		}
		if node.Err != "" {
			s.Errors++
		}
	})
	return s
}
