// Package display provides terminal UI utilities for rendering analysis
// trees, summaries, and user-facing warnings.
//
// This package centralizes terminal output formatting and ANSI color
// codes for the treescout CLI.
//
// # Tree Rendering
//
// Use TreeRenderer to print a finished analysis tree:
//
//	renderer := display.NewTreeRenderer(os.Stdout, display.TreeOptions{Color: true})
//	renderer.Render(result.Tree)
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Unreadable entries",
//	    Message:    "3 entries could not be read and were skipped",
//	    Paths:      []string{"secrets/", "tmp/socket"},
//	    Suggestion: "Re-run with elevated permissions or exclude these paths",
//	}
//	warning.Display(os.Stderr)
package display
