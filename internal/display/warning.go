package display

import (
	"fmt"
	"io"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Paths      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning: a yellow header line, then indented
// detail lines with the paths bulleted the way tree output lists
// entries.
func (w Warning) Display(out io.Writer) {
	fmt.Fprintf(out, "\x1b[33mwarning: %s\x1b[0m\n", w.Title)
	if w.Message != "" {
		fmt.Fprintf(out, "  %s\n", w.Message)
	}
	for _, p := range w.Paths {
		fmt.Fprintf(out, "    - %s\n", p)
	}
	if w.Suggestion != "" {
		fmt.Fprintf(out, "  %s\n", w.Suggestion)
	}
}

// WarnScanErrors creates a warning for entries that failed to read
// during an analysis run. paths may be a sample; count is the full
// error tally.
func WarnScanErrors(count int, paths []string) Warning {
	w := Warning{
		Title:      "unreadable entries",
		Message:    fmt.Sprintf("%d entries could not be read and were skipped", count),
		Paths:      paths,
		Suggestion: "check permissions or add exclusion rules for these paths",
	}
	if count > len(paths) && len(paths) > 0 {
		w.Message = fmt.Sprintf("%d entries could not be read and were skipped, first %d shown", count, len(paths))
	}
	return w
}
