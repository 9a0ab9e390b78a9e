package logger

import (
	"fmt"
	"sync"
)

// ScanMeter renders a single-line progress readout for a running
// analysis. Directory trees have no known total up front, so the meter
// shows running counters instead of a percentage bar.
type ScanMeter struct {
	dirs        int64
	files       int64
	comments    int64
	errors      int64
	enableColor bool
	prefix      string
	mu          sync.RWMutex
}

// NewScanMeter creates a new scan meter
func NewScanMeter(enableColor bool) *ScanMeter {
	return &ScanMeter{
		enableColor: enableColor,
		prefix:      "scanning ",
	}
}

// Update sets the current counter values
func (sm *ScanMeter) Update(dirs, files, comments, errors int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.dirs = dirs
	sm.files = files
	sm.comments = comments
	sm.errors = errors
}

// Files returns the current file counter
func (sm *ScanMeter) Files() int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.files
}

// SetPrefix sets a custom prefix for the rendered line
func (sm *ScanMeter) SetPrefix(prefix string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.prefix = prefix
}

// Render generates the one-line readout, suitable for printing with a
// carriage return between refreshes.
func (sm *ScanMeter) Render() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := fmt.Sprintf("%s%d dirs, %d files, %d comments", sm.prefix, sm.dirs, sm.files, sm.comments)
	if sm.errors > 0 {
		result += fmt.Sprintf(", %d errors", sm.errors)
	}

	if sm.enableColor && sm.errors > 0 {
		result = fmt.Sprintf("\033[33m%s\033[0m", result) // Yellow when errors were recorded
	} else if sm.enableColor {
		result = fmt.Sprintf("\033[36m%s\033[0m", result) // Cyan while in progress
	}

	return result
}
