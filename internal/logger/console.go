// Package logger provides leveled, timestamped console logging for
// treescout runs. Loggers are thread-safe; color output is enabled
// automatically when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes level-filtered messages prefixed with [HH:MM:SS]
// timestamps. A nil writer silently discards output.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to w at the given
// level. Valid levels: trace, debug, info, warn, error (case-insensitive);
// empty or invalid levels default to "info".
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(w),
	}
}

// isTerminal reports whether the writer is a color-capable terminal.
// color.NoColor already folds in TTY detection and the NO_COLOR env var.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logf writes one timestamped line, optionally colored.
func (cl *ConsoleLogger) logf(level string, c *color.Color, format string, args ...interface{}) {
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	if cl.colorOutput && c != nil {
		msg = c.Sprint(msg)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", timestamp, msg)
}

// Tracef logs at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...interface{}) {
	cl.logf("trace", nil, format, args...)
}

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.logf("debug", nil, format, args...)
}

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logf("info", nil, format, args...)
}

// Warnf logs at warn level in yellow.
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logf("warn", color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level in red.
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.logf("error", color.New(color.FgRed), format, args...)
}

// Successf logs at info level in green, for completion messages.
func (cl *ConsoleLogger) Successf(format string, args ...interface{}) {
	cl.logf("info", color.New(color.FgGreen), format, args...)
}
