package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes clean lines to the console and levelled, timestamped lines to a log file.
type Logger struct {
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	verbose  bool
	minLevel Level

	mu      sync.Mutex
	skipped map[string]int
}

var global *Logger

// Init initializes the global logger.
// console receives INFO and above (DEBUG too when verbose); logFilePath receives everything.
func Init(console io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	global = &Logger{
		console:  log.New(console, "", 0),
		file:     log.New(f, "", log.LstdFlags),
		logFile:  f,
		verbose:  verbose,
		minLevel: minLevel,
		skipped:  make(map[string]int),
	}
	return nil
}

// Close flushes and closes the log file. The logger falls back to stdout afterwards.
func Close() {
	if global != nil && global.logFile != nil {
		global.logFile.Close()
	}
	global = nil
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...interface{}) {
	if global == nil {
		return
	}
	global.log(LevelDebug, format, args...)
}

// Info logs an info message (console + file)
func Info(format string, args ...interface{}) {
	if global == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	global.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...interface{}) {
	if global == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	global.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...interface{}) {
	if global == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	global.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	l.file.Printf("[%s] %s", level, message)

	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		l.console.Printf("[DEBUG] %s", message)
	case LevelInfo:
		l.console.Printf("%s", message)
	case LevelWarn:
		l.console.Printf("⚠️  %s", message)
	case LevelError:
		l.console.Printf("❌ %s", message)
	}
}

// InfoClean writes to the console only. Used for banners and tables.
func InfoClean(format string, args ...interface{}) {
	if global == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	global.console.Printf(format, args...)
}

// LogSkippedFile records a source file that was excluded from the run.
// Details go to the log file; the console only sees the tally from SkippedSummary.
func LogSkippedFile(path, reason string) {
	if global == nil {
		return
	}
	global.file.Printf("[SKIP] %s: %s", path, reason)

	global.mu.Lock()
	global.skipped[reason]++
	global.mu.Unlock()

	if global.verbose {
		global.console.Printf("[DEBUG] skipped %s (%s)", path, reason)
	}
}

// SkippedSummary returns "reason: count" lines sorted by reason.
func SkippedSummary() []string {
	if global == nil {
		return nil
	}
	global.mu.Lock()
	defer global.mu.Unlock()

	reasons := make([]string, 0, len(global.skipped))
	for r := range global.skipped {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	lines := make([]string, 0, len(reasons))
	for _, r := range reasons {
		lines = append(lines, fmt.Sprintf("%s: %d", r, global.skipped[r]))
	}
	return lines
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if global != nil && global.logFile != nil {
		return global.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	if global == nil {
		return false
	}
	return global.verbose
}
