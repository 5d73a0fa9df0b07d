package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger handles leveled logging with optional file output.
type Logger struct {
	Verbose bool
	writer  io.Writer
	mu      sync.Mutex
	file    *os.File
	hasBar  bool
}

// New creates a new Logger instance writing to stdout.
func New(verbose bool) *Logger {
	return &Logger{
		Verbose: verbose,
		writer:  os.Stdout,
	}
}

// SetFileLog enables logging to a file. File lines carry timestamps;
// terminal output does not.
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = f
	return nil
}

// SetProgressBar indicates that a progress bar is active, which
// suppresses non-verbose terminal output so the bar stays intact.
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log file if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...any) {
	l.log("INFO", format, args...)
}

// Debug logs detailed messages only in verbose mode. With file
// logging enabled, debug lines always reach the file.
func (l *Logger) Debug(format string, args ...any) {
	if l.Verbose {
		l.log("DEBUG", format, args...)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile("DEBUG", format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error logs error messages to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
	l.writeFile("ERROR", format, args...)
}

func (l *Logger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var msg string
	if level == "INFO" {
		msg = fmt.Sprintf(format+"\n", args...)
	} else {
		msg = fmt.Sprintf("["+level+"] "+format+"\n", args...)
	}

	if l.Verbose || !l.hasBar {
		fmt.Fprint(l.writer, msg)
	}
	l.writeFile(level, format, args...)
}

// writeFile appends a timestamped line to the log file. Caller holds l.mu.
func (l *Logger) writeFile(level, format string, args ...any) {
	if l.file == nil {
		return
	}
	line := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))
	l.file.WriteString(line)
}
