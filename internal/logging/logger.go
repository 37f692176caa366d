package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger writes leveled lines ("INFO: ", "WARN: ", "ERROR: ") to a file or any writer.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
}

// NewLogger opens (or creates) the log file at path in append mode.
func NewLogger(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return &Logger{file: file, logger: log.New(file, "", log.LstdFlags)}, nil
}

// New logs to w.
func New(w io.Writer) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags)}
}

// Stderr is the default diagnostic channel.
func Stderr() *Logger { return New(os.Stderr) }

// Discard drops everything.
func Discard() *Logger { return New(io.Discard) }

func (l *Logger) Info(msg string)  { l.print("INFO: ", msg) }
func (l *Logger) Warn(msg string)  { l.print("WARN: ", msg) }
func (l *Logger) Error(msg string) { l.print("ERROR: ", msg) }

func (l *Logger) Infof(format string, args ...any)  { l.print("INFO: ", fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.print("WARN: ", fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.print("ERROR: ", fmt.Sprintf(format, args...)) }

// Close closes the underlying file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

func (l *Logger) print(prefix, msg string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Println(msg)
}
