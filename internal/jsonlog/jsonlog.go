// Package jsonlog implements structured JSON log entries with different severity levels.
// Only entries at or above a minimum severity level are logged.
package jsonlog

import (
	"encoding/json"
	"io"
	"runtime/debug"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelFatal
	LevelOff
)

// String returns a human-friendly string for the severity level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

// Logger writes one JSON object per line to out. A mutex serializes the writes.
type Logger struct {
	out      io.Writer
	minLevel Level
	mu       sync.Mutex
	now      func() time.Time
}

// New returns a new logger which writes entries at or above minLevel to out.
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{
		out:      out,
		minLevel: minLevel,
		now:      time.Now,
	}
}

// entry is the shape of a single log line.
type entry struct {
	Level      string            `json:"level"`
	Time       string            `json:"time"`
	Message    string            `json:"message"`
	Properties map[string]string `json:"properties,omitempty"`
	Trace      string            `json:"trace,omitempty"`
}

func (l *Logger) print(level Level, message string, properties map[string]string) (int, error) {
	if level < l.minLevel {
		return 0, nil
	}
	aux := entry{
		Level:      level.String(),
		Time:       l.now().UTC().Format(time.RFC3339),
		Message:    message,
		Properties: properties,
	}
	if level >= LevelError {
		aux.Trace = string(debug.Stack())
	}
	line, err := json.Marshal(aux)
	if err != nil {
		line = []byte(LevelError.String() + ": unable to marshal log message: " + err.Error())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(append(line, '\n'))
}

// Write lets the Logger act as an io.Writer, e.g. for http.Server.ErrorLog.
// Each write becomes an ERROR entry with no properties.
func (l *Logger) Write(message []byte) (n int, err error) {
	return l.print(LevelError, string(message), nil)
}

// PrintInfo writes an INFO entry.
func (l *Logger) PrintInfo(message string, properties map[string]string) {
	l.print(LevelInfo, message, properties)
}

// PrintWarn writes a WARN entry. Used for degraded but handled conditions.
func (l *Logger) PrintWarn(message string, properties map[string]string) {
	l.print(LevelWarn, message, properties)
}

// PrintError writes an ERROR entry.
func (l *Logger) PrintError(err error, properties map[string]string) {
	l.print(LevelError, err.Error(), properties)
}

// PrintFatal writes a FATAL entry. It does not exit the process: the caller must
// exit (or return) right after it, as main does with os.Exit(1).
func (l *Logger) PrintFatal(err error, properties map[string]string) {
	l.print(LevelFatal, err.Error(), properties)
}
