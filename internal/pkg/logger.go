package pkg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LogLevel represents logging levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns string representation of log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a level name to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger represents a logger instance
type Logger struct {
	level  LogLevel
	logger *log.Logger
	prefix string
}

// NewLogger creates a new logger instance
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stdout, "", 0),
	}
}

// NewLoggerWithPrefix creates a new logger with prefix
func NewLoggerWithPrefix(level LogLevel, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stdout, "", 0),
		prefix: prefix,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	if l.level <= LevelDebug {
		l.log(LevelDebug, message, fields...)
	}
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	if l.level <= LevelInfo {
		l.log(LevelInfo, message, fields...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	if l.level <= LevelWarn {
		l.log(LevelWarn, message, fields...)
	}
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...map[string]interface{}) {
	if l.level <= LevelError {
		l.log(LevelError, message, fields...)
	}
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(LevelFatal, message, fields...)
	os.Exit(1)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.log(LevelInfo, fmt.Sprintf(format, args...))
	}
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.log(LevelError, fmt.Sprintf(format, args...))
	}
}

// Fatalf logs a formatted fatal message and exits
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(LevelFatal, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, message string, fields ...map[string]interface{}) {
	timestamp := time.Now().UTC()
	caller := l.getCaller()

	var allFields map[string]interface{}
	if len(fields) > 0 {
		allFields = fields[0]
	}

	l.logger.Print(l.formatMessage(timestamp, level, message, allFields, caller))
}

// formatMessage formats the log message
func (l *Logger) formatMessage(timestamp time.Time, level LogLevel, message string, fields map[string]interface{}, caller string) string {
	var parts []string

	parts = append(parts, timestamp.Format("2006-01-02T15:04:05.000Z"))
	parts = append(parts, fmt.Sprintf("[%s]", level.String()))

	if l.prefix != "" {
		parts = append(parts, fmt.Sprintf("[%s]", l.prefix))
	}
	if caller != "" {
		parts = append(parts, fmt.Sprintf("[%s]", caller))
	}

	parts = append(parts, message)

	if len(fields) > 0 {
		var fieldParts []string
		for k, v := range fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("{%s}", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// getCaller returns the caller information
func (l *Logger) getCaller() string {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
