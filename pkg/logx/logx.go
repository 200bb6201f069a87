// Package logx is the leveled, structured logger used by every Vendia
// service. It writes console or JSON lines, is configured from the
// environment (LOG_LEVEL, LOG_FORMAT, LOG_COLOR), and exposes a package-level
// default logger alongside instance methods.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelOff
)

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
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to info on unknown input.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

// Fields is the structured payload attached to a log entry.
type Fields map[string]any

// Config controls logger behavior. Zero value is not usable; use
// DefaultConfig or LoadFromEnv.
type Config struct {
	Level        Level
	Format       Format
	EnableColors bool
	TimeFormat   string
	Output       io.Writer
}

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// DefaultConfig returns colored console output at info level.
func DefaultConfig() *Config {
	return &Config{
		Level:        LevelInfo,
		Format:       FormatConsole,
		EnableColors: true,
		TimeFormat:   time.RFC3339,
		Output:       os.Stdout,
	}
}

// LoadFromEnv builds a Config from LOG_LEVEL, LOG_FORMAT and LOG_COLOR.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := strings.ToLower(os.Getenv("LOG_FORMAT")); v == "json" {
		cfg.Format = FormatJSON
		cfg.EnableColors = false
	}
	if v := os.Getenv("LOG_COLOR"); v != "" {
		cfg.EnableColors = strings.EqualFold(v, "true") || v == "1"
	}
	return cfg
}

// Logger writes formatted entries to a single output.
type Logger struct {
	mu        sync.Mutex
	config    *Config
	formatter formatter
	exitFunc  func(int)
}

// NewLogger creates a logger with the given config (nil means defaults).
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	var f formatter
	if config.Format == FormatJSON {
		f = &jsonFormatter{config: config}
	} else {
		f = &consoleFormatter{config: config}
	}
	return &Logger{config: config, formatter: f, exitFunc: os.Exit}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

// SetOutput redirects the logger output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Output = w
}

func (l *Logger) log(level Level, msg string, fields Fields, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.config.Level {
		return
	}
	line, ferr := l.formatter.format(&entry{
		Level:     level,
		Message:   msg,
		Fields:    fields,
		Err:       err,
		Timestamp: time.Now(),
	})
	if ferr != nil {
		fmt.Fprintf(os.Stderr, "logx: format error: %v\n", ferr)
		return
	}
	if _, werr := l.config.Output.Write(line); werr != nil {
		fmt.Fprintf(os.Stderr, "logx: write error: %v\n", werr)
	}
}

// WithFields starts a chainable entry carrying structured fields.
func (l *Logger) WithFields(fields Fields) *Entry {
	return (&Entry{logger: l, fields: Fields{}}).WithFields(fields)
}

// WithField starts a chainable entry with a single field.
func (l *Logger) WithField(key string, value any) *Entry {
	return l.WithFields(Fields{key: value})
}

// WithError starts a chainable entry carrying an error.
func (l *Logger) WithError(err error) *Entry {
	return (&Entry{logger: l, fields: Fields{}}).WithError(err)
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg, nil, nil) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg, nil, nil) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg, nil, nil) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg, nil, nil) }
func (l *Logger) Fatal(msg string) {
	l.log(LevelFatal, msg, nil, nil)
	l.exitFunc(1)
}

var defaultLogger = NewLogger(LoadFromEnv())

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(logger *Logger) { defaultLogger = logger }

// SetLevel changes the package-level logger's minimum level.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

func Debug(msg string) { defaultLogger.log(LevelDebug, msg, nil, nil) }
func Info(msg string)  { defaultLogger.log(LevelInfo, msg, nil, nil) }
func Warn(msg string)  { defaultLogger.log(LevelWarn, msg, nil, nil) }
func Error(msg string) { defaultLogger.log(LevelError, msg, nil, nil) }
func Fatal(msg string) { defaultLogger.Fatal(msg) }

func Debugf(format string, args ...any) {
	defaultLogger.log(LevelDebug, fmt.Sprintf(format, args...), nil, nil)
}
func Infof(format string, args ...any) {
	defaultLogger.log(LevelInfo, fmt.Sprintf(format, args...), nil, nil)
}
func Warnf(format string, args ...any) {
	defaultLogger.log(LevelWarn, fmt.Sprintf(format, args...), nil, nil)
}
func Errorf(format string, args ...any) {
	defaultLogger.log(LevelError, fmt.Sprintf(format, args...), nil, nil)
}
func Fatalf(format string, args ...any) {
	defaultLogger.log(LevelFatal, fmt.Sprintf(format, args...), nil, nil)
	defaultLogger.exitFunc(1)
}

// WithFields starts a chainable entry on the package-level logger.
func WithFields(fields Fields) *Entry { return defaultLogger.WithFields(fields) }

// WithField starts a chainable entry on the package-level logger.
func WithField(key string, value any) *Entry { return defaultLogger.WithField(key, value) }

// WithError starts a chainable entry on the package-level logger.
func WithError(err error) *Entry { return defaultLogger.WithError(err) }
