package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type formatter interface {
	format(e *entry) ([]byte, error)
}

// ANSI escape codes for console output.
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

type consoleFormatter struct {
	config *Config
}

func (f *consoleFormatter) format(e *entry) ([]byte, error) {
	var b strings.Builder

	ts := e.Timestamp.Format(f.config.TimeFormat)
	if f.config.EnableColors {
		b.WriteString(colorGray + ts + colorReset)
	} else {
		b.WriteString(ts)
	}
	b.WriteString(" ")

	level := fmt.Sprintf("%-5s", e.Level)
	if f.config.EnableColors {
		b.WriteString(f.levelColor(e.Level) + level + colorReset)
	} else {
		b.WriteString(level)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if f.config.EnableColors {
				b.WriteString(" " + colorCyan + k + colorReset + "=")
			} else {
				b.WriteString(" " + k + "=")
			}
			fmt.Fprintf(&b, "%v", e.Fields[k])
		}
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *consoleFormatter) levelColor(l Level) string {
	switch l {
	case LevelDebug:
		return colorGray
	case LevelInfo:
		return colorGreen
	case LevelWarn:
		return colorYellow
	case LevelError, LevelFatal:
		return colorBold + colorRed
	default:
		return colorReset
	}
}

type jsonFormatter struct {
	config *Config
}

func (f *jsonFormatter) format(e *entry) ([]byte, error) {
	payload := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		payload[k] = v
	}
	payload["time"] = e.Timestamp.Format(f.config.TimeFormat)
	payload["level"] = e.Level.String()
	payload["message"] = e.Message

	line, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}
