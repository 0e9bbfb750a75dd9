package logging

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text, simple, or compact
}

const timestampFormat = "2006-01-02 15:04:05"

// formatters maps every supported format name to a constructor.
var formatters = map[string]func() logrus.Formatter{
	"json": func() logrus.Formatter {
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	},
	"text": func() logrus.Formatter {
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat}
	},
	"simple": func() logrus.Formatter {
		return &CompactFormatter{ShowTime: false}
	},
	"compact": func() logrus.Formatter {
		return &CompactFormatter{ShowTime: true}
	},
}

// IsValidFormat reports whether format names a supported log format.
// The empty format selects text.
func IsValidFormat(format string) bool {
	if format == "" {
		return true
	}
	_, ok := formatters[strings.ToLower(format)]
	return ok
}

// bracketFields are printed in brackets before the message by
// CompactFormatter, in this order.
var bracketFields = []string{"component", "document", "interface"}

// CompactFormatter implements a custom formatter for compact logging
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		fmt.Fprintf(b, "[%s]", entry.Time.Format("15:04:05"))
	}
	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String()))

	pinned := make(map[string]bool, len(bracketFields))
	for _, key := range bracketFields {
		pinned[key] = true
		if v, ok := entry.Data[key]; ok {
			fmt.Fprintf(b, "[%v]", v)
		}
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	// Remaining fields in sorted order
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if !pinned[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%v", key, entry.Data[key])
		}
		b.WriteString(")")
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger initializes the global logger with the provided configuration.
// Logs go to stderr, stdout is left to command output.
func InitLogger(config LogConfig) {
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("Invalid log level '%s', defaulting to 'info'", config.Level)
	}
	Logger.SetLevel(level)

	format := strings.ToLower(config.Format)
	if format == "" {
		format = "text"
	}
	newFormatter, ok := formatters[format]
	if !ok {
		newFormatter = formatters["text"]
		Logger.Warnf("Invalid log format '%s', defaulting to 'text'", config.Format)
	}
	Logger.SetFormatter(newFormatter())

	Logger.Debugf("Logger initialized with level: %s, format: %s", level.String(), config.Format)
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		// Initialize with default config if not already initialized
		InitLogger(LogConfig{
			Level:  "info",
			Format: "text",
		})
	}
	return Logger
}

// Helper functions for common logging patterns
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

func WithInterface(iface string) *logrus.Entry {
	return GetLogger().WithField("interface", iface)
}

func WithComponentAndInterface(component, iface string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"interface": iface,
	})
}

func WithDocument(component, document string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"document":  document,
	})
}

func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
