// Package logger configures charmbracelet/log for typesearch and builds
// prefixed loggers for its components.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a prefixed child of the default logger, so it shares the output,
// level and formatter installed by Setup.
func New(prefix string) *log.Logger {
	return log.Default().WithPrefix(prefix)
}

// NewWithConfig creates a charm logger with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}

// ParseFormatter maps a config value to a formatter. Empty means text.
func ParseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q", name)
}

// Setup installs the default logger. debug overrides level with DebugLevel
// and turns timestamps on.
func Setup(w io.Writer, level, format string, debug bool) error {
	lvl := log.WarnLevel
	var errs []string
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			lvl = parsed
		}
	}
	if debug {
		lvl = log.DebugLevel
	}

	formatter, err := ParseFormatter(format)
	if err != nil {
		errs = append(errs, err.Error())
	}

	log.SetDefault(NewWithConfig(w, "", lvl, debug, formatter))
	if len(errs) > 0 {
		return fmt.Errorf("logger setup: %s", strings.Join(errs, "; "))
	}
	return nil
}
