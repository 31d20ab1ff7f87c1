package mqttv3

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ColorLogger writes human-readable colored log lines. It is meant for
// command line tools and examples rather than production services.
type ColorLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  LogLevel
	fields LogFields
}

// NewColorLogger creates a logger writing colored output to w.
func NewColorLogger(w io.Writer, level LogLevel) *ColorLogger {
	if w == nil {
		w = os.Stdout
	}
	return &ColorLogger{
		out:    w,
		level:  level,
		fields: make(LogFields),
	}
}

// Debug logs a debug message.
func (c *ColorLogger) Debug(msg string, fields LogFields) {
	if c.level <= LogLevelDebug {
		c.log(color.MagentaString("DEBUG"), msg, fields)
	}
}

// Info logs an info message.
func (c *ColorLogger) Info(msg string, fields LogFields) {
	if c.level <= LogLevelInfo {
		c.log(color.BlueString("INFO"), msg, fields)
	}
}

// Warn logs a warning message.
func (c *ColorLogger) Warn(msg string, fields LogFields) {
	if c.level <= LogLevelWarn {
		c.log(color.YellowString("WARN"), msg, fields)
	}
}

// Error logs an error message.
func (c *ColorLogger) Error(msg string, fields LogFields) {
	if c.level <= LogLevelError {
		c.log(color.RedString("ERROR"), msg, fields)
	}
}

// WithFields returns a new logger with the given fields added.
func (c *ColorLogger) WithFields(fields LogFields) Logger {
	return &ColorLogger{
		out:    c.out,
		level:  c.level,
		fields: mergeFields(c.fields, fields),
	}
}

// Level returns the current log level.
func (c *ColorLogger) Level() LogLevel {
	return c.level
}

// SetLevel sets the log level.
func (c *ColorLogger) SetLevel(level LogLevel) {
	c.level = level
}

func (c *ColorLogger) log(level, msg string, fields LogFields) {
	line := fmt.Sprintf(
		"%s | %-5s | %s",
		color.GreenString(time.Now().Format("2006-01-02T15:04:05")),
		level,
		color.CyanString(msg),
	)

	if rendered := renderFields(mergeFields(c.fields, fields)); rendered != "" {
		line += " " + color.CyanString(rendered)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}
