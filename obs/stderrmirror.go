package obs

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
)

// mirrorCore is a minimal zapcore.Core writing the compact
// "SS.mmm|L|C|message" stderr format (§4.11): a test-facing aid that MUST
// NOT replace the JSON log, only supplement it via zapcore.NewTee. Custom
// Core rather than a custom Encoder since the target line shape (fixed
// fields, no structured tail) doesn't fit the Encoder contract any of the
// corpus's logging setups use.
type mirrorCore struct {
	level zapcore.LevelEnabler
	out   io.Writer
	name  string
}

func newMirrorCore(level zapcore.Level) zapcore.Core {
	return &mirrorCore{level: level, out: os.Stderr}
}

func (c *mirrorCore) Enabled(l zapcore.Level) bool { return c.level.Enabled(l) }

func (c *mirrorCore) With(fields []zapcore.Field) zapcore.Core {
	return c
}

func (c *mirrorCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *mirrorCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	line := formatMirrorLine(entry.Time, entry.Level, entry.LoggerName, entry.Message)
	_, err := fmt.Fprintln(c.out, line)
	return err
}

func (c *mirrorCore) Sync() error {
	if s, ok := c.out.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// category derives the single-letter "C" tag from the logger name, falling
// back to 'G' (general) when none was set via Logger.Named.
func category(loggerName string) byte {
	if loggerName == "" {
		return 'G'
	}
	c := loggerName[0]
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func levelLetter(l zapcore.Level) byte {
	switch l {
	case zapcore.DebugLevel:
		return 'D'
	case zapcore.InfoLevel:
		return 'I'
	case zapcore.WarnLevel:
		return 'W'
	case zapcore.ErrorLevel:
		return 'E'
	default:
		return 'F'
	}
}

func formatMirrorLine(t time.Time, level zapcore.Level, loggerName, message string) string {
	return fmt.Sprintf("%02d.%03d|%c|%c|%s",
		t.Second(), t.Nanosecond()/1_000_000,
		levelLetter(level), category(loggerName), message)
}
