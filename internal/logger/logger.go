// Package logger is the zerolog setup shared by the CLI, the generator and
// the preview server. Commands log to stderr in console format; the preview
// server is usually started with format json.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field names shared by every component.
const (
	FieldRunID = "run_id"
	FieldTable = "table"
	FieldDB    = "db"
)

// Logger is a leveled zerolog logger.
type Logger struct {
	z zerolog.Logger
}

// Config is the log section of the config file.
type Config struct {
	Level      string    `mapstructure:"level"`       // debug|info|warn|error|disabled
	Format     string    `mapstructure:"format"`      // console|json
	TimeFormat string    `mapstructure:"time_format"` // rfc3339|unix|unixms|unixmicro
	NoColor    bool      `mapstructure:"no_color"`
	Output     io.Writer `mapstructure:"-"`
}

// DefaultConfig is info level console logging on stderr.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", TimeFormat: "rfc3339", Output: os.Stderr}
}

var timeFormats = map[string]string{
	"unix":      zerolog.TimeFormatUnix,
	"unixms":    zerolog.TimeFormatUnixMs,
	"unixmicro": zerolog.TimeFormatUnixMicro,
}

// New builds a logger from cfg; nil means DefaultConfig. Unknown levels fall
// back to info.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}

	if f, ok := timeFormats[cfg.TimeFormat]; ok {
		zerolog.TimeFieldFormat = f
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: cfg.NoColor}
	}
	return &Logger{z: zerolog.New(w).Level(levelOf(cfg.Level)).With().Timestamp().Logger()}
}

func levelOf(s string) zerolog.Level {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "off":
		return zerolog.Disabled
	case "", "trace", "fatal", "panic":
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop discards everything.
func Nop() *Logger { return &Logger{z: zerolog.Nop()} }

// ForRun returns a child logger tagged with a generation run. db is omitted
// when empty.
func (l *Logger) ForRun(runID, db, table string) *Logger {
	c := l.With().Str(FieldRunID, runID)
	if db != "" {
		c = c.Str(FieldDB, db)
	}
	return c.Str(FieldTable, table).Logger()
}

// WithContext stores l in ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.z.WithContext(ctx)
}

// FromContext returns the logger stored in ctx or the global one.
func FromContext(ctx context.Context) *Logger {
	if z := zerolog.Ctx(ctx); z != nil && z.GetLevel() != zerolog.Disabled {
		return &Logger{z: *z}
	}
	return global
}

// Context accumulates fields for a child logger.
type Context struct {
	zc zerolog.Context
}

func (l *Logger) With() *Context { return &Context{zc: l.z.With()} }

func (c *Context) Str(key, val string) *Context {
	c.zc = c.zc.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.zc = c.zc.Int(key, val)
	return c
}

func (c *Context) Bool(key string, val bool) *Context {
	c.zc = c.zc.Bool(key, val)
	return c
}

func (c *Context) Err(err error) *Context {
	c.zc = c.zc.Err(err)
	return c
}

func (c *Context) Any(key string, val any) *Context {
	c.zc = c.zc.Interface(key, val)
	return c
}

func (c *Context) Logger() *Logger { return &Logger{z: c.zc.Logger()} }

func (l *Logger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.z.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.z.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.z.Error().Msg(msg) }

func (l *Logger) Debugf(format string, args ...any) { l.z.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.z.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.z.Warn().Msgf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.z.Error().Msgf(format, args...) }

// HTTPEvent starts the info event of a request log line.
func (l *Logger) HTTPEvent() *zerolog.Event { return l.z.Info() }

var global = New(nil)

// L is the process logger. The CLI replaces it after loading the config.
func L() *Logger { return global }

// SetGlobal replaces the process logger; nil is ignored.
func SetGlobal(l *Logger) {
	if l != nil {
		global = l
	}
}
