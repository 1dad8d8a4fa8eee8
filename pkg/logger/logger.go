package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logger used across the service. Warn and error
// entries are also fed to the optional collector.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	out, err := openOutput(orDefault(cfg.Output, "stdout"))
	if err != nil {
		return nil, err
	}

	timeFormat := orDefault(cfg.TimeFormat, time.RFC3339Nano)
	zerolog.TimeFieldFormat = timeFormat
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()
	return &Logger{zl: zl}, nil
}

func openOutput(name string) (io.Writer, error) {
	switch name {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// NewWithWriter builds a JSON logger on w, mainly for tests and the CLI.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger with fields attached to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.key, f.plain())
	}
	return &Logger{zl: ctx.Logger(), collector: l.collector}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.write(l.zl.Debug(), msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { l.write(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) {
	l.write(l.zl.Warn(), msg, fields)
	l.collect("warn", msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.write(l.zl.Error(), msg, fields)
	l.collect("error", msg, fields)
}

func (l *Logger) write(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		f.addTo(e)
	}
	e.Msg(msg)
}

// collect must be called directly from Warn or Error so the caller frame resolves.
func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}

	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		if i := strings.LastIndex(file, "MarketGate"); i >= 0 {
			file = file[i+len("MarketGate"):]
		}
		caller = fmt.Sprintf("%s:%d", file, line)
	}

	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.key] = f.plain()
	}
	l.collector.AddLog(level, msg, m, caller)
}

// AddCollector attaches a collector, closing any previous one.
func (l *Logger) AddCollector(config *CollectionConfig) {
	l.RemoveCollector()
	l.collector = NewLogCollector(config)
}

// RemoveCollector flushes and detaches the collector.
func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt
	kindError
)

// Field is one structured key/value pair.
type Field struct {
	key  string
	kind fieldKind
	str  string
	num  int
	err  error
}

func (f Field) addTo(e *zerolog.Event) {
	switch f.kind {
	case kindInt:
		e.Int(f.key, f.num)
	case kindError:
		e.Err(f.err)
	default:
		e.Str(f.key, f.str)
	}
}

// plain is the value as it appears in collector batches.
func (f Field) plain() interface{} {
	switch f.kind {
	case kindInt:
		return f.num
	case kindError:
		if f.err == nil {
			return nil
		}
		return f.err.Error()
	default:
		return f.str
	}
}

func String(key, value string) Field { return Field{key: key, str: value} }

func Int(key string, value int) Field { return Field{key: key, kind: kindInt, num: value} }

// Error logs err under the zerolog error key.
func Error(err error) Field {
	return Field{key: zerolog.ErrorFieldName, kind: kindError, err: err}
}

// Duration logs d in whole milliseconds.
func Duration(key string, d time.Duration) Field { return Int(key, int(d/time.Millisecond)) }

func Strings(key string, values []string) Field { return String(key, strings.Join(values, ", ")) }
