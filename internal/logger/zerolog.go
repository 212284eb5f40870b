package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of rs/zerolog
type zerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewZerologLogger creates a Logger backed by zerolog. Format "text" or
// "console" switches to zerolog's ConsoleWriter.
func NewZerologLogger(cfg Config) Logger {
	out := cfg.writer()
	if cfg.humanReadable() {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	ctx := zerolog.New(out).
		Level(toZerologLevel(cfg.Level)).
		With().
		Timestamp()
	if cfg.AddSource {
		// one extra frame for the wrapper methods below
		ctx = ctx.CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 1)
	}

	return &zerologLogger{
		zl:    ctx.Logger(),
		level: cfg.Level,
	}
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// fieldsToList flattens fields into zerolog's key/value list form, which
// keeps them in call order
func fieldsToList(fields []Field) []interface{} {
	list := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		list = append(list, f.Key, f.Value)
	}
	return list
}

func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []Field) {
	if len(fields) > 0 {
		e = e.Fields(fieldsToList(fields))
	}
	e.Msg(msg)
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...Field) Logger {
	return &zerologLogger{
		zl:    l.zl.With().Fields(fieldsToList(fields)).Logger(),
		level: l.level,
	}
}

func (l *zerologLogger) WithContext(ctx context.Context) Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *zerologLogger) Level() Level {
	return l.level
}
