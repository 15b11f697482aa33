package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Logger is the structured logger used across the application.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})

	// Printf logs at info level. It lets the logger back libraries that
	// expect a printf-style writer, such as the GORM logger.
	Printf(format string, args ...interface{})

	WithFields(fields map[string]interface{}) Logger
}

type ZerologLogger struct {
	logger zerolog.Logger
	fields map[string]interface{}
}

// New builds a zerolog-backed Logger. Output defaults to stdout; in the
// development environment records are rendered by the console writer.
func New(level LogLevel, env string, output io.Writer) Logger {
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = output
	if strings.ToLower(env) == "development" {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &ZerologLogger{logger: zl, fields: map[string]interface{}{}}
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &ZerologLogger{logger: zerolog.Nop(), fields: map[string]interface{}{}}
}

func parseLevel(level LogLevel) zerolog.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ZerologLogger{logger: l.logger, fields: merged}
}

func (l *ZerologLogger) emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range l.fields {
		event = event.Interface(k, v)
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			event = event.AnErr(k, err)
			continue
		}
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

func (l *ZerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *ZerologLogger) Fatal(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Fatal(), msg, fields)
}

func (l *ZerologLogger) Printf(format string, args ...interface{}) {
	l.emit(l.logger.Info(), fmt.Sprintf(format, args...), nil)
}
