package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

// Options configures the zerolog adapter.
type Options struct {
	Writer io.Writer
	Level  string
	// Format is "json" (default) or "console".
	Format    string
	Layer     string
	Component string
	Fields    map[string]interface{}
}

// Logger implements ports.Logger on top of zerolog.
type Logger struct {
	base   zerolog.Logger
	fields []interface{}
}

// New creates a Logger from opts.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var output io.Writer = writer
	switch strings.ToLower(opts.Format) {
	case "", "json":
	case "console":
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		console.NoColor = true
		output = console
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	layer := opts.Layer
	if layer == "" {
		layer = "infrastructure"
	}
	ctx := zerolog.New(output).Level(level).With().Timestamp().Str("layer", layer)
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	keys := make([]string, 0, len(opts.Fields))
	for k := range opts.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ctx = ctx.Interface(k, opts.Fields[k])
	}

	return &Logger{base: ctx.Logger()}, nil
}

// Debug emits a debug entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.write(ctx, zerolog.DebugLevel, msg, fields)
}

// Info emits an info entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.write(ctx, zerolog.InfoLevel, msg, fields)
}

// Warn emits a warning entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.write(ctx, zerolog.WarnLevel, msg, fields)
}

// Error emits an error entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.write(ctx, zerolog.ErrorLevel, msg, fields)
}

// With derives a logger that always writes fields. Later keys override
// earlier ones.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return NewNoOpLogger()
	}
	next := make([]interface{}, 0, len(l.fields)+len(fields))
	next = append(next, l.fields...)
	next = append(next, fields...)
	return &Logger{base: l.base, fields: next}
}

func (l *Logger) write(ctx context.Context, level zerolog.Level, msg string, fields []interface{}) {
	if l == nil {
		return
	}
	event := l.base.WithLevel(level)
	if event == nil {
		return
	}
	if id := ports.GetCorrelationID(ctx); id != "" {
		event = event.Str("correlation_id", id)
	}
	for _, kv := range mergeFields(l.fields, fields) {
		if err, ok := kv.value.(error); ok {
			event = event.AnErr(kv.key, err)
			continue
		}
		event = event.Interface(kv.key, kv.value)
	}
	event.Msg(msg)
}

type field struct {
	key   string
	value interface{}
}

// mergeFields flattens key/value pairs, keeping first-seen key order and the
// last value written for each key. Non-string keys are skipped.
func mergeFields(groups ...[]interface{}) []field {
	index := make(map[string]int)
	out := make([]field, 0)
	for _, values := range groups {
		for i := 0; i+1 < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok || key == "" {
				continue
			}
			if pos, seen := index[key]; seen {
				out[pos].value = values[i+1]
				continue
			}
			index[key] = len(out)
			out = append(out, field{key: key, value: values[i+1]})
		}
	}
	return out
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(context.Context, string, ...interface{}) {}
func (NoOpLogger) Info(context.Context, string, ...interface{})  {}
func (NoOpLogger) Warn(context.Context, string, ...interface{})  {}
func (NoOpLogger) Error(context.Context, string, ...interface{}) {}

// With returns the receiver.
func (n NoOpLogger) With(...interface{}) ports.Logger { return n }

// NewNoOpLogger returns a ports.Logger that discards all entries.
func NewNoOpLogger() ports.Logger {
	return NoOpLogger{}
}

var (
	_ ports.Logger = (*Logger)(nil)
	_ ports.Logger = NoOpLogger{}
)
