package logging

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

const defaultPendingLimit = 256

type pendingEntry struct {
	ctx    context.Context
	level  zerolog.Level
	msg    string
	fields []interface{}
}

// Pending holds entries written before the configured logger exists, for
// instance while the config file that names the log destination is still
// being read. Once the real logger is built, Flush replays them in order.
type Pending struct {
	mu      sync.Mutex
	limit   int
	entries []pendingEntry
	fields  []interface{}
	root    *Pending
}

// NewPending creates a buffer that keeps at most limit entries, dropping the
// oldest first. A non-positive limit selects the default.
func NewPending(limit int) *Pending {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	p := &Pending{limit: limit}
	p.root = p
	return p
}

func (p *Pending) Debug(ctx context.Context, msg string, fields ...interface{}) {
	p.add(ctx, zerolog.DebugLevel, msg, fields)
}

func (p *Pending) Info(ctx context.Context, msg string, fields ...interface{}) {
	p.add(ctx, zerolog.InfoLevel, msg, fields)
}

func (p *Pending) Warn(ctx context.Context, msg string, fields ...interface{}) {
	p.add(ctx, zerolog.WarnLevel, msg, fields)
}

func (p *Pending) Error(ctx context.Context, msg string, fields ...interface{}) {
	p.add(ctx, zerolog.ErrorLevel, msg, fields)
}

// With returns a child that shares the parent's buffer.
func (p *Pending) With(fields ...interface{}) ports.Logger {
	next := make([]interface{}, 0, len(p.fields)+len(fields))
	next = append(next, p.fields...)
	next = append(next, fields...)
	return &Pending{fields: next, root: p.root}
}

// Len reports how many entries are waiting.
func (p *Pending) Len() int {
	root := p.root
	root.mu.Lock()
	defer root.mu.Unlock()
	return len(root.entries)
}

func (p *Pending) add(ctx context.Context, level zerolog.Level, msg string, fields []interface{}) {
	if ctx == nil {
		ctx = context.Background()
	}
	payload := make([]interface{}, 0, len(p.fields)+len(fields))
	payload = append(payload, p.fields...)
	payload = append(payload, fields...)

	root := p.root
	root.mu.Lock()
	defer root.mu.Unlock()
	entry := pendingEntry{ctx: ctx, level: level, msg: msg, fields: payload}
	if len(root.entries) == root.limit {
		copy(root.entries, root.entries[1:])
		root.entries[len(root.entries)-1] = entry
		return
	}
	root.entries = append(root.entries, entry)
}

// Flush replays buffered entries into delegate and empties the buffer.
func (p *Pending) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	root := p.root
	root.mu.Lock()
	entries := root.entries
	root.entries = nil
	root.mu.Unlock()

	for _, e := range entries {
		switch e.level {
		case zerolog.DebugLevel:
			delegate.Debug(e.ctx, e.msg, e.fields...)
		case zerolog.WarnLevel:
			delegate.Warn(e.ctx, e.msg, e.fields...)
		case zerolog.ErrorLevel:
			delegate.Error(e.ctx, e.msg, e.fields...)
		default:
			delegate.Info(e.ctx, e.msg, e.fields...)
		}
	}
}

var _ ports.Logger = (*Pending)(nil)
