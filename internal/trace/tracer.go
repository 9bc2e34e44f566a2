package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracer is the interface for emitting trace events.
type Tracer interface {
	// Point records an instant event. Must be goroutine-safe.
	Point(scope Scope, name, detail string)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// New creates a Tracer writing human-readable lines to w. A LevelOff
// tracer never touches the writer.
func New(w io.Writer, level Level) Tracer {
	if level == LevelOff || w == nil {
		return nopTracer{}
	}
	return &streamTracer{w: w, level: level}
}

// Nop returns a tracer that drops everything.
func Nop() Tracer { return nopTracer{} }

type nopTracer struct{}

func (nopTracer) Point(Scope, string, string) {}
func (nopTracer) Level() Level                { return LevelOff }
func (nopTracer) Enabled() bool               { return false }

type streamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	seq   uint64
	start time.Time
}

func (t *streamTracer) Level() Level  { return t.level }
func (t *streamTracer) Enabled() bool { return true }

func (t *streamTracer) Point(scope Scope, name, detail string) {
	if levelFor(scope) > t.level {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.start.IsZero() {
		t.start = time.Now()
	}
	t.seq++
	elapsed := time.Since(t.start)
	if detail != "" {
		fmt.Fprintf(t.w, "[%8.3fms] %-6s %s  %s\n", float64(elapsed)/float64(time.Millisecond), scope, name, detail)
	} else {
		fmt.Fprintf(t.w, "[%8.3fms] %-6s %s\n", float64(elapsed)/float64(time.Millisecond), scope, name)
	}
}
