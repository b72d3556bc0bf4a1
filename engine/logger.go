// Package engine is the frame scheduler (C9): resize, render, force_wait,
// wiring the scene uniforms, reactive graph, and per-model subdiv/render
// drivers into one cooperative per-frame sequence. Grounded on
// voxelrt/rt/app/app.go's Init/Resize/Update/Render and its logging.go and
// profiler.go ambient helpers.
package engine

import (
	"fmt"
	"log"
	"sync"
)

// Logger is the renderer's diagnostic sink, mirroring the teacher's
// logging.go interface exactly so familiar call sites read the same way.
type Logger interface {
	DebugEnabled() bool
	SetDebug(bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes to the standard library logger with a fixed prefix,
// gating Debugf behind a mutex-protected flag.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
}

// NewDefaultLogger creates a DefaultLogger tagging every line with prefix.
func NewDefaultLogger(prefix string) *DefaultLogger {
	return &DefaultLogger{prefix: prefix, out: log.Default()}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = v
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.log("DEBUG", format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any)  { l.log("INFO", format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.log("WARN", format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.log("ERROR", format, args...) }

func (l *DefaultLogger) log(level, format string, args ...any) {
	l.out.Printf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
}

// nopLogger discards everything; the zero-value default so a renderer never
// requires a logging dependency to construct.
type nopLogger struct{}

func (nopLogger) DebugEnabled() bool        { return false }
func (nopLogger) SetDebug(bool)             {}
func (nopLogger) Debugf(string, ...any)     {}
func (nopLogger) Infof(string, ...any)      {}
func (nopLogger) Warnf(string, ...any)      {}
func (nopLogger) Errorf(string, ...any)     {}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }
