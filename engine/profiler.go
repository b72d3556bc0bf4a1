package engine

import (
	"fmt"
	"strings"
	"time"
)

// Profiler accumulates named scope durations and counts across one frame,
// adapted from the teacher's profiler.go. BeginScope/EndScope wrap a
// command-encoder region (a compute dispatch, a render pass); SetCount
// records a non-timing metric (e.g. instances drawn) alongside it.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]uint64
	Order      []string
}

// NewProfiler creates an empty Profiler.
func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]uint64),
	}
}

// BeginScope starts timing name, recording first-seen order for stable
// reporting.
func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
	}
	p.StartTimes[name] = nowFunc()
}

// EndScope accumulates elapsed time into name since its matching BeginScope.
func (p *Profiler) EndScope(name string) {
	start, ok := p.StartTimes[name]
	if !ok {
		return
	}
	p.Scopes[name] += nowFunc().Sub(start)
	delete(p.StartTimes, name)
}

// SetCount records a count metric for name (instances drawn, patches emitted).
func (p *Profiler) SetCount(name string, count uint64) {
	p.Counts[name] = count
}

// Reset clears all accumulated scopes and counts for the next frame.
func (p *Profiler) Reset() {
	p.Scopes = make(map[string]time.Duration)
	p.StartTimes = make(map[string]time.Time)
	p.Counts = make(map[string]uint64)
	p.Order = nil
}

// GetStatsString renders every recorded scope (in first-seen order) as a
// single human-readable line, counts appended where present.
func (p *Profiler) GetStatsString() string {
	var b strings.Builder
	for i, name := range p.Order {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s: %.2fms", name, p.Scopes[name].Seconds()*1000)
		if count, ok := p.Counts[name]; ok {
			fmt.Fprintf(&b, " (%d)", count)
		}
	}
	return b.String()
}

// nowFunc is a seam for deterministic profiler tests.
var nowFunc = time.Now
