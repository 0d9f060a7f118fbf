package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase aggregates every run of one named step (load, decode, render).
// check decodes many templates, so a phase usually has Count > 1.
type Phase struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
	Note  string // last non-empty note
}

// Timer collects phase durations. Safe for concurrent use: check workers
// record into one shared timer. A nil *Timer records nothing.
type Timer struct {
	mu      sync.Mutex
	started time.Time
	order   []string
	phases  map[string]*Phase
}

func NewTimer() *Timer {
	return &Timer{started: time.Now(), phases: make(map[string]*Phase, 4)}
}

// Track starts one run of a phase and returns the function that ends it.
//
//	done := timer.Track("decode")
//	defer done("")
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	return func(note string) { t.Record(name, time.Since(start), note) }
}

// Record adds one finished run of name.
func (t *Timer) Record(name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &Phase{Name: name}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.Count++
	p.Total += d
	p.Max = max(p.Max, d)
	if note != "" {
		p.Note = note
	}
}

// Summary returns a human-readable table of all phases in first-seen order.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, p.TotalMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  x%d, max %.2f ms", p.Count, p.MaxMS)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "wall", report.WallMS)
	return b.String()
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
	Note    string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	WallMS float64       `json:"wall_ms"`
	Phases []PhaseReport `json:"phases"`
}

// Report snapshots the phases. Phases run in parallel overlap, so the sum of
// TotalMS may exceed WallMS.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	report := Report{
		WallMS: durationToMillis(time.Since(t.started)),
		Phases: make([]PhaseReport, 0, len(t.order)),
	}
	for _, name := range t.order {
		p := t.phases[name]
		report.Phases = append(report.Phases, PhaseReport{
			Name:    p.Name,
			Count:   p.Count,
			TotalMS: durationToMillis(p.Total),
			MaxMS:   durationToMillis(p.Max),
			Note:    p.Note,
		})
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
