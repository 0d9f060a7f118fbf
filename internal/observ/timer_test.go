package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	done := timer.Track("load")
	done("2 files")
	timer.Record("decode", 3*time.Millisecond, "")
	timer.Record("decode", 5*time.Millisecond, "")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.Phases[0].Name != "load" || report.Phases[0].Note != "2 files" {
		t.Errorf("first phase = %+v", report.Phases[0])
	}
	dec := report.Phases[1]
	if dec.Count != 2 || dec.TotalMS != 8 || dec.MaxMS != 5 {
		t.Errorf("decode phase = %+v", dec)
	}
	summary := timer.Summary()
	for _, want := range []string{"timings:", "load", "// 2 files", "decode", "x2, max 5.00 ms", "wall"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerConcurrent(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Track("decode")("")
		}()
	}
	wg.Wait()
	report := timer.Report()
	if len(report.Phases) != 1 || report.Phases[0].Count != 16 {
		t.Errorf("report = %+v", report)
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Track("noop")("")
	timer.Record("noop", time.Second, "")
	if r := timer.Report(); len(r.Phases) != 0 {
		t.Errorf("nil timer report = %+v", r)
	}
}
