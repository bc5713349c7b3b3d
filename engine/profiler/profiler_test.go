package profiler

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(time.Second), WithMemStats(false))

	for i := range 3 {
		clock.t = clock.t.Add(250 * time.Millisecond)
		if _, ok := p.Tick(i + 1); ok {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}

	clock.t = clock.t.Add(250 * time.Millisecond)
	s, ok := p.Tick(4)
	if !ok {
		t.Fatal("fourth tick did not report")
	}
	if s.FPS != 4 || s.FrameTime != 250*time.Millisecond || s.AccumulatedFrames != 4 {
		t.Fatalf("stats = %+v, want 4 fps at 250ms with 4 accumulated", s)
	}
	if p.Last() != s {
		t.Fatalf("Last = %+v, want %+v", p.Last(), s)
	}

	clock.t = clock.t.Add(500 * time.Millisecond)
	if _, ok := p.Tick(5); ok {
		t.Fatal("window did not restart after reporting")
	}
}

func TestTickReadsMemStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(time.Millisecond))
	clock.t = clock.t.Add(time.Second)
	s, ok := p.Tick(1)
	if !ok || s.HeapMB <= 0 {
		t.Fatalf("stats = %+v, ok = %v, want a positive heap size", s, ok)
	}
}
