package app

import (
	"testing"
	"time"
)

func TestFPSLimiterPacesFrames(t *testing.T) {
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 10; i++ {
		f.waitFor(200)
	}
	// 10 frames at 5ms each
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Fatalf("10 frames at 200 FPS took %v, want >= 45ms", elapsed)
	}
}

func TestFPSLimiterUncapped(t *testing.T) {
	f := NewFPSLimiter()
	f.waitFor(200)
	start := time.Now()
	f.waitFor(0)
	if elapsed := time.Since(start); elapsed > 5*time.Millisecond {
		t.Fatalf("uncapped wait blocked for %v", elapsed)
	}
	if !f.next.IsZero() {
		t.Error("uncapped wait should reset the schedule")
	}
}

func TestFPSLimiterResyncsAfterHitch(t *testing.T) {
	f := NewFPSLimiter()
	f.waitFor(1000)
	time.Sleep(20 * time.Millisecond)
	f.waitFor(1000)
	if ahead := time.Until(f.next); ahead < 0 || ahead > 2*time.Millisecond {
		t.Fatalf("next frame %v ahead, want a fresh 1ms schedule", ahead)
	}
}
