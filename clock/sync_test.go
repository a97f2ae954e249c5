package clock_test

import (
	"testing"
	"time"

	"github.com/Miliox/mt6502/clock"
)

// Rates scaled down from the NTSC/3 target so each run takes at most two
// seconds while exercising the same remainder arithmetic
// (clockRate % frameRate != 0).

func drive(s *clock.Sync, ticks uint64, chunk uint8) {
	for ; ticks >= uint64(chunk); ticks -= uint64(chunk) {
		s.Elapse(chunk)
	}
	if ticks > 0 {
		s.Elapse(uint8(ticks))
	}
}

func TestFrameCount(t *testing.T) {
	const clockRate = 5000
	const frameRate = 100

	s := clock.New(clockRate, frameRate, clock.PrecisionLow)

	start := time.Now()
	drive(s, clockRate/4, 7) // a quarter second of emulated time
	elapsed := time.Since(start)

	if got := s.FrameCount(); got != frameRate/4 {
		t.Errorf("FrameCount incorrect. exp: %d, got: %d", frameRate/4, got)
	}
	if got := s.TotalTicks(); got != clockRate/4 {
		t.Errorf("TotalTicks incorrect. exp: %d, got: %d", clockRate/4, got)
	}
	if elapsed < 200*time.Millisecond {
		t.Errorf("run finished too fast: %v", elapsed)
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("run finished too slow: %v", elapsed)
	}
}

func TestFractionalTickConvergence(t *testing.T) {
	// 5041 % 100 leaves a remainder of 41 ticks per second that must be
	// debited from subsequent frame budgets.
	const clockRate = 5041
	const frameRate = 100
	const seconds = 2

	s := clock.New(clockRate, frameRate, clock.PrecisionLow)
	drive(s, seconds*clockRate, 13)

	if got := s.TotalTicks() / clockRate; got != seconds {
		t.Errorf("TotalTicks/clockRate incorrect. exp: %d, got: %d (ticks=%d)",
			seconds, got, s.TotalTicks())
	}

	// The frame count stays within one frame of the exact cadence.
	exp := uint64(seconds * frameRate)
	if got := s.FrameCount(); got < exp-1 || got > exp {
		t.Errorf("FrameCount incorrect. exp: %d..%d, got: %d", exp-1, exp, got)
	}
}

func TestBusyIdleAccounting(t *testing.T) {
	const clockRate = 4000
	const frameRate = 50

	s := clock.New(clockRate, frameRate, clock.PrecisionLow)

	start := time.Now()
	drive(s, clockRate/4, 19)
	elapsed := time.Since(start)

	if s.FrameCount() == 0 {
		t.Fatal("no frames elapsed")
	}
	if total := s.BusyPeriod() + s.IdlePeriod(); total > elapsed {
		t.Errorf("busy+idle exceeds wall time: %v > %v", total, elapsed)
	}
	if s.IdlePeriod() == 0 {
		t.Error("expected idle time at frame boundaries")
	}

	first := s.TimestampOfFirstFrame()
	last := s.TimestampOfLastFrame()
	if first.IsZero() || last.IsZero() {
		t.Fatal("frame timestamps not recorded")
	}
	if last.Before(first) {
		t.Errorf("last frame %v precedes first frame %v", last, first)
	}
}

func TestMediumPrecision(t *testing.T) {
	const clockRate = 8000
	const frameRate = 100

	s := clock.New(clockRate, frameRate, clock.PrecisionMedium)

	start := time.Now()
	drive(s, clockRate/10, 23)
	elapsed := time.Since(start)

	if got := s.FrameCount(); got != frameRate/10 {
		t.Errorf("FrameCount incorrect. exp: %d, got: %d", frameRate/10, got)
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("run finished too fast: %v", elapsed)
	}
}

func TestHighPrecision(t *testing.T) {
	if testing.Short() {
		t.Skip("busy-spin tier pegs a core")
	}

	const clockRate = 10000
	const frameRate = 200

	s := clock.New(clockRate, frameRate, clock.PrecisionHigh)

	start := time.Now()
	drive(s, clockRate/20, 25)
	elapsed := time.Since(start)

	if got := s.FrameCount(); got != frameRate/20 {
		t.Errorf("FrameCount incorrect. exp: %d, got: %d", frameRate/20, got)
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("run finished too fast: %v", elapsed)
	}
}

func TestFractionalRateOverload(t *testing.T) {
	// An extra half tick per frame (50/100) owes one more tick every
	// other frame.
	const frameRate = 100

	s := clock.NewWithFraction(5000, 50, frameRate, 0, clock.PrecisionLow)
	drive(s, 5000/4, 11)

	exp := uint64(frameRate / 4)
	if got := s.FrameCount(); got < exp-1 || got > exp {
		t.Errorf("FrameCount incorrect. exp: %d..%d, got: %d", exp-1, exp, got)
	}
}

func TestObserversBeforeFirstTick(t *testing.T) {
	s := clock.New(1000, 50, clock.PrecisionLow)

	if s.FrameCount() != 0 || s.TotalTicks() != 0 {
		t.Error("counters must start at zero")
	}
	if !s.TimestampOfFirstFrame().IsZero() {
		t.Error("first-frame timestamp recorded before any tick")
	}
	if s.BusyPeriod() != 0 || s.IdlePeriod() != 0 {
		t.Error("periods must start at zero")
	}
}
