// Copyright 2019 The mt6502 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clock paces an emulated CPU so its effective clock rate
// matches a target frequency. Wall time is divided into equal frames;
// ticks reported by the CPU accumulate into a per-frame budget and a
// full budget blocks the caller until the wall clock reaches the next
// frame boundary.
package clock

import (
	"runtime"
	"time"
)

// Precision selects the trade-off between frame jitter and CPU cost of
// the frame wait.
type Precision int

const (
	// PrecisionLow sleeps to the frame target. Jitter of a few
	// milliseconds, lowest CPU usage.
	PrecisionLow Precision = iota

	// PrecisionMedium sleeps to shortly before the frame target, then
	// yield-spins the rest of the way. Jitter of hundreds of
	// microseconds at slightly higher CPU usage.
	PrecisionMedium

	// PrecisionHigh busy-spins to the frame target. Sub-microsecond
	// jitter at full CPU usage.
	PrecisionHigh
)

// The medium tier stops sleeping this far before the frame target and
// yield-spins the remainder.
const spinThreshold = 2 * time.Millisecond

const nanosPerSecond = 1_000_000_000

// A Sync tracks emulated ticks against wall time at frame granularity.
// It is driven from a single goroutine; Elapse blocks at each frame
// boundary until wall time catches up.
type Sync struct {
	framePeriod           uint64 // ns per frame
	framePeriodFraction   uint64 // leftover ns per frame, in 1/frameRate units
	ticksPerFrame         uint64
	ticksPerFrameFraction uint64 // leftover ticks per frame, in 1/frameRate units
	frameRate             uint64
	precision             Precision

	frameCount    uint64
	frameTicks    uint64
	tickRemainder uint64 // accumulated fractional ticks, 1/frameRate units
	tickDebt      uint64 // whole ticks owed to the budget by past frames

	periodRemainder uint64 // accumulated fractional ns, 1/frameRate units

	started      bool
	frameFirstTS uint64
	frameNextTS  uint64
	frameLastTS  uint64

	busyPeriod uint64
	idlePeriod uint64
	totalTicks uint64

	epoch time.Time
}

// New creates a synchronizer targeting 'clockRate' emulated ticks per
// second at 'frameRate' frames per second.
func New(clockRate, frameRate uint64, precision Precision) *Sync {
	return NewWithFraction(clockRate, 0, frameRate, 0, precision)
}

// NewWithFraction creates a synchronizer for a clock rate with a
// sub-integer component. 'clockRateFraction' is expressed in
// 1/frameRate-tick units per frame and joins the fractional
// compensation. A fractional frame rate is not modelled;
// 'frameRateFraction' is accepted for signature parity and must be 0
// for exact pacing.
func NewWithFraction(clockRate, clockRateFraction, frameRate, frameRateFraction uint64, precision Precision) *Sync {
	_ = frameRateFraction

	return &Sync{
		framePeriod:           nanosPerSecond / frameRate,
		framePeriodFraction:   nanosPerSecond % frameRate,
		ticksPerFrame:         clockRate / frameRate,
		ticksPerFrameFraction: clockRate%frameRate + clockRateFraction,
		frameRate:             frameRate,
		precision:             precision,
		epoch:                 time.Now(),
	}
}

// FrameCount returns the number of completed frames.
func (s *Sync) FrameCount() uint64 {
	return s.frameCount
}

// TotalTicks returns the total number of ticks elapsed.
func (s *Sync) TotalTicks() uint64 {
	return s.totalTicks
}

// BusyPeriod returns the accumulated time spent executing between frame
// boundaries.
func (s *Sync) BusyPeriod() time.Duration {
	return time.Duration(s.busyPeriod)
}

// IdlePeriod returns the accumulated time spent waiting at frame
// boundaries.
func (s *Sync) IdlePeriod() time.Duration {
	return time.Duration(s.idlePeriod)
}

// TimestampOfFirstFrame returns the wall time of the first Elapse call.
// The zero time is returned before any tick has elapsed.
func (s *Sync) TimestampOfFirstFrame() time.Time {
	if !s.started {
		return time.Time{}
	}
	return s.epoch.Add(time.Duration(s.frameFirstTS))
}

// TimestampOfLastFrame returns the wall time of the most recent frame
// boundary wake-up. The zero time is returned before any tick has
// elapsed.
func (s *Sync) TimestampOfLastFrame() time.Time {
	if !s.started {
		return time.Time{}
	}
	return s.epoch.Add(time.Duration(s.frameLastTS))
}

// Monotonic nanoseconds since construction.
func (s *Sync) now() uint64 {
	return uint64(time.Since(s.epoch))
}

// Elapse accumulates 'ticks' into the current frame's budget. When the
// budget reaches a full frame's worth of ticks, Elapse blocks until the
// wall clock reaches the next frame boundary, using the configured
// precision strategy.
func (s *Sync) Elapse(ticks uint8) {
	if !s.started {
		s.started = true
		ts := s.now()
		s.frameFirstTS = ts
		s.frameNextTS = ts
		s.frameLastTS = ts
	}

	s.totalTicks += uint64(ticks)

	// Settle tick debt owed by fractional compensation before the
	// budget sees the new ticks.
	budget := uint64(ticks)
	if s.tickDebt > 0 {
		debit := s.tickDebt
		if budget < debit {
			debit = budget
		}
		budget -= debit
		s.tickDebt -= debit
	}

	s.frameTicks += budget
	if s.frameTicks < s.ticksPerFrame {
		return
	}

	s.frameCount++
	s.frameTicks -= s.ticksPerFrame

	// Carry the fractional tick and period remainders forward so the
	// long-run tick total and frame cadence converge on the exact
	// rates.
	s.tickRemainder += s.ticksPerFrameFraction
	s.tickDebt += s.tickRemainder / s.frameRate
	s.tickRemainder %= s.frameRate

	s.frameNextTS += s.framePeriod
	s.periodRemainder += s.framePeriodFraction
	if s.periodRemainder >= s.frameRate {
		s.frameNextTS++
		s.periodRemainder -= s.frameRate
	}

	transition := s.now()
	wake := s.wait(transition)

	prevLast := s.frameLastTS
	s.frameLastTS = wake

	s.busyPeriod += transition - prevLast
	if s.frameNextTS > transition {
		s.idlePeriod += s.frameNextTS - transition
	}
}

// Block until the wall clock reaches the frame target, returning the
// wake-up timestamp. A call already past the target returns
// immediately.
func (s *Sync) wait(ts uint64) uint64 {
	if ts >= s.frameNextTS {
		return ts
	}

	switch s.precision {
	case PrecisionHigh:
		for ts < s.frameNextTS {
			ts = s.now()
		}

	case PrecisionMedium:
		delay := time.Duration(s.frameNextTS - ts)
		if delay >= spinThreshold {
			time.Sleep(delay - spinThreshold)
		}
		for ts = s.now(); ts < s.frameNextTS; ts = s.now() {
			runtime.Gosched()
		}

	default: // PrecisionLow
		time.Sleep(time.Duration(s.frameNextTS - ts))
		ts = s.now()
	}

	return ts
}
