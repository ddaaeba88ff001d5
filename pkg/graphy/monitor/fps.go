// Package monitor ships reference metric sources for the watch engine:
// frame rate, process memory and audio level. The monitors follow the
// engine's threading model: they are fed and read on the goroutine driving
// the host's update loop and do no locking of their own.
package monitor

import (
	"time"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// DefaultFPSWindow is the number of recent frames statistics cover.
const DefaultFPSWindow = 120

// FPS derives frame-rate readings from the per-frame time deltas fed by
// the host loop. It retains a bounded window of recent frame times; Min,
// Max and Average are computed over that window.
type FPS struct {
	samples []time.Duration
	head    int
	size    int
	last    time.Duration
}

// NewFPS creates a frame-rate monitor over a window of the given size.
// Sizes below one fall back to DefaultFPSWindow.
func NewFPS(window int) *FPS {
	if window < 1 {
		window = DefaultFPSWindow
	}
	return &FPS{samples: make([]time.Duration, window)}
}

// Sample records one frame's elapsed time. Non-positive deltas are
// dropped; no frame takes no time.
func (f *FPS) Sample(dt time.Duration) {
	if dt <= 0 {
		return
	}
	f.last = dt
	f.samples[f.head] = dt
	f.head = (f.head + 1) % len(f.samples)
	if f.size < len(f.samples) {
		f.size++
	}
}

// Current returns the instantaneous frame rate of the last sampled frame.
func (f *FPS) Current() float64 {
	if f.last <= 0 {
		return 0
	}
	return float64(time.Second) / float64(f.last)
}

// Min returns the lowest frame rate in the window, set by the slowest
// retained frame.
func (f *FPS) Min() float64 {
	var longest time.Duration
	for i := 0; i < f.size; i++ {
		if s := f.samples[i]; s > longest {
			longest = s
		}
	}
	if longest == 0 {
		return 0
	}
	return float64(time.Second) / float64(longest)
}

// Max returns the highest frame rate in the window, set by the fastest
// retained frame.
func (f *FPS) Max() float64 {
	var shortest time.Duration
	for i := 0; i < f.size; i++ {
		if s := f.samples[i]; shortest == 0 || s < shortest {
			shortest = s
		}
	}
	if shortest == 0 {
		return 0
	}
	return float64(time.Second) / float64(shortest)
}

// Average returns the mean frame rate over the window: retained frames
// divided by their total duration.
func (f *FPS) Average() float64 {
	var total time.Duration
	for i := 0; i < f.size; i++ {
		total += f.samples[i]
	}
	if total <= 0 {
		return 0
	}
	return float64(f.size) * float64(time.Second) / float64(total)
}

// Ensure FPS implements graphy.FPSSource.
var _ graphy.FPSSource = (*FPS)(nil)
