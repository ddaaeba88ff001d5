package monitor

import (
	"math"
	"time"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// DefaultAudioFalloff is the peak decay rate in 1/seconds. At 6 the
// displayed peak halves roughly every 115ms, close to how hardware level
// meters fall off.
const DefaultAudioFalloff = 6.0

// Audio tracks the peak output level of the PCM frames fed by the host.
// The peak rises instantly to the loudest sample of a frame and decays
// exponentially while quieter frames pass.
type Audio struct {
	falloff float64
	peak    float64
}

// NewAudio creates an audio level monitor with the given falloff in
// 1/seconds. Non-positive values fall back to DefaultAudioFalloff.
func NewAudio(falloff float64) *Audio {
	if falloff <= 0 {
		falloff = DefaultAudioFalloff
	}
	return &Audio{falloff: falloff}
}

// Sample feeds one frame of PCM samples in [-1, 1] along with the frame's
// elapsed time. A nil or empty frame only decays the peak.
func (a *Audio) Sample(dt time.Duration, frame []float64) {
	a.peak *= math.Exp(-a.falloff * dt.Seconds())
	for _, s := range frame {
		if abs := math.Abs(s); abs > a.peak {
			a.peak = abs
		}
	}
	if a.peak > 1 {
		a.peak = 1
	}
}

// PeakLevel returns the current peak amplitude in [0, 1].
func (a *Audio) PeakLevel() float64 { return a.peak }

// PeakDB returns the peak in decibels relative to full scale. Silence
// yields negative infinity.
func (a *Audio) PeakDB() float64 {
	return 20 * math.Log10(a.peak)
}

// Ensure Audio implements graphy.AudioSource.
var _ graphy.AudioSource = (*Audio)(nil)
