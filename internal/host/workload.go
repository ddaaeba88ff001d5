package host

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// SimConfig holds synthetic workload configuration.
type SimConfig struct {
	AllocChunk int           // bytes retained per frame
	AllocMax   int           // retained ceiling before churn releases half
	SampleRate int           // audio samples per second
	ToneHz     float64       // steady tone frequency
	ToneAmp    float64       // steady tone amplitude
	BurstAmp   float64       // amplitude during the clipping burst
	BurstEvery time.Duration // how often the burst starts
	BurstFor   time.Duration // how long the burst lasts
	StallEvery time.Duration // how often the frame stall happens
	StallFor   time.Duration // how long the stall blocks the frame
}

// DefaultSimConfig returns default workload configuration. The numbers
// are tuned so the built-in watch set has something to trip on within a
// minute of running.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		AllocChunk: 256 * 1024,
		AllocMax:   64 * 1024 * 1024,
		SampleRate: 48000,
		ToneHz:     440,
		ToneAmp:    0.3,
		BurstAmp:   1.0,
		BurstEvery: 20 * time.Second,
		BurstFor:   time.Second,
		StallEvery: 15 * time.Second,
		StallFor:   250 * time.Millisecond,
	}
}

// Sim is a synthetic host workload. Each frame it retains memory, renders
// a sine tone, and periodically stalls, so frame rate, allocation and
// audio peak all move the way a real host's would.
type Sim struct {
	config SimConfig
	logger *zap.Logger

	retained   [][]byte
	held       int
	phase      float64
	sinceBurst time.Duration
	sinceStall time.Duration
}

// NewSim creates a new synthetic workload.
func NewSim(config SimConfig, logger *zap.Logger) *Sim {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sim{
		config: config,
		logger: logger,
	}
}

// Step implements Workload.
func (s *Sim) Step(dt time.Duration) []float64 {
	s.churn()
	samples := s.render(dt)
	s.maybeStall(dt)
	return samples
}

// RetainedBytes returns how much memory the workload currently holds.
func (s *Sim) RetainedBytes() int { return s.held }

// churn retains one chunk per frame and releases the older half once the
// ceiling is hit, so allocation keeps moving instead of growing forever.
func (s *Sim) churn() {
	if s.config.AllocChunk <= 0 {
		return
	}
	s.retained = append(s.retained, make([]byte, s.config.AllocChunk))
	s.held += s.config.AllocChunk

	if s.config.AllocMax > 0 && s.held > s.config.AllocMax {
		drop := len(s.retained) / 2
		for i := 0; i < drop; i++ {
			s.held -= len(s.retained[i])
			s.retained[i] = nil
		}
		s.retained = append(s.retained[:0], s.retained[drop:]...)
		s.logger.Debug("workload released retained memory",
			zap.Int("chunks_dropped", drop),
			zap.Int("held_bytes", s.held))
	}
}

// render produces this frame's slice of the tone, switching to the burst
// amplitude while a burst window is open.
func (s *Sim) render(dt time.Duration) []float64 {
	if s.config.SampleRate <= 0 {
		return nil
	}

	amp := s.config.ToneAmp
	if s.config.BurstEvery > 0 {
		s.sinceBurst += dt
		if s.sinceBurst >= s.config.BurstEvery {
			amp = s.config.BurstAmp
			if s.sinceBurst >= s.config.BurstEvery+s.config.BurstFor {
				s.sinceBurst = 0
				s.logger.Debug("workload audio burst finished")
			}
		}
	}

	n := int(float64(s.config.SampleRate) * dt.Seconds())
	if n > s.config.SampleRate {
		// A stalled frame asks for more than a second of audio; cap it.
		n = s.config.SampleRate
	}
	samples := make([]float64, n)
	step := 2 * math.Pi * s.config.ToneHz / float64(s.config.SampleRate)
	for i := range samples {
		samples[i] = amp * math.Sin(s.phase)
		s.phase += step
	}
	if s.phase > 2*math.Pi {
		s.phase -= 2 * math.Pi * math.Floor(s.phase/(2*math.Pi))
	}
	return samples
}

// maybeStall blocks the frame once the stall interval has elapsed. The
// loop measures real deltas, so the stall surfaces as a long frame.
func (s *Sim) maybeStall(dt time.Duration) {
	if s.config.StallEvery <= 0 || s.config.StallFor <= 0 {
		return
	}
	s.sinceStall += dt
	if s.sinceStall < s.config.StallEvery {
		return
	}
	s.sinceStall = 0
	s.logger.Debug("workload stalling frame", zap.Duration("stall", s.config.StallFor))
	time.Sleep(s.config.StallFor)
}
