// Package host drives the per-frame update loop that feeds the monitors
// and steps the watch engine.
package host

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/r2d2m/graphy/pkg/graphy"
	"github.com/r2d2m/graphy/pkg/graphy/monitor"
)

// Workload produces the per-frame stimulus the monitors observe. Step is
// called once per frame with the frame delta and returns the audio
// samples rendered for that slice of time.
type Workload interface {
	Step(dt time.Duration) []float64
}

// LoopConfig holds frame loop configuration.
type LoopConfig struct {
	FrameInterval time.Duration // target frame pacing
}

// DefaultLoopConfig returns default loop configuration.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		FrameInterval: 16 * time.Millisecond, // ~60 fps
	}
}

// Loop ties the monitors and the watch engine to a wall-clock frame
// ticker. Monitors and the workload may be nil; the engine may not.
type Loop struct {
	config   LoopConfig
	engine   *graphy.Engine
	fps      *monitor.FPS
	ram      *monitor.RAM
	audio    *monitor.Audio
	workload Workload
	logger   *zap.Logger
}

// NewLoop creates a new frame loop.
func NewLoop(
	config LoopConfig,
	engine *graphy.Engine,
	fps *monitor.FPS,
	ram *monitor.RAM,
	audio *monitor.Audio,
	workload Workload,
	logger *zap.Logger,
) *Loop {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultLoopConfig().FrameInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		config:   config,
		engine:   engine,
		fps:      fps,
		ram:      ram,
		audio:    audio,
		workload: workload,
		logger:   logger,
	}
}

// Run starts the frame loop.
// This blocks until context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("frame loop started",
		zap.Duration("frame_interval", l.config.FrameInterval),
		zap.Int("watch_packets", l.engine.Len()))

	ticker := time.NewTicker(l.config.FrameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("frame loop stopping")
			return ctx.Err()

		case now := <-ticker.C:
			// Measure the real delta: a stalled frame drops ticks and
			// shows up here as one long dt.
			dt := now.Sub(last)
			last = now
			l.Frame(dt)
		}
	}
}

// Frame runs one update: workload stimulus, monitor samples, then the
// engine sweep. Hosts that already own an update loop can call this
// directly instead of Run.
func (l *Loop) Frame(dt time.Duration) {
	var samples []float64
	if l.workload != nil {
		samples = l.workload.Step(dt)
	}
	if l.fps != nil {
		l.fps.Sample(dt)
	}
	if l.ram != nil {
		l.ram.Sample(dt)
	}
	if l.audio != nil {
		l.audio.Sample(dt, samples)
	}
	l.engine.Tick(dt)
}
