// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"github.com/r2d2m/graphy/pkg/graphy"
)

// CapturedMessage is one alert the scripted host received.
type CapturedMessage struct {
	Severity graphy.Severity
	Message  string
}

// ScriptedHost simulates a host application: it serves scripted metric
// readings to the engine and records every action the engine fires back.
type ScriptedHost struct {
	FPSCurrent float64
	FPSMin     float64
	FPSMax     float64
	FPSAvg     float64

	RAMAlloc    float64
	RAMReserved float64
	RAMManaged  float64

	AudioPeak float64

	Messages    []CapturedMessage
	Screenshots []string
	Breaks      int
}

// NewScriptedHost returns a host with healthy readings: a steady 60 fps,
// modest memory and a quiet audio bus.
func NewScriptedHost() *ScriptedHost {
	return &ScriptedHost{
		FPSCurrent:  60,
		FPSMin:      58,
		FPSMax:      62,
		FPSAvg:      60,
		RAMAlloc:    512 * 1024 * 1024,
		RAMReserved: 1024 * 1024 * 1024,
		RAMManaged:  128 * 1024 * 1024,
		AudioPeak:   0.1,
	}
}

// Sources returns the host's metric bundle for the engine.
func (h *ScriptedHost) Sources() graphy.MetricSources {
	return graphy.MetricSources{FPS: h, RAM: h, Audio: h}
}

// Services returns the host's action bundle for the engine.
func (h *ScriptedHost) Services() graphy.Services {
	return graphy.Services{Log: h, Screenshot: h, Break: h}
}

// SetFPS scripts every frame rate reading to the same value.
func (h *ScriptedHost) SetFPS(fps float64) {
	h.FPSCurrent = fps
	h.FPSMin = fps
	h.FPSMax = fps
	h.FPSAvg = fps
}

// Current implements graphy.FPSSource.
func (h *ScriptedHost) Current() float64 { return h.FPSCurrent }

// Min implements graphy.FPSSource.
func (h *ScriptedHost) Min() float64 { return h.FPSMin }

// Max implements graphy.FPSSource.
func (h *ScriptedHost) Max() float64 { return h.FPSMax }

// Average implements graphy.FPSSource.
func (h *ScriptedHost) Average() float64 { return h.FPSAvg }

// Allocated implements graphy.RAMSource.
func (h *ScriptedHost) Allocated() float64 { return h.RAMAlloc }

// Reserved implements graphy.RAMSource.
func (h *ScriptedHost) Reserved() float64 { return h.RAMReserved }

// Managed implements graphy.RAMSource.
func (h *ScriptedHost) Managed() float64 { return h.RAMManaged }

// PeakLevel implements graphy.AudioSource.
func (h *ScriptedHost) PeakLevel() float64 { return h.AudioPeak }

// Write implements graphy.LogSink.
func (h *ScriptedHost) Write(sev graphy.Severity, msg string) {
	h.Messages = append(h.Messages, CapturedMessage{Severity: sev, Message: msg})
}

// Capture implements graphy.ScreenshotService.
func (h *ScriptedHost) Capture(path string) error {
	h.Screenshots = append(h.Screenshots, path)
	return nil
}

// Break implements graphy.BreakService.
func (h *ScriptedHost) Break() error {
	h.Breaks++
	return nil
}

// Ensure ScriptedHost implements every engine collaborator.
var (
	_ graphy.FPSSource         = (*ScriptedHost)(nil)
	_ graphy.RAMSource         = (*ScriptedHost)(nil)
	_ graphy.AudioSource       = (*ScriptedHost)(nil)
	_ graphy.LogSink           = (*ScriptedHost)(nil)
	_ graphy.ScreenshotService = (*ScriptedHost)(nil)
	_ graphy.BreakService      = (*ScriptedHost)(nil)
)
