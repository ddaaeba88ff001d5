package graphy

// FPSSource exposes frame-rate readings. Implementations must be free of
// side effects and safe to call every frame.
type FPSSource interface {
	// Current returns the instantaneous frames per second.
	Current() float64

	// Min returns the lowest frame rate over the source's window.
	Min() float64

	// Max returns the highest frame rate over the source's window.
	Max() float64

	// Average returns the mean frame rate over the source's window.
	Average() float64
}

// RAMSource exposes memory readings in bytes.
type RAMSource interface {
	// Allocated returns the memory the process currently holds.
	Allocated() float64

	// Reserved returns the memory reserved from the operating system.
	Reserved() float64

	// Managed returns the memory owned by the language runtime.
	Managed() float64
}

// AudioSource exposes the output audio level.
type AudioSource interface {
	// PeakLevel returns the peak amplitude in [0, 1].
	PeakLevel() float64
}

// LogSink is the logging channel packet messages are dispatched to.
type LogSink interface {
	Write(sev Severity, msg string)
}

// ScreenshotService captures the current visual frame to a file.
type ScreenshotService interface {
	Capture(path string) error
}

// BreakService requests the host suspend execution, e.g. pause in an
// attached debugger. Hosts without the capability return an error; the
// engine reports it and moves on.
type BreakService interface {
	Break() error
}

// MetricSources bundles the monitor collaborators an Engine reads from.
// Nil fields are allowed; their variables then read 0.
type MetricSources struct {
	FPS   FPSSource
	RAM   RAMSource
	Audio AudioSource
}

// Services bundles the side-effect collaborators an Engine fires into.
// Nil fields are allowed; the corresponding pipeline step is skipped.
type Services struct {
	Log        LogSink
	Screenshot ScreenshotService
	Break      BreakService
}
