package monitor

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// DefaultRAMPollInterval throttles the OS memory probe; process memory
// moves far slower than frames do.
const DefaultRAMPollInterval = time.Second

// RAM reads process memory through the operating system and the Go
// runtime: Allocated is the resident set size, Reserved the virtual size,
// Managed the live heap owned by the runtime. The OS probe is throttled
// by a poll interval; Sample must still be called every frame so the
// throttle clock advances with the loop.
type RAM struct {
	poll      time.Duration
	sincePoll time.Duration
	proc      *process.Process
	logger    *zap.Logger
	probeFn   func() // replaced in tests

	allocated float64
	reserved  float64
	managed   float64
}

// NewRAM creates a memory monitor probing at the given interval. It probes
// once immediately so readings are live from the first frame. Non-positive
// intervals fall back to DefaultRAMPollInterval.
func NewRAM(poll time.Duration, logger *zap.Logger) (*RAM, error) {
	if poll <= 0 {
		poll = DefaultRAMPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open own process handle: %w", err)
	}
	r := &RAM{poll: poll, proc: proc, logger: logger}
	r.probeFn = r.probe
	r.probe()
	return r, nil
}

// Sample advances the poll clock by the frame's elapsed time and probes
// once the interval is up.
func (r *RAM) Sample(dt time.Duration) {
	r.sincePoll += dt
	if r.sincePoll < r.poll {
		return
	}
	r.sincePoll = 0
	r.probeFn()
}

func (r *RAM) probe() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.managed = float64(m.HeapAlloc)

	info, err := r.proc.MemoryInfo()
	if err != nil {
		// Keep the previous OS readings; the runtime ones stay fresh.
		r.logger.Warn("process memory probe failed", zap.Error(err))
		return
	}
	r.allocated = float64(info.RSS)
	r.reserved = float64(info.VMS)
}

// Allocated returns the process resident set size in bytes.
func (r *RAM) Allocated() float64 { return r.allocated }

// Reserved returns the process virtual memory size in bytes.
func (r *RAM) Reserved() float64 { return r.reserved }

// Managed returns the Go heap's live allocation in bytes.
func (r *RAM) Managed() float64 { return r.managed }

// Ensure RAM implements graphy.RAMSource.
var _ graphy.RAMSource = (*RAM)(nil)
