package actions

import (
	"errors"
	"runtime"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// ErrBreakDisabled reports a break request on a breaker that was not
// explicitly enabled.
var ErrBreakDisabled = errors.New("execution break disabled")

// Breaker implements graphy.BreakService with a breakpoint trap. The trap
// is fatal without an attached debugger, so a Breaker must be explicitly
// enabled; disabled breakers refuse with ErrBreakDisabled, which the
// engine reports and survives.
type Breaker struct {
	enabled bool
}

// NewBreaker creates a breaker. Enable it only when a debugger is
// attached to catch the trap.
func NewBreaker(enabled bool) *Breaker {
	return &Breaker{enabled: enabled}
}

// Break raises a breakpoint trap for an attached debugger.
func (b *Breaker) Break() error {
	if !b.enabled {
		return ErrBreakDisabled
	}
	runtime.Breakpoint()
	return nil
}

// Ensure Breaker implements graphy.BreakService.
var _ graphy.BreakService = (*Breaker)(nil)
