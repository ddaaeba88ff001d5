package graphy

import "time"

// Hook is an opaque side-effect handle fired when a packet's conditions
// hold. Hooks run synchronously inside the sweep, so implementations must
// return quickly.
type Hook interface {
	Fire()
}

// ActionSpec describes the side effects a packet requests when satisfied.
type ActionSpec struct {
	Severity       Severity
	Message        string // empty means no message is dispatched
	TakeScreenshot bool
	ScreenshotName string // filename hint; sanitized before use
	BreakExecution bool
	Hooks          []Hook   // fired in order; nil entries are skipped
	Callbacks      []func() // invoked in order; nil entries are skipped
}

// WatchPacket is the scheduling unit: a bundle of conditions, a combination
// policy, activation timers, and the actions to fire on satisfaction.
//
// The exported fields are caller-owned configuration. The timer state is
// owned by the sweep: it is advanced only while the packet is active, so a
// deactivated packet resumes its cooldown exactly where it left off.
type WatchPacket struct {
	ID          int  // caller-assigned; multiple packets may share an id
	Active      bool // inactive packets are skipped entirely by the sweep
	ExecuteOnce bool // remove the packet after its actions fire once

	InitDelay    time.Duration // cooldown before the first eligibility
	RecheckDelay time.Duration // cooldown before re-eligibility after a firing

	Conditions []Condition
	Logic      ConditionLogic
	Actions    ActionSpec

	elapsed  time.Duration
	fired    bool
	eligible bool
	doomed   bool
}

// NewWatchPacket builds an active, repeating packet from an id, a
// combination policy and conditions. The result can be adjusted before
// handing it to Engine.AddPacket.
func NewWatchPacket(id int, logic ConditionLogic, conditions ...Condition) *WatchPacket {
	return &WatchPacket{
		ID:         id,
		Active:     true,
		Logic:      logic,
		Conditions: conditions,
	}
}

// HasFired reports whether the packet's actions have run at least once.
func (p *WatchPacket) HasFired() bool { return p.fired }

// Eligible reports whether the packet's cooldown has elapsed, permitting
// condition evaluation this frame.
func (p *WatchPacket) Eligible() bool { return p.eligible }

// advance accumulates active time and reports whether the packet is
// eligible for condition evaluation this frame. Once reached, eligibility
// persists across frames until the packet fires.
func (p *WatchPacket) advance(dt time.Duration) bool {
	if p.eligible {
		return true
	}
	p.elapsed += dt
	if p.elapsed >= p.delay() {
		p.eligible = true
		p.elapsed = 0
	}
	return p.eligible
}

// delay returns the cooldown currently gating eligibility: InitDelay
// before the first firing, RecheckDelay afterwards.
func (p *WatchPacket) delay() time.Duration {
	if p.fired {
		return p.RecheckDelay
	}
	return p.InitDelay
}

// markFired re-arms the timer after the action pipeline ran.
func (p *WatchPacket) markFired() {
	p.fired = true
	p.eligible = false
	p.elapsed = 0
}
