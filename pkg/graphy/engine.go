package graphy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrPacketNotFound reports a first-match lookup that matched no packet.
var ErrPacketNotFound = errors.New("packet not found")

// DefaultPrefix is the tag prepended to dispatched messages.
const DefaultPrefix = "graphy"

// Engine owns the watch packet collection and runs the per-frame sweep.
// Construct it with NewEngine and drive it with Tick; there is no ambient
// singleton.
//
// The engine performs no locking. The packet collection belongs to the
// goroutine that calls Tick, and every management method must be called
// from that same goroutine. Callers needing cross-goroutine access must
// serialize around the engine themselves.
type Engine struct {
	prefix  string
	packets []*WatchPacket
	readers map[Variable]func() float64

	// sweeping marks a Tick pass in progress. Removals issued while it is
	// set, typically from a firing hook or callback, only tombstone;
	// needCompact carries the cleanup to the end of the pass.
	sweeping    bool
	needCompact bool

	log     LogSink
	screens ScreenshotService
	breaker BreakService

	logger *zap.Logger
}

// NewEngine creates an engine wired to the given metric sources and
// side-effect services. Nil source fields leave their variables reading 0;
// nil service fields skip the corresponding pipeline step. The logger
// carries engine diagnostics only and is independent of the LogSink the
// packets dispatch to.
func NewEngine(sources MetricSources, services Services, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		prefix:  DefaultPrefix,
		readers: make(map[Variable]func() float64),
		log:     services.Log,
		screens: services.Screenshot,
		breaker: services.Break,
		logger:  logger,
	}
	if fps := sources.FPS; fps != nil {
		e.RegisterReader(VarFPS, fps.Current)
		e.RegisterReader(VarFPSMin, fps.Min)
		e.RegisterReader(VarFPSMax, fps.Max)
		e.RegisterReader(VarFPSAvg, fps.Average)
	}
	if ram := sources.RAM; ram != nil {
		e.RegisterReader(VarRAMAllocated, ram.Allocated)
		e.RegisterReader(VarRAMReserved, ram.Reserved)
		e.RegisterReader(VarRAMManaged, ram.Managed)
	}
	if audio := sources.Audio; audio != nil {
		e.RegisterReader(VarAudioPeak, audio.PeakLevel)
	}
	return e
}

// SetPrefix overrides the tag prepended to dispatched messages. Empty
// prefixes are ignored.
func (e *Engine) SetPrefix(prefix string) {
	if prefix != "" {
		e.prefix = prefix
	}
}

// RegisterReader binds a metric variable to an accessor, replacing any
// existing binding. Callers can extend the variable set or override a
// built-in reading without touching the evaluation path.
func (e *Engine) RegisterReader(v Variable, read func() float64) {
	e.readers[v] = read
}

// AddPacket appends a packet to the sweep order. Nil packets are ignored.
// A re-added packet sheds any tombstone from an earlier removal.
func (e *Engine) AddPacket(p *WatchPacket) {
	if p == nil {
		e.logger.Warn("ignoring nil watch packet")
		return
	}
	p.doomed = false
	e.packets = append(e.packets, p)
	e.logger.Debug("watch packet added",
		zap.Int("id", p.ID),
		zap.Int("conditions", len(p.Conditions)),
		zap.Bool("once", p.ExecuteOnce))
}

// AddWatch builds and appends an active, repeating packet from the most
// common ingredients: conditions combined with LogicAll, a message, and
// optional callbacks. The packet is returned for further adjustment.
func (e *Engine) AddWatch(id int, conditions []Condition, sev Severity, message string, breakExec bool, callbacks ...func()) *WatchPacket {
	p := NewWatchPacket(id, LogicAll, conditions...)
	p.Actions = ActionSpec{
		Severity:       sev,
		Message:        message,
		BreakExecution: breakExec,
		Callbacks:      callbacks,
	}
	e.AddPacket(p)
	return p
}

// FirstPacket returns the first packet with the given id, in sweep order.
// The error wraps ErrPacketNotFound when nothing matches.
func (e *Engine) FirstPacket(id int) (*WatchPacket, error) {
	for _, p := range e.packets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("packet id %d: %w", id, ErrPacketNotFound)
}

// PacketsWithID returns every packet with the given id, in sweep order.
func (e *Engine) PacketsWithID(id int) []*WatchPacket {
	var out []*WatchPacket
	for _, p := range e.packets {
		if p.ID == id {
			out = append(out, p)
		}
	}
	return out
}

// Packets returns a snapshot of the collection in sweep order.
func (e *Engine) Packets() []*WatchPacket {
	out := make([]*WatchPacket, len(e.packets))
	copy(out, e.packets)
	return out
}

// Len returns the number of packets currently held.
func (e *Engine) Len() int { return len(e.packets) }

// RemoveFirstPacket removes the first packet with the given id, preserving
// the order of the rest, and reports whether one was removed. Called from
// inside a firing hook or callback, the packet stops firing immediately
// but leaves the collection only when the running sweep completes.
func (e *Engine) RemoveFirstPacket(id int) bool {
	for _, p := range e.packets {
		if p.ID == id && !p.doomed {
			p.doomed = true
			e.requestCompact()
			return true
		}
	}
	return false
}

// RemovePacketsWithID removes every packet with the given id, preserving
// the order of the rest, and returns how many were removed. During a sweep
// the removal is deferred to the pass's final compaction.
func (e *Engine) RemovePacketsWithID(id int) int {
	n := 0
	for _, p := range e.packets {
		if p.ID == id && !p.doomed {
			p.doomed = true
			n++
		}
	}
	if n > 0 {
		e.requestCompact()
	}
	return n
}

// Clear removes every packet. During a sweep the packets are tombstoned
// and dropped when the pass completes.
func (e *Engine) Clear() {
	if e.sweeping {
		for _, p := range e.packets {
			p.doomed = true
		}
		e.needCompact = true
		return
	}
	for i := range e.packets {
		e.packets[i] = nil
	}
	e.packets = e.packets[:0]
}

// AttachCallback appends fn to the callbacks of the first packet with the
// given id. The error wraps ErrPacketNotFound when nothing matches.
func (e *Engine) AttachCallback(id int, fn func()) error {
	p, err := e.FirstPacket(id)
	if err != nil {
		return err
	}
	p.Actions.Callbacks = append(p.Actions.Callbacks, fn)
	return nil
}

// AttachCallbackAll appends fn to the callbacks of every packet with the
// given id and returns how many packets were touched.
func (e *Engine) AttachCallbackAll(id int, fn func()) int {
	n := 0
	for _, p := range e.packets {
		if p.ID == id {
			p.Actions.Callbacks = append(p.Actions.Callbacks, fn)
			n++
		}
	}
	return n
}

// AttachHook appends h to the hooks of the first packet with the given id.
// The error wraps ErrPacketNotFound when nothing matches.
func (e *Engine) AttachHook(id int, h Hook) error {
	p, err := e.FirstPacket(id)
	if err != nil {
		return err
	}
	p.Actions.Hooks = append(p.Actions.Hooks, h)
	return nil
}

// AttachHookAll appends h to the hooks of every packet with the given id
// and returns how many packets were touched.
func (e *Engine) AttachHookAll(id int, h Hook) int {
	n := 0
	for _, p := range e.packets {
		if p.ID == id {
			p.Actions.Hooks = append(p.Actions.Hooks, h)
			n++
		}
	}
	return n
}

// Tick advances every packet's timer by dt and runs the sweep. The host
// must call it exactly once per frame with that frame's elapsed time.
//
// The collection is never rewritten mid-pass: one-shot packets that fire,
// and packets removed by a firing hook or callback through the management
// API, are tombstoned and dropped in a single compaction after the pass.
// A packet tombstoned during the pass no longer fires in it.
func (e *Engine) Tick(dt time.Duration) {
	e.sweeping = true
	for _, p := range e.packets {
		if p.doomed || !p.Active {
			continue
		}
		if !p.advance(dt) {
			continue
		}
		if !e.satisfied(p) {
			continue
		}
		e.fire(p)
		if p.ExecuteOnce {
			p.doomed = true
			e.needCompact = true
		}
	}
	e.sweeping = false
	if e.needCompact {
		e.compact()
		e.needCompact = false
	}
}

// readVariable resolves a variable to its current reading. Unknown
// variables read 0, a deliberate leniency so a stale condition degrades
// instead of failing the sweep; ParseVariable gives configuration layers
// the strict counterpart.
func (e *Engine) readVariable(v Variable) float64 {
	if read, ok := e.readers[v]; ok {
		return read()
	}
	return 0
}

// satisfied reduces the packet's condition list to one boolean. LogicAny
// is an OR over the list and short-circuits on the first match; any other
// logic value reduces as LogicAll, an AND. An empty list is vacuously true
// under LogicAll and never satisfied under LogicAny.
func (e *Engine) satisfied(p *WatchPacket) bool {
	if p.Logic == LogicAny {
		for _, c := range p.Conditions {
			if c.Evaluate(e.readVariable) {
				return true
			}
		}
		return false
	}
	for _, c := range p.Conditions {
		if !c.Evaluate(e.readVariable) {
			return false
		}
	}
	return true
}

// fire runs the packet's action pipeline in fixed order: break, message,
// screenshot, hooks, callbacks, then timer re-arm. Every step is
// best-effort; a failing or panicking step is reported through the
// diagnostic logger and never aborts the remaining steps, later packets,
// or the sweep.
func (e *Engine) fire(p *WatchPacket) {
	act := &p.Actions
	e.logger.Debug("watch packet fired",
		zap.Int("id", p.ID),
		zap.Bool("once", p.ExecuteOnce))

	if act.BreakExecution {
		e.step(p.ID, "break", e.requestBreak)
	}
	if act.Message != "" {
		e.step(p.ID, "message", func() { e.dispatchMessage(act.Severity, act.Message) })
	}
	if act.TakeScreenshot {
		e.step(p.ID, "screenshot", func() { e.captureScreenshot(act.ScreenshotName) })
	}
	for i, h := range act.Hooks {
		if h == nil {
			continue
		}
		e.step(p.ID, fmt.Sprintf("hook[%d]", i), h.Fire)
	}
	for i, fn := range act.Callbacks {
		if fn == nil {
			continue
		}
		e.step(p.ID, fmt.Sprintf("callback[%d]", i), fn)
	}

	p.markFired()
}

// step runs one pipeline step with panic containment.
func (e *Engine) step(id int, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("action step panicked",
				zap.Int("id", id),
				zap.String("step", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}

func (e *Engine) requestBreak() {
	if e.breaker == nil {
		e.logger.Debug("break requested but no break service wired")
		return
	}
	if err := e.breaker.Break(); err != nil {
		e.logger.Warn("break request failed", zap.Error(err))
	}
}

func (e *Engine) dispatchMessage(sev Severity, msg string) {
	if e.log == nil {
		e.logger.Debug("message dispatch skipped, no log sink wired")
		return
	}
	e.log.Write(sev, fmt.Sprintf("[%s] (%s): %s", e.prefix, time.Now().Format(time.RFC3339), msg))
}

func (e *Engine) captureScreenshot(hint string) {
	if e.screens == nil {
		e.logger.Debug("screenshot requested but no screenshot service wired")
		return
	}
	name := ScreenshotFilename(hint, time.Now())
	if err := e.screens.Capture(name); err != nil {
		e.logger.Warn("screenshot capture failed",
			zap.String("file", name),
			zap.Error(err))
	}
}

// requestCompact compacts immediately, or defers to the end of the pass
// when a sweep is iterating the collection.
func (e *Engine) requestCompact() {
	if e.sweeping {
		e.needCompact = true
		return
	}
	e.compact()
}

// compact removes doomed packets in a single pass, preserving the relative
// order of the survivors. Vacated tail slots are nilled so removed packets
// do not linger in the backing array.
func (e *Engine) compact() {
	kept := e.packets[:0]
	for _, p := range e.packets {
		if !p.doomed {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(e.packets); i++ {
		e.packets[i] = nil
	}
	e.packets = kept
}

// ScreenshotFilename builds the filesystem-safe filename for a screenshot
// request: the hint joined with the timestamp, path-unsafe characters
// replaced, and a png extension appended.
func ScreenshotFilename(hint string, ts time.Time) string {
	name := hint + "_" + ts.Format("2006-01-02 15:04:05")
	return screenshotSanitizer.Replace(name) + ".png"
}

// screenshotSanitizer maps the characters that break paths or shell
// quoting on common platforms.
var screenshotSanitizer = strings.NewReplacer(
	"/", "-",
	" ", "_",
	":", "-",
)
