// Package graphy provides an embeddable condition watcher for applications
// driven by a frame or update loop. Once per frame the engine sweeps a set
// of watch packets, evaluates their threshold conditions against live
// performance metrics (frame rate, memory, audio level), and fires the
// configured reactions: log messages, screenshots, execution breaks,
// event hooks and callbacks.
//
// # Quick Start
//
//	eng := graphy.NewEngine(
//		graphy.MetricSources{FPS: fps, RAM: ram},
//		graphy.Services{Log: sink},
//		logger,
//	)
//
//	eng.AddPacket(&graphy.WatchPacket{
//		ID:        1,
//		Active:    true,
//		InitDelay: 2 * time.Second,
//		Logic:     graphy.LogicAll,
//		Conditions: []graphy.Condition{
//			{Variable: graphy.VarFPS, Comparator: graphy.Less, Threshold: 30},
//		},
//		Actions: graphy.ActionSpec{
//			Severity: graphy.SeverityWarning,
//			Message:  "frame rate below 30",
//		},
//	})
//
//	// once per frame, on the loop goroutine:
//	eng.Tick(dt)
//
// # Collaborators
//
// The engine never reads metrics or performs side effects itself. Metric
// sources (FPSSource, RAMSource, AudioSource) and action services
// (LogSink, ScreenshotService, BreakService) are small interfaces supplied
// at construction; the monitor and actions subpackages ship reference
// implementations, and hosts are free to wire their own. Additional
// variables can be bound with Engine.RegisterReader without touching the
// evaluation path.
//
// # Concurrency
//
// The engine performs no locking. Tick and the management API share a
// single goroutine, the one driving the host's update loop; the sweep
// runs synchronously within a frame and never blocks or yields. Hosts
// that must touch the engine from other goroutines wrap it with their own
// mutex. Management calls made from inside a firing hook or callback are
// safe; removals they request take effect when the sweep completes.
package graphy
