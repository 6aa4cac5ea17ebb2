// Package app wires configuration, polling, state and the UI together.
//
// # Polling
//
// Each viewed run gets one goroutine that owns a monitor.Session. The loop
// catches up on the tail of the log, then repeatedly reads the run's result
// artifact, polls the session and hands the update to a sink:
//
//	Supervisor.View(run)
//	    │
//	    ├── cancel previous loop, wait for it
//	    ├── store.Reset(run)
//	    └── go pollRun ──> CatchUp ──> Poll ──> sink ──> sleep ──┐
//	                                    ▲                        │
//	                                    └────────────────────────┘
//
// The sleep is the interval the classifier recommends. Consecutive read
// failures double it per failure, capped at 30 seconds. A terminal snapshot
// is delivered once and ends the loop.
//
// # Sinks
//
// The TUI uses a sink that writes into state.Store. Follow uses one that
// prints lines and milestone notices to a writer. Scan does not loop at all;
// it drains the log once for the timeline command.
package app
