// Package ui implements the runwatch terminal UI with Bubble Tea.
//
// The model never touches files. It polls state.Store on a ticker and
// renders the latest snapshot:
//
//	runwatch  [ run-a ] run-b   RECEIVING  1.2 MiB  ~12.5k lines  updated 2s ago
//	✓ Starting  ✓ Loading dataset  ◉ Training  · Evaluating  ...
//	epoch 3/10 ████████░░░░░░░░░░░░
//	<log viewport>
//	tab next run • f follow • k/↑ scroll up • ...
//
// Switching runs calls Options.Select, which is expected to cancel the
// previous run's poll loop and start a new one. Follow mode keeps the
// viewport pinned to the newest line; scrolling up pauses it and G resumes.
package ui
