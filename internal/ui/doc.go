// Package ui implements the interactive plan review using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for a sync run:
//  1. [PlanView] : Browse the planned actions before anything executes
//  2. [ConfirmView] : Confirm the run (and whether it is live)
//  3. [ExecuteView] : Monitor real-time progress updates
//  4. [ResultView] : Display run counters and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the SyncEngine, providing non-blocking status reporting during execution.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
