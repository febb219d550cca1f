package tasks

import (
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Snapshot Phase = iota
	ResolveArtists
	Execute
	Done
)

func (p Phase) String() string {
	switch p {
	case Snapshot:
		return "snapshot"
	case ResolveArtists:
		return "resolve"
	case Execute:
		return "execute"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func snapshotUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    1,
		Total:   1,
		Message: "Reading current subscriptions...",
	}
}

func resolvingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving: %s", step, total, name),
	}
}

func executedUpdate(step, total int, outcome models.ActionOutcome) ProgressUpdate {
	update := ProgressUpdate{
		Phase: Execute,
		Step:  step,
		Total: total,
		Data:  outcome,
	}

	name := outcome.Action.Target.Name
	if outcome.Action.Resolved != nil {
		name = outcome.Action.Resolved.Name
	}

	switch {
	case outcome.Err != nil:
		update.Message = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, outcome.Err)
	case outcome.Action.Type == models.ActionSubscribe:
		update.Message = fmt.Sprintf("[%d/%d] ✓ %s", step, total, name)
	case outcome.Action.Type == models.ActionAlreadySubscribed:
		update.Message = fmt.Sprintf("[%d/%d] ~ %s (%s)", step, total, name, outcome.Action.Reason)
	default:
		update.Message = fmt.Sprintf("[%d/%d] ? %s (%s)", step, total, name, outcome.Action.Reason)
	}

	return update
}

func doneUpdate(result *models.SyncResult) ProgressUpdate {
	subscribed := result.Subscribed
	verb := "subscribed"
	if result.DryRun {
		subscribed = result.WouldSubscribe
		verb = "would subscribe"
	}

	return ProgressUpdate{
		Phase: Done,
		Step:  1,
		Total: 1,
		Message: fmt.Sprintf("%s: %d, already subscribed: %d, unresolved: %d, failed: %d",
			verb, subscribed, result.AlreadySubscribed, result.Unresolved, result.Failed),
		Data: result,
	}
}
