package models

import "time"

// SyncActionType classifies a planned action for one target.
type SyncActionType int

const (
	ActionSubscribe SyncActionType = iota
	ActionAlreadySubscribed
	ActionUnresolved
)

func (t SyncActionType) String() string {
	switch t {
	case ActionSubscribe:
		return "subscribe"
	case ActionAlreadySubscribed:
		return "already_subscribed"
	case ActionUnresolved:
		return "unresolved"
	default:
		return ""
	}
}

// SyncAction is one classified entry of the plan. Immutable once produced by
// the planner; Resolved is nil only for [ActionUnresolved].
type SyncAction struct {
	Type     SyncActionType
	Target   ArtistTarget
	Resolved *ResolvedArtist
	Reason   string // Human-readable classification reason
}

// ActionOutcome records what the executor did with one planned action.
type ActionOutcome struct {
	Action SyncAction
	Err    error // nil when the action succeeded or required no remote call
}

// Failed reports whether this outcome represents an execution failure.
func (o ActionOutcome) Failed() bool { return o.Err != nil }

// SyncResult aggregates the outcomes of one executed plan. It is built
// incrementally by the executor and finalized when the plan is exhausted.
type SyncResult struct {
	DryRun   bool
	Outcomes []ActionOutcome

	Subscribed        int // Successful mutations (live mode only)
	WouldSubscribe    int // Subscribe actions reported in dry-run mode
	AlreadySubscribed int
	Unresolved        int
	Failed            int
}

// Record appends an outcome and updates the aggregate counters.
func (r *SyncResult) Record(outcome ActionOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)

	switch outcome.Action.Type {
	case ActionAlreadySubscribed:
		r.AlreadySubscribed++
	case ActionUnresolved:
		r.Unresolved++
	case ActionSubscribe:
		switch {
		case outcome.Err != nil:
			r.Failed++
		case r.DryRun:
			r.WouldSubscribe++
		default:
			r.Subscribed++
		}
	}
}

// Succeeded reports whether the run completed with zero execution failures.
// Unresolved targets are a reportable outcome, not a run failure.
func (r *SyncResult) Succeeded() bool { return r.Failed == 0 }

// SyncRun is a persisted record of one sync run, kept for the history
// command.
type SyncRun struct {
	ID                string
	Sequence          int
	DryRun            bool
	Targets           int
	Subscribed        int
	AlreadySubscribed int
	Unresolved        int
	Failed            int
	StartedAt         time.Time
	FinishedAt        time.Time
}

// NewSyncRun builds a run record from a finished result.
func NewSyncRun(targets int, result *SyncResult, startedAt, finishedAt time.Time) *SyncRun {
	subscribed := result.Subscribed
	if result.DryRun {
		subscribed = result.WouldSubscribe
	}
	return &SyncRun{
		DryRun:            result.DryRun,
		Targets:           targets,
		Subscribed:        subscribed,
		AlreadySubscribed: result.AlreadySubscribed,
		Unresolved:        result.Unresolved,
		Failed:            result.Failed,
		StartedAt:         startedAt,
		FinishedAt:        finishedAt,
	}
}
