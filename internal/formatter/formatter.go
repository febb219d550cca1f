// package formatter renders plans, results and exports to text, CSV and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
)

// actionView is the JSON shape of one planned action.
type actionView struct {
	Type            string   `json:"type"`
	Target          string   `json:"target"`
	Tags            []string `json:"tags,omitempty"`
	ResolvedName    string   `json:"resolved_name,omitempty"`
	ChannelID       string   `json:"channel_id,omitempty"`
	SubscriberCount int64    `json:"subscriber_count,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func newActionView(action models.SyncAction) actionView {
	view := actionView{
		Type:   action.Type.String(),
		Target: action.Target.Name,
		Tags:   action.Target.Tags,
		Reason: action.Reason,
	}
	if action.Resolved != nil {
		view.ResolvedName = action.Resolved.Name
		view.ChannelID = action.Resolved.ChannelID
		view.SubscriberCount = action.Resolved.SubscriberCount
	}
	return view
}

// actionMarker returns the one-character prefix used in text output.
func actionMarker(t models.SyncActionType) string {
	switch t {
	case models.ActionSubscribe:
		return "+"
	case models.ActionAlreadySubscribed:
		return "="
	default:
		return "?"
	}
}

// FormatPlan renders a plan as human-readable text, one line per action.
func FormatPlan(plan []models.SyncAction) []byte {
	var buf bytes.Buffer

	subscribe, already, unresolved := 0, 0, 0
	for _, action := range plan {
		switch action.Type {
		case models.ActionSubscribe:
			subscribe++
		case models.ActionAlreadySubscribed:
			already++
		default:
			unresolved++
		}
	}

	buf.WriteString(fmt.Sprintf("Plan: %d targets (%d to subscribe, %d already subscribed, %d unresolved)\n\n",
		len(plan), subscribe, already, unresolved))

	for _, action := range plan {
		line := fmt.Sprintf("[%s] %s", actionMarker(action.Type), action.Target.Name)
		if action.Resolved != nil && action.Resolved.Name != action.Target.Name {
			line += fmt.Sprintf(" -> %s", action.Resolved.Name)
		}
		if action.Resolved != nil && action.Resolved.SubscriberCount > 0 {
			line += fmt.Sprintf(" (%s subscribers)", FormatCount(action.Resolved.SubscriberCount))
		}
		if action.Reason != "" {
			line += fmt.Sprintf(" - %s", action.Reason)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// PlanToJSON renders a plan as indented JSON.
func PlanToJSON(plan []models.SyncAction) ([]byte, error) {
	views := make([]actionView, len(plan))
	for i, action := range plan {
		views[i] = newActionView(action)
	}
	return shared.MarshalJSON(views, true)
}

// FormatResult renders a finished run as human-readable text.
func FormatResult(result *models.SyncResult) []byte {
	var buf bytes.Buffer

	if result.DryRun {
		buf.WriteString("Dry run - no changes were made.\n\n")
		buf.WriteString(fmt.Sprintf("Would subscribe:     %d\n", result.WouldSubscribe))
	} else {
		buf.WriteString(fmt.Sprintf("Subscribed:          %d\n", result.Subscribed))
	}
	buf.WriteString(fmt.Sprintf("Already subscribed:  %d\n", result.AlreadySubscribed))
	buf.WriteString(fmt.Sprintf("Unresolved:          %d\n", result.Unresolved))
	buf.WriteString(fmt.Sprintf("Failed:              %d\n", result.Failed))

	var failures []models.ActionOutcome
	var unresolved []models.SyncAction
	for _, outcome := range result.Outcomes {
		if outcome.Failed() {
			failures = append(failures, outcome)
		}
		if outcome.Action.Type == models.ActionUnresolved {
			unresolved = append(unresolved, outcome.Action)
		}
	}

	if len(unresolved) > 0 {
		buf.WriteString("\nUnresolved targets:\n")
		for _, action := range unresolved {
			buf.WriteString(fmt.Sprintf("  ? %s - %s\n", action.Target.Name, action.Reason))
		}
	}

	if len(failures) > 0 {
		buf.WriteString("\nFailures:\n")
		for _, outcome := range failures {
			buf.WriteString(fmt.Sprintf("  ✗ %s: %v\n", outcome.Action.Target.Name, outcome.Err))
		}
	}

	return buf.Bytes()
}

// resultView is the JSON shape of a finished run.
type resultView struct {
	DryRun            bool         `json:"dry_run"`
	Subscribed        int          `json:"subscribed"`
	WouldSubscribe    int          `json:"would_subscribe,omitempty"`
	AlreadySubscribed int          `json:"already_subscribed"`
	Unresolved        int          `json:"unresolved"`
	Failed            int          `json:"failed"`
	Actions           []actionView `json:"actions"`
}

// ResultToJSON renders a finished run as indented JSON.
func ResultToJSON(result *models.SyncResult) ([]byte, error) {
	view := resultView{
		DryRun:            result.DryRun,
		Subscribed:        result.Subscribed,
		WouldSubscribe:    result.WouldSubscribe,
		AlreadySubscribed: result.AlreadySubscribed,
		Unresolved:        result.Unresolved,
		Failed:            result.Failed,
		Actions:           make([]actionView, len(result.Outcomes)),
	}
	for i, outcome := range result.Outcomes {
		view.Actions[i] = newActionView(outcome.Action)
		if outcome.Err != nil {
			view.Actions[i].Error = outcome.Err.Error()
		}
	}
	return shared.MarshalJSON(view, true)
}

// SubscriptionsToText renders the subscription list as plain text.
func SubscriptionsToText(subs []services.Subscription) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Subscriptions: %d\n\n", len(subs)))
	for i, sub := range subs {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, sub.Title, sub.ChannelID))
	}
	return buf.Bytes()
}

// SubscriptionsToCSV renders the subscription list as CSV with columns: ChannelID, Title
func SubscriptionsToCSV(subs []services.Subscription) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ChannelID", "Title"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, sub := range subs {
		if err := writer.Write([]string{sub.ChannelID, sub.Title}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// subscriptionView is the JSON shape of one subscription.
type subscriptionView struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
}

// SubscriptionsToJSON renders the subscription list as indented JSON.
func SubscriptionsToJSON(subs []services.Subscription) ([]byte, error) {
	views := make([]subscriptionView, len(subs))
	for i, sub := range subs {
		views[i] = subscriptionView{ChannelID: sub.ChannelID, Title: sub.Title}
	}
	return shared.MarshalJSON(views, true)
}

// WriteSubscriptionsExport writes the subscription list to path in the given
// format ("text", "csv" or "json").
func WriteSubscriptionsExport(subs []services.Subscription, path, format string) error {
	var data []byte
	var err error

	switch format {
	case "", "text":
		data = SubscriptionsToText(subs)
	case "csv":
		data, err = SubscriptionsToCSV(subs)
	case "json":
		data, err = SubscriptionsToJSON(subs)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// FormatCacheEntries renders cache rows as a ranked text list.
func FormatCacheEntries(entries []*models.CacheEntry) []byte {
	var buf bytes.Buffer
	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) - %s subscribers, cached %s\n",
			i+1,
			entry.Artist.Name,
			entry.Artist.ChannelID,
			FormatCount(entry.Artist.SubscriberCount),
			entry.CachedAt.Format("2006-01-02"),
		))
	}
	return buf.Bytes()
}

// FormatCacheStats renders cache statistics as text.
func FormatCacheStats(stats *repositories.CacheStats) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Entries: %d (%d fresh, %d stale)\n", stats.Entries, stats.Fresh, stats.Stale))
	if stats.Entries > 0 {
		buf.WriteString(fmt.Sprintf("Oldest:  %s\n", stats.Oldest.Format(time.RFC3339)))
		buf.WriteString(fmt.Sprintf("Newest:  %s\n", stats.Newest.Format(time.RFC3339)))
	}
	return buf.Bytes()
}

// FormatRuns renders run history as text, most recent first.
func FormatRuns(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer
	if len(runs) == 0 {
		buf.WriteString("No sync runs recorded.\n")
		return buf.Bytes()
	}

	for _, run := range runs {
		mode := "live"
		if run.DryRun {
			mode = "dry-run"
		}
		buf.WriteString(fmt.Sprintf("#%d  %s  %s  targets=%d subscribed=%d already=%d unresolved=%d failed=%d\n",
			run.Sequence,
			run.StartedAt.Format("2006-01-02 15:04"),
			mode,
			run.Targets,
			run.Subscribed,
			run.AlreadySubscribed,
			run.Unresolved,
			run.Failed,
		))
	}
	return buf.Bytes()
}

// FormatCount renders a subscriber count compactly (1234567 -> "1.2M").
func FormatCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return strconv.FormatFloat(float64(count)/1_000_000, 'f', 1, 64) + "M"
	case count >= 1_000:
		return strconv.FormatFloat(float64(count)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(count, 10)
	}
}
