package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// BuildPlan classifies every target against the subscription snapshot.
//
// The plan holds exactly one action per target, in input order. A target
// resolving to a channel already in the snapshot, or to a channel an earlier
// target already claimed, becomes an already-subscribed action; a target
// with no match or a failed lookup becomes unresolved with the reason
// recorded. Only cache storage failures and context cancellation abort
// planning.
func BuildPlan(ctx context.Context, resolver Resolver, subs models.SubscriptionSet, targets []models.ArtistTarget, progress chan<- ProgressUpdate) ([]models.SyncAction, error) {
	plan := make([]models.SyncAction, 0, len(targets))
	planned := models.NewSubscriptionSet()
	total := len(targets)

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sendProgress(progress, resolvingUpdate(i+1, total, target.Name))

		resolved, err := resolver.Resolve(ctx, target.Name)
		switch {
		case err == nil && resolved == nil:
			plan = append(plan, models.SyncAction{
				Type:   models.ActionUnresolved,
				Target: target,
				Reason: "no matching channel found",
			})
			continue
		case errors.Is(err, shared.ErrCacheUnavailable):
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case err != nil:
			plan = append(plan, models.SyncAction{
				Type:   models.ActionUnresolved,
				Target: target,
				Reason: fmt.Sprintf("lookup failed: %v", err),
			})
			continue
		}

		switch {
		case subs.Contains(resolved.ChannelID):
			plan = append(plan, models.SyncAction{
				Type:     models.ActionAlreadySubscribed,
				Target:   target,
				Resolved: resolved,
				Reason:   "already subscribed",
			})
		case planned.Contains(resolved.ChannelID):
			plan = append(plan, models.SyncAction{
				Type:     models.ActionAlreadySubscribed,
				Target:   target,
				Resolved: resolved,
				Reason:   "already planned earlier in this run",
			})
		default:
			planned.Add(resolved.ChannelID)
			plan = append(plan, models.SyncAction{
				Type:     models.ActionSubscribe,
				Target:   target,
				Resolved: resolved,
			})
		}
	}

	return plan, nil
}
