package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytsync/internal/models"
)

var _ list.Item = actionItem{}

// actionItem wraps [models.SyncAction] to implement [list.Item].
type actionItem struct {
	action models.SyncAction
}

func (i actionItem) FilterValue() string { return i.action.Target.Name }

func (i actionItem) Title() string {
	switch i.action.Type {
	case models.ActionSubscribe:
		return styles.ok.Render("+ " + i.action.Target.Name)
	case models.ActionAlreadySubscribed:
		return "= " + i.action.Target.Name
	default:
		return styles.warn.Render("? " + i.action.Target.Name)
	}
}

func (i actionItem) Description() string {
	if i.action.Resolved != nil {
		desc := i.action.Resolved.Name
		if i.action.Resolved.SubscriberCount > 0 {
			desc = fmt.Sprintf("%s • %d subscribers", desc, i.action.Resolved.SubscriberCount)
		}
		if i.action.Reason != "" {
			desc = fmt.Sprintf("%s • %s", desc, i.action.Reason)
		}
		return desc
	}
	return i.action.Reason
}
