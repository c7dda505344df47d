package state

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ChangeKind classifies a difference between two snapshots.
type ChangeKind string

// Change kinds.
const (
	ResourceAdded    ChangeKind = "resource-added"
	ResourceRemoved  ChangeKind = "resource-removed"
	OwnershipChanged ChangeKind = "ownership-changed"
	CoreChanged      ChangeKind = "core-changed"
	ChannelAdded     ChangeKind = "channel-added"
	ChannelRemoved   ChangeKind = "channel-removed"
	ChannelChanged   ChangeKind = "channel-changed"
	TimerChanged     ChangeKind = "timer-queue-changed"
	SendAdded        ChangeKind = "send-added"
	SendRemoved      ChangeKind = "send-removed"
	SyncAdded        ChangeKind = "sync-added"
	SyncRemoved      ChangeKind = "sync-removed"
)

// Change is one difference between a recorded snapshot and a newer one.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Subject string     `json:"subject"`
	Before  string     `json:"before,omitempty"`
	After   string     `json:"after,omitempty"`
}

// String renders the change as "subject: before -> after".
func (c Change) String() string {
	switch {
	case c.Before == "":
		return fmt.Sprintf("%s: %s (%s)", c.Subject, c.After, c.Kind)
	case c.After == "":
		return fmt.Sprintf("%s: %s (%s)", c.Subject, c.Before, c.Kind)
	default:
		return fmt.Sprintf("%s: %s -> %s", c.Subject, c.Before, c.After)
	}
}

// Drift lists what changed from prev to cur: resource ownerships and owning
// cores, channels, the timer queue and the send/sync sets. Changes are
// ordered by subject within each category.
func Drift(prev, cur *Snapshot) []Change {
	var changes []Change
	changes = append(changes, resourceDrift(prev, cur)...)
	changes = append(changes, channelDrift(prev, cur)...)

	if prev.TimerQueue != cur.TimerQueue {
		changes = append(changes, Change{
			Kind:    TimerChanged,
			Subject: "timer queue",
			Before:  formatTimerQueue(prev.TimerQueue),
			After:   formatTimerQueue(cur.TimerQueue),
		})
	}

	changes = append(changes, setDrift(prev.SendTypes, cur.SendTypes, SendAdded, SendRemoved)...)
	changes = append(changes, setDrift(prev.SyncTypes, cur.SyncTypes, SyncAdded, SyncRemoved)...)
	return changes
}

func resourceDrift(prev, cur *Snapshot) []Change {
	names := append(prev.ResourceNames(), cur.ResourceNames()...)
	slices.Sort(names)
	names = slices.Compact(names)

	var changes []Change
	for _, name := range names {
		subject := "resource " + name
		before, hadBefore := prev.Resources[name]
		after, hasAfter := cur.Resources[name]

		switch {
		case !hadBefore:
			changes = append(changes, Change{Kind: ResourceAdded, Subject: subject, After: after.Ownership.String()})
		case !hasAfter:
			changes = append(changes, Change{Kind: ResourceRemoved, Subject: subject, Before: before.Ownership.String()})
		default:
			if before.Ownership != after.Ownership {
				changes = append(changes, Change{
					Kind:    OwnershipChanged,
					Subject: subject,
					Before:  before.Ownership.String(),
					After:   after.Ownership.String(),
				})
			}
			if before.Core != after.Core {
				changes = append(changes, Change{
					Kind:    CoreChanged,
					Subject: subject,
					Before:  "core " + strconv.Itoa(int(before.Core)),
					After:   "core " + strconv.Itoa(int(after.Core)),
				})
			}
		}
	}
	return changes
}

func channelDrift(prev, cur *Snapshot) []Change {
	index := func(chs []ChannelRecord) map[int]ChannelRecord {
		m := make(map[int]ChannelRecord, len(chs))
		for _, ch := range chs {
			m[int(ch.Priority)] = ch
		}
		return m
	}
	before, after := index(prev.Channels), index(cur.Channels)

	var priorities []int
	for p := range before {
		priorities = append(priorities, p)
	}
	for p := range after {
		if _, ok := before[p]; !ok {
			priorities = append(priorities, p)
		}
	}
	slices.Sort(priorities)

	var changes []Change
	for _, p := range priorities {
		subject := fmt.Sprintf("channel %d", p)
		b, hadBefore := before[p]
		a, hasAfter := after[p]
		switch {
		case !hadBefore:
			changes = append(changes, Change{Kind: ChannelAdded, Subject: subject, After: formatChannel(a)})
		case !hasAfter:
			changes = append(changes, Change{Kind: ChannelRemoved, Subject: subject, Before: formatChannel(b)})
		case formatChannel(a) != formatChannel(b):
			changes = append(changes, Change{Kind: ChannelChanged, Subject: subject, Before: formatChannel(b), After: formatChannel(a)})
		}
	}
	return changes
}

func setDrift(before, after []string, added, removed ChangeKind) []Change {
	var changes []Change
	for _, ty := range after {
		if !slices.Contains(before, ty) {
			changes = append(changes, Change{Kind: added, Subject: "type " + ty, After: string(added)})
		}
	}
	for _, ty := range before {
		if !slices.Contains(after, ty) {
			changes = append(changes, Change{Kind: removed, Subject: "type " + ty, Before: string(removed)})
		}
	}
	return changes
}

func formatChannel(ch ChannelRecord) string {
	return fmt.Sprintf("ceiling %s, capacity %d, tasks [%s]", ch.Ceiling, ch.Capacity, strings.Join(ch.Tasks, " "))
}

func formatTimerQueue(tq TimerQueueRecord) string {
	return fmt.Sprintf("priority %d, ceiling %d, capacity %d", tq.Priority, tq.Ceiling, tq.Capacity)
}
