// Package state records analysis snapshots in SQLite so that successive
// builds of an application can be compared.
//
// A snapshot captures the parts of an analysis that change generated code:
// resource ownerships and ceilings, owning cores, channels, the timer queue and
// the send/sync type sets.
package state

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// ErrNoSnapshot is returned when an application has no recorded snapshot.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Store persists and retrieves analysis snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LatestSnapshot(ctx context.Context, app string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, app string, limit int) ([]*Snapshot, error)
	Close() error
}

// Snapshot is the persisted summary of one analysis.
type Snapshot struct {
	ID         string
	App        string
	RecordedAt time.Time

	Resources  map[string]ResourceRecord
	Channels   []ChannelRecord
	TimerQueue TimerQueueRecord
	SendTypes  []string
	SyncTypes  []string
}

// ResourceRecord is a resource's ownership and owning core.
type ResourceRecord struct {
	Ownership core.Ownership
	Core      core.Core
}

// ChannelRecord is one dispatch channel.
type ChannelRecord struct {
	Priority core.Priority
	Ceiling  core.OptionalPriority
	Capacity uint
	Tasks    []string
}

// TimerQueueRecord is the timer queue's priority, ceiling and capacity.
type TimerQueueRecord struct {
	Priority core.Priority
	Ceiling  core.Priority
	Capacity uint
}

// NewSnapshot summarizes an analysis. ID and RecordedAt are assigned when
// the snapshot is saved.
func NewSnapshot(app string, a *core.Analysis) *Snapshot {
	snap := &Snapshot{
		App:       app,
		Resources: make(map[string]ResourceRecord, len(a.Ownerships)),
		SendTypes: a.SendTypes.Sorted(),
		SyncTypes: a.SyncTypes.Sorted(),
	}

	for name, o := range a.Ownerships {
		snap.Resources[name] = ResourceRecord{
			Ownership: o,
			Core:      a.Locations[name].Core,
		}
	}

	for _, p := range a.ChannelPriorities() {
		ch := a.Channels[p]
		snap.Channels = append(snap.Channels, ChannelRecord{
			Priority: ch.Priority,
			Ceiling:  ch.Ceiling,
			Capacity: ch.Capacity,
			Tasks:    append([]string(nil), ch.Tasks...),
		})
	}

	if tq := a.TimerQueue; tq != nil {
		snap.TimerQueue = TimerQueueRecord{
			Priority: tq.Priority,
			Ceiling:  tq.Ceiling,
			Capacity: tq.Capacity,
		}
	}

	return snap
}

// ResourceNames returns the recorded resource names, sorted.
func (s *Snapshot) ResourceNames() []string {
	names := make([]string, 0, len(s.Resources))
	for name := range s.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
