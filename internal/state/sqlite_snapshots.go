package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// SaveSnapshot stores a snapshot, assigning its ID and timestamp.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	sendTypes, err := json.Marshal(nonNil(snap.SendTypes))
	if err != nil {
		return fmt.Errorf("encode send types: %w", err)
	}
	syncTypes, err := json.Marshal(nonNil(snap.SyncTypes))
	if err != nil {
		return fmt.Errorf("encode sync types: %w", err)
	}

	id := generateID()
	recordedAt := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, app, recorded_at, send_types, sync_types, timer_priority, timer_ceiling, timer_capacity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, snap.App, recordedAt, string(sendTypes), string(syncTypes),
		int(snap.TimerQueue.Priority), int(snap.TimerQueue.Ceiling), int64(snap.TimerQueue.Capacity),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for _, name := range snap.ResourceNames() {
		r := snap.Resources[name]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_resources (snapshot_id, name, kind, priority, core)
			VALUES (?, ?, ?, ?, ?)`,
			id, name, r.Ownership.Kind.String(), int(r.Ownership.Priority), int(r.Core),
		); err != nil {
			return fmt.Errorf("insert resource %s: %w", name, err)
		}
	}

	for _, ch := range snap.Channels {
		tasks, err := json.Marshal(nonNil(ch.Tasks))
		if err != nil {
			return fmt.Errorf("encode channel tasks: %w", err)
		}
		var ceiling sql.NullInt64
		if p, ok := ch.Ceiling.Get(); ok {
			ceiling = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_channels (snapshot_id, priority, ceiling, capacity, tasks)
			VALUES (?, ?, ?, ?, ?)`,
			id, int(ch.Priority), ceiling, int64(ch.Capacity), string(tasks),
		); err != nil {
			return fmt.Errorf("insert channel %d: %w", ch.Priority, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	snap.ID = id
	snap.RecordedAt = recordedAt
	s.logger.Debug("snapshot saved",
		slog.String("id", id),
		slog.String("app", snap.App),
		slog.Int("resources", len(snap.Resources)))
	return nil
}

// LatestSnapshot returns the most recent snapshot of app, or ErrNoSnapshot.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context, app string) (*Snapshot, error) {
	snaps, err := s.ListSnapshots(ctx, app, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, app)
	}
	return snaps[0], nil
}

// ListSnapshots returns up to limit snapshots of app, newest first.
// A limit of zero or less returns every snapshot.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, app string, limit int) ([]*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, app, recorded_at, send_types, sync_types, timer_priority, timer_ceiling, timer_capacity
		FROM snapshots
		WHERE app = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?`, app, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []*Snapshot
	for rows.Next() {
		snap := &Snapshot{Resources: make(map[string]ResourceRecord)}
		var sendTypes, syncTypes string
		var timerPriority, timerCeiling int
		var timerCapacity int64
		if err := rows.Scan(&snap.ID, &snap.App, &snap.RecordedAt, &sendTypes, &syncTypes,
			&timerPriority, &timerCeiling, &timerCapacity); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(sendTypes), &snap.SendTypes); err != nil {
			return nil, fmt.Errorf("decode send types of %s: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(syncTypes), &snap.SyncTypes); err != nil {
			return nil, fmt.Errorf("decode sync types of %s: %w", snap.ID, err)
		}
		snap.TimerQueue = TimerQueueRecord{
			Priority: core.Priority(timerPriority), //nolint:gosec // stored from a Priority
			Ceiling:  core.Priority(timerCeiling),  //nolint:gosec // stored from a Priority
			Capacity: uint(timerCapacity),          //nolint:gosec // stored from a uint
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	for _, snap := range snaps {
		if err := s.loadResources(ctx, snap); err != nil {
			return nil, err
		}
		if err := s.loadChannels(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

func (s *SQLiteStore) loadResources(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, priority, core FROM snapshot_resources
		WHERE snapshot_id = ?
		ORDER BY name`, snap.ID)
	if err != nil {
		return fmt.Errorf("query resources of %s: %w", snap.ID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, kindName string
		var priority, coreID int
		if err := rows.Scan(&name, &kindName, &priority, &coreID); err != nil {
			return fmt.Errorf("scan resource: %w", err)
		}
		kind, ok := core.ParseOwnershipKind(kindName)
		if !ok {
			return fmt.Errorf("resource %s of %s has unknown ownership %q", name, snap.ID, kindName)
		}
		snap.Resources[name] = ResourceRecord{
			Ownership: core.Ownership{Kind: kind, Priority: core.Priority(priority)}, //nolint:gosec // stored from a Priority
			Core:      core.Core(coreID),                                             //nolint:gosec // stored from a Core
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadChannels(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT priority, ceiling, capacity, tasks FROM snapshot_channels
		WHERE snapshot_id = ?
		ORDER BY priority`, snap.ID)
	if err != nil {
		return fmt.Errorf("query channels of %s: %w", snap.ID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var priority int
		var ceiling sql.NullInt64
		var capacity int64
		var tasks string
		if err := rows.Scan(&priority, &ceiling, &capacity, &tasks); err != nil {
			return fmt.Errorf("scan channel: %w", err)
		}
		ch := ChannelRecord{
			Priority: core.Priority(priority), //nolint:gosec // stored from a Priority
			Ceiling:  core.NoPriority(),
			Capacity: uint(capacity), //nolint:gosec // stored from a uint
		}
		if ceiling.Valid {
			ch.Ceiling = core.PriorityOf(core.Priority(ceiling.Int64)) //nolint:gosec // stored from a Priority
		}
		if err := json.Unmarshal([]byte(tasks), &ch.Tasks); err != nil {
			return fmt.Errorf("decode channel tasks of %s: %w", snap.ID, err)
		}
		snap.Channels = append(snap.Channels, ch)
	}
	return rows.Err()
}

// DeleteSnapshot removes a snapshot and its rows.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, id)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
