package output

import (
	"time"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// AnalysisOutput is the JSON form of `leapsched analyze`.
type AnalysisOutput struct {
	App        string           `json:"app"`
	Cores      int              `json:"cores"`
	Late       []LateInfo       `json:"late_resources"`
	Resources  []ResourceInfo   `json:"resources"`
	Channels   []ChannelInfo    `json:"channels"`
	FreeQueues []FreeQueueInfo  `json:"free_queues"`
	TimerQueue TimerQueueInfo   `json:"timer_queue"`
	SendTypes  []string         `json:"send_types"`
	SyncTypes  []string         `json:"sync_types"`
	Warnings   []DiagnosticInfo `json:"warnings,omitempty"`
	Snapshot   *SnapshotInfo    `json:"snapshot,omitempty"`
}

// LateInfo lists the late resources one core's init produces.
type LateInfo struct {
	Core      core.Core `json:"core"`
	Resources []string  `json:"resources"`
}

// ResourceInfo describes one resource's ownership, location and locking.
type ResourceInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Late      bool   `json:"late"`
	Ownership string `json:"ownership"`
	// Ceiling is set for contended resources only.
	Ceiling          *core.Priority `json:"ceiling,omitempty"`
	Core             core.Core      `json:"core"`
	Cores            []core.Core    `json:"cores"`
	Shared           bool           `json:"shared"`
	CrossInitialized bool           `json:"cross_initialized"`
	// LockedBy lists the contexts that must lock the resource.
	LockedBy []string `json:"locked_by"`
}

// ChannelInfo describes one dispatch channel.
type ChannelInfo struct {
	Priority core.Priority         `json:"priority"`
	Ceiling  core.OptionalPriority `json:"ceiling"`
	Capacity uint                  `json:"capacity"`
	Tasks    []string              `json:"tasks"`
}

// FreeQueueInfo is the free queue ceiling of one software task.
type FreeQueueInfo struct {
	Task    string                `json:"task"`
	Ceiling core.OptionalPriority `json:"ceiling"`
}

// TimerQueueInfo describes the timer queue.
type TimerQueueInfo struct {
	Priority core.Priority `json:"priority"`
	Ceiling  core.Priority `json:"ceiling"`
	Capacity uint          `json:"capacity"`
	Tasks    []string      `json:"tasks"`
	Empty    bool          `json:"empty"`
}

// DiagnosticInfo is the JSON form of a validation diagnostic.
type DiagnosticInfo struct {
	Severity string `json:"severity"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// ValidateOutput is the JSON form of `leapsched validate`.
type ValidateOutput struct {
	App      string           `json:"app"`
	Valid    bool             `json:"valid"`
	Errors   []DiagnosticInfo `json:"errors"`
	Warnings []DiagnosticInfo `json:"warnings"`
}

// PassesOutput is the JSON form of `leapsched passes`.
type PassesOutput struct {
	Levels      []PassLevel `json:"levels"`
	TotalPasses int         `json:"total_passes"`
}

// PassLevel groups passes whose requirements are met by earlier levels.
type PassLevel struct {
	Level  int        `json:"level"`
	Passes []PassInfo `json:"passes"`
}

// PassInfo describes one analysis pass.
type PassInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Requires    []string `json:"requires"`
}

// SnapshotInfo identifies a recorded snapshot.
type SnapshotInfo struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DriftOutput is the JSON form of `leapsched drift`.
type DriftOutput struct {
	App      string        `json:"app"`
	Baseline *SnapshotInfo `json:"baseline"`
	Recorded *SnapshotInfo `json:"recorded,omitempty"`
	Changes  []DriftChange `json:"changes"`
}

// DriftChange is one difference from the baseline snapshot.
type DriftChange struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Before  string `json:"before,omitempty"`
	After   string `json:"after,omitempty"`
}
