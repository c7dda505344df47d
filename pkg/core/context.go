package core

import "fmt"

// =============================================================================
// Context kinds
// =============================================================================

// ContextKind distinguishes the four execution contexts of an application.
type ContextKind int

// Context kinds.
const (
	KindInit ContextKind = iota
	KindIdle
	KindHardwareTask
	KindSoftwareTask
)

// String returns the string representation of the kind.
func (k ContextKind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindIdle:
		return "idle"
	case KindHardwareTask:
		return "hardware"
	case KindSoftwareTask:
		return "software"
	default:
		return "unknown"
	}
}

// Context is one execution context of the application: an init routine, an
// idle routine, a hardware task or a software task.
//
// The set of implementations is closed; a type switch over *Init, *Idle,
// *HardwareTask and *SoftwareTask is exhaustive. Passes that only need the
// uniform view use the accessor methods and never branch on the kind.
type Context interface {
	Kind() ContextKind
	// Name is "init"/"idle" for per-core routines and the task name otherwise.
	Name() string
	Core() Core
	// Priority is unset for init routines.
	Priority() OptionalPriority
	Accesses() []Access
	Spawns() []string
	Schedules() []string

	isContext()
}

// Label returns a human-readable identifier such as "init@1" or "task uart0".
func Label(c Context) string {
	switch c.Kind() {
	case KindInit, KindIdle:
		return fmt.Sprintf("%s@%d", c.Name(), c.Core())
	default:
		return "task " + c.Name()
	}
}

// Routine holds the fields shared by every context kind.
type Routine struct {
	CoreID       Core
	Resources    []Access
	SpawnList    []string
	ScheduleList []string
}

func (r *Routine) Core() Core          { return r.CoreID }
func (r *Routine) Accesses() []Access  { return r.Resources }
func (r *Routine) Spawns() []string    { return r.SpawnList }
func (r *Routine) Schedules() []string { return r.ScheduleList }

// Init is the per-core initialization routine. It runs before any task is
// enabled and therefore never contends for a resource ceiling.
type Init struct {
	Routine

	// Claims lists the late resources this core initializes. It is only
	// meaningful when ClaimsRest is false.
	Claims []string
	// ClaimsRest marks the init routine that omitted its claim list and so
	// initializes every late resource not claimed elsewhere.
	ClaimsRest bool
}

// NewInit creates the init routine of a core.
func NewInit(core Core, accesses []Access, spawns, schedules []string) *Init {
	return &Init{Routine: Routine{CoreID: core, Resources: accesses, SpawnList: spawns, ScheduleList: schedules}}
}

func (*Init) Kind() ContextKind          { return KindInit }
func (*Init) Name() string               { return "init" }
func (*Init) Priority() OptionalPriority { return NoPriority() }
func (*Init) isContext()                 {}

// Idle is the per-core background routine; it runs at priority 0.
type Idle struct {
	Routine
}

// NewIdle creates the idle routine of a core.
func NewIdle(core Core, accesses []Access, spawns, schedules []string) *Idle {
	return &Idle{Routine: Routine{CoreID: core, Resources: accesses, SpawnList: spawns, ScheduleList: schedules}}
}

func (*Idle) Kind() ContextKind          { return KindIdle }
func (*Idle) Name() string               { return "idle" }
func (*Idle) Priority() OptionalPriority { return PriorityOf(0) }
func (*Idle) isContext()                 {}

// Task holds what hardware and software tasks have in common.
type Task struct {
	Routine

	TaskName string
	Prio     Priority
}

func (t *Task) Name() string               { return t.TaskName }
func (t *Task) Priority() OptionalPriority { return PriorityOf(t.Prio) }

// HardwareTask is a task started by an interrupt or exception.
type HardwareTask struct {
	Task

	// Binds is the interrupt or exception that starts the task.
	Binds string
}

// NewHardwareTask creates a hardware task.
func NewHardwareTask(name string, core Core, prio Priority, binds string) *HardwareTask {
	return &HardwareTask{Task: Task{Routine: Routine{CoreID: core}, TaskName: name, Prio: prio}, Binds: binds}
}

func (*HardwareTask) Kind() ContextKind { return KindHardwareTask }
func (*HardwareTask) isContext()        {}

// DefaultCapacity is the message queue depth of a software task that does not
// declare one.
const DefaultCapacity = 1

// SoftwareTask is a task started by a spawn or schedule message.
type SoftwareTask struct {
	Task

	// Inputs are the payload types carried by each message.
	Inputs []string
	// Capacity is the maximum number of outstanding messages. Zero means
	// DefaultCapacity.
	Capacity uint
}

// NewSoftwareTask creates a software task.
func NewSoftwareTask(name string, core Core, prio Priority, capacity uint, inputs ...string) *SoftwareTask {
	return &SoftwareTask{
		Task:     Task{Routine: Routine{CoreID: core}, TaskName: name, Prio: prio},
		Inputs:   inputs,
		Capacity: capacity,
	}
}

func (*SoftwareTask) Kind() ContextKind { return KindSoftwareTask }
func (*SoftwareTask) isContext()        {}

// EffectiveCapacity returns Capacity with the default applied.
func (t *SoftwareTask) EffectiveCapacity() uint {
	if t.Capacity == 0 {
		return DefaultCapacity
	}
	return t.Capacity
}
