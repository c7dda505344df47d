package core

import "strconv"

// Core identifies a processor core in [0, App.Cores).
type Core uint8

// Priority is a static task priority. Higher values preempt lower ones.
// Idle runs at priority 0.
type Priority uint8

// OptionalPriority is a priority that may be absent.
//
// Init routines run before preemption is enabled and have no priority. This is
// modeled as the absence of a value, never as priority 0.
type OptionalPriority struct {
	value Priority
	valid bool
}

// PriorityOf returns an OptionalPriority holding p.
func PriorityOf(p Priority) OptionalPriority {
	return OptionalPriority{value: p, valid: true}
}

// NoPriority returns the empty OptionalPriority.
func NoPriority() OptionalPriority {
	return OptionalPriority{}
}

// Get returns the priority and whether it is set.
func (o OptionalPriority) Get() (Priority, bool) {
	return o.value, o.valid
}

// IsSet reports whether a priority is present.
func (o OptionalPriority) IsSet() bool {
	return o.valid
}

// Max returns the larger of o and p. An unset o yields p.
func (o OptionalPriority) Max(p Priority) OptionalPriority {
	if !o.valid || p > o.value {
		return PriorityOf(p)
	}
	return o
}

// String returns the decimal priority, or "-" when unset.
func (o OptionalPriority) String() string {
	if !o.valid {
		return "-"
	}
	return strconv.Itoa(int(o.value))
}

// MaxPriority returns the larger of two priorities.
func MaxPriority(a, b Priority) Priority {
	if a > b {
		return a
	}
	return b
}

// MarshalJSON encodes an unset priority as null.
func (o OptionalPriority) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(o.value))), nil
}
