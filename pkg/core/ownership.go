package core

import "fmt"

// =============================================================================
// Ownership
// =============================================================================

// OwnershipKind classifies how many priority levels touch a resource.
type OwnershipKind int

// Ownership kinds.
const (
	// Owned resources are accessed from a single context priority seen so far.
	Owned OwnershipKind = iota
	// CoOwned resources are accessed by several contexts at one priority.
	CoOwned
	// Contended resources are accessed at two or more distinct priorities.
	Contended
)

// String returns the string representation of the kind.
func (k OwnershipKind) String() string {
	switch k {
	case Owned:
		return "owned"
	case CoOwned:
		return "co-owned"
	case Contended:
		return "contended"
	default:
		return "unknown"
	}
}

// ParseOwnershipKind converts the output of OwnershipKind.String back into a kind.
func ParseOwnershipKind(s string) (OwnershipKind, bool) {
	switch s {
	case "owned":
		return Owned, true
	case "co-owned":
		return CoOwned, true
	case "contended":
		return Contended, true
	default:
		return Owned, false
	}
}

// Ownership is the derived access pattern of a resource.
//
// For Owned and CoOwned, Priority is the single accessing priority. For
// Contended, Priority is the ceiling: the highest accessing priority.
type Ownership struct {
	Kind     OwnershipKind
	Priority Priority
}

// OwnedBy returns Owned{p}.
func OwnedBy(p Priority) Ownership { return Ownership{Kind: Owned, Priority: p} }

// CoOwnedBy returns CoOwned{p}.
func CoOwnedBy(p Priority) Ownership { return Ownership{Kind: CoOwned, Priority: p} }

// ContendedAt returns Contended{ceiling}.
func ContendedAt(ceiling Priority) Ownership { return Ownership{Kind: Contended, Priority: ceiling} }

// Ceiling returns the ceiling for contended resources.
func (o Ownership) Ceiling() (Priority, bool) {
	if o.Kind != Contended {
		return 0, false
	}
	return o.Priority, true
}

// NeedsLock reports whether a context running at priority must raise its
// priority to the ceiling before touching the resource. Owned and CoOwned
// resources never need a lock.
func (o Ownership) NeedsLock(priority Priority) bool {
	return o.Kind == Contended && priority < o.Priority
}

// IsIdleOwned reports whether the resource is Owned{0}, i.e. touched only by idle.
func (o Ownership) IsIdleOwned() bool {
	return o.Kind == Owned && o.Priority == 0
}

// String renders the ownership as "owned(1)", "co-owned(1)" or "contended(3)".
func (o Ownership) String() string {
	return fmt.Sprintf("%s(%d)", o.Kind, o.Priority)
}

// MarshalText renders the ownership for JSON map values and keys.
func (o Ownership) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// =============================================================================
// Location
// =============================================================================

// Location is where a resource lives in a multi-core build.
type Location struct {
	// Core is the owning core. For resources shared between cores it is the
	// lowest accessing core.
	Core Core
	// Cores lists every core whose tasks access the resource, sorted.
	Cores []Core
	// Shared is set when tasks on more than one core access the resource.
	Shared bool
	// CrossInitialized is set for late resources initialized by a core other
	// than the owning core.
	CrossInitialized bool
}
