package core

import "fmt"

// AccessMode is how a context accesses a resource.
type AccessMode int

// Access modes.
const (
	// Exclusive grants mutable access.
	Exclusive AccessMode = iota
	// Shared grants read-only access.
	Shared
)

// String returns the string representation of the access mode.
func (m AccessMode) String() string {
	switch m {
	case Exclusive:
		return "exclusive"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// ParseAccessMode converts "exclusive"/"shared" (or "&" for shared) into an AccessMode.
func ParseAccessMode(s string) (AccessMode, error) {
	switch s {
	case "", "exclusive", "mut":
		return Exclusive, nil
	case "shared", "&":
		return Shared, nil
	default:
		return Exclusive, fmt.Errorf("unknown access mode %q", s)
	}
}

// Access is a declared use of a resource by a context.
type Access struct {
	Resource string
	Mode     AccessMode
}

// Resource is a piece of state shared between contexts.
type Resource struct {
	Name string
	// Type is the resource's type as written in the application source.
	Type string
	// Late resources have no compile-time value; an init routine produces it.
	Late bool
}
