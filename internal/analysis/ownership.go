package analysis

import (
	"github.com/leapstack-labs/leapsched/pkg/core"
)

// AccessTuple is one declared resource access, flattened from its context.
type AccessTuple struct {
	Core core.Core
	// Priority is unset for init routines.
	Priority core.OptionalPriority
	Resource string
	Mode     core.AccessMode
}

// AccessTuples flattens the resource accesses of every context of app, in
// the stable order of app.Contexts.
func AccessTuples(app *core.App) []AccessTuple {
	var out []AccessTuple
	for _, ctx := range app.Contexts() {
		for _, access := range ctx.Accesses() {
			out = append(out, AccessTuple{
				Core:     ctx.Core(),
				Priority: ctx.Priority(),
				Resource: access.Resource,
				Mode:     access.Mode,
			})
		}
	}
	return out
}

// OwnershipFold accumulates resource ownership over a stream of access tuples.
// The result does not depend on the order in which tuples are added.
type OwnershipFold struct {
	typeOf     func(resource string) string
	ownerships map[string]core.Ownership
	sync       core.TypeSet
}

// NewOwnershipFold creates an empty fold. typeOf resolves a resource name to
// its type for the concurrently-readable set.
func NewOwnershipFold(typeOf func(resource string) string) *OwnershipFold {
	return &OwnershipFold{
		typeOf:     typeOf,
		ownerships: make(map[string]core.Ownership),
		sync:       make(core.TypeSet),
	}
}

// Add folds one access into the ownership map. Accesses from init carry no
// priority and are ignored.
func (f *OwnershipFold) Add(t AccessTuple) {
	p, ok := t.Priority.Get()
	if !ok {
		return
	}

	current, seen := f.ownerships[t.Resource]
	next, contended := Step(current, seen, p)
	f.ownerships[t.Resource] = next

	// Shared access at a priority other than the established one means two
	// priorities hold references at the same time.
	if contended && t.Mode == core.Shared {
		f.sync.Add(f.typeOf(t.Resource))
	}
}

// Ownerships returns the accumulated ownership map.
func (f *OwnershipFold) Ownerships() map[string]core.Ownership {
	return f.ownerships
}

// SyncTypes returns the types that must be safe to read concurrently.
func (f *OwnershipFold) SyncTypes() core.TypeSet {
	return f.sync
}

// Step computes the ownership after an access at priority p. seen is false
// for the first access to a resource. The second result reports whether the
// access is at a priority different from the current one, which always
// leaves the resource contended.
//
// Contended never reverts and its ceiling never decreases.
func Step(current core.Ownership, seen bool, p core.Priority) (core.Ownership, bool) {
	if !seen {
		return core.OwnedBy(p), false
	}
	if p != current.Priority {
		return core.ContendedAt(core.MaxPriority(current.Priority, p)), true
	}
	if current.Kind == core.Owned {
		return core.CoOwnedBy(p), false
	}
	return current, false
}

func init() {
	register(PassDef{
		ID:          "ownership",
		Description: "Classify resource ownership and compute priority ceilings",
		Run:         runOwnership,
	})
}

func runOwnership(st *accumulator) {
	fold := NewOwnershipFold(func(name string) string {
		res, ok := st.app.Resources[name]
		if !ok {
			panic("analysis: access to undeclared resource " + name)
		}
		return res.Type
	})
	for _, t := range AccessTuples(st.app) {
		fold.Add(t)
	}

	st.ownerships = fold.Ownerships()
	for ty := range fold.SyncTypes() {
		st.sync.Add(ty)
	}

	for name, o := range st.ownerships {
		st.logger.Debug("resource ownership", "resource", name, "ownership", o.String())
	}
}
