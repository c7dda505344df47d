// Package core defines the shared language of the leapsched system.
//
// This package contains:
//   - Input graph entities (App, the four context kinds, Resource, Access)
//   - Scheduling primitives (Core, Priority, OptionalPriority)
//   - Analysis results (Ownership, Location, Channel, TimerQueue, TypeSet, Analysis)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
