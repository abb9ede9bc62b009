// Package depgraph maintains the integrity of the per-team flag dependency
// graph on the write path: it extracts flag-to-flag references from
// targeting rules, rejects mutations that would introduce a cycle, and
// blocks deletion of flags that other active flags still depend on.
//
// Every check re-derives the graph from the current snapshot of a team's
// flags plus the one pending edit; nothing here holds state between calls.
package depgraph

import "fmt"

type ErrorKind string

const (
	ErrKindInvalidReferenceFormat ErrorKind = "invalid_reference_format"
	ErrKindSelfReference          ErrorKind = "self_reference"
	ErrKindDependencyNotFound     ErrorKind = "dependency_not_found"
	ErrKindCircularDependency     ErrorKind = "circular_dependency"
	ErrKindBlockedDeletion        ErrorKind = "blocked_deletion"
)

// FlagRef identifies a flag in a user-facing diagnostic.
type FlagRef struct {
	ID  uint   `json:"id"`
	Key string `json:"key"`
}

func (r FlagRef) String() string {
	return fmt.Sprintf("%s (ID: %d)", r.Key, r.ID)
}

// ValidationError is a rejection of a proposed mutation. It carries a
// machine-readable kind, the message shown to the user, and the flags the
// diagnostic refers to (cycle path members or blocking dependents). The
// platform's API layer maps kinds to HTTP statuses; this package does not
// know about transports.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Flags   []FlagRef `json:"flags,omitempty"`
}

func (e *ValidationError) Error() string { return e.Message }
