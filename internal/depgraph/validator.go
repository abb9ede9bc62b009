package depgraph

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-flag-graph-service/internal/domain"
)

// FlagSource is the read capability the graph checks need from the
// platform: the team's live flags with their targeting rules, and point
// lookups that see soft-deleted and inactive rows too (dependency
// existence is independent of liveness; only graph membership cares).
type FlagSource interface {
	// ListFlags returns the team's flags with deleted=false, in creation order.
	ListFlags(ctx context.Context, teamID uint) ([]domain.Flag, error)
	// FindFlagByID returns the flag regardless of deleted/active state.
	FindFlagByID(ctx context.Context, teamID, flagID uint) (*domain.Flag, error)
}

type Validator struct {
	flags FlagSource
}

func NewValidator(flags FlagSource) *Validator {
	return &Validator{flags: flags}
}

// ValidateMutation is the admission check run before a flag create or
// update is persisted. editingID is zero for a create, or the flag's own
// ID for an update. Checks run in order and fail fast: reference format,
// self-reference, same-team existence, then cycle detection over the
// effective post-edit graph. A nil return means the caller may persist the
// proposed targeting rules.
func (v *Validator) ValidateMutation(ctx context.Context, teamID, editingID uint, proposed domain.TargetingRules) error {
	refs := ExtractDependencies(proposed)
	if len(refs) == 0 {
		return nil
	}

	depIDs := make([]uint, 0, len(refs))
	for _, ref := range refs {
		id, err := strconv.ParseUint(ref, 10, 64)
		if err != nil || id == 0 {
			return &ValidationError{
				Kind:    ErrKindInvalidReferenceFormat,
				Message: "Flag dependencies must reference flag IDs",
			}
		}
		depIDs = append(depIDs, uint(id))
	}

	// Self-reference is a degenerate cycle of length one; it gets its own
	// message before the graph walk so the user sees the direct problem
	// instead of a one-hop cycle path.
	if editingID != 0 {
		for _, id := range depIDs {
			if id != editingID {
				continue
			}
			editing, err := v.flags.FindFlagByID(ctx, teamID, editingID)
			if err != nil {
				return err
			}
			return &ValidationError{
				Kind:    ErrKindSelfReference,
				Message: fmt.Sprintf("%s cannot depend on itself", editing.Key),
				Flags:   []FlagRef{{ID: editing.ID, Key: editing.Key}},
			}
		}
	}

	// Existence is team-scoped and ignores the target's deleted/active
	// state: a coincidentally matching ID in another team is non-existent.
	for _, id := range depIDs {
		if _, err := v.flags.FindFlagByID(ctx, teamID, id); err != nil {
			if errors.Is(err, domain.ErrFlagNotFound) {
				return &ValidationError{
					Kind:    ErrKindDependencyNotFound,
					Message: "Flag dependency references non-existent flag",
					Flags:   []FlagRef{{ID: id}},
				}
			}
			return err
		}
	}

	snapshot, err := v.flags.ListFlags(ctx, teamID)
	if err != nil {
		return err
	}
	g := assembleGraph(snapshot, editingID, depIDs)

	var cycle []uint
	if editingID != 0 {
		cycle = findCycle(g, editingID)
	} else {
		// A brand-new flag cannot head a cycle (nothing references it yet)
		// but its targets can already sit on one left behind by a racing
		// edit; seed from each of them.
		for _, id := range depIDs {
			if cycle = findCycle(g, id); cycle != nil {
				break
			}
		}
	}
	if cycle != nil {
		return &ValidationError{
			Kind:    ErrKindCircularDependency,
			Message: "Circular dependency detected: " + formatCyclePath(g, cycle),
			Flags:   cycleRefs(g, cycle),
		}
	}
	return nil
}

// formatCyclePath renders the cycle in arrow notation, in discovery order,
// with the starting key repeated to close the loop: "a → b → a".
func formatCyclePath(g *graph, cycle []uint) string {
	keys := make([]string, len(cycle))
	for i, id := range cycle {
		keys[i] = g.keyOf(id)
	}
	return strings.Join(keys, " → ")
}

func cycleRefs(g *graph, cycle []uint) []FlagRef {
	// The repeated head carries no extra information.
	if len(cycle) > 1 && cycle[0] == cycle[len(cycle)-1] {
		cycle = cycle[:len(cycle)-1]
	}
	refs := make([]FlagRef, len(cycle))
	for i, id := range cycle {
		refs[i] = FlagRef{ID: id, Key: g.keyOf(id)}
	}
	return refs
}
