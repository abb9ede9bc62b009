package depgraph

import (
	"context"
	"fmt"
	"strings"
)

// maxListedDependents bounds the dependent listing in the deletion
// diagnostic; anything beyond it is summarized as "and N more".
const maxListedDependents = 5

// CheckDeletable is the admission check run before a flag is soft-deleted.
// The deletion is blocked while any active, non-deleted flag in the same
// team still references the target. Inactive or already soft-deleted
// dependents never block.
func (v *Validator) CheckDeletable(ctx context.Context, teamID, flagID uint) error {
	dependents, err := v.activeDependents(ctx, teamID, flagID)
	if err != nil {
		return err
	}
	if len(dependents) == 0 {
		return nil
	}
	return &ValidationError{
		Kind:    ErrKindBlockedDeletion,
		Message: "Cannot delete this feature flag because other flags depend on it: " + formatDependents(dependents),
		Flags:   dependents,
	}
}

// HasActiveDependents is the advisory variant of CheckDeletable: the same
// scan, but it returns the full dependent list instead of gating, so a UI
// can warn before the user attempts the deletion.
func (v *Validator) HasActiveDependents(ctx context.Context, teamID, flagID uint) (bool, []FlagRef, error) {
	dependents, err := v.activeDependents(ctx, teamID, flagID)
	if err != nil {
		return false, nil, err
	}
	return len(dependents) > 0, dependents, nil
}

// activeDependents scans the team's live flags for direct references to
// the target, in creation order.
func (v *Validator) activeDependents(ctx context.Context, teamID, flagID uint) ([]FlagRef, error) {
	flags, err := v.flags.ListFlags(ctx, teamID)
	if err != nil {
		return nil, err
	}
	var dependents []FlagRef
	for _, flag := range flags {
		if !flag.Active || flag.ID == flagID {
			continue
		}
		for _, dep := range parseReferences(ExtractDependencies(flag.Filters)) {
			if dep == flagID {
				dependents = append(dependents, FlagRef{ID: flag.ID, Key: flag.Key})
				break
			}
		}
	}
	return dependents, nil
}

func formatDependents(dependents []FlagRef) string {
	listed := dependents
	if len(listed) > maxListedDependents {
		listed = listed[:maxListedDependents]
	}
	parts := make([]string, len(listed))
	for i, ref := range listed {
		parts[i] = ref.String()
	}
	listing := strings.Join(parts, ", ")
	if rest := len(dependents) - len(listed); rest > 0 {
		listing += fmt.Sprintf(" and %d more", rest)
	}
	return listing
}
