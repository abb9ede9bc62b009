package depgraph

import (
	"context"
	"encoding/json"
	"strconv"

	"go-flag-graph-service/internal/domain"
)

// fakeFlagSource serves a fixed flag snapshot, mirroring the repository's
// read contract: ListFlags hides soft-deleted rows, FindFlagByID does not.
type fakeFlagSource struct {
	flags []domain.Flag
}

func (s *fakeFlagSource) ListFlags(_ context.Context, teamID uint) ([]domain.Flag, error) {
	var out []domain.Flag
	for _, f := range s.flags {
		if f.TeamID == teamID && !f.Deleted {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFlagSource) FindFlagByID(_ context.Context, teamID, flagID uint) (*domain.Flag, error) {
	for i := range s.flags {
		if s.flags[i].TeamID == teamID && s.flags[i].ID == flagID {
			f := s.flags[i]
			return &f, nil
		}
	}
	return nil, domain.ErrFlagNotFound
}

func depsOn(ids ...uint) domain.TargetingRules {
	entries := make([]domain.PredicateEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.PredicateEntry{
			Kind:      domain.PredicateKindFlag,
			Reference: strconv.FormatUint(uint64(id), 10),
			Operator:  domain.OperatorFlagEvaluatesTo,
			Value:     json.RawMessage(`true`),
		})
	}
	return domain.TargetingRules{Groups: []domain.PredicateGroup{{Properties: entries}}}
}

func testFlag(id, teamID uint, key string, rules domain.TargetingRules) domain.Flag {
	return domain.Flag{ID: id, TeamID: teamID, Key: key, Active: true, Filters: rules}
}
