package depgraph

import (
	"strconv"

	"go-flag-graph-service/internal/domain"
)

// graph is the effective post-edit dependency graph for one team.
// Adjacency lists preserve extraction order so traversal, and therefore
// the reported cycle, is deterministic.
type graph struct {
	edges map[uint][]uint
	keys  map[uint]string
}

// assembleGraph builds the graph that would exist after the pending edit
// commits: every non-deleted flag contributes its current edge set, except
// the flag being edited, whose edges are replaced by the proposed set. For
// a create (editingID zero) the new node is not materialized — nothing can
// reference it yet, so it cannot sit on a cycle.
func assembleGraph(flags []domain.Flag, editingID uint, proposed []uint) *graph {
	g := &graph{
		edges: make(map[uint][]uint, len(flags)),
		keys:  make(map[uint]string, len(flags)),
	}
	for _, flag := range flags {
		g.keys[flag.ID] = flag.Key
		if flag.ID == editingID {
			g.edges[flag.ID] = proposed
			continue
		}
		g.edges[flag.ID] = parseReferences(ExtractDependencies(flag.Filters))
	}
	if editingID != 0 {
		// An edit may race a concurrent create; make sure the edited
		// node exists even when the snapshot missed it.
		if _, ok := g.edges[editingID]; !ok {
			g.edges[editingID] = proposed
		}
	}
	return g
}

// parseReferences converts raw reference strings to flag IDs, preserving
// order and dropping anything unparsable. Committed rows were validated at
// their own write time, so a malformed reference in the snapshot is
// tolerated instead of poisoning an unrelated mutation.
func parseReferences(refs []string) []uint {
	ids := make([]uint, 0, len(refs))
	for _, ref := range refs {
		id, err := strconv.ParseUint(ref, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func (g *graph) keyOf(id uint) string {
	if key, ok := g.keys[id]; ok && key != "" {
		return key
	}
	return "flag-" + strconv.FormatUint(uint64(id), 10)
}
