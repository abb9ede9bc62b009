package depgraph

// findCycle runs a depth-first search from start and returns the first
// cycle reachable from it, or nil. The current path is kept as an explicit
// stack of node IDs so the cycle can be sliced out and returned as data:
// when a node already on the path is revisited, the cycle is the stack
// from that node's first occurrence through the current node, with the
// cycle head repeated at the end for display.
//
// Edges are visited in adjacency-list order, which preserves extraction
// order, so the reported cycle is stable across runs. Self-loops are
// rejected before graph assembly, but a repeated node — even the
// immediately preceding one — still terminates the walk here.
func findCycle(g *graph, start uint) []uint {
	visited := make(map[uint]bool, len(g.edges))
	onPath := make(map[uint]bool, len(g.edges))
	path := make([]uint, 0, len(g.edges))

	var dfs func(node uint) []uint
	dfs = func(node uint) []uint {
		if onPath[node] {
			for i, id := range path {
				if id == node {
					cycle := append([]uint(nil), path[i:]...)
					return append(cycle, node)
				}
			}
			return append([]uint(nil), node, node)
		}
		if visited[node] {
			return nil
		}
		visited[node] = true
		onPath[node] = true
		path = append(path, node)

		for _, dep := range g.edges[node] {
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		onPath[node] = false
		return nil
	}

	return dfs(start)
}
