package kg

// ExtractSubgraph returns the minimal connected subgraph reachable from root
// by following outgoing reference edges breadth-first, up to maxDepth hops.
// Depth 0 yields exactly the root's direct triples. The root's absence yields
// an empty graph.
func ExtractSubgraph(g *Graph, root string, maxDepth int) *Graph {
	out := NewGraph()
	if g == nil || maxDepth < 0 {
		return out
	}

	visited := map[string]bool{root: true}
	frontier := []string{root}

	for depth := 0; depth <= maxDepth; depth++ {
		var next []string
		for _, node := range frontier {
			for _, t := range g.TriplesOf(node) {
				out.Add(t)
				if t.Literal || !edgePredicates[t.Predicate] {
					continue
				}
				if !visited[t.Object] {
					visited[t.Object] = true
					next = append(next, t.Object)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return out
}
