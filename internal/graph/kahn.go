package graph

// KahnSort returns the vertices in topological order: every vertex comes
// before the vertices it depends on. If the graph has cycles, the second
// result holds the vertices that could not be ordered, which includes every
// vertex on a cycle. The graph itself is not modified.
func (g *Graph) KahnSort() ([]Vertex, []Vertex) {
	/*
	   L ← Empty list that will contain the sorted elements
	   S ← Set of all nodes with no incoming edge

	   while S is non-empty do
	       remove a node n from S
	       add n to tail of L
	       for each node m with an edge e from n to m do
	           remove edge e from the graph
	           if m has no other incoming edges then
	               insert m into S
	*/
	work := g.Copy()
	vertices := work.Vertices()

	L := make([]Vertex, 0, len(vertices))
	S := []Vertex{}
	for _, v := range vertices {
		if len(work.InEdges(v)) == 0 {
			S = append(S, v)
		}
	}

	for len(S) > 0 {
		n := S[0]
		S = S[1:]
		L = append(L, n)

		for _, m := range work.OutEdges(n) {
			work.RemoveEdge(n, m)
			if len(work.InEdges(m)) == 0 {
				S = append(S, m)
			}
		}
	}

	if len(L) == len(vertices) {
		return L, nil
	}

	sorted := make(map[interface{}]struct{}, len(L))
	for _, v := range L {
		sorted[hashcode(v)] = struct{}{}
	}

	var remaining []Vertex
	for _, v := range vertices {
		if _, ok := sorted[hashcode(v)]; !ok {
			remaining = append(remaining, v)
		}
	}

	return L, remaining
}

// Cycle returns one cycle of the graph as a path that starts and ends with
// the same vertex, following edge direction. It returns nil if the graph is
// acyclic.
func (g *Graph) Cycle() []Vertex {
	_, remaining := g.KahnSort()
	if len(remaining) == 0 {
		return nil
	}

	// Every unsorted vertex has an in-edge from another unsorted vertex, so
	// walking in-edges backwards inside that set must revisit a vertex.
	unsorted := make(map[interface{}]struct{}, len(remaining))
	for _, v := range remaining {
		unsorted[hashcode(v)] = struct{}{}
	}

	var walk []Vertex
	seen := make(map[interface{}]int)
	current := remaining[0]
	for {
		h := hashcode(current)
		if idx, ok := seen[h]; ok {
			walk = append(walk[idx:], current)
			break
		}

		seen[h] = len(walk)
		walk = append(walk, current)

		for _, prev := range g.InEdges(current) {
			if _, ok := unsorted[hashcode(prev)]; ok {
				current = prev
				break
			}
		}
	}

	// The walk went against the edges; flip it to follow them.
	for i, j := 0, len(walk)-1; i < j; i, j = i+1, j-1 {
		walk[i], walk[j] = walk[j], walk[i]
	}

	return walk
}
