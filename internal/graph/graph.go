package graph

import (
	"bytes"
	"fmt"
	"sort"
)

// Graph is a directed graph. An edge from v1 to v2 reads "v1 depends on v2".
//
// Unless otherwise documented, it is unsafe to call any method on Graph concurrently.
type Graph struct {
	// adjacency represents graphs using an adjaency list. Vertices are
	// represented using their hash codes for simpler equaliy checks.
	adjacencyOut map[interface{}]map[interface{}]struct{}
	adjacencyIn  map[interface{}]map[interface{}]struct{}

	// hash maintains the mapping of hash codes to the representative Vertex.
	hash map[interface{}]Vertex
}

// Add adds a vertex to the graph. Adding a vertex twice is a no-op.
func (g *Graph) Add(v Vertex) Vertex {
	g.init()
	h := hashcode(v)
	if _, ok := g.adjacencyOut[h]; !ok {
		g.adjacencyOut[h] = make(map[interface{}]struct{})
		g.adjacencyIn[h] = make(map[interface{}]struct{})
		g.hash[h] = v
	}
	return v
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.hash)
}

// Vertices returns all vertices sorted by name, so iteration is
// deterministic.
func (g *Graph) Vertices() []Vertex {
	result := make([]Vertex, 0, len(g.hash))
	for _, v := range g.hash {
		result = append(result, v)
	}

	return sortVertices(result)
}

// AddEdge adds a directed edge from v1 to v2, adding either vertex if it
// is not in the graph yet.
func (g *Graph) AddEdge(v1, v2 Vertex) {
	g.Add(v1)
	g.Add(v2)

	h1, h2 := hashcode(v1), hashcode(v2)
	g.adjacencyOut[h1][h2] = struct{}{}
	g.adjacencyIn[h2][h1] = struct{}{}
}

// RemoveEdge removes the edge from v1 to v2 if it exists.
func (g *Graph) RemoveEdge(v1, v2 Vertex) {
	h1, h2 := hashcode(v1), hashcode(v2)
	delete(g.adjacencyOut[h1], h2)
	delete(g.adjacencyIn[h2], h1)
}

// OutEdges returns the vertices v depends on, sorted by name.
func (g *Graph) OutEdges(v Vertex) []Vertex {
	return g.edges(g.adjacencyOut[hashcode(v)])
}

// InEdges returns the vertices depending on v, sorted by name.
func (g *Graph) InEdges(v Vertex) []Vertex {
	return g.edges(g.adjacencyIn[hashcode(v)])
}

func (g *Graph) edges(set map[interface{}]struct{}) []Vertex {
	if len(set) == 0 {
		return nil
	}

	result := make([]Vertex, 0, len(set))
	for h := range set {
		result = append(result, g.hash[h])
	}

	return sortVertices(result)
}

// Copy copies the graph. In the copy, any added or removed edges do not
// affect the original graph. The vertices themselves are not deep copied.
func (g *Graph) Copy() *Graph {
	var g2 Graph
	g2.init()

	for k, set := range g.adjacencyOut {
		g2.adjacencyOut[k] = copySet(set)
	}
	for k, set := range g.adjacencyIn {
		g2.adjacencyIn[k] = copySet(set)
	}
	for k, v := range g.hash {
		g2.hash[k] = v
	}

	return &g2
}

// String outputs some human-friendly output for the graph structure.
func (g *Graph) String() string {
	var buf bytes.Buffer
	for _, v := range g.Vertices() {
		buf.WriteString(fmt.Sprintf("%s\n", VertexName(v)))
		for _, d := range g.OutEdges(v) {
			buf.WriteString(fmt.Sprintf("  %s\n", VertexName(d)))
		}
	}

	return buf.String()
}

func (g *Graph) init() {
	if g.adjacencyOut == nil {
		g.adjacencyOut = make(map[interface{}]map[interface{}]struct{})
	}
	if g.adjacencyIn == nil {
		g.adjacencyIn = make(map[interface{}]map[interface{}]struct{})
	}
	if g.hash == nil {
		g.hash = make(map[interface{}]Vertex)
	}
}

func copySet(set map[interface{}]struct{}) map[interface{}]struct{} {
	result := make(map[interface{}]struct{}, len(set))
	for k := range set {
		result[k] = struct{}{}
	}

	return result
}

func sortVertices(vs []Vertex) []Vertex {
	sort.Slice(vs, func(i, j int) bool {
		return VertexName(vs[i]) < VertexName(vs[j])
	})

	return vs
}
