package refgraph

import "sort"

// Component is one strongly connected component, members sorted.
type Component struct {
	Members []string
}

// StronglyConnectedComponents runs Tarjan's algorithm in O(V+E). The
// returned components are in reverse topological order of the condensation
// (a component follows the components it depends on), with members sorted
// for determinism.
func (g *Graph) StronglyConnectedComponents() []Component {
	t := &tarjanState{
		graph:   g,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	for _, v := range g.Nodes {
		if _, visited := t.index[v]; !visited {
			t.strongConnect(v)
		}
	}
	for i := range t.components {
		sort.Strings(t.components[i].Members)
	}
	return t.components
}

type tarjanState struct {
	graph      *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	components []Component
}

func (t *tarjanState) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph.Edges[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] == t.index[v] {
		var members []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			members = append(members, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, Component{Members: members})
	}
}

// hasSelfLoop reports whether v references itself directly.
func (g *Graph) hasSelfLoop(v string) bool {
	for _, w := range g.Edges[v] {
		if w == v {
			return true
		}
	}
	return false
}
