package refgraph

import "sort"

// Analysis is the complete result of the reference analysis: which schemas
// must be boxed and which layer each schema sits on.
type Analysis struct {
	// Boxed contains the schemas chosen from each cycle for indirection.
	Boxed map[string]bool
	// Layer assigns every node its longest-path layer, roots at 0.
	Layer map[string]int
	// MaxLayer is the highest assigned layer, -1 for an empty graph.
	MaxLayer int
}

// Analyze runs SCC detection, picks a feedback set to box, condenses the
// graph, and computes the longest-path layering. unboxable marks schemas
// that cannot take indirection (they are skipped when choosing the feedback
// set unless the whole component is unboxable).
func Analyze(g *Graph, unboxable map[string]bool) *Analysis {
	a := &Analysis{
		Boxed:    map[string]bool{},
		Layer:    map[string]int{},
		MaxLayer: -1,
	}

	components := g.StronglyConnectedComponents()
	for _, c := range components {
		if len(c.Members) > 1 || (len(c.Members) == 1 && g.hasSelfLoop(c.Members[0])) {
			for _, v := range chooseFeedbackSet(g, c, unboxable) {
				a.Boxed[v] = true
			}
		}
	}

	layerNodes(g, components, a)
	return a
}

// chooseFeedbackSet greedily picks nodes to box until the component is
// acyclic: highest in-component out-degree first, preferring nodes not
// marked unboxable, ties broken alphabetically.
func chooseFeedbackSet(g *Graph, c Component, unboxable map[string]bool) []string {
	inComponent := map[string]bool{}
	for _, v := range c.Members {
		inComponent[v] = true
	}
	// Local adjacency restricted to the component.
	local := map[string][]string{}
	for _, v := range c.Members {
		for _, w := range g.Edges[v] {
			if inComponent[w] {
				local[v] = append(local[v], w)
			}
		}
	}

	var boxed []string
	for hasCycle(local) {
		candidate := ""
		bestDegree := -1
		pickFrom := func(allowUnboxable bool) {
			for _, v := range c.Members {
				if local[v] == nil {
					continue
				}
				if !allowUnboxable && unboxable[v] {
					continue
				}
				d := len(local[v])
				if d > bestDegree || (d == bestDegree && v < candidate) {
					bestDegree = d
					candidate = v
				}
			}
		}
		pickFrom(false)
		if candidate == "" {
			pickFrom(true)
		}
		if candidate == "" {
			break
		}
		boxed = append(boxed, candidate)
		// Boxing a node breaks the cycles through its incoming edges.
		delete(local, candidate)
		for v := range local {
			filtered := local[v][:0]
			for _, w := range local[v] {
				if w != candidate {
					filtered = append(filtered, w)
				}
			}
			local[v] = filtered
		}
	}
	sort.Strings(boxed)
	return boxed
}

// hasCycle detects a cycle in a small adjacency map by recursive DFS.
func hasCycle(adj map[string][]string) bool {
	const (
		unvisited = 0
		active    = 1
		done      = 2
	)
	state := map[string]int{}
	var visit func(v string) bool
	visit = func(v string) bool {
		state[v] = active
		for _, w := range adj[v] {
			if _, exists := adj[w]; !exists {
				continue
			}
			switch state[w] {
			case active:
				return true
			case unvisited:
				if visit(w) {
					return true
				}
			}
		}
		state[v] = done
		return false
	}
	for v := range adj {
		if state[v] == unvisited {
			if visit(v) {
				return true
			}
		}
	}
	return false
}

// layerNodes collapses each SCC to one condensation node and assigns
// layer(v) = 1 + max(layer(u)) over predecessors u, roots at 0. All members
// of one component share a layer.
func layerNodes(g *Graph, components []Component, a *Analysis) {
	componentOf := map[string]int{}
	for i, c := range components {
		for _, v := range c.Members {
			componentOf[v] = i
		}
	}

	// Condensed edges: component i depends on component j when any member
	// of i references a member of j.
	deps := make(map[int]map[int]bool, len(components))
	for i, c := range components {
		deps[i] = map[int]bool{}
		for _, v := range c.Members {
			for _, w := range g.Edges[v] {
				if j := componentOf[w]; j != i {
					deps[i][j] = true
				}
			}
		}
	}

	// Tarjan emits components in reverse topological order: dependencies
	// of a component appear before it in the list, so one forward pass
	// suffices.
	layers := make([]int, len(components))
	for i := range components {
		layer := 0
		for j := range deps[i] {
			if layers[j]+1 > layer {
				layer = layers[j] + 1
			}
		}
		layers[i] = layer
		for _, v := range components[i].Members {
			a.Layer[v] = layer
		}
		if layer > a.MaxLayer {
			a.MaxLayer = layer
		}
	}
	if len(components) == 0 {
		a.MaxLayer = -1
	}
}
