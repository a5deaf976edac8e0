// Package sharding partitions IR declarations into layered, bin-packed
// output files so no file references a declaration in a later file.
package sharding

import (
	"fmt"
	"sort"
	"strings"
)

// Item is one declaration the planner places: its name, its layer from the
// reference analysis, and the names it references.
type Item struct {
	Name  string
	Layer int
	Refs  []string
}

// WeightFunc scores one item for bin-packing. The default weighs every
// item equally.
type WeightFunc func(Item) int

// Options configure the planner for one declaration kind.
type Options struct {
	// ShardCounts maps a layer to its shard count; absent layers get one.
	ShardCounts map[int]int
	// MaxDeclsPerFile caps declarations per emitted file; 0 means no cap.
	MaxDeclsPerFile int
	Weight          WeightFunc
}

// File is one planned output file.
type File struct {
	Layer int
	Shard int // 1-based
	Index int // 1-based within the shard
	// Items are the declaration names in emission order.
	Items []string
}

// Plan assigns items to files layer by layer: islands are grouped, packed
// into shards with the LPT heuristic, and split into capped files.
func Plan(items []Item, opts Options) []File {
	weight := opts.Weight
	if weight == nil {
		weight = func(Item) int { return 1 }
	}

	byLayer := map[int][]Item{}
	maxLayer := -1
	for _, item := range items {
		byLayer[item.Layer] = append(byLayer[item.Layer], item)
		if item.Layer > maxLayer {
			maxLayer = item.Layer
		}
	}

	var files []File
	for layer := 0; layer <= maxLayer; layer++ {
		layerItems := byLayer[layer]
		if len(layerItems) == 0 {
			continue
		}
		shardCount := opts.ShardCounts[layer]
		if shardCount < 1 {
			shardCount = 1
		}
		shards := packShards(islands(layerItems, weight), shardCount)
		for shardIdx, shard := range shards {
			if len(shard) == 0 {
				continue
			}
			for fileIdx, chunk := range split(shard, opts.MaxDeclsPerFile) {
				files = append(files, File{
					Layer: layer,
					Shard: shardIdx + 1,
					Index: fileIdx + 1,
					Items: chunk,
				})
			}
		}
	}
	return files
}

// island is a connected group of same-layer declarations.
type island struct {
	members []string
	weight  int
}

// islands groups a layer's items: two declarations share an island when
// one references the other within the layer, or both reference a common
// sibling.
func islands(items []Item, weight WeightFunc) []island {
	parent := map[string]string{}
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	inLayer := map[string]bool{}
	for _, item := range items {
		parent[item.Name] = item.Name
		inLayer[item.Name] = true
	}
	// referencedBy links items through shared reference targets.
	referencedBy := map[string]string{}
	for _, item := range items {
		for _, ref := range item.Refs {
			if inLayer[ref] {
				union(item.Name, ref)
				continue
			}
			if prev, ok := referencedBy[ref]; ok {
				union(item.Name, prev)
			} else {
				referencedBy[ref] = item.Name
			}
		}
	}

	groups := map[string]*island{}
	for _, item := range items {
		root := find(item.Name)
		g, ok := groups[root]
		if !ok {
			g = &island{}
			groups[root] = g
		}
		g.members = append(g.members, item.Name)
		g.weight += weight(item)
	}

	out := make([]island, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.members)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].members[0] < out[j].members[0] })
	return out
}

// packShards runs LPT: islands sorted by decreasing weight, each assigned
// to the currently least-loaded shard.
func packShards(groups []island, shardCount int) [][]string {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].weight > groups[j].weight })

	shards := make([][]string, shardCount)
	loads := make([]int, shardCount)
	for _, g := range groups {
		best := 0
		for i := 1; i < shardCount; i++ {
			if loads[i] < loads[best] {
				best = i
			}
		}
		shards[best] = append(shards[best], g.members...)
		loads[best] += g.weight
	}
	for i := range shards {
		sort.Strings(shards[i])
	}
	return shards
}

// split divides a shard's declarations into files of at most limit entries.
func split(names []string, limit int) [][]string {
	if limit <= 0 || len(names) <= limit {
		return [][]string{names}
	}
	var out [][]string
	for start := 0; start < len(names); start += limit {
		end := start + limit
		if end > len(names) {
			end = len(names)
		}
		out = append(out, names[start:end])
	}
	return out
}

// Namer renders the emitted file names for one run.
type Namer struct {
	// Prefix is the optional module prefix applied to every file name.
	Prefix string
}

// TypesRoot is the module-level file holding the API protocol.
func (n Namer) TypesRoot() string {
	return n.Prefix + "Types_root.swift"
}

// ComponentsBase is the base file declaring the Components.Schemas
// namespace shell that the component layer files extend. It carries no
// re-export imports.
func (n Namer) ComponentsBase() string {
	return n.Prefix + "Components_base.swift"
}

// ComponentsFile names a layer-0 schema file.
func (n Namer) ComponentsFile(shard, index int) string {
	return fmt.Sprintf("%sComponents_%d_%d.swift", n.Prefix, shard, index)
}

// TypesFile names a schema file at layer ≥ 1. The rendered layer number is
// offset by one so the sequence reads root, L2, L3, ….
func (n Namer) TypesFile(layer, shard, index int) string {
	return fmt.Sprintf("%sTypes_L%d_%d_%d.swift", n.Prefix, layer+1, shard, index)
}

// OperationsBase is the base file declaring the Operations namespace shell
// that the operation layer files extend. It carries no re-export imports.
func (n Namer) OperationsBase() string {
	return n.lowerIfPrefixed(n.Prefix + "Operations_base.swift")
}

// OperationsFile names an operation file.
func (n Namer) OperationsFile(layer, shard, index int) string {
	return n.lowerIfPrefixed(fmt.Sprintf("%sOperations_L%d_%d_%d.swift", n.Prefix, layer+1, shard, index))
}

// lowerIfPrefixed applies the prefixed-run convention of lowercase
// operation file names.
func (n Namer) lowerIfPrefixed(name string) string {
	if n.Prefix == "" {
		return name
	}
	return strings.ToLower(strings.TrimSuffix(name, ".swift")) + ".swift"
}
