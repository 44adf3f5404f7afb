package ownership

// Graph is the cross-file ownership model: which file instantiated which
// other file, resolved through each file's import map, grounded on
// build-resource-graph.py's build_ownership/compute_ownership_depth.
type Graph struct {
	Scans    map[string]*FileScan // path -> scan
	Parent   map[string]string    // child path -> parent path (first parent wins)
	Children map[string][]string  // parent path -> child paths (all edges, for depth)
	Depth    int
}

// Build constructs the ownership graph from a set of file scans, already in
// deterministic order. Ownership is "first parent wins": once a child file's
// Parent is set, later instantiations of the same class elsewhere are
// recorded in Children (so the depth computation still sees the edge) but do
// not overwrite Parent. This resolves Open Question #3 (SPEC_FULL.md).
func Build(scans []*FileScan) *Graph {
	scans = SortedScans(scans)

	g := &Graph{
		Scans:    map[string]*FileScan{},
		Parent:   map[string]string{},
		Children: map[string][]string{},
	}
	for _, s := range scans {
		g.Scans[s.Path] = s
	}

	for _, s := range scans {
		for _, inst := range s.Instantiations {
			childPath, ok := s.Imports[inst.ClassName]
			if !ok {
				continue
			}
			if _, known := g.Scans[childPath]; !known {
				continue
			}
			g.Children[s.Path] = append(g.Children[s.Path], childPath)
			if _, already := g.Parent[childPath]; !already {
				g.Parent[childPath] = s.Path
			}
		}
	}

	g.Depth = computeDepth(g, scans)
	return g
}

// Roots are files with no incoming ownership edge.
func (g *Graph) Roots() []string {
	var roots []string
	for path := range g.Scans {
		if _, owned := g.Parent[path]; !owned {
			roots = append(roots, path)
		}
	}
	return sortedStrings(roots)
}

func computeDepth(g *Graph, scans []*FileScan) int {
	maxDepth := 0
	for _, root := range g.Roots() {
		visited := map[string]bool{root: true}
		queue := []struct {
			path  string
			depth int
		}{{root, 0}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur.depth > maxDepth {
				maxDepth = cur.depth
			}
			for _, child := range g.Children[cur.path] {
				if visited[child] {
					continue
				}
				visited[child] = true
				queue = append(queue, struct {
					path  string
					depth int
				}{child, cur.depth + 1})
			}
		}
	}
	return maxDepth
}

func sortedStrings(s []string) []string {
	out := append([]string(nil), s...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
