package ownership

import "testing"

func TestBuildFirstParentWins(t *testing.T) {
	child := &FileScan{Path: "child.js"}
	parentA := &FileScan{
		Path:           "a.js",
		Imports:        map[string]string{"Child": "child.js"},
		Instantiations: []Instantiation{{Ref: "this._child", ClassName: "Child"}},
	}
	parentB := &FileScan{
		Path:           "b.js",
		Imports:        map[string]string{"Child": "child.js"},
		Instantiations: []Instantiation{{Ref: "this._child2", ClassName: "Child"}},
	}

	g := Build([]*FileScan{child, parentA, parentB})

	if g.Parent["child.js"] != "a.js" {
		t.Errorf("Parent[child.js] = %q, want a.js (first in sorted order)", g.Parent["child.js"])
	}
	if len(g.Children["b.js"]) != 1 || g.Children["b.js"][0] != "child.js" {
		t.Errorf("Children[b.js] = %v, want [child.js] (edge recorded even though not the parent)", g.Children["b.js"])
	}
}

func TestRootsAreUnownedFiles(t *testing.T) {
	child := &FileScan{Path: "child.js"}
	parent := &FileScan{
		Path:           "extension.js",
		Imports:        map[string]string{"Child": "child.js"},
		Instantiations: []Instantiation{{Ref: "this._child", ClassName: "Child"}},
	}
	g := Build([]*FileScan{child, parent})
	roots := g.Roots()
	if len(roots) != 1 || roots[0] != "extension.js" {
		t.Errorf("Roots() = %v, want [extension.js]", roots)
	}
}

func TestComputeDepth(t *testing.T) {
	grandchild := &FileScan{Path: "grandchild.js"}
	child := &FileScan{
		Path:           "child.js",
		Imports:        map[string]string{"Grandchild": "grandchild.js"},
		Instantiations: []Instantiation{{Ref: "this._g", ClassName: "Grandchild"}},
	}
	parent := &FileScan{
		Path:           "extension.js",
		Imports:        map[string]string{"Child": "child.js"},
		Instantiations: []Instantiation{{Ref: "this._child", ClassName: "Child"}},
	}
	g := Build([]*FileScan{grandchild, child, parent})
	if g.Depth != 2 {
		t.Errorf("Depth = %d, want 2", g.Depth)
	}
}
