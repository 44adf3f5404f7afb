package ownership

import (
	"regexp"
	"strings"
)

// Orphan describes one unreleased resource, grounded on
// build-resource-graph.py's detect_orphans.
type Orphan struct {
	File   string       `json:"file"`
	Line   int          `json:"line"`
	Kind   ResourceKind `json:"type"`
	Reason string       `json:"reason"`
}

// DetectOrphans runs the three ordered cases against every scanned file:
//  1. the file has no lifecycle method at all (no destroy/disable/_destroy)
//     -> every create in it is orphaned.
//  2. the file has a lifecycle method, but its parent never calls it on the
//     owning instantiation -> every create in it is orphaned.
//  3. the file has a lifecycle method and the parent calls it -> check each
//     create individually against the destroy sites found anywhere in the
//     file, exempting widget-child-adoption and dbus-proxy-maker patterns,
//     and treating a null assignment to the same ref inside a lifecycle
//     method as an implicit release.
func DetectOrphans(g *Graph) []Orphan {
	var orphans []Orphan

	for _, path := range sortedScanPaths(g) {
		fs := g.Scans[path]
		if len(fs.Creates) == 0 {
			continue
		}

		hasLifecycle := fs.HasDestroy || fs.HasDisable || fs.HasPrivateDtor
		if !hasLifecycle {
			for _, c := range fs.Creates {
				orphans = append(orphans, Orphan{
					File: path, Line: c.Line, Kind: c.Kind,
					Reason: "no destroy()/disable() method in " + path,
				})
			}
			continue
		}

		if parent, owned := g.Parent[path]; owned {
			if !parentCallsDestroy(g.Scans[parent], path, fs) {
				for _, c := range fs.Creates {
					orphans = append(orphans, Orphan{
						File: path, Line: c.Line, Kind: c.Kind,
						Reason: "parent does not call destroy() on " + path,
					})
				}
				continue
			}
		}

		for _, c := range fs.Creates {
			if isExempt(fs, c) {
				continue
			}
			if releases(fs, c) {
				continue
			}
			orphans = append(orphans, Orphan{
				File: path, Line: c.Line, Kind: c.Kind,
				Reason: describeCreate(c) + " created but not cleaned up in destroy()",
			})
		}
	}

	return orphans
}

func sortedScanPaths(g *Graph) []string {
	paths := make([]string, 0, len(g.Scans))
	for p := range g.Scans {
		paths = append(paths, p)
	}
	return sortedStrings(paths)
}

// parentCallsDestroy reports whether the parent scan's instantiation of this
// child has a matching destroy call recorded against it.
func parentCallsDestroy(parent *FileScan, childPath string, child *FileScan) bool {
	if parent == nil {
		return false
	}
	for _, inst := range parent.Instantiations {
		if resolvedClass, ok := parent.Imports[inst.ClassName]; ok && resolvedClass == childPath {
			if inst.Destroyed {
				return true
			}
		}
	}
	return false
}

func isExempt(fs *FileScan, c Resource) bool {
	if c.Kind == Widget {
		for ref := range fs.ChildRefs {
			if strings.Contains(c.Text, ref) {
				return true
			}
		}
	}
	if c.Kind == DBus && strings.Contains(c.Text, "makeProxyWrapper") {
		return true
	}
	return false
}

func releases(fs *FileScan, c Resource) bool {
	ref := extractRefFromCreate(c)
	if ref == "" {
		// no storage binding (e.g. anonymous connect()) — untracked, no
		// confident signal either way (spec §4.7 case 3).
		return true
	}
	for _, d := range fs.Destroys {
		if strings.Contains(d.Text, ref) {
			return true
		}
	}
	return fs.NulledRefs[ref]
}

func describeCreate(c Resource) string {
	if ref := extractRefFromCreate(c); ref != "" {
		return ref
	}
	return string(c.Kind)
}

// storedRefUnderscoreRe and storedRefBareRe match the storage-binding
// assignment at the start of a create-site's line, grounded on
// build-resource-graph.py's extract_stored_ref: an underscore-prefixed
// "this._foo = " binding first, falling back to a bare "this.foo = " binding.
var storedRefUnderscoreRe = regexp.MustCompile(`^\s*(this\._\w+)\s*=`)
var storedRefBareRe = regexp.MustCompile(`^\s*(this\.\w+)\s*=`)

func extractRefFromCreate(c Resource) string {
	if m := storedRefUnderscoreRe.FindStringSubmatch(c.Text); m != nil {
		return normalizeRef(m[1])
	}
	if m := storedRefBareRe.FindStringSubmatch(c.Text); m != nil {
		return normalizeRef(m[1])
	}
	return ""
}
