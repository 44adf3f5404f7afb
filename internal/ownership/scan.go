// Package ownership implements the Resource scanner, Ownership resolver,
// Orphan detector, and Finding classifier (spec components G, H, I, J): a
// cross-file graph of which JS module instantiates which other module, used
// to tell whether a created resource (signal, timeout, widget, D-Bus proxy,
// file monitor, GSettings) is ever released.
package ownership

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

// ResourceKind enumerates the resource categories this scanner tracks.
type ResourceKind string

const (
	Signal       ResourceKind = "signal"
	Timeout      ResourceKind = "timeout"
	Widget       ResourceKind = "widget"
	DBus         ResourceKind = "dbus"
	FileMonitor  ResourceKind = "filemonitor"
	GSettingsKnd ResourceKind = "gsettings"
)

// Resource is one tracked create or destroy site within a file.
type Resource struct {
	Kind ResourceKind
	Line int
	Text string
}

// Instantiation is a `this._x = new Foo(...)` site: a candidate parent-child
// ownership edge once Foo is resolved to a file via the import map.
type Instantiation struct {
	Ref       string // e.g. "this._indicator"
	ClassName string
	Line      int
	Destroyed bool // a destroy call on Ref was found in this file's destroy()/disable()/_destroy() bodies
}

// FileScan is everything extracted from one JS file.
type FileScan struct {
	Path            string // relative to extension root
	Content         string
	Creates         []Resource
	Destroys        []Resource
	Instantiations  []Instantiation
	Imports         map[string]string // local name -> resolved relative file path
	HasDestroy      bool
	HasDisable      bool
	HasPrivateDtor  bool // a `_destroy()` helper, common in larger extensions
	ChildRefs       map[string]bool // refs adopted into a widget tree (add_child, etc.)
	DestroyRefsText string          // concatenated destroy()/disable() bodies, for substring containment checks
	NulledRefs      map[string]bool
}

var createPatterns = map[ResourceKind][]*regexp.Regexp{
	Signal: {
		regexp.MustCompile(`\.connect\s*\(`),
		regexp.MustCompile(`\.connectObject\s*\(`),
	},
	Timeout: {
		regexp.MustCompile(`(?:GLib\.)?(?:timeout_add|idle_add)(?:_seconds)?\s*\(`),
	},
	Widget: {
		regexp.MustCompile(`new\s+(?:St|Clutter|PanelMenu|PopupMenu|Adw|Gtk)\.\w+\s*\(`),
	},
	DBus: {
		regexp.MustCompile(`Gio\.DBusProxy\.new_for_bus`),
		regexp.MustCompile(`new\s+Gio\.DBusProxy\s*\(`),
		regexp.MustCompile(`makeProxyWrapper\s*\(`),
	},
	FileMonitor: {
		regexp.MustCompile(`\.monitor_(?:file|directory)\s*\(`),
	},
	GSettingsKnd: {
		regexp.MustCompile(`getSettings\s*\(`),
		regexp.MustCompile(`new\s+Gio\.Settings\s*\(`),
	},
}

var destroyPatterns = map[ResourceKind][]*regexp.Regexp{
	Signal:       {regexp.MustCompile(`\.disconnect\s*\(`), regexp.MustCompile(`\.disconnectObject\s*\(`)},
	Timeout:      {regexp.MustCompile(`(?:GLib\.)?Source\.remove\s*\(`), regexp.MustCompile(`source_remove\s*\(`)},
	Widget:       {regexp.MustCompile(`\.destroy\s*\(\s*\)`)},
	DBus:         {regexp.MustCompile(`\.disconnect\s*\(`), regexp.MustCompile(`\.disconnectSignal\s*\(`)},
	FileMonitor:  {regexp.MustCompile(`\.cancel\s*\(\s*\)`)},
	GSettingsKnd: {regexp.MustCompile(`\.disconnect\s*\(`)},
}

var instantiationRe = regexp.MustCompile(`(this[._]\w+)\s*=\s*new\s+(\w+)\s*\(`)
var childAdoptRe = regexp.MustCompile(`\.(?:add_child|insert_child_below|insert_child_above|insert_child_at_index|set_child|add_actor)\s*\(\s*(this[._]\w+)`)
var namedImportRe = regexp.MustCompile(`import\s*\{\s*([^}]+)\s*\}\s*from\s*['"]([^'"]+)['"]`)
var defaultImportRe = regexp.MustCompile(`import\s+(\w+)\s+from\s*['"]([^'"]+)['"]`)
var namespaceImportRe = regexp.MustCompile(`import\s*\*\s*as\s+(\w+)\s+from\s*['"]([^'"]+)['"]`)

// ScanFile extracts a FileScan for one JS file, grounded on
// build-resource-graph.py's scan_file.
func ScanFile(extDir, rel string) (*FileScan, error) {
	raw, err := scanfs.ReadFile(filepath.Join(extDir, rel))
	if err != nil {
		return nil, err
	}
	clean := scanfs.StripComments(raw)

	fs := &FileScan{
		Path:      rel,
		Content:   clean,
		Imports:   parseImports(clean, rel, extDir),
		ChildRefs: map[string]bool{},
	}

	for kind, pats := range createPatterns {
		for _, p := range pats {
			for _, loc := range p.FindAllStringIndex(clean, -1) {
				fs.Creates = append(fs.Creates, Resource{Kind: kind, Line: scanfs.LineOf(clean, loc[0]), Text: lineText(clean, loc[0])})
			}
		}
	}
	for kind, pats := range destroyPatterns {
		for _, p := range pats {
			for _, loc := range p.FindAllStringIndex(clean, -1) {
				fs.Destroys = append(fs.Destroys, Resource{Kind: kind, Line: scanfs.LineOf(clean, loc[0]), Text: lineText(clean, loc[0])})
			}
		}
	}

	for _, m := range instantiationRe.FindAllStringSubmatchIndex(clean, -1) {
		ref := clean[m[2]:m[3]]
		class := clean[m[4]:m[5]]
		fs.Instantiations = append(fs.Instantiations, Instantiation{
			Ref: normalizeRef(ref), ClassName: class, Line: scanfs.LineOf(clean, m[0]),
		})
	}

	for _, m := range childAdoptRe.FindAllStringSubmatch(clean, -1) {
		fs.ChildRefs[normalizeRef(m[1])] = true
	}

	if body, _, _, ok := scanfs.MethodBody(clean, "disable"); ok {
		fs.HasDisable = true
		fs.DestroyRefsText += body
		collectNulled(fs, body)
	}
	if body, _, _, ok := scanfs.MethodBody(clean, "destroy"); ok {
		fs.HasDestroy = true
		fs.DestroyRefsText += body
		collectNulled(fs, body)
	}
	if body, _, _, ok := scanfs.MethodBody(clean, "_destroy"); ok {
		fs.HasPrivateDtor = true
		fs.DestroyRefsText += body
		collectNulled(fs, body)
	}

	// post-pass: mark instantiations whose ref has a matching destroy call
	// anywhere in the file's collected destroy-method bodies.
	for i := range fs.Instantiations {
		ref := fs.Instantiations[i].Ref
		destroyCall := regexp.MustCompile(regexp.QuoteMeta(ref) + `\??\.destroy\s*\(`)
		if destroyCall.MatchString(fs.DestroyRefsText) {
			fs.Instantiations[i].Destroyed = true
		}
	}

	return fs, nil
}

var nulledRe = regexp.MustCompile(`(this[._]\w+)\s*=\s*null\b`)

func collectNulled(fs *FileScan, body string) {
	if fs.NulledRefs == nil {
		fs.NulledRefs = map[string]bool{}
	}
	for _, m := range nulledRe.FindAllStringSubmatch(body, -1) {
		fs.NulledRefs[normalizeRef(m[1])] = true
	}
}

// normalizeRef canonicalizes a captured "this.x" / "this._x" / "this_x"
// reference to a single "this._x" form, so the same field compares equal
// regardless of which separator the source actually used.
func normalizeRef(s string) string {
	rest := strings.TrimPrefix(s, "this")
	rest = strings.TrimPrefix(rest, ".")
	rest = strings.TrimPrefix(rest, "_")
	return "this._" + rest
}

func parseImports(content, selfRel, extDir string) map[string]string {
	out := map[string]string{}
	add := func(name, spec string) {
		resolved := resolveImport(selfRel, spec)
		if resolved != "" {
			out[name] = resolved
		}
	}
	for _, m := range namedImportRe.FindAllStringSubmatch(content, -1) {
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(strings.Split(part, " as ")[0])
			if name == "" {
				continue
			}
			add(name, m[2])
		}
	}
	for _, m := range defaultImportRe.FindAllStringSubmatch(content, -1) {
		add(m[1], m[2])
	}
	for _, m := range namespaceImportRe.FindAllStringSubmatch(content, -1) {
		add(m[1], m[2])
	}
	return out
}

func resolveImport(selfRel, spec string) string {
	if !strings.HasPrefix(spec, ".") {
		return "" // external/GI import, not a local file
	}
	dir := filepath.Dir(selfRel)
	joined := filepath.Join(dir, spec)
	if !strings.HasSuffix(joined, ".js") {
		joined += ".js"
	}
	return filepath.ToSlash(joined)
}

// lineText returns the trimmed source line containing offset, capped at 120
// bytes, mirroring build-resource-graph.py's scan_file (`stripped[:120]`) so
// a preceding "this._foo = " storage binding on the same line is preserved.
func lineText(content string, offset int) string {
	start, end := scanfs.LineBounds(content, offset)
	line := strings.TrimSpace(content[start:end])
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}

// SortedScans returns scans in deterministic (lexicographic path) order.
func SortedScans(scans []*FileScan) []*FileScan {
	out := append([]*FileScan(nil), scans...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
