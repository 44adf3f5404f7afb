// Package pattern is the pattern rule runtime (spec §4.3): it applies every
// rule in a loaded rule store against the files its scope glob selects,
// handling version gating, suppression comments, dedup mode, and
// replacement-pattern file skipping.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/rules"
	"github.com/ZviBaratz/gnome-extension-reviewer/internal/scanfs"
)

var suppressionRe = regexp.MustCompile(`ego-lint-ignore(?:-next-line)?(?::\s*(\S+))?`)

// Run evaluates every rule in rs against extDir, returning one finding line
// per match (or a single PASS line for non-dedup rules with zero matches).
// shellVersions comes from the extension's metadata.json (component E);
// an empty list means "unknown" and every version-gated rule fails closed
// (SKIP), per spec §4.3/§7.
func Run(extDir string, rs []rules.Rule, shellVersions []int) []string {
	e := &finding.Emitter{}

	for _, r := range rs {
		runRule(e, extDir, r, shellVersions)
	}
	return e.Lines()
}

func runRule(e *finding.Emitter, extDir string, r rules.Rule, shellVersions []int) {
	if !versionGateApplies(r, shellVersions) {
		e.Emitf(finding.Skip, r.ID, "version gate excludes this shell-version set")
		return
	}

	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		e.Emitf(finding.Skip, r.ID, "invalid pattern: %v", err)
		return
	}

	matches, err := globScope(extDir, r.Scope)
	if err != nil {
		e.Emitf(finding.Skip, r.ID, "scope glob failed: %v", err)
		return
	}
	sort.Strings(matches)

	var dedupFiles []string
	hit := false

	for _, rel := range matches {
		path := extDir + "/" + rel
		raw, err := scanfs.ReadFile(path)
		if err != nil {
			continue
		}

		if r.ReplacementPattern != "" {
			if strings.Contains(raw, r.ReplacementPattern) {
				continue
			}
		}

		lines := splitLines(raw)
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			if isSuppressed(lines, i, r.ID) {
				continue
			}
			hit = true
			if r.Deduplicate {
				dedupFiles = appendUnique(dedupFiles, rel)
				continue
			}
			detail := fmt.Sprintf("%s:%d: %s", rel, i+1, messageOrLine(r, line))
			f := finding.New(severityStatus(r.Severity), r.ID, detail)
			if r.Fix != "" {
				f = f.WithFix(r.Fix)
			}
			e.Emit(f)
		}
	}

	if r.Deduplicate {
		if len(dedupFiles) == 0 {
			e.Emitf(finding.Pass, r.ID, "no matches")
			return
		}
		detail := fmt.Sprintf("matched in %d file(s): %v", len(dedupFiles), dedupFiles)
		f := finding.New(severityStatus(r.Severity), r.ID, detail)
		if r.Fix != "" {
			f = f.WithFix(r.Fix)
		}
		e.Emit(f)
		return
	}

	if !hit {
		e.Emitf(finding.Pass, r.ID, "no matches")
	}
}

// globScope expands a rule's scope, which rules.Parse renders as a single
// string — either one glob or several joined with ", " when the rule store
// declared an inline list (spec §4.2) — unioning the matches of each pattern.
func globScope(extDir, scope string) ([]string, error) {
	patterns := strings.Split(scope, ", ")
	seen := map[string]bool{}
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		matches, err := scanfs.Glob(extDir, p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func messageOrLine(r rules.Rule, line string) string {
	if r.Message != "" {
		return r.Message
	}
	return line
}

func severityStatus(s string) finding.Status {
	switch s {
	case "PASS", "WARN", "FAIL", "SKIP":
		return finding.Status(s)
	default:
		return finding.Warn
	}
}

func versionGateApplies(r rules.Rule, shellVersions []int) bool {
	if !r.HasMinVersion && !r.HasMaxVersion {
		return true
	}
	if len(shellVersions) == 0 {
		// fail-closed: unknown shell-version means a gated rule does not apply.
		return false
	}
	// min-version and max-version are independent bounds: each only needs
	// some declared version to satisfy it, not the same one (spec §4.3).
	if r.HasMinVersion {
		ok := false
		for _, v := range shellVersions {
			if v >= r.MinVersion {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if r.HasMaxVersion {
		ok := false
		for _, v := range shellVersions {
			if v <= r.MaxVersion {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func isSuppressed(lines []string, i int, ruleID string) bool {
	check := func(line string) bool {
		m := suppressionRe.FindStringSubmatch(line)
		if m == nil {
			return false
		}
		if m[1] == "" {
			return true
		}
		return m[1] == ruleID
	}
	if check(lines[i]) {
		return true
	}
	if i > 0 && check(lines[i-1]) {
		return true
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
