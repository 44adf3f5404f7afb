// Package scanfs walks a GNOME Shell extension directory and provides the
// text-stripping and brace-depth primitives every downstream check builds
// on, so each check does not reimplement file discovery or comment removal.
package scanfs

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SkipDirs are never descended into.
var SkipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"__pycache__":  true,
}

// JSFiles returns every *.js file under root, sorted lexicographically for
// deterministic output. When excludePrefs is true, prefs.js is omitted.
func JSFiles(root string, excludePrefs bool) ([]string, error) {
	return walkMatching(root, func(name string) bool {
		if filepath.Ext(name) != ".js" {
			return false
		}
		if excludePrefs && name == "prefs.js" {
			return false
		}
		return true
	})
}

// AllFiles returns every regular file under root matching one of the given
// names (e.g. "metadata.json", "stylesheet.css"), sorted.
func AllFiles(root string, names ...string) ([]string, error) {
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	return walkMatching(root, func(name string) bool { return want[name] })
}

// walkMatching returns paths relative to root, so callers can join them back
// onto root (or a different extension directory in tests) themselves.
func walkMatching(root string, match func(name string) bool) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if SkipDirs[info.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if match(info.Name()) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
var lineComment = regexp.MustCompile(`//.*`)

// StripComments removes block and line comments from JS/CSS-like source,
// mirroring the original tool's strip_comments(): non-greedy block comments
// first, then line comments. Raw content should be kept separately by
// callers that need to scan suppression comments.
func StripComments(content string) string {
	content = blockComment.ReplaceAllString(content, "")
	content = lineComment.ReplaceAllString(content, "")
	return content
}

// ReadFile reads a file as UTF-8, replacing invalid bytes rather than
// failing, matching the original's errors='replace' behavior.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

// BraceScanner tracks brace depth line by line over already comment-stripped
// content, the same inexact heuristic the original relies on throughout
// (it does not understand braces inside string or template literals).
type BraceScanner struct {
	Depth int
}

// Step updates depth by the net brace count in line and returns the
// depth *before* the update (i.e. the scope the line itself belongs to).
func (s *BraceScanner) Step(line string) int {
	before := s.Depth
	for _, r := range line {
		switch r {
		case '{':
			s.Depth++
		case '}':
			s.Depth--
		}
	}
	if s.Depth < 0 {
		s.Depth = 0
	}
	return before
}

// MethodBody extracts the body of a method named name starting search from
// content, using brace-depth matching from the method's opening brace to its
// matching close. Returns ok=false if the method is not found.
func MethodBody(content, name string) (body string, start, end int, ok bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\([^)]*\)\s*\{`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return "", 0, 0, false
	}
	pos := loc[1]
	depth := 1
	for pos < len(content) && depth > 0 {
		switch content[pos] {
		case '{':
			depth++
		case '}':
			depth--
		}
		pos++
	}
	return content[loc[1] : pos-1], loc[0], pos, true
}

// LineBounds returns the start (inclusive) and end (exclusive) byte offsets
// of the line containing offset, so callers can recover the whole source
// line a regex match fell on instead of just the text trailing the match.
func LineBounds(content string, offset int) (start, end int) {
	if offset > len(content) {
		offset = len(content)
	}
	start = offset
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return start, end
}

// LineOf returns the 1-based line number of byte offset in content.
func LineOf(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	n := 1
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			n++
		}
	}
	return n
}
