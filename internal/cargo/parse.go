package cargo

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// treeIndent is the width of one nesting level in cargo's tree output.
const treeIndent = 4

// ParseInvertedTree parses the output of `cargo tree -i <crate>`.
// Example input:
//
//	openssl v0.10.57
//	└── native-tls v0.2.11
//	    ├── hyper-tls v0.5.0
//	    │   └── app v0.1.0 (/work/app)
//	    └── reqwest v0.11.20 (*)
//
// Entries are returned in output order. Section headers such as
// "[build-dependencies]" are skipped.
func ParseInvertedTree(output string) ([]Dependent, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, fmt.Errorf("no dependency tree in output")
	}

	var deps []Dependent
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		prefixLen := 0
		for _, ch := range line {
			if !isTreeRune(ch) {
				break
			}
			prefixLen++
		}

		content := strings.TrimSpace(string([]rune(line)[prefixLen:]))
		if content == "" || strings.HasPrefix(content, "[") {
			continue
		}

		dep, ok := parseTreeEntry(content)
		if !ok {
			continue
		}
		dep.Depth = prefixLen / treeIndent
		if prefixLen > 0 && dep.Depth == 0 {
			dep.Depth = 1
		}
		deps = append(deps, dep)
	}

	if len(deps) == 0 {
		return nil, fmt.Errorf("no dependency tree in output")
	}
	return deps, nil
}

// isTreeRune reports whether ch is part of the drawing prefix, in either the
// utf8 or the ascii charset.
func isTreeRune(ch rune) bool {
	switch ch {
	case ' ', '│', '├', '└', '─', '|', '`', '-':
		return true
	}
	return false
}

// parseTreeEntry parses "name vX.Y.Z (annotation) (annotation)".
func parseTreeEntry(content string) (Dependent, bool) {
	fields := strings.Fields(content)
	if len(fields) < 2 {
		return Dependent{}, false
	}

	dep := Dependent{Name: fields[0]}
	if v, err := semver.NewVersion(strings.TrimPrefix(fields[1], "v")); err == nil {
		dep.Version = v
	}

	rest := strings.TrimSpace(strings.TrimPrefix(content, fields[0]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
	for _, note := range annotations(rest) {
		switch {
		case note == "*":
			dep.Dedup = true
		case note == "proc-macro":
		case strings.Contains(note, "://"), strings.HasPrefix(note, "registry "):
			// non-default source, not a local crate
		default:
			dep.Path = note
		}
	}

	return dep, true
}

// annotations extracts the parenthesized groups trailing a tree entry.
func annotations(s string) []string {
	var notes []string
	for {
		start := strings.IndexByte(s, '(')
		if start < 0 {
			return notes
		}
		end := strings.IndexByte(s[start:], ')')
		if end < 0 {
			return notes
		}
		notes = append(notes, s[start+1:start+end])
		s = s[start+end+1:]
	}
}

// RootGroup is one top-level entry of an inverted tree (one version of the
// queried crate) with the entries printed beneath it.
type RootGroup struct {
	Root    Dependent
	Entries []Dependent
}

// GroupByRoot splits parsed entries at each depth-0 line. Entries that
// precede the first root are dropped.
func GroupByRoot(deps []Dependent) []RootGroup {
	var groups []RootGroup
	for _, d := range deps {
		if d.Depth == 0 {
			groups = append(groups, RootGroup{Root: d})
			continue
		}
		if len(groups) == 0 {
			continue
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, d)
	}
	return groups
}

// LocalCrates returns the distinct crates with an on-disk path that appear
// below the roots of the tree, in order of first appearance. Whether each one
// is a workspace member is decided by Manifest.Contains.
func LocalCrates(deps []Dependent) []Dependent {
	seen := make(map[string]bool)
	var local []Dependent
	for _, d := range deps {
		if !d.IsLocal() || d.Depth == 0 {
			continue
		}
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		local = append(local, d)
	}
	return local
}
