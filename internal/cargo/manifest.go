package cargo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFile and LockFile are the files cargo reads from a workspace root.
const (
	ManifestFile = "Cargo.toml"
	LockFile     = "Cargo.lock"
)

// cargoManifest matches the parts of Cargo.toml read by ReadManifest.
type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

// ReadManifest parses dir/Cargo.toml.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw cargoManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	m := &Manifest{Root: root}
	if raw.Package != nil {
		m.PackageName = raw.Package.Name
	}
	if raw.Workspace != nil {
		m.IsWorkspace = true
		m.Members = raw.Workspace.Members
		m.Exclude = raw.Workspace.Exclude
	}

	if m.PackageName == "" && !m.IsWorkspace {
		return nil, fmt.Errorf("%s has neither [package] nor [workspace]", path)
	}
	return m, nil
}

// Contains reports whether the crate at path is a member of the workspace
// rooted at m.Root. Listed members always count. Otherwise cargo makes every
// path crate below the root a member unless exclude names it; without a
// [workspace] table only the root package is one.
func (m *Manifest) Contains(path string) bool {
	rel, ok := relativeTo(m.Root, path)
	if !ok {
		return false
	}
	if rel == "." {
		return m.PackageName != ""
	}
	if !m.IsWorkspace {
		return false
	}

	for _, pattern := range m.Members {
		if matched, _ := filepath.Match(filepath.Clean(filepath.FromSlash(pattern)), rel); matched {
			return true
		}
	}
	if isOutside(rel) {
		return false
	}
	for _, ex := range m.Exclude {
		ex = filepath.Clean(filepath.FromSlash(ex))
		if rel == ex || strings.HasPrefix(rel, ex+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

// relativeTo returns path relative to root, retrying with symlinks resolved
// when the plain paths do not nest (cargo prints canonical paths).
func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err == nil && !isOutside(rel) {
		return rel, true
	}

	realRoot, rootErr := filepath.EvalSymlinks(root)
	realPath, pathErr := filepath.EvalSymlinks(path)
	if rootErr == nil && pathErr == nil {
		if resolved, err := filepath.Rel(realRoot, realPath); err == nil {
			return resolved, true
		}
	}
	return rel, err == nil
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
