package cargo

import "github.com/Masterminds/semver/v3"

// TreeResult holds everything captured from one `cargo tree` invocation.
type TreeResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited with status 0.
func (r TreeResult) Success() bool {
	return r.ExitCode == 0
}

// Dependent is one line of an inverted dependency tree.
type Dependent struct {
	Name    string
	Version *semver.Version // nil if the version could not be parsed
	Path    string          // local path for workspace/path crates, e.g. "/src/app"
	Depth   int
	Dedup   bool // line ended with "(*)": subtree already printed above
}

// IsLocal reports whether the crate lives on disk rather than in a registry.
func (d Dependent) IsLocal() bool {
	return d.Path != ""
}

// Manifest is the subset of Cargo.toml that cratecheck cares about.
type Manifest struct {
	Root        string // directory holding Cargo.toml
	PackageName string
	Members     []string
	Exclude     []string
	IsWorkspace bool
}
