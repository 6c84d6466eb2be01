package cargo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func TestReadManifest(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantPackage string
		wantMembers []string
		wantWS      bool
		expectError bool
	}{
		{
			name: "workspace",
			content: `[workspace]
members = ["crates/*", "tools/xtask"]
exclude = ["crates/legacy"]
`,
			wantMembers: []string{"crates/*", "tools/xtask"},
			wantWS:      true,
		},
		{
			name: "single package",
			content: `[package]
name = "app"
version = "0.1.0"

[dependencies]
openssl = "0.10"
`,
			wantPackage: "app",
		},
		{
			name: "package that is also a workspace root",
			content: `[package]
name = "root"
version = "1.0.0"

[workspace]
members = ["sub"]
`,
			wantPackage: "root",
			wantMembers: []string{"sub"},
			wantWS:      true,
		},
		{
			name:        "neither package nor workspace",
			content:     "[dependencies]\nserde = \"1\"\n",
			expectError: true,
		},
		{
			name:        "malformed toml",
			content:     "[package\nname = ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeManifest(t, tt.content)

			m, err := ReadManifest(dir)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadManifest() error = %v", err)
			}

			if m.PackageName != tt.wantPackage {
				t.Errorf("package: expected %q, got %q", tt.wantPackage, m.PackageName)
			}
			if m.IsWorkspace != tt.wantWS {
				t.Errorf("workspace: expected %v, got %v", tt.wantWS, m.IsWorkspace)
			}
			if len(m.Members) != len(tt.wantMembers) {
				t.Fatalf("members: expected %v, got %v", tt.wantMembers, m.Members)
			}
			for i := range tt.wantMembers {
				if m.Members[i] != tt.wantMembers[i] {
					t.Errorf("member %d: expected %q, got %q", i, tt.wantMembers[i], m.Members[i])
				}
			}
		})
	}
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing Cargo.toml")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestManifestContains(t *testing.T) {
	workspace := &Manifest{
		Root:        "/work",
		Members:     []string{"crates/*", "tools/xtask", "../shared"},
		Exclude:     []string{"vendor/old"},
		IsWorkspace: true,
	}
	rootPackage := &Manifest{Root: "/work", PackageName: "app"}

	tests := []struct {
		name     string
		manifest *Manifest
		path     string
		want     bool
	}{
		{"member matched by glob", workspace, "/work/crates/api", true},
		{"member listed by path", workspace, "/work/tools/xtask", true},
		{"path crate below root is implicit member", workspace, "/work/vendor/shim", true},
		{"excluded path crate", workspace, "/work/vendor/old", false},
		{"crate below excluded dir", workspace, "/work/vendor/old/sys", false},
		{"vendored crate outside root", workspace, "/vendor/openssl-shim", false},
		{"listed member outside root", workspace, "/shared", true},
		{"virtual workspace root", workspace, "/work", false},
		{"root package", rootPackage, "/work", true},
		{"path dependency of plain package", rootPackage, "/work/vendor/shim", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manifest.Contains(tt.path); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReadManifest_SetsRoot(t *testing.T) {
	dir := writeManifest(t, "[workspace]\nmembers = [\"app\"]\n")

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Root != dir {
		t.Errorf("expected root %q, got %q", dir, m.Root)
	}
	if !m.Contains(filepath.Join(dir, "app")) {
		t.Error("expected listed member to be contained")
	}
}
