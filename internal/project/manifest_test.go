package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestFromSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "shapes"

[build]
sources = ["units", "extra"]
jobs = 3
cache = false
max_diagnostics = 20
`)
	sub := filepath.Join(root, "units", "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := LoadManifest(sub)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "shapes" || m.Config.Build.Jobs != 3 || m.Config.Build.MaxDiagnostics != 20 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if m.Config.Build.Cache == nil || *m.Config.Build.Cache {
		t.Fatalf("cache = false was not decoded")
	}
	roots := m.SourceRoots()
	if len(roots) != 2 || roots[0] != filepath.Join(m.Root, "units") {
		t.Fatalf("unexpected source roots %v", roots)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"missing package", "[build]\njobs = 1\n", ErrPackageSectionMissing},
		{"missing name", "[package]\n", ErrPackageNameMissing},
		{"blank name", "[package]\nname = \"  \"\n", ErrPackageNameMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			if _, err := LoadConfig(path); !errors.Is(err, tt.want) {
				t.Fatalf("LoadConfig error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadConfigRejectsUnknownKeysAndNegativeJobs(t *testing.T) {
	for _, content := range []string{
		"[package]\nname = \"a\"\n[build]\njobs = -1\n",
		"[package]\nname = \"a\"\nedition = 2\n",
		"[package\n",
	} {
		path := filepath.Join(t.TempDir(), ManifestName)
		writeFile(t, path, content)
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestDefaultSourceRoot(t *testing.T) {
	m := &Manifest{Root: "/work/app"}
	if roots := m.SourceRoots(); len(roots) != 1 || roots[0] != "/work/app" {
		t.Fatalf("unexpected roots %v", roots)
	}
}

func TestCollectUnitFiles(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"a.ovr", "sub/b.ovr", "sub/notes.txt", ".hidden/c.ovr"} {
		writeFile(t, filepath.Join(root, p), "unit X\n")
	}
	files, err := CollectUnitFiles([]string{root, filepath.Join(root, "a.ovr")})
	if err != nil {
		t.Fatalf("CollectUnitFiles: %v", err)
	}
	want := []string{filepath.Join(root, "a.ovr"), filepath.Join(root, "sub", "b.ovr")}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files = %v, want %v", files, want)
		}
	}
	if _, err := CollectUnitFiles([]string{filepath.Join(root, "missing")}); err == nil {
		t.Fatalf("expected error for a missing path")
	}
}

func TestHashCombineDependsOnDeps(t *testing.T) {
	a := HashContent([]byte("unit A\n"))
	b := HashContent([]byte("unit B\n"))
	if Combine(a) == Combine(a, b) {
		t.Fatalf("Combine must depend on dependency digests")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine must be deterministic")
	}
}
