package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// UnitExt is the extension of unit source files.
const UnitExt = ".ovr"

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is a loaded supra.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the supra.toml layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig is the optional [build] section. Zero values mean "use the
// command line default".
type BuildConfig struct {
	Sources        []string `toml:"sources"`
	Jobs           int      `toml:"jobs"`
	Cache          *bool    `toml:"cache"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

// LoadManifest locates and parses supra.toml starting at startDir. ok is
// false when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses one supra.toml file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if meta.IsDefined("build", "jobs") && cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// SourceRoots returns the absolute directories listed in [build].sources,
// or the manifest directory when none are listed.
func (m *Manifest) SourceRoots() []string {
	if len(m.Config.Build.Sources) == 0 {
		return []string{m.Root}
	}
	out := make([]string, 0, len(m.Config.Build.Sources))
	for _, rel := range m.Config.Build.Sources {
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(rel)))
	}
	return out
}

// CollectUnitFiles expands files and directories into a sorted, de-duplicated
// list of unit files.
func CollectUnitFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == UnitExt {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", p, err)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
