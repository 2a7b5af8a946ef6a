package main

import (
	"errors"
	"fmt"
	"os"

	"supra/internal/project"
)

var errNoManifest = errors.New("no " + project.ManifestName + " found\nplease pass unit files or directories explicitly, e.g.:\n  supra build path/to/units")

// buildInputs is the resolved set of unit files for one invocation.
type buildInputs struct {
	files    []string
	baseDir  string
	manifest *project.Manifest
}

// resolveInputs expands explicit paths, or falls back to the sources listed
// in the nearest supra.toml.
func resolveInputs(paths []string) (buildInputs, error) {
	if len(paths) > 0 {
		files, err := project.CollectUnitFiles(paths)
		if err != nil {
			return buildInputs{}, err
		}
		wd, err := os.Getwd()
		if err != nil {
			return buildInputs{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		return buildInputs{files: files, baseDir: wd}, nil
	}

	manifest, ok, err := project.LoadManifest(".")
	if err != nil {
		return buildInputs{}, err
	}
	if !ok {
		return buildInputs{}, errNoManifest
	}
	files, err := project.CollectUnitFiles(manifest.SourceRoots())
	if err != nil {
		return buildInputs{}, fmt.Errorf("%s: %w", manifest.Path, err)
	}
	if len(files) == 0 {
		return buildInputs{}, fmt.Errorf("%s: no %s files under the configured sources", manifest.Path, project.UnitExt)
	}
	return buildInputs{files: files, baseDir: manifest.Root, manifest: manifest}, nil
}
