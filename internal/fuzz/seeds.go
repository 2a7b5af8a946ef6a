package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 20
)

var inlineSeeds = []string{
	"",
	"unit A\n",
	"unit A\ndef f(x) = x\ndefoverridable f/1\ndef f(x) = super(x) + 1\n",
	"unit A\ndef f(x, y \\\\ 2) = x * y\ndefoverridable f/2\ndef f(x, y) = super\n",
	"unit A\ndefoverridable B\n",
	"unit A\ndefoverridable f\n",
	"unit A\ndef f(x) when x > 0 = B.g(x) - -1\n",
	"unit A\ncallback f/1\ncallback f/1\n",
	"unit A\ndef f(\n",
	"unit A\ndef f(x) = super(x, x)\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ovr" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
