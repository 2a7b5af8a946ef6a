package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUnits(t *testing.T, units map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range units {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	base := []string{"--color", "off", "--progress", "off", "--cache=false", "--quiet=false"}
	rootCmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

const greeter = `unit Greeter
def hello(x) = x + 1
defoverridable hello/1
def hello(x) = super(x) * 10
`

func TestBuildAndEval(t *testing.T) {
	dir := writeUnits(t, map[string]string{"greeter.ovr": greeter})

	_, stderr, err := execute(t, "build", "--format", "short", dir)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "built 1 units") {
		t.Fatalf("missing summary in %q", stderr)
	}

	stdout, stderr, err := execute(t, "eval", "-p", dir, "Greeter.hello", "4")
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, stderr)
	}
	if strings.TrimSpace(stdout) != "50" {
		t.Fatalf("eval printed %q, want 50", stdout)
	}
}

func TestBuildReportsDiagnostics(t *testing.T) {
	dir := writeUnits(t, map[string]string{"broken.ovr": "unit Broken\ndef f(x) = super(x)\n"})

	_, stderr, err := execute(t, "build", "--format", "short", dir)
	if !errors.Is(err, errBuildFailed) {
		t.Fatalf("expected build failure, got %v", err)
	}
	if !strings.Contains(stderr, "error DEF3005") || !strings.Contains(stderr, "no super defined for `f/1` in module `Broken`") {
		t.Fatalf("unexpected diagnostics:\n%s", stderr)
	}
}

func TestExportsListsOverridable(t *testing.T) {
	dir := writeUnits(t, map[string]string{"greeter.ovr": greeter + "defp helper(x) = x\n"})

	stdout, stderr, err := execute(t, "exports", "--unit", "Greeter", dir)
	if err != nil {
		t.Fatalf("exports: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "hello/1  overridable") {
		t.Fatalf("hello/1 not listed as overridable:\n%s", stdout)
	}
	if strings.Contains(stdout, "helper") {
		t.Fatalf("private definition listed:\n%s", stdout)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in       string
		unit     string
		fun      string
		wantFail bool
	}{
		{in: "Greeter.hello", unit: "Greeter", fun: "hello"},
		{in: "Deep.Unit.run", unit: "Deep.Unit", fun: "run"},
		{in: "hello", wantFail: true},
		{in: ".hello", wantFail: true},
		{in: "Greeter.", wantFail: true},
	}
	for _, tt := range tests {
		u, f, err := parseTarget(tt.in)
		if tt.wantFail {
			if err == nil {
				t.Fatalf("parseTarget(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || u != tt.unit || f != tt.fun {
			t.Fatalf("parseTarget(%q) = %q, %q, %v", tt.in, u, f, err)
		}
	}
}

func TestParseIntArgs(t *testing.T) {
	got, err := parseIntArgs([]string{"1", "-2", "1_000"})
	if err != nil {
		t.Fatalf("parseIntArgs: %v", err)
	}
	if got[0] != 1 || got[1] != -2 || got[2] != 1000 {
		t.Fatalf("parseIntArgs = %v", got)
	}
	if _, err := parseIntArgs([]string{"x"}); err == nil {
		t.Fatalf("expected error for non-integer argument")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}
