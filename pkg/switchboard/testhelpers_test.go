// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
)

// call records one command handed to the fake runner.
type call struct {
	bin  string
	args []string
	dir  string
	env  []string
}

// fakeRunner records every invocation instead of spawning processes.
type fakeRunner struct {
	calls []call

	// failOn makes invocations of that binary fail with failErr.
	failOn  string
	failErr error

	// outputs maps binary name to the bytes returned from output().
	outputs map[string][]byte
}

// defaultBashOutput is a plausible `env -0` dump for activation.
var defaultBashOutput = []byte("GPHOME=/usr/local/gpdb\x00PGPORT=6000\x00GPPERFMONHOME=/stale\x00")

func (r *fakeRunner) record(cmd *exec.Cmd) call {
	c := call{
		bin:  filepath.Base(cmd.Args[0]),
		args: cmd.Args[1:],
		dir:  cmd.Dir,
		env:  cmd.Env,
	}
	r.calls = append(r.calls, c)
	return c
}

func (r *fakeRunner) fail(bin string) error {
	if r.failOn != "" && bin == r.failOn {
		if r.failErr != nil {
			return r.failErr
		}
		return errors.New(bin + " failed")
	}
	return nil
}

func (r *fakeRunner) run(cmd *exec.Cmd) error {
	c := r.record(cmd)
	return r.fail(c.bin)
}

func (r *fakeRunner) output(cmd *exec.Cmd) ([]byte, error) {
	c := r.record(cmd)
	if err := r.fail(c.bin); err != nil {
		return nil, err
	}
	if out, ok := r.outputs[c.bin]; ok {
		return out, nil
	}
	if c.bin == binBash {
		return defaultBashOutput, nil
	}
	return nil, nil
}

// invoked returns the recorded calls for one binary.
func (r *fakeRunner) invoked(bin string) []call {
	var out []call
	for _, c := range r.calls {
		if c.bin == bin {
			out = append(out, c)
		}
	}
	return out
}

// fakeInspector serves a canned process table.
type fakeInspector struct {
	procs []ProcessInfo
	err   error
}

func (f fakeInspector) Processes() ([]ProcessInfo, error) {
	return f.procs, f.err
}

// newBoard wires a Switchboard with injected fakes.
func newBoard(t *testing.T, cfg Config, r runner, pi ProcessInspector) *Switchboard {
	t.Helper()
	reg, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if r == nil {
		r = &fakeRunner{}
	}
	if pi == nil {
		pi = fakeInspector{}
	}
	return &Switchboard{cfg: cfg, reg: reg, run: r, inspector: pi}
}

// newTestEnv creates a checkout fixture (demo env script present, optionally
// an embedded optimizer subtree) and a config registering it as the only
// environment.
func newTestEnv(t *testing.T, name string, embedded bool) (Config, Environment) {
	t.Helper()
	src := t.TempDir()
	install := t.TempDir()
	mustWrite(t, filepath.Join(src, "gpAux", "gpdemo", "gpdemo-env.sh"), "export PGPORT=6000\n")
	if embedded {
		if err := os.MkdirAll(filepath.Join(src, "src", "backend", "gporca"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Config{
		Environments: []EnvironmentConfig{{Name: name, SourceDir: src, InstallDir: install}},
	}
	cfg.applyDefaults()
	cfg.Build.LogDir = t.TempDir()
	cfg.Patch.File = filepath.Join(t.TempDir(), "switchyard.patch")
	cfg.Orca.SourceDir = t.TempDir()
	cfg.Orca.BuildDirBase = filepath.Join(t.TempDir(), "build")

	reg, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	env, err := reg.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", name, err)
	}
	return cfg, env
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// exitError produces a real *exec.ExitError with the given status.
func exitError(t *testing.T, status int) error {
	t.Helper()
	err := exec.Command("bash", "-c", "exit "+strconv.Itoa(status)).Run()
	if err == nil {
		t.Fatalf("expected exit %d to fail", status)
	}
	return err
}
