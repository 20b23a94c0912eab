// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"strings"
	"testing"
)

// --- Stop ---

func TestStop_NoRunningProcessesIsSuccess(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	// pkill exits 1 when nothing matched.
	r := &fakeRunner{failOn: binPkill, failErr: exitError(t, 1)}
	s := newBoard(t, cfg, r, nil)

	if _, err := s.Stop(env); err != nil {
		t.Fatalf("Stop() with nothing running should succeed, got %v", err)
	}
}

func TestStop_RealPkillFailureSurfaces(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	r := &fakeRunner{failOn: binPkill, failErr: exitError(t, 2)}
	s := newBoard(t, cfg, r, nil)

	if _, err := s.Stop(env); err == nil {
		t.Fatal("pkill usage errors must surface")
	}
}

func TestStop_ActivatesThenKills(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if _, err := s.Stop(env); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(r.calls) != 2 || r.calls[0].bin != binBash || r.calls[1].bin != binPkill {
		t.Errorf("call order: %v", callBins(r))
	}
	if r.calls[1].args[0] != "postgres" {
		t.Errorf("pkill target: got %v", r.calls[1].args)
	}
}

// --- Start ---

func TestStart_AlwaysStopsFirst(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "6X", true)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.Start(env); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	bins := callBins(r)
	want := []string{binBash, binPkill, "gpstart"}
	if len(bins) != len(want) {
		t.Fatalf("calls: %v, want %v", bins, want)
	}
	for i := range want {
		if bins[i] != want[i] {
			t.Fatalf("calls: %v, want %v", bins, want)
		}
	}
	starts := r.invoked("gpstart")
	if starts[0].args[0] != "-a" {
		t.Errorf("gpstart args: got %v", starts[0].args)
	}
	if starts[0].dir != env.SourceDir {
		t.Errorf("gpstart dir: got %q", starts[0].dir)
	}
}

func TestStart_RunsUnderSessionEnvironment(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "6X", true)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.Start(env); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	envPairs := strings.Join(r.invoked("gpstart")[0].env, "\n")
	if !strings.Contains(envPairs, "PGPORT=6000") {
		t.Error("start must run under the activated environment")
	}
}

// --- Recreate ---

func TestRecreate_FixedTopology(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.Recreate(env); err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	makes := r.invoked(binMake)
	if len(makes) != 1 {
		t.Fatalf("got %d make calls, want 1", len(makes))
	}
	if makes[0].args[0] != "cluster" {
		t.Errorf("demo target: got %v", makes[0].args)
	}
	envPairs := strings.Join(makes[0].env, "\n")
	for _, want := range []string{"WITH_STANDBY=false", "WITH_MIRRORS=false", "NUM_PRIMARY_MIRROR_PAIRS=3"} {
		if !strings.Contains(envPairs, want) {
			t.Errorf("demo env missing %s", want)
		}
	}
	if !strings.HasSuffix(makes[0].dir, "gpAux/gpdemo") {
		t.Errorf("demo dir: got %q", makes[0].dir)
	}
}

func TestRecreate_CreatesDefaultDatabase(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	cfg.Cluster.DefaultDatabase = "dev"
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.Recreate(env); err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	creates := r.invoked(binCreateDB)
	if len(creates) != 1 {
		t.Fatalf("got %d createdb calls, want 1", len(creates))
	}
	if len(creates[0].args) != 1 || creates[0].args[0] != "dev" {
		t.Errorf("createdb args: got %v", creates[0].args)
	}
}

func TestRecreate_StopsBeforeRebuilding(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "master", true)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.Recreate(env); err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	bins := callBins(r)
	// pkill must precede the demo make.
	pkillAt, makeAt := -1, -1
	for i, b := range bins {
		if b == binPkill && pkillAt == -1 {
			pkillAt = i
		}
		if b == binMake && makeAt == -1 {
			makeAt = i
		}
	}
	if pkillAt == -1 || makeAt == -1 || pkillAt > makeAt {
		t.Errorf("expected stop before recreate, calls: %v", bins)
	}
}

func callBins(r *fakeRunner) []string {
	bins := make([]string, len(r.calls))
	for i, c := range r.calls {
		bins[i] = c.bin
	}
	return bins
}
