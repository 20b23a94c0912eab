// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"strings"
	"testing"
)

// --- Variant ---

func TestVariant_DirSuffix(t *testing.T) {
	t.Parallel()
	if VariantDev.DirSuffix() != ".dev" {
		t.Errorf("dev suffix: got %q", VariantDev.DirSuffix())
	}
	if VariantRetail.DirSuffix() != ".rel" {
		t.Errorf("retail suffix: got %q", VariantRetail.DirSuffix())
	}
}

func TestParseVariant(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Variant{
		"dev":    VariantDev,
		"rel":    VariantRetail,
		"retail": VariantRetail,
	} {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Errorf("ParseVariant(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseVariant("prod"); err == nil {
		t.Error("expected error for unknown variant")
	}
}

// --- OrcaBuildDir ---

func TestOrcaBuildDir_GlobalBase(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "5X", false)
	s := newBoard(t, cfg, nil, nil)

	got := s.OrcaBuildDir(env, VariantDev)
	if got != cfg.Orca.BuildDirBase+".dev" {
		t.Errorf("got %q, want %q", got, cfg.Orca.BuildDirBase+".dev")
	}
}

func TestOrcaBuildDir_EnvironmentOverride(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "5X", false)
	env.OrcaBuildDirBase = "/override/orca-build"
	s := newBoard(t, cfg, nil, nil)

	if got := s.OrcaBuildDir(env, VariantRetail); got != "/override/orca-build.rel" {
		t.Errorf("got %q", got)
	}
}

// --- BuildOrca ---

func TestBuildOrca_ConfigureBuildInstall(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "5X", false)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.BuildOrca(env, VariantDev); err != nil {
		t.Fatalf("BuildOrca() error = %v", err)
	}
	cmakes := r.invoked(binCmake)
	if len(cmakes) != 1 {
		t.Fatalf("got %d cmake calls", len(cmakes))
	}
	joined := strings.Join(cmakes[0].args, " ")
	if !strings.Contains(joined, "-GNinja") {
		t.Errorf("cmake generator: %s", joined)
	}
	if !strings.Contains(joined, "-DCMAKE_BUILD_TYPE=Debug") {
		t.Errorf("dev variant must configure a Debug build: %s", joined)
	}
	ninjas := r.invoked(binNinja)
	if len(ninjas) != 2 {
		t.Fatalf("got %d ninja calls, want build+install", len(ninjas))
	}
	if ninjas[1].args[len(ninjas[1].args)-1] != "install" {
		t.Errorf("second ninja call: %v", ninjas[1].args)
	}
}

func TestBuildOrca_RetailBuildType(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "5X", false)
	r := &fakeRunner{}
	s := newBoard(t, cfg, r, nil)

	if err := s.BuildOrca(env, VariantRetail); err != nil {
		t.Fatalf("BuildOrca() error = %v", err)
	}
	joined := strings.Join(r.invoked(binCmake)[0].args, " ")
	if !strings.Contains(joined, "-DCMAKE_BUILD_TYPE=RelWithDebInfo") {
		t.Errorf("retail variant build type: %s", joined)
	}
	if !strings.Contains(joined, cfg.Orca.BuildDirBase+".rel") {
		t.Errorf("retail variant must use the .rel dir: %s", joined)
	}
}

func TestBuildOrca_StopsOnBuildFailure(t *testing.T) {
	t.Parallel()
	cfg, env := newTestEnv(t, "5X", false)
	r := &fakeRunner{failOn: binNinja}
	s := newBoard(t, cfg, r, nil)

	if err := s.BuildOrca(env, VariantDev); err == nil {
		t.Fatal("expected ninja failure to surface")
	}
	if len(r.invoked(binNinja)) != 1 {
		t.Error("install must not run after a failed build")
	}
}
