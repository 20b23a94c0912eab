// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"os"
)

// Variant selects which optimizer build is kept. Dev and retail builds live
// in separate directories so switching between them costs no rebuild.
type Variant int

const (
	// VariantDev is the assertion-enabled optimizer build.
	VariantDev Variant = iota
	// VariantRetail is the optimized build.
	VariantRetail
)

func (v Variant) String() string {
	if v == VariantRetail {
		return "retail"
	}
	return "dev"
}

// DirSuffix is the on-disk naming convention for the variant's build
// directory. External tools expect these exact suffixes.
func (v Variant) DirSuffix() string {
	if v == VariantRetail {
		return ".rel"
	}
	return ".dev"
}

func (v Variant) cmakeBuildType() string {
	if v == VariantRetail {
		return "RelWithDebInfo"
	}
	return "Debug"
}

// ParseVariant maps the user-facing variant names to the enum.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "dev":
		return VariantDev, nil
	case "retail", "rel":
		return VariantRetail, nil
	}
	return VariantDev, fmt.Errorf("unknown optimizer variant %q (want dev or retail)", s)
}

// OrcaBuildDir is the optimizer build-output directory for an environment
// and variant: the configured base (per-environment override first) plus the
// variant suffix.
func (s *Switchboard) OrcaBuildDir(env Environment, v Variant) string {
	base := env.OrcaBuildDirBase
	if base == "" {
		base = s.cfg.Orca.BuildDirBase
	}
	return base + v.DirSuffix()
}

// BuildOrca configures, builds, and installs the standalone optimizer for
// one variant. The cmake step is idempotent, so it runs every time; ninja
// does the incremental work.
func (s *Switchboard) BuildOrca(env Environment, v Variant) error {
	src := s.cfg.Orca.SourceDir
	buildDir := s.OrcaBuildDir(env, v)
	logf("orca: variant=%s build dir %s", v, buildDir)

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("creating optimizer build dir: %w", err)
	}

	cfgCmd := cmdCmake("",
		"-GNinja",
		"-DCMAKE_BUILD_TYPE="+v.cmakeBuildType(),
		"-DCMAKE_INSTALL_PREFIX="+buildDir,
		"-S", src,
		"-B", buildDir,
	)
	cfgCmd.Stdout = os.Stdout
	cfgCmd.Stderr = os.Stderr
	if err := s.run.run(cfgCmd); err != nil {
		return fmt.Errorf("cmake: %w", err)
	}

	buildCmd := cmdNinja("", "-C", buildDir)
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := s.run.run(buildCmd); err != nil {
		return fmt.Errorf("ninja: %w", err)
	}

	installCmd := cmdNinja("", "-C", buildDir, "install")
	installCmd.Stdout = os.Stdout
	installCmd.Stderr = os.Stderr
	if err := s.run.run(installCmd); err != nil {
		return fmt.Errorf("ninja install: %w", err)
	}

	logf("orca: %s done", v)
	return nil
}
