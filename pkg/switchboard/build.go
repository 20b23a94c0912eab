// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Flavor selects the compiler and configure profile for a build.
type Flavor int

const (
	// FlavorDebug enables assertion checking and debug extensions.
	FlavorDebug Flavor = iota
	// FlavorRelease builds with the base flags only.
	FlavorRelease
)

func (f Flavor) String() string {
	if f == FlavorRelease {
		return "release"
	}
	return "debug"
}

// BuildOptions control one build run.
type BuildOptions struct {
	Flavor Flavor

	// RunConfigure re-runs configure before building. Skipping it is the
	// fast path after a source-only change.
	RunConfigure bool

	// OrcaVariant selects which optimizer build output to link against
	// when the checkout does not embed the optimizer.
	OrcaVariant Variant
}

// BuildResult reports where the delegated tools' output was captured. The
// logs are the primary debugging aid when a step fails.
type BuildResult struct {
	BuildLog   string
	InstallLog string
}

// Build runs configure, make, and make install for the session's
// environment. Each step gates the next: the first failing tool aborts the
// whole sequence. The install directory is emptied only after a successful
// build and immediately before install, so it never holds a half-installed
// tree claiming to be current.
func (s *Switchboard) Build(sess *Session, opts BuildOptions) (BuildResult, error) {
	env := sess.Env
	layout := env.Layout()
	logf("build: %s flavor=%s layout=%s configure=%v", env.Name, opts.Flavor, layout, opts.RunConfigure)

	var res BuildResult

	if opts.RunConfigure {
		flags := s.configureFlags(env, opts.Flavor, layout, opts.OrcaVariant)
		logf("build: configure %v", flags)
		cmd := cmdConfigure(sess.Dir, sess.Environ(), flags...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := s.run.run(cmd); err != nil {
			return res, fmt.Errorf("configure: %w", err)
		}
	} else {
		logf("build: skipping configure")
	}

	res.BuildLog = s.logPath(env, "build")
	if err := s.teedMake(sess, res.BuildLog, "-j", strconv.Itoa(s.cfg.Build.Jobs)); err != nil {
		return res, fmt.Errorf("make: %w", err)
	}

	if err := emptyDir(env.InstallDir); err != nil {
		return res, fmt.Errorf("cleaning install dir: %w", err)
	}

	res.InstallLog = s.logPath(env, "install")
	if err := s.teedMake(sess, res.InstallLog, "install"); err != nil {
		return res, fmt.Errorf("make install: %w", err)
	}

	logf("build: %s done (logs: %s, %s)", env.Name, res.BuildLog, res.InstallLog)
	return res, nil
}

// configureFlags composes the configure invocation: install prefix, base
// flags, flavor flags, and, for a standalone-optimizer checkout, the include
// and library paths pointing at the optimizer's build output.
func (s *Switchboard) configureFlags(env Environment, flavor Flavor, layout Layout, variant Variant) []string {
	flags := []string{"--prefix=" + env.InstallDir}
	flags = append(flags, s.cfg.Build.BaseConfigureFlags...)
	if flavor == FlavorDebug {
		flags = append(flags, s.cfg.Build.DebugConfigureFlags...)
	}
	if layout == LayoutStandalone {
		orcaDir := s.OrcaBuildDir(env, variant)
		flags = append(flags,
			"--with-includes="+filepath.Join(orcaDir, "include"),
			"--with-libraries="+filepath.Join(orcaDir, "lib"),
		)
	}
	return flags
}

// teedMake runs make in the session directory with output teed to logPath.
func (s *Switchboard) teedMake(sess *Session, logPath string, arg ...string) error {
	cmd := cmdMake(sess.Dir, sess.Environ(), arg...)
	f, err := teeTo(cmd, logPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.run.run(cmd)
}

func (s *Switchboard) logPath(env Environment, step string) string {
	return filepath.Join(s.cfg.Build.LogDir, fmt.Sprintf("switchyard-%s-%s.log", env.Name, step))
}

// emptyDir removes everything inside dir, keeping dir itself. A missing dir
// is created instead.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
