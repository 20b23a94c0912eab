// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Stop activates env and terminates every coordinator-binary process on the
// machine. The scope is deliberately system-wide rather than per
// environment: it doubles as recovery from an orphaned instance left behind
// by a crashed or forgotten checkout. "Nothing was running" counts as
// success, so Stop is idempotent.
func (s *Switchboard) Stop(env Environment) (*Session, error) {
	sess, err := s.Activate(env)
	if err != nil {
		return nil, err
	}
	logf("stop: pkill %s", s.cfg.Coordinator.Binary)
	if err := s.run.run(cmdPkillBinary(s.cfg.Coordinator.Binary)); err != nil {
		// pkill exits 1 when no process matched.
		if exitCode(err) != 1 {
			return nil, fmt.Errorf("stopping cluster: %w", err)
		}
		logf("stop: no running processes")
	}
	return sess, nil
}

// Start brings up env's cluster. It always stops first, so at most one
// environment is running afterwards no matter which one was running before.
func (s *Switchboard) Start(env Environment) error {
	sess, err := s.Stop(env)
	if err != nil {
		return err
	}
	logf("start: %s %v", s.cfg.Cluster.StartTool, s.cfg.Cluster.StartArgs)
	cmd := command(sess.Dir, sess.Environ(), s.cfg.Cluster.StartTool, s.cfg.Cluster.StartArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := s.run.run(cmd); err != nil {
		return fmt.Errorf("starting cluster for %s: %w", env.Name, err)
	}
	return nil
}

// Recreate tears down env's cluster and builds a fresh demo cluster with the
// fixed topology: no standby, no mirrors, the configured number of primary
// segments. The demo tool discards any existing on-disk instance state. A
// default database is created afterwards.
func (s *Switchboard) Recreate(env Environment) error {
	sess, err := s.Stop(env)
	if err != nil {
		return err
	}

	demoDir := filepath.Join(sess.Dir, s.cfg.Cluster.DemoDir)
	demoEnv := append(sess.Environ(),
		"WITH_STANDBY=false",
		"WITH_MIRRORS=false",
		"NUM_PRIMARY_MIRROR_PAIRS="+strconv.Itoa(s.cfg.Cluster.Segments),
	)
	logf("recreate: make -C %s %s (%d segments)", demoDir, s.cfg.Cluster.DemoTarget, s.cfg.Cluster.Segments)
	cmd := cmdMake(demoDir, demoEnv, s.cfg.Cluster.DemoTarget)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := s.run.run(cmd); err != nil {
		return fmt.Errorf("recreating cluster for %s: %w", env.Name, err)
	}

	// The demo-env script only exists (or is stale) until the cluster is
	// rebuilt, so re-activate before creating the database.
	sess, err = s.Activate(env)
	if err != nil {
		return err
	}
	var createArgs []string
	if s.cfg.Cluster.DefaultDatabase != "" {
		createArgs = append(createArgs, s.cfg.Cluster.DefaultDatabase)
	}
	logf("recreate: %s %v", binCreateDB, createArgs)
	createCmd := command(sess.Dir, sess.Environ(), binCreateDB, createArgs...)
	createCmd.Stdout = os.Stdout
	createCmd.Stderr = os.Stderr
	if err := s.run.run(createCmd); err != nil {
		return fmt.Errorf("creating default database: %w", err)
	}
	return nil
}
