// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ActiveState classifies the outcome of active-environment detection.
type ActiveState int

const (
	// ActiveNone means no coordinator process is running.
	ActiveNone ActiveState = iota
	// ActiveKnown means a coordinator is running out of a registered
	// environment's install directory.
	ActiveKnown
	// ActiveUnknown means a coordinator is running but its install root
	// matches no registered environment.
	ActiveUnknown
)

// ProcessInfo is the slice of process state the detector needs.
type ProcessInfo struct {
	PID     int32
	Exe     string
	Cmdline []string
}

// ProcessInspector enumerates running processes. It is an injected
// capability so detection logic can be exercised against a fake process
// table.
type ProcessInspector interface {
	Processes() ([]ProcessInfo, error)
}

// systemInspector reads the live process table via gopsutil. Processes whose
// executable or command line cannot be read (typically other users'
// processes) are skipped rather than treated as errors.
type systemInspector struct{}

func (systemInspector) Processes() ([]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	var infos []ProcessInfo
	for _, p := range procs {
		exe, err := p.Exe()
		if err != nil || exe == "" {
			continue
		}
		cmdline, err := p.CmdlineSlice()
		if err != nil {
			continue
		}
		infos = append(infos, ProcessInfo{PID: p.Pid, Exe: exe, Cmdline: cmdline})
	}
	return infos, nil
}

// DetectActive determines which registered environment, if any, owns the
// running cluster. It never guesses: no coordinator process yields
// ActiveNone, a coordinator running out of an unregistered install root
// yields ActiveUnknown. When several coordinators are present the lowest PID
// wins; that ambiguity is inherent to system-wide process matching.
func (s *Switchboard) DetectActive() (string, ActiveState, error) {
	procs, err := s.inspector.Processes()
	if err != nil {
		return "", ActiveNone, err
	}

	var coordinators []ProcessInfo
	for _, p := range procs {
		if s.isCoordinator(p) {
			coordinators = append(coordinators, p)
		}
	}
	if len(coordinators) == 0 {
		return "", ActiveNone, nil
	}
	sort.Slice(coordinators, func(i, j int) bool {
		return coordinators[i].PID < coordinators[j].PID
	})
	if len(coordinators) > 1 {
		logf("detect: %d coordinator processes, using pid %d", len(coordinators), coordinators[0].PID)
	}

	root := canonicalDir(installRoot(coordinators[0].Exe))
	for _, env := range s.reg.All() {
		if canonicalDir(env.InstallDir) == root {
			return env.Name, ActiveKnown, nil
		}
	}
	logf("detect: coordinator install root %s matches no environment", root)
	return "", ActiveUnknown, nil
}

// isCoordinator matches the dispatcher role signature: the coordinator
// binary name plus the role flag somewhere on the command line.
func (s *Switchboard) isCoordinator(p ProcessInfo) bool {
	if filepath.Base(p.Exe) != s.cfg.Coordinator.Binary {
		return false
	}
	for _, arg := range p.Cmdline {
		if strings.Contains(arg, s.cfg.Coordinator.RoleFlag) {
			return true
		}
	}
	return false
}

// installRoot derives the install directory from an executable path, two
// levels up (<install>/bin/<binary>).
func installRoot(exe string) string {
	return filepath.Dir(filepath.Dir(filepath.Clean(exe)))
}

// canonicalDir resolves symlinks so a configured install dir and the one a
// process runs from compare equal even when one is a link to the other. A
// path that cannot be resolved (e.g. it no longer exists) is cleaned only.
func canonicalDir(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
