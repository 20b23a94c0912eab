// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Binary names.
const (
	binBash      = "bash"
	binGit       = "git"
	binMake      = "make"
	binConfigure = "./configure"
	binCmake     = "cmake"
	binNinja     = "ninja"
	binPkill     = "pkill"
	binCreateDB  = "createdb"
)

// runner executes prepared commands. The production implementation spawns
// processes; tests substitute a recording fake so orchestration sequences can
// be asserted without touching the system.
type runner interface {
	run(cmd *exec.Cmd) error
	output(cmd *exec.Cmd) ([]byte, error)
}

// execRunner is the production runner.
type execRunner struct{}

func (execRunner) run(cmd *exec.Cmd) error {
	return cmd.Run()
}

func (execRunner) output(cmd *exec.Cmd) ([]byte, error) {
	return cmd.Output()
}

// command builds an exec.Cmd with working directory and environment applied.
// dir and env may be empty; an empty env means inherit the process
// environment.
func command(dir string, env []string, name string, arg ...string) *exec.Cmd {
	cmd := exec.Command(name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}
	if env != nil {
		cmd.Env = env
	}
	return cmd
}

func cmdGit(dir string, arg ...string) *exec.Cmd {
	return command(dir, nil, binGit, arg...)
}

func cmdBash(dir, script string) *exec.Cmd {
	return command(dir, nil, binBash, "-c", script)
}

func cmdMake(dir string, env []string, arg ...string) *exec.Cmd {
	return command(dir, env, binMake, arg...)
}

// cmdConfigure runs the source tree's own configure script, so the binary
// path is relative to dir.
func cmdConfigure(dir string, env []string, arg ...string) *exec.Cmd {
	return command(dir, env, binConfigure, arg...)
}

func cmdCmake(dir string, arg ...string) *exec.Cmd {
	return command(dir, nil, binCmake, arg...)
}

func cmdNinja(dir string, arg ...string) *exec.Cmd {
	return command(dir, nil, binNinja, arg...)
}

func cmdPkillBinary(name string) *exec.Cmd {
	return command("", nil, binPkill, name)
}

// teeTo wires a command's stdout and stderr to the terminal and to a log
// file. The caller closes the returned file after the command finishes.
func teeTo(cmd *exec.Cmd, logPath string) (*os.File, error) {
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating log %s: %w", logPath, err)
	}
	cmd.Stdout = io.MultiWriter(os.Stdout, f)
	cmd.Stderr = io.MultiWriter(os.Stderr, f)
	return f, nil
}

// exitCode extracts the process exit status from a runner error, or -1 when
// the error is not an exit status (e.g. the binary was not found).
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
