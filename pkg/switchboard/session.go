// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrMissingScript is returned when an environment's required activation
// script is absent. This is a configuration error: the checkout has not been
// prepared for demo-cluster use.
var ErrMissingScript = errors.New("activation script not found")

// Session is the state exported by activating an environment: the working
// directory and the variable set every subsequent orchestration command runs
// under. It replaces the shell helpers' hidden "current source directory"
// global with an explicit value.
type Session struct {
	Env Environment

	// Dir is the working directory for subsequent commands, the
	// environment's source checkout.
	Dir string

	// Vars is the full environment after sourcing the activation
	// scripts, with legacy variables removed.
	Vars map[string]string
}

// Activate switches context to env. It sources the per-install profile
// script when present (absence is fine, the install may not exist yet),
// sources the required demo environment script, captures the resulting
// variable set, and strips legacy variables left over from earlier
// activations. Activating the same environment twice yields the same
// session.
func (s *Switchboard) Activate(env Environment) (*Session, error) {
	demo := env.DemoEnvScript()
	if _, err := os.Stat(demo); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingScript, demo)
	}

	var parts []string
	if _, err := os.Stat(env.PathScript()); err == nil {
		parts = append(parts, ". "+shellQuote(env.PathScript()))
	} else {
		logf("activate: no %s, skipping", env.PathScript())
	}
	parts = append(parts, ". "+shellQuote(demo), "env -0")
	script := "set -a\n" + strings.Join(parts, "\n")

	out, err := s.run.output(cmdBash(env.SourceDir, script))
	if err != nil {
		return nil, fmt.Errorf("sourcing activation scripts for %s: %w", env.Name, err)
	}

	vars := parseNullSepEnv(out)
	for _, k := range s.cfg.LegacyVars {
		delete(vars, k)
	}
	logf("activate: %s (%d vars)", env.Name, len(vars))
	return &Session{Env: env, Dir: env.SourceDir, Vars: vars}, nil
}

// Environ renders the session variables as KEY=VALUE pairs for exec.Cmd.Env,
// sorted for determinism.
func (sess *Session) Environ() []string {
	pairs := make([]string, 0, len(sess.Vars))
	for k, v := range sess.Vars {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// ShellExports writes export statements for every session variable plus a cd
// into the source tree, for a calling shell to eval. Values are single-quoted
// so newlines and backslashes survive the round trip literally.
func (sess *Session) ShellExports(w io.Writer) {
	keys := make([]string, 0, len(sess.Vars))
	for k := range sess.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "export %s=%s\n", k, shellQuote(sess.Vars[k]))
	}
	fmt.Fprintf(w, "cd %s\n", shellQuote(sess.Dir))
}

// parseNullSepEnv parses `env -0` output. NUL separation is used so values
// containing newlines survive the round trip.
func parseNullSepEnv(out []byte) map[string]string {
	vars := make(map[string]string)
	for _, entry := range strings.Split(string(out), "\x00") {
		if entry == "" {
			continue
		}
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return vars
}

// shellQuote single-quotes a path for safe interpolation into a bash -c
// script.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
