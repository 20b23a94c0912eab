// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Registry.Lookup for an unregistered environment
// name. Callers must treat it as a configuration error.
var ErrNotFound = errors.New("environment not registered")

// Layout distinguishes whether the optimizer module lives inside the main
// source tree or as an independent checkout.
type Layout int

const (
	// LayoutEmbedded means the optimizer subtree is part of the source tree.
	LayoutEmbedded Layout = iota
	// LayoutStandalone means the optimizer lives in its own checkout.
	LayoutStandalone
)

func (l Layout) String() string {
	if l == LayoutEmbedded {
		return "embedded"
	}
	return "standalone"
}

// Environment is a named pairing of a source checkout and an install
// location. Immutable once registered.
type Environment struct {
	Name       string
	SourceDir  string
	InstallDir string

	// OrcaDir is the optimizer subtree inside SourceDir. Its presence on
	// disk decides the layout.
	OrcaDir string

	// OrcaBuildDirBase overrides the global optimizer build directory
	// base for this environment. Empty means use the global one.
	OrcaBuildDirBase string
}

// DemoEnvScript is the runtime-demo environment script. Required on
// activation.
func (e Environment) DemoEnvScript() string {
	return filepath.Join(e.SourceDir, "gpAux", "gpdemo", "gpdemo-env.sh")
}

// PathScript is the per-install profile script. Optional on activation.
func (e Environment) PathScript() string {
	return filepath.Join(e.InstallDir, "greenplum_path.sh")
}

// Layout reports whether this checkout embeds the optimizer subtree.
func (e Environment) Layout() Layout {
	if info, err := os.Stat(e.OrcaDir); err == nil && info.IsDir() {
		return LayoutEmbedded
	}
	return LayoutStandalone
}

// Registry is the static table of environments, built once from
// configuration. There is no runtime mutation API.
type Registry struct {
	envs   []Environment
	byName map[string]Environment
}

// NewRegistry builds the registry from a loaded configuration. Duplicate
// names are a configuration error.
func NewRegistry(cfg Config) (*Registry, error) {
	r := &Registry{byName: make(map[string]Environment)}
	for _, ec := range cfg.Environments {
		if ec.Name == "" {
			return nil, fmt.Errorf("environment with empty name (source_dir=%q)", ec.SourceDir)
		}
		if _, dup := r.byName[ec.Name]; dup {
			return nil, fmt.Errorf("duplicate environment %q", ec.Name)
		}
		env := Environment{
			Name:             ec.Name,
			SourceDir:        ec.SourceDir,
			InstallDir:       ec.InstallDir,
			OrcaDir:          filepath.Join(ec.SourceDir, cfg.OrcaSubdir),
			OrcaBuildDirBase: ec.OrcaBuildDir,
		}
		r.envs = append(r.envs, env)
		r.byName[ec.Name] = env
	}
	return r, nil
}

// Lookup returns the environment registered under name.
func (r *Registry) Lookup(name string) (Environment, error) {
	env, ok := r.byName[name]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return env, nil
}

// All returns the environments in registration order.
func (r *Registry) All() []Environment {
	return r.envs
}
