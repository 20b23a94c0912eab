// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package switchboard keeps track of multiple local checkouts of a large
// database project (several version branches plus a standalone query-optimizer
// module) and orchestrates the external tools that build, install, and run
// them. It owns no build logic itself: every operation resolves an
// environment, exports the state needed to operate against it, and delegates
// to configure/make/cmake/ninja/git and the cluster scripts.
package switchboard

// Switchboard is the entry point for all orchestration operations. It holds
// the loaded configuration, the environment registry derived from it, and the
// injected capabilities for running commands and inspecting processes.
type Switchboard struct {
	cfg       Config
	reg       *Registry
	run       runner
	inspector ProcessInspector
}

// New builds a Switchboard from a loaded configuration, wiring the real
// command runner and the system process inspector.
func New(cfg Config) (*Switchboard, error) {
	reg, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return &Switchboard{
		cfg:       cfg,
		reg:       reg,
		run:       execRunner{},
		inspector: systemInspector{},
	}, nil
}

// Registry exposes the environment registry for listing and lookup.
func (s *Switchboard) Registry() *Registry {
	return s.reg
}
