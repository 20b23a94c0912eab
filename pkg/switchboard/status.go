// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleActive  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleDim     = lipgloss.NewStyle().Faint(true)
)

// Status writes a one-line summary per registered environment: active
// marker, layout, and whether the install directory holds a built server.
func (s *Switchboard) Status(w io.Writer) error {
	active, state, err := s.DetectActive()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("%-2s %-8s %-10s %-9s %s", "", "name", "layout", "install", "source")))
	for _, env := range s.reg.All() {
		marker := " "
		name := env.Name
		if state == ActiveKnown && env.Name == active {
			marker = "*"
			name = styleActive.Render(name)
		}
		installed := styleDim.Render("missing")
		if _, err := os.Stat(filepath.Join(env.InstallDir, "bin", s.cfg.Coordinator.Binary)); err == nil {
			installed = "built"
		}
		fmt.Fprintf(w, "%-2s %-8s %-10s %-9s %s\n", marker, name, env.Layout(), installed, env.SourceDir)
	}

	switch state {
	case ActiveNone:
		fmt.Fprintln(w, styleDim.Render("no cluster running"))
	case ActiveUnknown:
		fmt.Fprintln(w, styleUnknown.Render("a cluster is running from an unregistered install directory"))
	}
	return nil
}
