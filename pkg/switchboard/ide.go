// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"fmt"
	"os"
	"path/filepath"
)

// GenerateProject runs the project-file generator for the session's source
// tree and returns the directory holding the generated project.
func (s *Switchboard) GenerateProject(sess *Session) (string, error) {
	projDir := filepath.Join(sess.Dir, s.cfg.IDE.ProjectDir)
	logf("ide: cmake -G %s into %s", s.cfg.IDE.Generator, projDir)
	cmd := cmdCmake("",
		"-G", s.cfg.IDE.Generator,
		"-S", sess.Dir,
		"-B", projDir,
	)
	cmd.Env = sess.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := s.run.run(cmd); err != nil {
		return "", fmt.Errorf("generating project files: %w", err)
	}
	return projDir, nil
}

// OpenProject generates the project files and hands the result to the IDE
// launcher.
func (s *Switchboard) OpenProject(sess *Session) error {
	projDir, err := s.GenerateProject(sess)
	if err != nil {
		return err
	}
	logf("ide: %s %s", s.cfg.IDE.Launcher, projDir)
	if err := s.run.run(command("", nil, s.cfg.IDE.Launcher, projDir)); err != nil {
		return fmt.Errorf("launching IDE: %w", err)
	}
	return nil
}
