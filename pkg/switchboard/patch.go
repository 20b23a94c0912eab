// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PatchScope selects which part of the tree a patch covers.
type PatchScope int

const (
	// ScopeOptimizerOnly covers only the optimizer subtree (or the whole
	// standalone checkout).
	ScopeOptimizerOnly PatchScope = iota
	// ScopeMainOnly covers everything except the optimizer subtree and
	// the optimizer integration files.
	ScopeMainOnly
)

func (p PatchScope) String() string {
	if p == ScopeMainOnly {
		return "main"
	}
	return "optimizer"
}

// ParseScope maps the user-facing scope names to the enum.
func ParseScope(s string) (PatchScope, error) {
	switch s {
	case "optimizer", "orca":
		return ScopeOptimizerOnly, nil
	case "main":
		return ScopeMainOnly, nil
	}
	return ScopeOptimizerOnly, fmt.Errorf("unknown patch scope %q (want optimizer or main)", s)
}

// PatchMeta is the sidecar recorded next to the patch file. Layout is
// inferred once at creation so apply does not have to guess.
type PatchMeta struct {
	Scope     string    `yaml:"scope"`
	Layout    string    `yaml:"layout"`
	Range     string    `yaml:"range"`
	CreatedAt time.Time `yaml:"created_at"`
}

func metaPath(patchFile string) string {
	return patchFile + ".meta.yaml"
}

// CreatePatch generates a patch for revRange scoped to either the optimizer
// subtree or the rest of the tree, writing it to the well-known patch path
// (overwriting any previous patch) together with its metadata sidecar.
func (s *Switchboard) CreatePatch(sess *Session, scope PatchScope, revRange string) (string, error) {
	layout := sess.Env.Layout()

	var dir string
	args := []string{"format-patch", "--stdout", revRange}
	switch scope {
	case ScopeOptimizerOnly:
		if layout == LayoutEmbedded {
			dir = sess.Dir
			args = append(args, "--", s.cfg.OrcaSubdir)
		} else {
			// The standalone checkout is the optimizer, so the whole
			// tree is in scope.
			dir = s.cfg.Orca.SourceDir
		}
	case ScopeMainOnly:
		dir = sess.Dir
		args = append(args, "--", ".")
		if layout == LayoutEmbedded {
			args = append(args, ":(exclude)"+s.cfg.OrcaSubdir)
		}
		for _, f := range s.cfg.Patch.ExcludeFiles {
			args = append(args, ":(exclude)"+f)
		}
	}

	logf("patch: git %v in %s", args, dir)
	out, err := s.run.output(cmdGit(dir, args...))
	if err != nil {
		return "", fmt.Errorf("format-patch: %w", err)
	}
	if err := os.WriteFile(s.cfg.Patch.File, out, 0o644); err != nil {
		return "", fmt.Errorf("writing patch: %w", err)
	}

	meta := PatchMeta{
		Scope:     scope.String(),
		Layout:    layout.String(),
		Range:     revRange,
		CreatedAt: time.Now(),
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding patch metadata: %w", err)
	}
	if err := os.WriteFile(metaPath(s.cfg.Patch.File), data, 0o644); err != nil {
		return "", fmt.Errorf("writing patch metadata: %w", err)
	}
	logf("patch: wrote %s (%d bytes, scope=%s layout=%s)", s.cfg.Patch.File, len(out), meta.Scope, meta.Layout)
	return s.cfg.Patch.File, nil
}

// ApplyPatch applies the well-known patch into the session's environment,
// translating between embedded and standalone layouts when the patch was
// produced against the other one. An apply conflict surfaces directly from
// git and is not retried.
func (s *Switchboard) ApplyPatch(sess *Session) error {
	scope, patchLayout, err := s.patchInfo()
	if err != nil {
		return err
	}
	current := sess.Env.Layout()

	// Main-tree paths are the same in both layouts; only optimizer patches
	// need the embedded/standalone translation.
	dir := sess.Dir
	var extra []string
	if scope == ScopeOptimizerOnly {
		dir, extra = resolveApplyTarget(patchLayout, current, sess.Dir, s.cfg.Orca.SourceDir, s.cfg.OrcaSubdir)
	}
	args := append([]string{"am"}, extra...)
	args = append(args, s.cfg.Patch.File)
	logf("patch: git %v in %s (scope=%s patch=%s current=%s)", args, dir, scope, patchLayout, current)

	cmd := cmdGit(dir, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := s.run.run(cmd); err != nil {
		return fmt.Errorf("git am: %w", err)
	}
	return nil
}

// patchInfo reads the scope and layout recorded at creation. Patches produced
// elsewhere have no sidecar; for those the layout is inferred from the
// recorded paths and optimizer scope is assumed, since that is the only scope
// whose routing depends on layout.
func (s *Switchboard) patchInfo() (PatchScope, Layout, error) {
	if data, err := os.ReadFile(metaPath(s.cfg.Patch.File)); err == nil {
		var meta PatchMeta
		if err := yaml.Unmarshal(data, &meta); err == nil {
			scope := ScopeOptimizerOnly
			if meta.Scope == ScopeMainOnly.String() {
				scope = ScopeMainOnly
			}
			layout := LayoutEmbedded
			if meta.Layout == LayoutStandalone.String() {
				layout = LayoutStandalone
			}
			return scope, layout, nil
		}
	}
	data, err := os.ReadFile(s.cfg.Patch.File)
	if err != nil {
		return ScopeOptimizerOnly, LayoutEmbedded, fmt.Errorf("reading patch: %w", err)
	}
	return ScopeOptimizerOnly, inferPatchLayout(data, s.cfg.OrcaSubdir), nil
}

// inferPatchLayout scans the patch's recorded paths: any path under the
// optimizer subtree means the patch was generated against an embedded
// layout.
func inferPatchLayout(patch []byte, orcaSubdir string) Layout {
	prefix := "diff --git a/" + strings.TrimSuffix(orcaSubdir, "/") + "/"
	sc := bufio.NewScanner(bytes.NewReader(patch))
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), prefix) {
			return LayoutEmbedded
		}
	}
	return LayoutStandalone
}

// resolveApplyTarget picks the apply directory and the extra git-am
// arguments for each combination of the layout the patch was produced
// against and the layout of the receiving environment.
func resolveApplyTarget(patchLayout, current Layout, mainDir, orcaSrcDir, orcaSubdir string) (string, []string) {
	switch {
	case patchLayout == LayoutEmbedded && current == LayoutEmbedded:
		return mainDir, nil
	case patchLayout == LayoutStandalone && current == LayoutStandalone:
		return orcaSrcDir, nil
	case patchLayout == LayoutStandalone && current == LayoutEmbedded:
		// Standalone paths are relative to the optimizer root; land
		// them inside the subtree.
		return mainDir, []string{"--directory=" + orcaSubdir}
	default:
		// Embedded paths carry the subtree prefix; strip it (plus the
		// usual a/ component) so they land at the standalone root.
		strip := strings.Count(strings.Trim(orcaSubdir, "/"), "/") + 2
		return orcaSrcDir, []string{"-p" + strconv.Itoa(strip)}
	}
}
