// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package switchboard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// prePushScript delegates the hook to the installed switchyard binary so the
// policy lives in one place.
const prePushScript = `#!/bin/sh
exec switchyard hook pre-push "$@"
`

// InstallHook writes the pre-push hook into repoDir's .git/hooks, replacing
// any existing one.
func (s *Switchboard) InstallHook(repoDir string) error {
	hooksDir := filepath.Join(repoDir, ".git", "hooks")
	if _, err := os.Stat(filepath.Join(repoDir, ".git")); err != nil {
		return fmt.Errorf("%s is not a git checkout: %w", repoDir, err)
	}
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("creating hooks dir: %w", err)
	}
	hookPath := filepath.Join(hooksDir, "pre-push")
	if err := os.WriteFile(hookPath, []byte(prePushScript), 0o755); err != nil {
		return fmt.Errorf("writing pre-push hook: %w", err)
	}
	logf("hook: installed %s", hookPath)
	return nil
}

// pushRef is one line of the ref listing git feeds a pre-push hook on stdin.
type pushRef struct {
	LocalRef  string
	LocalSHA  string
	RemoteRef string
	RemoteSHA string
}

// parsePushRefs reads the "<local ref> <local sha> <remote ref> <remote sha>"
// lines from a pre-push hook's stdin. Malformed lines are skipped.
func parsePushRefs(r io.Reader) []pushRef {
	var refs []pushRef
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 {
			continue
		}
		refs = append(refs, pushRef{
			LocalRef:  fields[0],
			LocalSHA:  fields[1],
			RemoteRef: fields[2],
			RemoteSHA: fields[3],
		})
	}
	return refs
}

// CheckPrePush enforces the protected-branch policy: pushing to a protected
// remote branch is refused unless allow is set (the SWITCHYARD_ALLOW_PUSH
// escape hatch). With several checkouts of the same project on one machine
// an accidental push to an upstream stable branch is too easy.
func (s *Switchboard) CheckPrePush(stdin io.Reader, allow bool) error {
	for _, ref := range parsePushRefs(stdin) {
		branch := strings.TrimPrefix(ref.RemoteRef, "refs/heads/")
		for _, protected := range s.cfg.Hook.ProtectedBranches {
			if branch == protected {
				if allow {
					logf("hook: allowing push to protected branch %s", branch)
					continue
				}
				return fmt.Errorf("refusing push to protected branch %q (set SWITCHYARD_ALLOW_PUSH=1 to override)", branch)
			}
		}
	}
	return nil
}
