package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var workspaceNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// WorkspaceDir resolves a named workspace under the user's home directory
// (~/.arbor/workspaces/<name>), creating it if needed. Named workspaces let
// scripts and agents share a forest regardless of cwd; the project-local
// .arbor discovery stays the default.
func WorkspaceDir(name string) (string, error) {
	if !workspaceNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".arbor", "workspaces", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
