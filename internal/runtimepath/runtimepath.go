// Package runtimepath resolves the daemon's socket location.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const socketName = "ribbonwm.sock"

// SocketPath returns the path for the daemon's control socket, preferring
// XDG_RUNTIME_DIR, then /run/user/<uid>, then the system temp directory.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}

	runDir := fmt.Sprintf("/run/user/%d", os.Getuid())
	if info, err := os.Stat(runDir); err == nil && info.IsDir() {
		return filepath.Join(runDir, socketName)
	}

	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d", socketName, os.Getuid()))
}
