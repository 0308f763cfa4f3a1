// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// SandboxType names the application sandbox kura runs in, if any.
type SandboxType string

const (
	SandboxNone    SandboxType = ""
	SandboxFlatpak SandboxType = "flatpak"
	SandboxSnap    SandboxType = "snap"
)

// detectOnce must never panic: sync.OnceValue would re-panic on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox reports the sandbox of the current process. Flatpak is
// recognized by /.flatpak-info and Snap by $SNAP_NAME. The answer is cached.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand rewrites a command so it runs on the host when the sandbox
// provides a way out. Inside Flatpak, cargo and git are started through
// "flatpak-spawn --host"; every other case is returned unchanged.
func HostCommand(st SandboxType, name string, args []string) (string, []string) {
	if st != SandboxFlatpak {
		return name, args
	}
	return "flatpak-spawn", append([]string{"--host", name}, args...)
}

func detectSandboxFrom(lookupEnv func(string) string, stat func(string) error) SandboxType {
	switch {
	case stat("/.flatpak-info") == nil:
		return SandboxFlatpak
	case lookupEnv("SNAP_NAME") != "":
		return SandboxSnap
	default:
		return SandboxNone
	}
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
