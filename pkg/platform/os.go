// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ExecutableName appends the platform executable suffix to name for goos.
func ExecutableName(goos, name string) string {
	if goos == Windows {
		return name + ".exe"
	}
	return name
}
