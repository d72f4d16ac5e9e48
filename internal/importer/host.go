package importer

// host.go captures the runtime environment of the host terminal
// application: its version and whether the platform is Windows-like.
// Two normalization rules depend on it, the VT320 emulation gate and
// the RDP protocol gate.

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const (
	minVT320Major = 8
	minRDPMajor   = 9
)

// HostEnv is the version and platform of the session host application.
type HostEnv struct {
	Major       int
	Minor       int
	Maintenance int
	WindowsLike bool
}

// ParseHostEnv parses a dotted version string ("9.2.1 (x64 build 3132)"
// keeps only the first token) and a platform name. An empty platform
// resolves against the current OS.
func ParseHostEnv(version, platform string) (HostEnv, error) {
	var env HostEnv

	fields := strings.Fields(version)
	if len(fields) == 0 {
		return env, fmt.Errorf("empty host application version")
	}
	parts := strings.Split(fields[0], ".")
	nums := make([]int, 0, 3)
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return env, fmt.Errorf("invalid host application version %q: %w", version, err)
		}
		nums = append(nums, n)
	}
	env.Major = nums[0]
	if len(nums) > 1 {
		env.Minor = nums[1]
	}
	if len(nums) > 2 {
		env.Maintenance = nums[2]
	}

	if platform == "" {
		platform = runtime.GOOS
	}
	switch strings.ToLower(platform) {
	case "windows":
		env.WindowsLike = true
	case "linux", "unix", "darwin", "macos", "freebsd":
		env.WindowsLike = false
	default:
		return env, fmt.Errorf("unrecognized target platform %q", platform)
	}

	return env, nil
}
