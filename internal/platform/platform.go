package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Concurrency bounds for the directory listing pool
const (
	MinConcurrency = 4
	MaxConcurrency = 64
)

// ErrUnsupportedPlatform is returned where no platform convention is known
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// DefaultConcurrency returns the number of listing workers to use when none
// is configured: twice the logical CPUs, clamped to [MinConcurrency,
// MaxConcurrency]. Directory listing is I/O bound, so the pool is larger
// than the CPU count.
func DefaultConcurrency() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	n *= 2
	if n < MinConcurrency {
		n = MinConcurrency
	}
	if n > MaxConcurrency {
		n = MaxConcurrency
	}
	return n
}

// Usage describes the volume holding a path
type Usage struct {
	Path        string  `json:"path" yaml:"path"`
	Total       uint64  `json:"total" yaml:"total"`
	Free        uint64  `json:"free" yaml:"free"`
	Used        uint64  `json:"used" yaml:"used"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`
}

// DiskUsage reports capacity of the filesystem containing path
func DiskUsage(path string) (*Usage, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return nil, err
	}
	return &Usage{
		Path:        u.Path,
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}

// GetUserCacheDir returns the user's cache directory
func GetUserCacheDir() (string, error) {
	if Detect() == Linux {
		// Try XDG_CACHE_HOME first
		if cacheDir := os.Getenv("XDG_CACHE_HOME"); cacheDir != "" {
			return cacheDir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".cache"), nil
	}
	if Detect() == Unknown {
		return "", ErrUnsupportedPlatform
	}
	return os.UserCacheDir()
}

// GetUserConfigDir returns the user's config directory
func GetUserConfigDir() (string, error) {
	switch Detect() {
	case Linux, MacOS:
		// cachesweep keeps its config in ~/.config on both platforms
		if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
			return configDir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config"), nil
	case Windows:
		return os.UserConfigDir()
	default:
		return "", ErrUnsupportedPlatform
	}
}

// SystemProtectedPaths returns directories that must never be deleted from
func SystemProtectedPaths() []string {
	switch Detect() {
	case Windows:
		return []string{`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`}
	case MacOS:
		return []string{
			"/", "/bin", "/sbin", "/usr", "/etc", "/dev",
			"/System", "/Applications", "/Library/System", "/private/etc",
		}
	default:
		return []string{
			"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/lib64",
			"/proc", "/sbin", "/sys", "/usr",
		}
	}
}
