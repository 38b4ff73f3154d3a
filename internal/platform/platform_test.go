package platform

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	got := Detect()
	switch runtime.GOOS {
	case "darwin":
		if got != MacOS {
			t.Errorf("Detect() = %s, want %s", got, MacOS)
		}
	case "linux":
		if got != Linux {
			t.Errorf("Detect() = %s, want %s", got, Linux)
		}
	}
}

func TestDefaultConcurrencyBounds(t *testing.T) {
	n := DefaultConcurrency()
	if n < MinConcurrency || n > MaxConcurrency {
		t.Errorf("DefaultConcurrency() = %d, want within [%d, %d]", n, MinConcurrency, MaxConcurrency)
	}
}

func TestDiskUsage(t *testing.T) {
	u, err := DiskUsage(t.TempDir())
	if err != nil {
		t.Skipf("disk usage unavailable: %v", err)
	}
	if u.Total == 0 {
		t.Error("expected non-zero total size")
	}
	if u.Free > u.Total {
		t.Errorf("free %d exceeds total %d", u.Free, u.Total)
	}
}

func TestGetUserCacheDirXDG(t *testing.T) {
	if Detect() != Linux {
		t.Skip("XDG only applies on linux")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := GetUserCacheDir()
	if err != nil {
		t.Fatalf("GetUserCacheDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("GetUserCacheDir() = %s, want %s", got, dir)
	}
}

func TestGetUserCacheDirFallback(t *testing.T) {
	if Detect() != Linux {
		t.Skip("fallback checked on linux")
	}

	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", home)

	got, err := GetUserCacheDir()
	if err != nil {
		t.Fatalf("GetUserCacheDir() error = %v", err)
	}
	if got != filepath.Join(home, ".cache") {
		t.Errorf("GetUserCacheDir() = %s, want %s", got, filepath.Join(home, ".cache"))
	}
}

func TestGetUserConfigDirXDG(t *testing.T) {
	if Detect() != Linux && Detect() != MacOS {
		t.Skip("XDG config only applies on unix")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetUserConfigDir()
	if err != nil {
		t.Fatalf("GetUserConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("GetUserConfigDir() = %s, want %s", got, dir)
	}
}

func TestSystemProtectedPathsAreAbsolute(t *testing.T) {
	paths := SystemProtectedPaths()
	if len(paths) == 0 {
		t.Fatal("expected protected paths")
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) && runtime.GOOS != "windows" {
			t.Errorf("protected path %q is not absolute", p)
		}
	}
}
