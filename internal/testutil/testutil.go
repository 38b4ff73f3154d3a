// Package testutil provides test helpers and fixtures for cachesweep tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// TestFixture holds paths to a scratch directory tree
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates an empty fixture rooted in t.TempDir()
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateSizedFile creates a zero-filled file of size bytes
func (f *TestFixture) CreateSizedFile(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFiles creates every relative path with the same content
func (f *TestFixture) CreateFiles(content []byte, relPaths ...string) []string {
	f.T.Helper()

	paths := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		paths = append(paths, f.CreateFile(rel, content))
	}
	return paths
}

// =============================================================================
// Directory Helpers
// =============================================================================

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateUnreadableDir creates a directory with a file inside and then
// removes all permissions from it. Permissions are restored on cleanup so
// TempDir removal works.
func (f *TestFixture) CreateUnreadableDir(relPath string) string {
	f.T.Helper()

	dirPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "hidden.tmp"), []byte("hidden"))

	if err := os.Chmod(dirPath, 0000); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", dirPath, err)
	}

	f.T.Cleanup(func() {
		os.Chmod(dirPath, 0755)
	})

	return dirPath
}

// CreateReadOnlyDir creates a read-only directory (files inside can't be deleted)
func (f *TestFixture) CreateReadOnlyDir(relPath string) string {
	f.T.Helper()

	dirPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "trapped.tmp"), []byte("trapped"))
	if err := os.Chmod(dirPath, 0555); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", dirPath, err)
	}

	f.T.Cleanup(func() {
		os.Chmod(dirPath, 0755)
	})

	return dirPath
}

// =============================================================================
// Symlink Helpers
// =============================================================================

// CreateSymlink creates a symbolic link at linkPath (relative to the root)
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := filepath.Join(f.RootDir, linkPath)
	dir := filepath.Dir(fullLinkPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// CreateBrokenSymlink creates a symlink pointing to a non-existent target
func (f *TestFixture) CreateBrokenSymlink(linkPath string) string {
	f.T.Helper()
	return f.CreateSymlink(filepath.Join(f.RootDir, "does-not-exist"), linkPath)
}

// =============================================================================
// Cache Tree Helpers
// =============================================================================

// PopulateMixedTree creates a small tree with one Temporary file, one
// System file and one unmatched file. It returns the three paths in that
// order.
func (f *TestFixture) PopulateMixedTree() (temporary, system, plain string) {
	f.T.Helper()

	temporary = f.CreateFile("tmp/cache.tmp", []byte("temp"))
	system = f.CreateFile("home/.cache/thumbnails/x.png", []byte("png data"))
	plain = f.CreateFile("home/doc.txt", []byte("notes"))
	return temporary, system, plain
}

// PopulateBrowserProfile creates a browser profile with cache and
// non-cache content
func (f *TestFixture) PopulateBrowserProfile() (cache []string, keep []string) {
	f.T.Helper()

	cache = f.CreateFiles([]byte("cache"),
		"Chrome/Default/Cache/Cache_Data/f_000001",
		"Chrome/Default/Cache/app.log",
		"Chrome/Default/Code Cache/js/index",
	)
	keep = f.CreateFiles([]byte("profile"),
		"Chrome/Default/Bookmarks",
		"Chrome/Default/Preferences",
	)
	return cache, keep
}

// =============================================================================
// Path Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// FileExists checks if a file or link exists without following links
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// AssertFileExists fails the test if the file doesn't exist
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileNotExists fails the test if the file exists
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected file to not exist: %s", path)
	}
}

// =============================================================================
// Environment Helpers
// =============================================================================

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}

// SkipOnWindows skips tests that depend on POSIX permissions or symlinks
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on windows")
	}
}

// =============================================================================
// Test Table Helpers
// =============================================================================

// PathTestCase represents a test case for path validation
type PathTestCase struct {
	Name        string
	Path        string
	ShouldPass  bool
	Description string
}

// StandardPathTestCases returns common test cases for deletion path validation
func StandardPathTestCases() []PathTestCase {
	return []PathTestCase{
		// Valid paths
		{Name: "absolute_path", Path: "/tmp/test.tmp", ShouldPass: true, Description: "normal absolute path"},
		{Name: "deep_path", Path: "/home/user/.cache/app/data/file.db", ShouldPass: true, Description: "deep nested path"},
		{Name: "path_with_dots", Path: "/tmp/file.name.with.dots.log", ShouldPass: true, Description: "filename with dots"},
		{Name: "path_with_spaces", Path: "/home/user/Library/Application Support/Google/Chrome/Default/Cache/f_1", ShouldPass: true, Description: "directory names with spaces"},
		{Name: "double_slash", Path: "//tmp//test", ShouldPass: true, Description: "double slashes (should clean)"},

		// Invalid paths - traversal
		{Name: "traversal_simple", Path: "../etc/passwd", ShouldPass: false, Description: "simple path traversal"},
		{Name: "traversal_mixed", Path: "/tmp/../../../etc/passwd", ShouldPass: false, Description: "mixed absolute and traversal"},

		// Invalid paths - control characters
		{Name: "null_byte", Path: "/tmp/file\x00.txt", ShouldPass: false, Description: "null byte injection"},
		{Name: "newline", Path: "/tmp/file\n.txt", ShouldPass: false, Description: "newline injection"},

		// Invalid paths - protected
		{Name: "root", Path: "/", ShouldPass: false, Description: "root directory"},
		{Name: "etc", Path: "/etc", ShouldPass: false, Description: "etc directory"},
		{Name: "bin", Path: "/bin", ShouldPass: false, Description: "bin directory"},
		{Name: "usr", Path: "/usr", ShouldPass: false, Description: "usr directory"},
		{Name: "etc_file", Path: "/etc/passwd", ShouldPass: false, Description: "file in etc"},

		// Edge cases
		{Name: "empty", Path: "", ShouldPass: false, Description: "empty path"},
		{Name: "relative", Path: "relative/path", ShouldPass: false, Description: "relative path"},
	}
}
