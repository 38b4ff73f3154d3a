package security

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fenilsonani/cachesweep/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
}

// tempRoot returns a temp dir with symlinks resolved so protected roots
// compare equal to resolved parents
func tempRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return root
}

func TestValidatePathForDeletion(t *testing.T) {
	skipOnWindows(t)
	pv := NewPathValidator("/data/protected")

	tests := []struct {
		name        string
		path        string
		shouldError bool
		wantErr     error
	}{
		{"absolute path - valid", "/tmp/test-cleanup-file.tmp", false, nil},
		{"missing parent - valid", "/tmp/no/such/dir/file.tmp", false, nil},
		{"double slashes are cleaned", "//tmp//x.tmp", false, nil},
		{"relative path", "relative/path.txt", true, ErrNotAbsolute},
		{"empty path", "", true, ErrNotAbsolute},
		{"null byte", "/tmp/test\x00malicious", true, ErrSuspiciousPath},
		{"newline", "/tmp/test\nmalicious", true, ErrSuspiciousPath},
		{"carriage return", "/tmp/test\rmalicious", true, ErrSuspiciousPath},
		{"dot dot segment", "/tmp/../etc/passwd", true, ErrSuspiciousPath},
		{"root directory", "/", true, ErrProtectedPath},
		{"etc directory", "/etc", true, ErrProtectedPath},
		{"file in etc", "/etc/hosts", true, ErrProtectedPath},
		{"deep file in usr", "/usr/share/icons/hicolor/icon-theme.cache", true, ErrProtectedPath},
		{"custom protected root", "/data/protected", true, ErrProtectedPath},
		{"below custom protected root", "/data/protected/cache/x.tmp", true, ErrProtectedPath},
		{"custom prefix sibling", "/data/protected-not/x.tmp", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.ValidatePathForDeletion(tt.path)

			if tt.shouldError {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateStandardPathCases(t *testing.T) {
	skipOnWindows(t)
	pv := NewPathValidator()

	for _, tc := range testutil.StandardPathTestCases() {
		t.Run(tc.Name, func(t *testing.T) {
			err := pv.ValidatePathForDeletion(tc.Path)
			if tc.ShouldPass && err != nil {
				t.Errorf("%s: expected pass, got %v", tc.Description, err)
			}
			if !tc.ShouldPass && err == nil {
				t.Errorf("%s: expected failure", tc.Description)
			}
		})
	}
}

func TestValidateSymlinkedParentIntoProtectedDir(t *testing.T) {
	skipOnWindows(t)

	root := tempRoot(t)
	vault := filepath.Join(root, "vault")
	if err := os.MkdirAll(vault, 0755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "innocent")
	if err := os.Symlink(vault, link); err != nil {
		t.Fatal(err)
	}

	pv := NewPathValidator(vault)

	err := pv.ValidatePathForDeletion(filepath.Join(link, "secret.tmp"))
	if !errors.Is(err, ErrProtectedPath) {
		t.Errorf("expected protected path error through symlinked parent, got %v", err)
	}

	// second lookup is served from the directory cache
	err = pv.ValidatePathForDeletion(filepath.Join(link, "other.tmp"))
	if !errors.Is(err, ErrProtectedPath) {
		t.Errorf("cached verdict lost: %v", err)
	}
}

func TestValidateSymlinkEntryIsNotResolved(t *testing.T) {
	skipOnWindows(t)

	root := tempRoot(t)
	vault := filepath.Join(root, "vault")
	if err := os.MkdirAll(vault, 0755); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(vault, "secret")
	if err := os.WriteFile(secret, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "cache", "secret.tmp")
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(secret, link); err != nil {
		t.Fatal(err)
	}

	pv := NewPathValidator(vault)

	// removing the link does not touch the protected target
	if err := pv.ValidatePathForDeletion(link); err != nil {
		t.Errorf("expected link to be deletable, got %v", err)
	}
}

func TestDirCacheReusesVerdicts(t *testing.T) {
	skipOnWindows(t)

	root := tempRoot(t)
	pv := NewPathValidator()

	for _, name := range []string{"a.tmp", "b.tmp", "c.tmp"} {
		if err := pv.ValidatePathForDeletion(filepath.Join(root, name)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := pv.dirCache.Len(); got != 1 {
		t.Errorf("dir cache holds %d entries, want 1", got)
	}

	pv.AddProtectedPath(filepath.Join(root, "later"))
	if got := pv.dirCache.Len(); got != 0 {
		t.Errorf("AddProtectedPath should purge the cache, %d entries left", got)
	}
}

func TestIsProtectedPath(t *testing.T) {
	skipOnWindows(t)
	pv := NewPathValidator("/srv/keep")

	tests := []struct {
		name        string
		path        string
		isProtected bool
	}{
		{"root directory", "/", true},
		{"etc directory", "/etc", true},
		{"usr directory", "/usr", true},
		{"bin directory", "/bin", true},
		{"sbin directory", "/sbin", true},
		{"file in etc", "/etc/hosts", true},
		{"file in usr", "/usr/bin/ls", true},
		{"custom root", "/srv/keep", true},
		{"below custom root", "/srv/keep/a/b", true},
		{"unclean custom path", "/srv/keep/../keep/x", true},
		{"temp file", "/tmp/test.txt", false},
		{"var cache", "/var/cache/apt/pkgcache.bin", false},
		{"user cache", "/Users/test/.cache/test", false},
		{"home user subdir", "/home/user/Downloads/test", false},
		{"child of root", "/opt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pv.IsProtectedPath(tt.path)
			if result != tt.isProtected {
				t.Errorf("IsProtectedPath(%s) = %v, want %v", tt.path, result, tt.isProtected)
			}
		})
	}
}

func TestAddProtectedPathIgnoresBlank(t *testing.T) {
	pv := NewPathValidator()
	before := len(pv.ProtectedPaths())

	pv.AddProtectedPath("   ")
	if got := len(pv.ProtectedPaths()); got != before {
		t.Errorf("blank path was added: %d -> %d", before, got)
	}
}

func TestValidateGlobPattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		shouldError bool
	}{
		{"simple wildcard", "*.txt", false},
		{"character class", "[abc]*.txt", false},
		{"question mark", "file?.txt", false},
		{"directory name", "node_modules", false},
		{"rotated logs", "*.log.[0-9]", false},
		{"empty pattern", "", true},
		{"blank pattern", "  ", true},
		{"unmatched bracket", "[abc", true},
		{"pattern with traversal", "../*.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGlobPattern(tt.pattern)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error for pattern '%s', got nil", tt.pattern)
				}
			} else if err != nil {
				t.Errorf("Expected no error for pattern '%s', got: %v", tt.pattern, err)
			}
		})
	}
}

func TestErrorMessagesIncludePath(t *testing.T) {
	skipOnWindows(t)
	pv := NewPathValidator()

	err := pv.ValidatePathForDeletion("/etc/passwd")
	if err == nil || !strings.Contains(err.Error(), "/etc/passwd") {
		t.Errorf("error should name the path, got %v", err)
	}
}
