package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fenilsonani/cachesweep/internal/platform"
)

// DirCacheSize bounds the number of parent directory verdicts kept
const DirCacheSize = 4096

// Validation failures. ValidatePathForDeletion wraps them with the path.
var (
	ErrNotAbsolute      = errors.New("path must be absolute")
	ErrSuspiciousPath   = errors.New("path contains suspicious elements")
	ErrProtectedPath    = errors.New("refusing to delete protected path")
	ErrUnresolvablePath = errors.New("failed to resolve parent directory")
)

// PathValidator decides whether a file may be deleted. It is safe for
// concurrent use once configured.
type PathValidator struct {
	mu        sync.RWMutex
	protected []string // whole subtree is protected
	dirCache  *lru.Cache[string, error]
}

// NewPathValidator creates a validator protecting the platform system
// directories plus extra
func NewPathValidator(extra ...string) *PathValidator {
	cache, _ := lru.New[string, error](DirCacheSize)
	pv := &PathValidator{dirCache: cache}
	for _, p := range platform.SystemProtectedPaths() {
		pv.protected = append(pv.protected, filepath.Clean(p))
	}
	for _, p := range extra {
		pv.AddProtectedPath(p)
	}
	return pv
}

// AddProtectedPath protects path and everything below it
func (pv *PathValidator) AddProtectedPath(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	pv.mu.Lock()
	pv.protected = append(pv.protected, filepath.Clean(path))
	pv.mu.Unlock()
	pv.dirCache.Purge()
}

// ProtectedPaths returns the protected roots
func (pv *PathValidator) ProtectedPaths() []string {
	pv.mu.RLock()
	defer pv.mu.RUnlock()

	out := make([]string, len(pv.protected))
	copy(out, pv.protected)
	return out
}

// ValidatePathForDeletion checks a path before it is removed. The entry
// itself is never resolved: deleting a symlink removes the link, so only
// the directory holding it is resolved and checked.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if path == "" || !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", ErrNotAbsolute, path)
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return fmt.Errorf("%w: control characters in %q", ErrSuspiciousPath, path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("%w: traversal in %s", ErrSuspiciousPath, path)
		}
	}

	clean := filepath.Clean(path)
	if pv.IsProtectedPath(clean) {
		return fmt.Errorf("%w: %s", ErrProtectedPath, clean)
	}

	return pv.validateDir(filepath.Dir(clean), filepath.Base(clean))
}

// validateDir resolves the parent directory once and caches the verdict
func (pv *PathValidator) validateDir(dir, base string) error {
	if err, ok := pv.dirCache.Get(dir); ok {
		if err != nil {
			return err
		}
		return pv.checkResolvedEntry(dir, base)
	}

	err := pv.resolveDir(dir)
	pv.dirCache.Add(dir, err)
	if err != nil {
		return err
	}
	return pv.checkResolvedEntry(dir, base)
}

func (pv *PathValidator) resolveDir(dir string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// nothing on disk to delete; the caller reports not found
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrUnresolvablePath, dir, err)
	}
	if resolved != dir && pv.IsProtectedPath(resolved) {
		return fmt.Errorf("%w: %s resolves to %s", ErrProtectedPath, dir, resolved)
	}
	return nil
}

// checkResolvedEntry catches an entry that is only protected once its
// parent's symlinks are resolved
func (pv *PathValidator) checkResolvedEntry(dir, base string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil || resolved == dir {
		return nil
	}
	full := filepath.Join(resolved, base)
	if pv.IsProtectedPath(full) {
		return fmt.Errorf("%w: %s", ErrProtectedPath, full)
	}
	return nil
}

// IsProtectedPath reports whether path is a protected root or lies below
// one. The filesystem root is protected only as itself.
func (pv *PathValidator) IsProtectedPath(path string) bool {
	clean := filepath.Clean(path)

	pv.mu.RLock()
	defer pv.mu.RUnlock()

	for _, protected := range pv.protected {
		if clean == protected {
			return true
		}
		if protected == string(filepath.Separator) {
			continue
		}
		if strings.HasPrefix(clean, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ValidateGlobPattern validates that a glob pattern is safe
func ValidateGlobPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("glob pattern is empty")
	}

	// Check for dangerous characters
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}

	// Try to match the pattern to ensure it's valid
	_, err := filepath.Match(pattern, "test")
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}
