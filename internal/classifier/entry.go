package classifier

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileEntry is one filesystem node visited during a scan
type FileEntry struct {
	Path      string    `json:"path" yaml:"path"`
	Name      string    `json:"name" yaml:"name"`
	Ext       string    `json:"ext,omitempty" yaml:"ext,omitempty"` // lower-cased, including the dot
	Size      int64     `json:"size" yaml:"size"`
	Dirs      []string  `json:"-" yaml:"-"` // scan root base name, then every directory down to the parent
	IsDir     bool      `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
	IsSymlink bool      `json:"is_symlink,omitempty" yaml:"is_symlink,omitempty"`
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
}

// NewEntry builds a FileEntry for path found below root. info must come from
// Lstat so that symlinks describe the link rather than its target.
func NewEntry(root, path string, info fs.FileInfo) FileEntry {
	name := filepath.Base(path)
	e := FileEntry{
		Path:      path,
		Name:      name,
		Ext:       strings.ToLower(filepath.Ext(name)),
		Dirs:      ancestors(root, path),
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
		ModTime:   info.ModTime(),
	}
	if !e.IsDir {
		e.Size = info.Size()
	}
	return e
}

// ancestors returns the base name of root followed by the directories
// between root and the parent of path
func ancestors(root, path string) []string {
	dirs := []string{filepath.Base(root)}

	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		// path is not below root; fall back to its absolute ancestry
		rel = strings.TrimPrefix(filepath.Dir(path), string(filepath.Separator))
		dirs = dirs[:0]
	}
	if rel == "." || rel == "" {
		return dirs
	}
	return append(dirs, strings.Split(rel, string(filepath.Separator))...)
}
