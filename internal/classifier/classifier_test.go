package classifier

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/cachesweep/internal/rules"
)

// entry builds a FileEntry from a slash separated path relative to a scan
// root named "root"
func entry(rel string) FileEntry {
	parts := strings.Split(rel, "/")
	name := parts[len(parts)-1]
	return FileEntry{
		Path: "/scan/root/" + rel,
		Name: name,
		Ext:  strings.ToLower(filepath.Ext(name)),
		Dirs: append([]string{"root"}, parts[:len(parts)-1]...),
	}
}

// =============================================================================
// Classify Tests
// =============================================================================

func TestClassifyDefaultRules(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name    string
		path    string
		want    rules.Category
		matched bool
	}{
		// Browser wins over the generic signals underneath it
		{"chrome cache log", "Library/Application Support/Google/Chrome/Default/Cache/app.log", rules.Browser, true},
		{"chrome cache short", "Chrome/Cache/app.log", rules.Browser, true},
		{"firefox cache2", ".cache/mozilla/firefox/abc.default/cache2/entries/0A1B", rules.Browser, true},
		{"edge code cache", "Microsoft Edge/Default/Code Cache/js/index", rules.Browser, true},
		{"safari caches", "Library/Caches/com.apple.Safari/Cache.db", rules.Browser, true},
		{"safari webkit cache", "Library/Caches/com.apple.Safari/WebKitCache/Version 16/blob", rules.Browser, true},
		{"chrome bookmarks are not cache", "Chrome/Default/Bookmarks", 0, false},

		// System
		{"xdg cache thumbnail", "home/.cache/thumbnails/x.png", rules.System, true},
		{"macos caches", "Library/Caches/com.example.app/data.bin", rules.System, true},
		{"plain cache dir", "project/Cache/blob", rules.System, true},
		{"var cache", "var/cache/apt/pkgcache.bin", rules.System, true},
		{"ds store", "photos/.DS_Store", rules.System, true},
		{"thumbs db", "photos/Thumbs.db", rules.System, true},

		// Application
		{"pycache", "src/pkg/__pycache__/mod.cpython-311.pyc", rules.Application, true},
		{"pyc outside pycache", "src/mod.pyc", rules.Application, true},
		{"dot cache extension", "app/fonts.cache", rules.Application, true},
		{"pytest cache", "repo/.pytest_cache/v/lastfailed", rules.Application, true},
		{"eslint cache", "repo/.eslintcache", rules.Application, true},

		// Log
		{"log extension", "app/server.log", rules.Log, true},
		{"rotated log", "app/server.log.3", rules.Log, true},
		{"logs dir", "app/logs/output.json", rules.Log, true},

		// Temporary
		{"tmp extension", "tmp/cache.tmp", rules.Temporary, true},
		{"swap file", "src/.main.go.swp", rules.Temporary, true},
		{"partial download", "Downloads/movie.mkv.crdownload", rules.Temporary, true},
		{"office lock", "docs/~$report.docx", rules.Temporary, true},
		{"tmp dir", "tmp/anything.bin", rules.Temporary, true},

		// Backup
		{"bak", "etc/config.yaml.bak", rules.Backup, true},
		{"tilde backup", "src/main.c~", rules.Backup, true},
		{"backups dir", "backups/2024-01-01.tar", rules.Backup, true},

		// Other
		{"name contains cache", "data/iconcache.bin", rules.Other, true},
		{"crash dump", "crash/app.dmp", rules.Other, true},

		// No match
		{"notes", "notes.txt", 0, false},
		{"document", "home/doc.txt", 0, false},
		{"source", "src/main.go", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(entry(tt.path))
			require.Equal(t, tt.matched, ok, "matched for %s", tt.path)
			if ok {
				assert.Equal(t, tt.want, got, "category for %s", tt.path)
			}
		})
	}
}

func TestClassifyPriorityTieBreak(t *testing.T) {
	c := New(nil)

	// .log alone is Log, inside a browser cache it is Browser
	got, ok := c.Classify(entry("Chrome/Cache/app.log"))
	require.True(t, ok)
	assert.Equal(t, rules.Browser, got)

	got, ok = c.Classify(entry("server/app.log"))
	require.True(t, ok)
	assert.Equal(t, rules.Log, got)

	// a .tmp inside a .cache directory is System, not Temporary
	got, ok = c.Classify(entry(".cache/x.tmp"))
	require.True(t, ok)
	assert.Equal(t, rules.System, got)
}

func TestClassifyDirectoriesNeverMatch(t *testing.T) {
	c := New(nil)

	e := entry(".cache/thumbnails")
	e.IsDir = true

	_, ok := c.Classify(e)
	assert.False(t, ok)
}

func TestClassifyZeroLengthFile(t *testing.T) {
	c := New(nil)

	e := entry("tmp/empty.tmp")
	e.Size = 0

	got, ok := c.Classify(e)
	require.True(t, ok)
	assert.Equal(t, rules.Temporary, got)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New(nil)

	for _, p := range []string{"A/B.LOG", "a/b.Log", "LOGS/x.json"} {
		got, ok := c.Classify(entry(p))
		require.True(t, ok, p)
		assert.Equal(t, rules.Log, got, p)
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := New(nil)
	e := entry("Chrome/Cache/app.log")
	dirs := append([]string(nil), e.Dirs...)

	first, ok1 := c.Classify(e)
	for i := 0; i < 100; i++ {
		got, ok := c.Classify(e)
		require.Equal(t, ok1, ok)
		require.Equal(t, first, got)
	}
	assert.Equal(t, dirs, e.Dirs, "Classify must not mutate the entry")
}

func TestClassifyRootLocationIgnored(t *testing.T) {
	c := New(nil)

	// the scan root lives under /tmp but only its base name is an ancestor
	e := FileEntry{Path: "/tmp/work/notes.txt", Name: "notes.txt", Dirs: []string{"work"}}
	_, ok := c.Classify(e)
	assert.False(t, ok)
}

func TestClassifyCustomRuleSet(t *testing.T) {
	set := rules.MustNewSet(
		rules.Rule{Name: "generic", Category: rules.Other, Kind: rules.KindSuffix, Pattern: ".dat"},
		rules.Rule{Name: "specific", Category: rules.Application, Kind: rules.KindMarker, Pattern: "game"},
	)
	c := New(set)

	r, ok := c.Explain(entry("game/save.dat"))
	require.True(t, ok)
	assert.Equal(t, "specific", r.Name)
	assert.Equal(t, rules.Application, r.Category)

	r, ok = c.Explain(entry("other/save.dat"))
	require.True(t, ok)
	assert.Equal(t, "generic", r.Name)

	assert.Same(t, set, c.Rules())
}

func TestClassifyFirstRuleWinsWithinCategory(t *testing.T) {
	set := rules.MustNewSet(
		rules.Rule{Name: "first", Category: rules.Log, Kind: rules.KindSuffix, Pattern: ".log"},
		rules.Rule{Name: "second", Category: rules.Log, Kind: rules.KindGlob, Pattern: "*.log"},
	)

	r, ok := New(set).Explain(entry("x.log"))
	require.True(t, ok)
	assert.Equal(t, "first", r.Name)
}

// =============================================================================
// NewEntry Tests
// =============================================================================

func TestNewEntry(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "home", ".cache")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "Thumb.PNG")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	info, err := os.Lstat(path)
	require.NoError(t, err)

	e := NewEntry(root, path, info)
	assert.Equal(t, path, e.Path)
	assert.Equal(t, "Thumb.PNG", e.Name)
	assert.Equal(t, ".png", e.Ext)
	assert.Equal(t, int64(5), e.Size)
	assert.Equal(t, []string{filepath.Base(root), "home", ".cache"}, e.Dirs)
	assert.False(t, e.IsDir)
	assert.False(t, e.IsSymlink)
}

func TestNewEntryDirectChildOfRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	info, err := os.Lstat(path)
	require.NoError(t, err)

	e := NewEntry(root, path, info)
	assert.Equal(t, []string{filepath.Base(root)}, e.Dirs)
	assert.Equal(t, int64(0), e.Size)
}

func TestNewEntrySymlink(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("target contents"), 0644))
	link := filepath.Join(root, "link.tmp")
	require.NoError(t, os.Symlink(target, link))

	info, err := os.Lstat(link)
	require.NoError(t, err)

	e := NewEntry(root, link, info)
	assert.True(t, e.IsSymlink)
	assert.Equal(t, "link.tmp", e.Name)

	got, ok := New(nil).Classify(e)
	require.True(t, ok)
	assert.Equal(t, rules.Temporary, got)
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkClassify(b *testing.B) {
	c := New(nil)
	entries := []FileEntry{
		entry("Chrome/Default/Cache/Cache_Data/f_000001"),
		entry("home/.cache/thumbnails/large/abc.png"),
		entry("src/github.com/user/project/main.go"),
		entry("var/log/syslog.log.1"),
		entry("Documents/report.docx"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, e := range entries {
			c.Classify(e)
		}
	}
}
