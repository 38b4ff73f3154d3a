package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/scanner"
	"github.com/fenilsonani/cachesweep/internal/testutil"
)

func result(path string, size int64, c rules.Category, matched bool) scanner.Result {
	return scanner.Result{
		Entry:    classifier.FileEntry{Path: path, Name: path, Size: size},
		Category: c,
		Matched:  matched,
	}
}

// checkInvariants verifies the totals of a report against its file list
func checkInvariants(t *testing.T, r *ScanReport) {
	t.Helper()

	assert.GreaterOrEqual(t, r.TotalScanned, r.TotalMatched)
	assert.Equal(t, int(r.TotalMatched), len(r.Files))

	var count int
	var bytes int64
	perCategory := make(map[rules.Category]int64)
	for _, f := range r.Files {
		perCategory[f.Category] += f.Size
	}
	for _, c := range rules.Categories() {
		s := r.Stats(c)
		count += s.Count
		bytes += s.Bytes
		assert.Equal(t, perCategory[c], s.Bytes, "bytes of %s", c)
	}
	assert.Equal(t, int(r.TotalMatched), count)
	assert.Equal(t, r.TotalBytes, bytes)
}

// =============================================================================
// Aggregate Tests
// =============================================================================

func TestAggregateMixedTree(t *testing.T) {
	f := testutil.NewFixture(t)
	tmp, system, _ := f.PopulateMixedTree()

	st, err := scanner.New(nil, scanner.WithConcurrency(4)).Scan(context.Background(), f.RootDir)
	require.NoError(t, err)
	r := Aggregate(st)

	assert.Equal(t, f.RootDir, r.Root)
	assert.Equal(t, int64(3), r.TotalScanned)
	assert.Equal(t, int64(2), r.TotalMatched)
	assert.Equal(t, 1, r.Stats(rules.Temporary).Count)
	assert.Equal(t, 1, r.Stats(rules.System).Count)
	assert.Equal(t, 0, r.Stats(rules.Browser).Count)
	assert.Equal(t, int64(len("temp")), r.Stats(rules.Temporary).Bytes)
	assert.ElementsMatch(t, []string{tmp, system}, r.Paths())
	assert.False(t, r.Truncated)
	assert.Zero(t, r.Skipped())
	checkInvariants(t, r)
}

func TestAggregateRecordsSkippedEntries(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)

	f := testutil.NewFixture(t)
	f.CreateFile("logs/a.log", []byte("abc"))
	locked := f.CreateUnreadableDir("private")

	st, err := scanner.New(nil).Scan(context.Background(), f.RootDir)
	require.NoError(t, err)
	r := Aggregate(st)

	assert.Equal(t, int64(1), r.TotalMatched)
	require.Equal(t, 1, r.Skipped())
	assert.Equal(t, locked, r.Errors[0].Path)
	assert.Equal(t, "readdir", r.Errors[0].Op)
	assert.Contains(t, r.Errors[0].Message, fs.ErrPermission.Error())
}

func TestBuilderRecordsVanishedDirectory(t *testing.T) {
	b := NewBuilder("/scan")
	b.Add(scanner.Result{
		Entry:    classifier.FileEntry{Path: "/scan/open/a.log", Name: "a.log", Size: 3},
		Category: rules.Log,
		Matched:  true,
	})
	b.AddError(&scanner.EntryError{Path: "/scan/gone", Op: "readdir", Err: fs.ErrNotExist})
	r := b.Report()

	assert.Equal(t, int64(1), r.TotalMatched)
	require.Equal(t, 1, r.Skipped())
	assert.Equal(t, "/scan/gone", r.Errors[0].Path)
	assert.Equal(t, "readdir", r.Errors[0].Op)
	assert.Contains(t, r.Errors[0].Message, fs.ErrNotExist.Error())
	checkInvariants(t, r)
}

func TestAggregateIdempotent(t *testing.T) {
	f := testutil.NewFixture(t)
	f.PopulateMixedTree()
	f.PopulateBrowserProfile()
	f.CreateFiles([]byte("backup"), "etc/a.bak", "etc/b.orig", "old/notes~")

	run := func(n int) *ScanReport {
		st, err := scanner.New(nil, scanner.WithConcurrency(n)).Scan(context.Background(), f.RootDir)
		require.NoError(t, err)
		return Aggregate(st)
	}

	first := run(1)
	second := run(8)

	assert.Equal(t, first.TotalScanned, second.TotalScanned)
	assert.Equal(t, first.TotalMatched, second.TotalMatched)
	assert.Equal(t, first.TotalBytes, second.TotalBytes)
	for _, c := range rules.Categories() {
		assert.Equal(t, first.Stats(c), second.Stats(c), c.String())
	}

	a, b := first.Paths(), second.Paths()
	sort.Strings(a)
	sort.Strings(b)
	assert.Equal(t, a, b)
}

// =============================================================================
// Builder Tests
// =============================================================================

func TestBuilderPreservesEmissionOrder(t *testing.T) {
	b := NewBuilder("/scan")
	b.Add(result("/scan/c.tmp", 1, rules.Temporary, true))
	b.Add(result("/scan/notes.txt", 5, 0, false))
	b.Add(result("/scan/a.log", 2, rules.Log, true))
	b.Add(result("/scan/b.tmp", 3, rules.Temporary, true))

	r := b.Report()
	assert.Equal(t, []string{"/scan/c.tmp", "/scan/a.log", "/scan/b.tmp"}, r.Paths())
	assert.Equal(t, int64(4), r.TotalScanned)
	assert.Equal(t, CategoryStats{Count: 2, Bytes: 4}, r.Stats(rules.Temporary))
	checkInvariants(t, r)
}

func TestBuilderInvariantsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := rules.Categories()

	for round := 0; round < 20; round++ {
		b := NewBuilder("/r")
		n := rng.Intn(500)
		for i := 0; i < n; i++ {
			matched := rng.Intn(3) > 0
			c := categories[rng.Intn(len(categories))]
			b.Add(result(fmt.Sprintf("/r/%d", i), rng.Int63n(1<<20), c, matched))
		}
		r := b.Report()
		assert.Equal(t, int64(n), r.TotalScanned)
		checkInvariants(t, r)
	}
}

func TestBuilderIgnoresInvalidCategory(t *testing.T) {
	b := NewBuilder("/r")
	b.Add(result("/r/x", 10, rules.Category(99), true))

	r := b.Report()
	assert.Equal(t, int64(1), r.TotalScanned)
	assert.Zero(t, r.TotalMatched)
	checkInvariants(t, r)
}

func TestBuilderAddError(t *testing.T) {
	b := NewBuilder("/r")
	b.AddError(&scanner.EntryError{Path: "/r/x", Op: "lstat", Err: fs.ErrNotExist})
	b.AddError(&scanner.EntryError{Path: "/r/y", Op: "readdir"})

	r := b.Report()
	require.Len(t, r.Errors, 2)
	assert.Equal(t, ScanError{Path: "/r/x", Op: "lstat", Message: "file does not exist"}, r.Errors[0])
	assert.Empty(t, r.Errors[1].Message)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestFilter(t *testing.T) {
	b := NewBuilder("/r")
	b.Add(result("/r/a.log", 1, rules.Log, true))
	b.Add(result("/r/b.tmp", 1, rules.Temporary, true))
	b.Add(result("/r/c.bak", 1, rules.Backup, true))
	r := b.Report()

	assert.Len(t, r.Filter(), 3)

	got := r.Filter(rules.Log, rules.Backup)
	require.Len(t, got, 2)
	assert.Equal(t, "/r/a.log", got[0].Path)
	assert.Equal(t, "/r/c.bak", got[1].Path)

	assert.Empty(t, r.Filter(rules.Browser))

	all := r.Filter()
	all[0].Path = "changed"
	assert.Equal(t, "/r/a.log", r.Files[0].Path, "Filter must return a copy")
}

func TestStatsUnknownCategory(t *testing.T) {
	r := NewBuilder("/r").Report()
	assert.Equal(t, CategoryStats{}, r.Stats(rules.Category(42)))
}

// =============================================================================
// Encoding Tests
// =============================================================================

func TestReportEncodesCategoryNames(t *testing.T) {
	b := NewBuilder("/r")
	b.Add(result("/r/a.log", 7, rules.Log, true))
	r := b.Report()

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	cats := decoded["categories"].(map[string]any)
	assert.Contains(t, cats, "Log")
	assert.Contains(t, cats, "Browser")

	files := decoded["files"].([]any)
	require.Len(t, files, 1)
	file := files[0].(map[string]any)
	assert.Equal(t, "/r/a.log", file["path"])
	assert.Equal(t, "Log", file["category"])
	assert.NotContains(t, file, "Dirs")

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Log:")
	assert.Contains(t, string(out), "category: Log")
}
