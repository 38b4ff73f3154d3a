// Package report folds a scan stream into a ScanReport.
package report

import (
	"time"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/scanner"
)

// MatchedFile is a detected cache file
type MatchedFile struct {
	classifier.FileEntry `yaml:",inline"`
	Category             rules.Category `json:"category" yaml:"category"`
	Rule                 string         `json:"rule" yaml:"rule"`
}

// CategoryStats holds the totals of one category
type CategoryStats struct {
	Count int   `json:"count" yaml:"count"`
	Bytes int64 `json:"total_bytes" yaml:"total_bytes"`
}

// ScanError is an entry the scan skipped
type ScanError struct {
	Path    string `json:"path" yaml:"path"`
	Op      string `json:"op" yaml:"op"`
	Message string `json:"message" yaml:"message"`
}

// ScanReport is the result of one scan.
//
// Files keeps the order in which the scanner emitted them. That order
// depends on worker scheduling, so two scans of the same tree can list the
// same files in a different order; all totals are order independent.
type ScanReport struct {
	Root         string                            `json:"root" yaml:"root"`
	TotalScanned int64                             `json:"total_scanned" yaml:"total_scanned"`
	TotalMatched int64                             `json:"total_matched" yaml:"total_matched"`
	TotalBytes   int64                             `json:"total_bytes" yaml:"total_bytes"`
	Categories   map[rules.Category]*CategoryStats `json:"categories" yaml:"categories"`
	Files        []MatchedFile                     `json:"files" yaml:"files"`
	Errors       []ScanError                       `json:"errors,omitempty" yaml:"errors,omitempty"`
	Truncated    bool                              `json:"truncated" yaml:"truncated"`
	StartedAt    time.Time                         `json:"started_at" yaml:"started_at"`
	Duration     time.Duration                     `json:"duration" yaml:"duration"`
}

// Builder accumulates results into a ScanReport. It is not safe for
// concurrent use; feed it from the goroutine draining the stream.
type Builder struct {
	r *ScanReport
}

// NewBuilder creates a builder for a scan of root
func NewBuilder(root string) *Builder {
	r := &ScanReport{
		Root:       root,
		Categories: make(map[rules.Category]*CategoryStats, len(rules.Categories())),
		StartedAt:  time.Now(),
	}
	for _, c := range rules.Categories() {
		r.Categories[c] = &CategoryStats{}
	}
	return &Builder{r: r}
}

// Add folds one scan result
func (b *Builder) Add(res scanner.Result) {
	b.r.TotalScanned++
	if !res.Matched || !res.Category.Valid() {
		return
	}

	b.r.TotalMatched++
	b.r.TotalBytes += res.Entry.Size
	stats := b.r.Categories[res.Category]
	stats.Count++
	stats.Bytes += res.Entry.Size

	b.r.Files = append(b.r.Files, MatchedFile{
		FileEntry: res.Entry,
		Category:  res.Category,
		Rule:      res.Rule,
	})
}

// AddError records a skipped entry
func (b *Builder) AddError(err *scanner.EntryError) {
	msg := ""
	if err.Err != nil {
		msg = err.Err.Error()
	}
	b.r.Errors = append(b.r.Errors, ScanError{Path: err.Path, Op: err.Op, Message: msg})
}

// Report returns the accumulated report
func (b *Builder) Report() *ScanReport {
	return b.r
}

// Aggregate drains st and returns the finished report
func Aggregate(st *scanner.Stream) *ScanReport {
	b := NewBuilder(st.Root)
	b.r.StartedAt = st.Started

	for res := range st.Results() {
		b.Add(res)
	}

	for _, err := range st.Errors() {
		b.AddError(err)
	}
	b.r.Truncated = st.Truncated()
	b.r.Duration = st.Duration()
	return b.r
}

// Stats returns the totals of one category
func (r *ScanReport) Stats(c rules.Category) CategoryStats {
	if s, ok := r.Categories[c]; ok && s != nil {
		return *s
	}
	return CategoryStats{}
}

// Skipped returns the number of entries skipped due to errors
func (r *ScanReport) Skipped() int {
	return len(r.Errors)
}

// Paths returns the absolute paths of every matched file
func (r *ScanReport) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// Filter returns the matched files of the given categories, in report
// order. No categories selects every file.
func (r *ScanReport) Filter(categories ...rules.Category) []MatchedFile {
	if len(categories) == 0 {
		out := make([]MatchedFile, len(r.Files))
		copy(out, r.Files)
		return out
	}

	want := make(map[rules.Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}

	var out []MatchedFile
	for _, f := range r.Files {
		if want[f.Category] {
			out = append(out, f)
		}
	}
	return out
}
