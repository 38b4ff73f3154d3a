package progress

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fenilsonani/cachesweep/pkg/utils"
)

// Phase represents the current phase of operation
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseCleaning Phase = "cleaning"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress is a point-in-time view of a running scan
type ScanProgress struct {
	Phase       Phase
	Visited     int64 // non-directory entries emitted
	Dirs        int64 // directories listed
	Matched     int64
	MatchedSize int64
	StartTime   time.Time
	Error       error
}

// CleanProgress represents progress during cleanup
type CleanProgress struct {
	Phase        Phase
	CurrentFile  string
	DeletedFiles int
	TotalFiles   int
	DeletedSize  int64
	SkippedFiles int
	ErrorCount   int
	DryRun       bool
	StartTime    time.Time
	Error        error
}

// Counter is the scan progress side channel. Workers increment it with
// atomic operations; readers poll Snapshot from any goroutine.
type Counter struct {
	visited     atomic.Int64
	dirs        atomic.Int64
	matched     atomic.Int64
	matchedSize atomic.Int64
	done        atomic.Bool
	start       time.Time
}

// NewCounter creates a counter whose clock starts now
func NewCounter() *Counter {
	return &Counter{start: time.Now()}
}

// AddEntry records one emitted entry
func (c *Counter) AddEntry(matched bool, size int64) {
	if c == nil {
		return
	}
	c.visited.Add(1)
	if matched {
		c.matched.Add(1)
		c.matchedSize.Add(size)
	}
}

// AddDir records one listed directory
func (c *Counter) AddDir() {
	if c == nil {
		return
	}
	c.dirs.Add(1)
}

// Finish marks the scan as complete
func (c *Counter) Finish() {
	if c == nil {
		return
	}
	c.done.Store(true)
}

// Visited returns the number of entries emitted so far
func (c *Counter) Visited() int64 {
	if c == nil {
		return 0
	}
	return c.visited.Load()
}

// Snapshot returns the current values
func (c *Counter) Snapshot() *ScanProgress {
	if c == nil {
		return nil
	}
	phase := PhaseScanning
	if c.done.Load() {
		phase = PhaseComplete
	}
	return &ScanProgress{
		Phase:       phase,
		Visited:     c.visited.Load(),
		Dirs:        c.dirs.Load(),
		Matched:     c.matched.Load(),
		MatchedSize: c.matchedSize.Load(),
		StartTime:   c.start,
	}
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseScanning:
		return fmt.Sprintf("Scanning... %d files in %d dirs, %d cache files (%s) [%s]",
			p.Visited,
			p.Dirs,
			p.Matched,
			FormatBytes(p.MatchedSize),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files, %d cache files (%s) in %s",
			p.Visited,
			p.Matched,
			FormatBytes(p.MatchedSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatCleanProgress returns a human-readable clean progress string
func FormatCleanProgress(p *CleanProgress) string {
	if p == nil {
		return "Preparing..."
	}

	elapsed := time.Since(p.StartTime)
	verb := "Deleting"
	done := "deleted"
	if p.DryRun {
		verb = "Dry run"
		done = "would be deleted"
	}

	switch p.Phase {
	case PhaseCleaning:
		percentage := 0
		if p.TotalFiles > 0 {
			percentage = (p.DeletedFiles * 100) / p.TotalFiles
		}

		eta := ""
		if p.DeletedFiles > 0 && p.TotalFiles > p.DeletedFiles {
			avgTime := elapsed / time.Duration(p.DeletedFiles)
			remaining := time.Duration(p.TotalFiles-p.DeletedFiles) * avgTime
			eta = fmt.Sprintf(" ETA: %s", FormatDuration(remaining))
		}

		return fmt.Sprintf("%s... %d/%d files (%d%%) - %s freed%s",
			verb,
			p.DeletedFiles,
			p.TotalFiles,
			percentage,
			FormatBytes(p.DeletedSize),
			eta)
	case PhaseComplete:
		return fmt.Sprintf("Cleanup complete: %d files %s (%s) in %s",
			p.DeletedFiles,
			done,
			FormatBytes(p.DeletedSize),
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Cleanup error: %v", p.Error)
	default:
		return "Preparing cleanup..."
	}
}

// FormatBytes formats bytes in human-readable format
func FormatBytes(bytes int64) string {
	return utils.FormatBytes(bytes)
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// Callback receives deletion progress: files handled so far, the total and
// the bytes freed so far
type Callback func(done, total int, bytes int64)
