package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
	"github.com/fenilsonani/cachesweep/pkg/utils"
)

// RefreshInterval is how often LiveProgress redraws
const RefreshInterval = 100 * time.Millisecond

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the width of f, or 80 when it is not a terminal
func TerminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// LiveProgress redraws a single status line from a progress.Counter
// while a scan runs
type LiveProgress struct {
	mu       sync.Mutex
	out      io.Writer
	counter  *progress.Counter
	width    int
	enabled  bool
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

// NewLiveProgress creates a display on out that is enabled only when out is
// a terminal
func NewLiveProgress(out *os.File, counter *progress.Counter) *LiveProgress {
	return NewLiveProgressWriter(out, counter, IsTerminal(out), TerminalWidth(out))
}

// NewLiveProgressWriter creates a display on any writer
func NewLiveProgressWriter(out io.Writer, counter *progress.Counter, enabled bool, width int) *LiveProgress {
	return &LiveProgress{
		out:      out,
		counter:  counter,
		width:    width,
		enabled:  enabled,
		interval: RefreshInterval,
	}
}

// Start begins redrawing in the background
func (lp *LiveProgress) Start() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled || lp.started {
		return
	}
	lp.started = true
	lp.stop = make(chan struct{})
	lp.done = make(chan struct{})

	go func() {
		defer close(lp.done)
		ticker := time.NewTicker(lp.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				lp.render()
			case <-lp.stop:
				return
			}
		}
	}()
}

// Finish stops redrawing and leaves the final status on its own line
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	started := lp.started
	lp.started = false
	lp.mu.Unlock()

	if !started {
		return
	}
	close(lp.stop)
	<-lp.done

	lp.render()
	fmt.Fprintln(lp.out)
}

// render draws the current counter state over the previous line
func (lp *LiveProgress) render() {
	line := progress.FormatScanProgress(lp.counter.Snapshot())
	fmt.Fprintf(lp.out, "\r\033[K%s", truncate(line, lp.width-1))
}

// SetEnabled enables or disables live progress
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// truncate truncates a string to fit width
func truncate(s string, width int) string {
	if width < 4 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}

// maxTreeFiles is the number of files shown per directory
const maxTreeFiles = 5

// PrintTree prints cache files grouped by category, then by directory
func PrintTree(w io.Writer, r *report.ScanReport) {
	byCategory := make(map[rules.Category][]report.MatchedFile)
	for _, f := range r.Files {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	for _, c := range rules.Categories() {
		files := byCategory[c]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n╭─ %s (%s)\n", styles.RenderCategory(c), styles.RenderSize(r.Stats(c).Bytes))

		// Group by parent directory, keeping first-seen order
		var dirs []string
		byDir := make(map[string][]report.MatchedFile)
		for _, f := range files {
			dir := filepath.Dir(f.Path)
			if _, ok := byDir[dir]; !ok {
				dirs = append(dirs, dir)
			}
			byDir[dir] = append(byDir[dir], f)
		}

		for i, dir := range dirs {
			dirFiles := byDir[dir]
			isLastDir := i == len(dirs)-1

			connector, indent := "├", "│   "
			if isLastDir {
				connector, indent = "╰", "    "
			}

			var dirSize int64
			for _, f := range dirFiles {
				dirSize += f.Size
			}
			fmt.Fprintf(w, "%s── %s (%s)\n", connector, styles.FilePathStyle.Render(dir), utils.FormatBytes(dirSize))

			shown := len(dirFiles)
			if shown > maxTreeFiles {
				shown = maxTreeFiles
			}
			for j := 0; j < shown; j++ {
				fileConnector := "├"
				if j == shown-1 && len(dirFiles) <= maxTreeFiles {
					fileConnector = "╰"
				}
				f := dirFiles[j]
				fmt.Fprintf(w, "%s%s── %s (%s)\n", indent, fileConnector, f.Name, utils.FormatBytes(f.Size))
			}
			if len(dirFiles) > maxTreeFiles {
				fmt.Fprintf(w, "%s╰── ... and %d more files\n", indent, len(dirFiles)-maxTreeFiles)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d items | %s\n", r.TotalMatched, styles.RenderSize(r.TotalBytes))
}
