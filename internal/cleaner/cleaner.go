package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/logger"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/security"
)

var errCancelled = errors.New("cleanup cancelled")

// DefaultRetryDelays are the pauses between attempts on retryable errors
var DefaultRetryDelays = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// Status is the outcome of one file
type Status int

const (
	StatusDeleted Status = iota
	StatusWouldDelete
	StatusFailed
)

// Outcome records what happened to one input file
type Outcome struct {
	File   report.MatchedFile
	Status Status
	Err    *DeletionError
}

// CleanResult represents the result of a clean operation. Outcomes follow
// the order of the input files.
type CleanResult struct {
	Deleted     []string
	DeletedSize int64
	Skipped     []string
	Errors      []*DeletionError
	Outcomes    []Outcome
	DryRun      bool
}

// Cleaner handles file deletion with safeguards
type Cleaner struct {
	fs          afero.Fs
	validator   *security.PathValidator
	dryRun      bool
	workers     int
	retries     int
	retryDelays []time.Duration
	manifest    *DeletionManifest
	onProgress  progress.Callback
	log         *zerolog.Logger
}

// Option configures a Cleaner
type Option func(*Cleaner)

// WithFs replaces the operating system filesystem
func WithFs(fs afero.Fs) Option {
	return func(c *Cleaner) {
		c.fs = fs
	}
}

// WithValidator replaces the path validator built from the config
func WithValidator(v *security.PathValidator) Option {
	return func(c *Cleaner) {
		c.validator = v
	}
}

// WithProgress registers a callback invoked after every file
func WithProgress(cb progress.Callback) Option {
	return func(c *Cleaner) {
		c.onProgress = cb
	}
}

// WithRetryDelays overrides DefaultRetryDelays
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Cleaner) {
		c.retryDelays = delays
	}
}

// WithLogger overrides the global logger
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Cleaner) {
		c.log = l
	}
}

// New creates a new Cleaner
func New(cfg *config.Config, opts ...Option) *Cleaner {
	if cfg == nil {
		cfg = config.GetDefault()
	}
	c := &Cleaner{
		fs:          afero.NewOsFs(),
		dryRun:      cfg.DryRun,
		workers:     cfg.DeleteWorkers,
		retries:     cfg.DeleteRetries,
		retryDelays: DefaultRetryDelays,
		manifest:    NewDeletionManifest(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = security.NewPathValidator(cfg.ProtectedPaths...)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	return c
}

// Clean deletes files. A failure on one file never stops the others; when
// ctx is cancelled the files not yet attempted fail with ErrorCancelled.
func (c *Cleaner) Clean(ctx context.Context, files []report.MatchedFile) *CleanResult {
	outcomes := make([]Outcome, len(files))

	var (
		mu    sync.Mutex
		done  int
		bytes int64
	)
	record := func(i int, o Outcome) {
		outcomes[i] = o
		mu.Lock()
		defer mu.Unlock()
		done++
		if o.Status != StatusFailed {
			bytes += o.File.Size
		}
		if c.onProgress != nil {
			c.onProgress(done, len(files), bytes)
		}
	}

	process := func(i int) {
		f := files[i]
		if ctx.Err() != nil {
			record(i, Outcome{File: f, Status: StatusFailed, Err: CategorizeError(f.Path, errCancelled)})
			return
		}
		record(i, c.cleanOne(f))
	}

	if c.workers > 1 && len(files) > 1 {
		c.runPooled(len(files), process)
	} else {
		for i := range files {
			process(i)
		}
	}

	result := &CleanResult{Outcomes: outcomes, DryRun: c.dryRun}
	for _, o := range outcomes {
		switch o.Status {
		case StatusFailed:
			result.Skipped = append(result.Skipped, o.File.Path)
			result.Errors = append(result.Errors, o.Err)
			c.log.Warn().Err(o.Err.Original).
				Str("path", o.File.Path).
				Str("reason", o.Err.Reason.String()).
				Msg("file not deleted")
		default:
			result.Deleted = append(result.Deleted, o.File.Path)
			result.DeletedSize += o.File.Size
		}
	}

	c.log.Info().
		Int("deleted", len(result.Deleted)).
		Int64("bytes", result.DeletedSize).
		Int("failed", len(result.Errors)).
		Bool("dry_run", c.dryRun).
		Msg("cleanup finished")

	return result
}

// runPooled runs process for every index on a bounded ants pool
func (c *Cleaner) runPooled(n int, process func(int)) {
	pool, err := ants.NewPool(c.workers)
	if err != nil {
		c.log.Warn().Err(err).Msg("worker pool unavailable, deleting sequentially")
		for i := 0; i < n; i++ {
			process(i)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		idx := i
		if err := pool.Submit(func() {
			defer wg.Done()
			process(idx)
		}); err != nil {
			wg.Done()
			process(idx)
		}
	}
	wg.Wait()
}

// cleanOne validates and removes one file, retrying transient failures
func (c *Cleaner) cleanOne(f report.MatchedFile) Outcome {
	if err := c.validator.ValidatePathForDeletion(f.Path); err != nil {
		return failed(f, err)
	}

	if c.dryRun {
		return Outcome{File: f, Status: StatusWouldDelete}
	}

	var lastErr *DeletionError
	for attempt := 0; attempt <= c.retries; attempt++ {
		lastErr = c.remove(f)
		if lastErr == nil {
			c.manifest.Add(f.Path, f.Size, f.Category)
			return Outcome{File: f, Status: StatusDeleted}
		}
		if !lastErr.Retryable || attempt == c.retries {
			break
		}
		time.Sleep(c.retryDelay(attempt))
	}
	return Outcome{File: f, Status: StatusFailed, Err: lastErr}
}

func (c *Cleaner) retryDelay(attempt int) time.Duration {
	if len(c.retryDelays) == 0 {
		return 0
	}
	if attempt >= len(c.retryDelays) {
		return c.retryDelays[len(c.retryDelays)-1]
	}
	return c.retryDelays[attempt]
}

// remove re-checks the entry type without following links and deletes it
func (c *Cleaner) remove(f report.MatchedFile) *DeletionError {
	info, err := c.lstat(f.Path)
	if err != nil {
		return CategorizeError(f.Path, err)
	}

	isLink := info.Mode()&os.ModeSymlink != 0
	switch {
	case info.IsDir():
		return &DeletionError{Path: f.Path, Reason: ErrorIsDirectory,
			Original: fmt.Errorf("%w: now a directory", ErrEntryChanged)}
	case isLink && !f.IsSymlink:
		return CategorizeError(f.Path, fmt.Errorf("%w: now a symlink", ErrEntryChanged))
	}

	if err := c.fs.Remove(f.Path); err != nil {
		return CategorizeError(f.Path, err)
	}
	return nil
}

func (c *Cleaner) lstat(path string) (os.FileInfo, error) {
	if l, ok := c.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return c.fs.Stat(path)
}

func failed(f report.MatchedFile, err error) Outcome {
	return Outcome{File: f, Status: StatusFailed, Err: CategorizeError(f.Path, err)}
}

// DryRun reports whether the cleaner only simulates deletion
func (c *Cleaner) DryRun() bool {
	return c.dryRun
}

// GetManifest returns the deletion manifest
func (c *Cleaner) GetManifest() *DeletionManifest {
	return c.manifest
}

// SaveManifest writes the deletion manifest to path
func (c *Cleaner) SaveManifest(path string) error {
	file, err := c.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer file.Close()

	if _, err := c.manifest.WriteTo(file); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// DeletionManifest keeps track of deleted files
type DeletionManifest struct {
	mu        sync.Mutex
	Files     []DeletedFileInfo
	Timestamp time.Time
	TotalSize int64
}

// DeletedFileInfo represents information about a deleted file
type DeletedFileInfo struct {
	Path      string
	Size      int64
	Category  rules.Category
	DeletedAt time.Time
}

// NewDeletionManifest creates a new DeletionManifest
func NewDeletionManifest() *DeletionManifest {
	return &DeletionManifest{
		Files:     []DeletedFileInfo{},
		Timestamp: time.Now(),
	}
}

// Add adds a file to the manifest
func (m *DeletionManifest) Add(path string, size int64, category rules.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Files = append(m.Files, DeletedFileInfo{
		Path:      path,
		Size:      size,
		Category:  category,
		DeletedAt: time.Now(),
	})
	m.TotalSize += size
}

// Len returns the number of recorded files
func (m *DeletionManifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}

// WriteTo writes the manifest in its text form
func (m *DeletionManifest) WriteTo(w io.Writer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cw := &countingWriter{w: w}
	fmt.Fprintf(cw, "Deletion Manifest\n")
	fmt.Fprintf(cw, "Created: %s\n", m.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(cw, "Total Size: %d bytes\n", m.TotalSize)
	fmt.Fprintf(cw, "Total Files: %d\n\n", len(m.Files))

	for _, f := range m.Files {
		fmt.Fprintf(cw, "%s | %d bytes | %s | %s\n",
			f.Path, f.Size, f.Category, f.DeletedAt.Format(time.RFC3339))
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
