// Package scanner walks a directory tree with a bounded pool of listing
// workers and classifies every non-directory entry it finds.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/logger"
	"github.com/fenilsonani/cachesweep/internal/platform"
	"github.com/fenilsonani/cachesweep/internal/progress"
)

// Scanner traverses directory trees. A Scanner holds configuration only and
// may run several scans concurrently.
type Scanner struct {
	classifier  *classifier.Classifier
	concurrency int
	excludes    []string
	counter     *progress.Counter
	log         *zerolog.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithConcurrency sets the number of listing workers. Values below one
// select platform.DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		s.concurrency = n
	}
}

// WithExcludes skips entries whose name matches one of the globs. Matching
// directories are not descended into.
func WithExcludes(patterns []string) Option {
	return func(s *Scanner) {
		s.excludes = append(s.excludes, patterns...)
	}
}

// WithCounter attaches a progress counter that is updated as entries are
// emitted
func WithCounter(c *progress.Counter) Option {
	return func(s *Scanner) {
		s.counter = c
	}
}

// WithLogger overrides the global logger
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Scanner) {
		s.log = l
	}
}

// New creates a Scanner. A nil classifier uses the default rules.
func New(c *classifier.Classifier, opts ...Option) *Scanner {
	if c == nil {
		c = classifier.New(nil)
	}
	s := &Scanner{classifier: c}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = platform.DefaultConcurrency()
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Concurrency returns the number of listing workers
func (s *Scanner) Concurrency() int {
	return s.concurrency
}

// Scan starts traversing root and returns a stream of classified entries.
// It fails only when root does not exist or is not a directory; every other
// read failure is recorded on the stream and skipped.
//
// Entries are emitted in scheduling order, which varies between runs and
// concurrency settings. Cancelling ctx stops dispatching queued directories;
// listings already in progress finish and their entries are still emitted.
func (s *Scanner) Scan(ctx context.Context, root string) (*Stream, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, abs)
		}
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, abs)
	}

	st := newStream(abs)
	q := newDirQueue()

	s.log.Info().
		Str("root", abs).
		Int("concurrency", s.concurrency).
		Msg("scan started")

	if ctx.Err() != nil {
		st.truncated.Store(true)
		s.finish(st)
		return st, nil
	}

	q.push(abs)

	var g errgroup.Group
	for i := 0; i < s.concurrency; i++ {
		g.Go(func() error {
			s.work(st, q)
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if q.close() > 0 {
				st.truncated.Store(true)
			}
		case <-finished:
		}
	}()

	go func() {
		g.Wait()
		close(finished)
		s.finish(st)
	}()

	return st, nil
}

func (s *Scanner) finish(st *Stream) {
	s.counter.Finish()
	st.finish()

	s.log.Info().
		Str("root", st.Root).
		Int64("entries", st.Visited()).
		Int64("dirs", st.Dirs()).
		Int("errors", len(st.Errors())).
		Bool("truncated", st.Truncated()).
		Dur("duration", st.Duration()).
		Msg("scan finished")
}

// work lists directories until the queue is drained or closed
func (s *Scanner) work(st *Stream, q *dirQueue) {
	for {
		dir, ok := q.pop()
		if !ok {
			return
		}
		s.list(st, q, dir)
		q.done()
	}
}

// list reads one directory, queues its subdirectories and emits everything
// else. Symlinks are never followed.
func (s *Scanner) list(st *Stream, q *dirQueue, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		st.addError(&EntryError{Path: dir, Op: "readdir", Err: err})
		s.log.Warn().Err(err).Str("path", dir).Msg("skipping unreadable directory")
		// ReadDir may still return the entries read before the failure
	}

	if err == nil || len(entries) > 0 {
		st.dirs.Add(1)
		s.counter.AddDir()
	}
	s.log.Debug().Str("path", dir).Int("entries", len(entries)).Msg("listed directory")

	for _, de := range entries {
		name := de.Name()
		if s.excluded(name) {
			continue
		}
		path := filepath.Join(dir, name)

		// DirEntry types come from lstat, so a symlink to a directory is
		// not a directory here
		if de.IsDir() {
			if !q.push(path) {
				st.truncated.Store(true)
			}
			continue
		}

		info, err := de.Info()
		if err != nil {
			st.addError(&EntryError{Path: path, Op: "lstat", Err: err})
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			continue
		}

		entry := classifier.NewEntry(st.Root, path, info)
		r := Result{Entry: entry}
		if rule, ok := s.classifier.Explain(entry); ok {
			r.Matched = true
			r.Category = rule.Category
			r.Rule = rule.Name
		}

		s.counter.AddEntry(r.Matched, entry.Size)
		st.emit(r)
	}
}

func (s *Scanner) excluded(name string) bool {
	if len(s.excludes) == 0 {
		return false
	}
	lower := strings.ToLower(name)
	for _, pattern := range s.excludes {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(strings.ToLower(pattern), lower); ok {
			return true
		}
	}
	return false
}
