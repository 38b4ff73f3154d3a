package scanner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/rules"
)

// ChannelBufferSize is the buffer size of the result channel
const ChannelBufferSize = 256

// Result is one classified non-directory entry
type Result struct {
	Entry    classifier.FileEntry
	Category rules.Category
	Matched  bool
	Rule     string // name of the rule that matched, empty when unmatched
}

// Stream delivers the results of a running scan. Results must be drained;
// once the channel is closed Errors, Truncated, Visited and Dirs are final.
type Stream struct {
	Root    string
	Started time.Time

	results   chan Result
	done      chan struct{}
	visited   atomic.Int64
	dirs      atomic.Int64
	truncated atomic.Bool

	mu       sync.Mutex
	errors   []*EntryError
	finished time.Time
}

func newStream(root string) *Stream {
	return &Stream{
		Root:    root,
		Started: time.Now(),
		results: make(chan Result, ChannelBufferSize),
		done:    make(chan struct{}),
	}
}

// Results returns the result channel. It is closed when the scan ends.
func (s *Stream) Results() <-chan Result {
	return s.results
}

// Done is closed together with the result channel
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Errors returns the unreadable entries recorded so far
func (s *Stream) Errors() []*EntryError {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*EntryError, len(s.errors))
	copy(out, s.errors)
	return out
}

// Truncated reports whether cancellation dropped pending directories
func (s *Stream) Truncated() bool {
	return s.truncated.Load()
}

// Visited returns the number of entries emitted
func (s *Stream) Visited() int64 {
	return s.visited.Load()
}

// Dirs returns the number of directories listed
func (s *Stream) Dirs() int64 {
	return s.dirs.Load()
}

// Duration returns the scan wall time, or the time elapsed so far
func (s *Stream) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.finished.Sub(s.Started)
}

func (s *Stream) addError(err *EntryError) {
	s.mu.Lock()
	s.errors = append(s.errors, err)
	s.mu.Unlock()
}

func (s *Stream) emit(r Result) {
	s.visited.Add(1)
	s.results <- r
}

func (s *Stream) finish() {
	s.mu.Lock()
	s.finished = time.Now()
	s.mu.Unlock()

	close(s.done)
	close(s.results)
}
