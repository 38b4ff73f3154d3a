package scanner

import "sync"

// dirQueue is the pending-directory work list shared by the listing workers.
// pending counts queued plus in-flight directories; the traversal is over
// when it reaches zero.
type dirQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	dirs    []string
	pending int
	closed  bool
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push queues a directory. It returns false once the queue is closed.
func (q *dirQueue) push(dir string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.dirs = append(q.dirs, dir)
	q.pending++
	q.cond.Signal()
	return true
}

// pop blocks until a directory is available. It returns false when the
// traversal is finished or the queue was closed. Every successful pop must be
// paired with done.
func (q *dirQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.dirs) == 0 && q.pending > 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed || len(q.dirs) == 0 {
		return "", false
	}

	// LIFO keeps the frontier small on wide trees
	last := len(q.dirs) - 1
	dir := q.dirs[last]
	q.dirs[last] = ""
	q.dirs = q.dirs[:last]
	return dir, true
}

// done marks a popped directory as fully listed
func (q *dirQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending--
	if q.pending == 0 {
		q.cond.Broadcast()
	}
}

// close stops dispatching. Queued directories are dropped and their count
// returned; in-flight directories still call done.
func (q *dirQueue) close() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}
	q.closed = true
	dropped := len(q.dirs)
	q.pending -= dropped
	q.dirs = nil
	q.cond.Broadcast()
	return dropped
}
