// Package classifier decides whether a filesystem entry is a cache file and
// which category it belongs to.
package classifier

import (
	"strings"

	"github.com/fenilsonani/cachesweep/internal/rules"
)

// Classifier evaluates a rule set against file entries. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	set     *rules.Set
	ordered [][]rules.Rule
}

// New creates a Classifier. A nil set selects rules.Default().
func New(set *rules.Set) *Classifier {
	if set == nil {
		set = rules.Default()
	}
	c := &Classifier{set: set}
	for _, category := range rules.Categories() {
		c.ordered = append(c.ordered, set.RulesFor(category))
	}
	return c
}

// Rules returns the rule set in use
func (c *Classifier) Rules() *rules.Set {
	return c.set
}

// Classify returns the category of e, or false when e is not a cache file.
// Directories are never classified.
func (c *Classifier) Classify(e FileEntry) (rules.Category, bool) {
	r, ok := c.Explain(e)
	if !ok {
		return 0, false
	}
	return r.Category, true
}

// Explain returns the rule that classifies e. Categories are tried in
// priority order and the first satisfied rule wins.
func (c *Classifier) Explain(e FileEntry) (rules.Rule, bool) {
	if e.IsDir {
		return rules.Rule{}, false
	}

	subject := subjectOf(e)
	for _, category := range c.ordered {
		for _, r := range category {
			if r.Match(subject) {
				return r, true
			}
		}
	}
	return rules.Rule{}, false
}

func subjectOf(e FileEntry) rules.Subject {
	dirs := make([]string, len(e.Dirs))
	for i, d := range e.Dirs {
		dirs[i] = strings.ToLower(d)
	}
	return rules.Subject{
		Name: strings.ToLower(e.Name),
		Dirs: dirs,
	}
}
