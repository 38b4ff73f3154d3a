// Package rules declares the detection rules that decide whether a file is a
// cache artifact and which Category it belongs to.
//
// A Rule looks at three signals: the file name (suffix or glob), the names of
// the directories above the file (marker), and runs of consecutive directory
// names (fragment). Rules are grouped by category and kept in declaration
// order; the classifier evaluates categories in priority order and the first
// satisfied rule wins.
package rules

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind selects which signal a Rule inspects
type Kind string

const (
	// KindSuffix matches when the lower-cased file name ends with Pattern.
	KindSuffix Kind = "suffix"
	// KindGlob matches the lower-cased file name against a path.Match glob.
	KindGlob Kind = "glob"
	// KindMarker matches when any ancestor directory name matches the
	// Pattern glob.
	KindMarker Kind = "marker"
	// KindFragment matches when the slash separated Pattern appears as a
	// contiguous run of ancestor directory names.
	KindFragment Kind = "fragment"
)

// Kinds returns every rule kind
func Kinds() []Kind {
	return []Kind{KindSuffix, KindGlob, KindMarker, KindFragment}
}

// ParseKind parses a rule kind name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown rule kind %q", s)
}

// Subject is the normalized view of a filesystem entry that rules match
// against. All strings are lower-cased.
type Subject struct {
	Name string   // base name of the entry
	Dirs []string // ancestor directory names, outermost first
}

// Rule is a single pattern-to-category mapping.
type Rule struct {
	Name     string   `yaml:"name" json:"name"`
	Category Category `yaml:"category" json:"category"`
	Kind     Kind     `yaml:"kind" json:"kind"`
	Pattern  string   `yaml:"pattern" json:"pattern"`
	// Within is an optional fragment that must also appear among the
	// ancestors, above the directory that satisfied the rule.
	Within string `yaml:"within,omitempty" json:"within,omitempty"`
}

// ErrEmptyPattern is returned by Validate for a rule without a pattern
var ErrEmptyPattern = errors.New("rule pattern is empty")

// Validate checks that the rule can be evaluated
func (r Rule) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("rule %q: invalid category %d", r.Name, int(r.Category))
	}
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("rule %q: %w", r.Name, ErrEmptyPattern)
	}
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	if r.Kind == KindGlob || r.Kind == KindMarker {
		if _, err := path.Match(strings.ToLower(r.Pattern), ""); err != nil {
			return fmt.Errorf("rule %q: invalid glob %q: %w", r.Name, r.Pattern, err)
		}
	}
	return nil
}

// normalize lower-cases the patterns so matching can compare directly
func (r Rule) normalize() Rule {
	r.Kind = Kind(strings.ToLower(string(r.Kind)))
	r.Pattern = strings.ToLower(r.Pattern)
	r.Within = strings.ToLower(strings.Trim(r.Within, "/"))
	if r.Kind == KindFragment {
		r.Pattern = strings.Trim(r.Pattern, "/")
	}
	if r.Name == "" {
		r.Name = fmt.Sprintf("%s-%s", strings.ToLower(r.Category.String()), r.Pattern)
	}
	return r
}

// Match reports whether the rule is satisfied by s.
// Patterns are expected in lower case; Set normalizes rules on insertion.
func (r Rule) Match(s Subject) bool {
	limit, ok := r.matchAt(s)
	if !ok {
		return false
	}
	if r.Within == "" {
		return true
	}
	_, found := lastFragment(s.Dirs[:limit], strings.Split(r.Within, "/"))
	return found
}

// matchAt evaluates the primary pattern and returns how many leading
// ancestors lie above the component that satisfied it.
func (r Rule) matchAt(s Subject) (int, bool) {
	switch r.Kind {
	case KindSuffix:
		return len(s.Dirs), strings.HasSuffix(s.Name, r.Pattern)
	case KindGlob:
		ok, _ := path.Match(r.Pattern, s.Name)
		return len(s.Dirs), ok
	case KindMarker:
		for i := len(s.Dirs) - 1; i >= 0; i-- {
			if ok, _ := path.Match(r.Pattern, s.Dirs[i]); ok {
				return i, true
			}
		}
	case KindFragment:
		return lastFragment(s.Dirs, strings.Split(r.Pattern, "/"))
	}
	return 0, false
}

// lastFragment finds the deepest start index of parts within dirs
func lastFragment(dirs, parts []string) (int, bool) {
	if len(parts) == 0 || len(parts) > len(dirs) {
		return 0, false
	}
outer:
	for i := len(dirs) - len(parts); i >= 0; i-- {
		for j, p := range parts {
			if dirs[i+j] != p {
				continue outer
			}
		}
		return i, true
	}
	return 0, false
}

// Set is an immutable registry of rules grouped by category.
type Set struct {
	byCategory [numCategories][]Rule
}

// NewSet validates and groups rules. Declaration order is preserved within
// each category.
func NewSet(rs ...Rule) (*Set, error) {
	s := &Set{}
	if err := s.add(rs); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNewSet is NewSet for statically known rules
func MustNewSet(rs ...Rule) *Set {
	s, err := NewSet(rs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) add(rs []Rule) error {
	for _, r := range rs {
		if err := r.Validate(); err != nil {
			return err
		}
		r = r.normalize()
		s.byCategory[r.Category] = append(s.byCategory[r.Category], r)
	}
	return nil
}

// RulesFor returns the rules of a category in evaluation order
func (s *Set) RulesFor(c Category) []Rule {
	if !c.Valid() {
		return nil
	}
	out := make([]Rule, len(s.byCategory[c]))
	copy(out, s.byCategory[c])
	return out
}

// All returns every rule, categories in priority order
func (s *Set) All() []Rule {
	var out []Rule
	for _, c := range Categories() {
		out = append(out, s.byCategory[c]...)
	}
	return out
}

// Len returns the number of rules in the set
func (s *Set) Len() int {
	n := 0
	for _, rs := range s.byCategory {
		n += len(rs)
	}
	return n
}

// With returns a new set with extra rules appended after the existing
// rules of their category.
func (s *Set) With(extra ...Rule) (*Set, error) {
	out := s.clone()
	if err := out.add(extra); err != nil {
		return nil, err
	}
	return out, nil
}

// Without returns a new set with every rule of the given categories removed
func (s *Set) Without(categories ...Category) *Set {
	out := s.clone()
	for _, c := range categories {
		if c.Valid() {
			out.byCategory[c] = nil
		}
	}
	return out
}

func (s *Set) clone() *Set {
	out := &Set{}
	for i, rs := range s.byCategory {
		out.byCategory[i] = append([]Rule(nil), rs...)
	}
	return out
}
