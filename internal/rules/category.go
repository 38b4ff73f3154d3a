package rules

import (
	"fmt"
	"strings"
)

// Category is the kind of cache a matched file belongs to.
// The set is closed; the declaration order is the classification priority.
type Category int

const (
	Browser Category = iota
	System
	Application
	Log
	Temporary
	Backup
	Other

	numCategories int = iota
)

var categoryNames = [numCategories]string{
	Browser:     "Browser",
	System:      "System",
	Application: "Application",
	Log:         "Log",
	Temporary:   "Temporary",
	Backup:      "Backup",
	Other:       "Other",
}

// Categories returns every category in priority order
func Categories() []Category {
	return []Category{Browser, System, Application, Log, Temporary, Backup, Other}
}

// String returns the display name of the category
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories
func (c Category) Valid() bool {
	return c >= 0 && int(c) < numCategories
}

// ParseCategory parses a category name, ignoring case
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler so categories render by
// name in JSON and YAML reports.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
