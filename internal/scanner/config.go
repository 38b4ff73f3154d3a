package scanner

import (
	"fmt"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/config"
)

// FromConfig builds a Scanner from the effective rules, exclusions and
// concurrency of cfg. opts are applied after the config values.
func FromConfig(cfg *config.Config, opts ...Option) (*Scanner, error) {
	if cfg == nil {
		cfg = config.GetDefault()
	}
	set, err := cfg.RuleSet()
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}

	base := []Option{
		WithConcurrency(cfg.Concurrency),
		WithExcludes(cfg.ExcludePatterns),
	}
	return New(classifier.New(set), append(base, opts...)...), nil
}
