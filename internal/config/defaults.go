package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Concurrency:     0, // twice the logical CPUs, see platform.DefaultConcurrency
		ExcludePatterns: []string{},
		ProtectedPaths:  []string{
			// System directories are always protected; add your own here
		},
		DryRun:             false,
		Verbose:            false,
		LogLevel:           "info",
		Output:             OutputSummary,
		DeleteWorkers:      4,
		DeleteRetries:      2,
		DisabledCategories: []string{},
	}
}

// GetExampleConfig returns a commented configuration file with the defaults
func GetExampleConfig() string {
	return `# cachesweep configuration
# Location: ~/.config/cachesweep/config.yaml

# ==============================================================================
# SCANNING
# ==============================================================================

# Number of directory listing workers (0 = twice the logical CPUs)
concurrency: 0

# Entry names to skip; matching directories are not descended
exclude_patterns: []
#  - ".git"
#  - "node_modules"

# ==============================================================================
# CATEGORIES AND RULES
# ==============================================================================
# Categories: Browser, System, Application, Log, Temporary, Backup, Other
# Earlier categories win when several match the same file.

# Categories whose rules are switched off
disabled_categories: []
#  - Backup

# Extra rules appended after the built-in rules of their category.
# kind: suffix | glob | marker | fragment
rules: []
#  - category: Application
#    kind: marker
#    pattern: ".gradle"
#  - category: Temporary
#    kind: glob
#    pattern: "*.partial"

# ==============================================================================
# DELETION
# ==============================================================================

# Only report what would be deleted
dry_run: false

# Paths that are never deleted, in addition to the system directories
protected_paths: []

# Parallel deletions and retries for files that are busy
delete_workers: 4
delete_retries: 2

# ==============================================================================
# OUTPUT AND LOGGING
# ==============================================================================

# summary | table | json | yaml
output: summary

verbose: false
log_level: info
# log_file: /tmp/cachesweep.log
`
}
