package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/logger"
	"github.com/fenilsonani/cachesweep/internal/rules"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "cachesweep",
		Short: "Find and remove cache files",
		Long: `cachesweep walks a directory tree, classifies every file it finds into
cache categories (browser, system, application, log, temporary, backup)
and can delete what it found.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", "", "dotenv file to load (default .env)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newDetectCmd(g))
	root.AddCommand(newRulesCmd(g))
	root.AddCommand(newConfigCmd(g))

	return root
}

// loadConfig applies defaults, the config file, the environment and then
// the flags that were set explicitly
func loadConfig(cmd *cobra.Command, g *globalOptions) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var envFiles []string
	if g.envFile != "" {
		envFiles = append(envFiles, g.envFile)
	}
	if err := cfg.ApplyEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = g.verbose
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	return cfg, nil
}

// initLogger starts logging to stderr at the configured level
func initLogger(cfg *config.Config) error {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	return logger.Init(level, cfg.LogFile)
}

func newRulesCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the effective detection rules",
		Long:  `Prints every detection rule in the order it is evaluated: categories by priority, rules in declaration order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			set, err := cfg.RuleSet()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %-9s %-28s %-18s %s\n", "CATEGORY", "KIND", "PATTERN", "WITHIN", "NAME")
			for _, c := range rules.Categories() {
				for _, r := range set.RulesFor(c) {
					within := r.Within
					if within == "" {
						within = "-"
					}
					fmt.Fprintf(out, "%-12s %-9s %-28s %-18s %s\n", r.Category, r.Kind, r.Pattern, within, r.Name)
				}
			}
			fmt.Fprintf(out, "\n%d rules\n", set.Len())
			return nil
		},
	}
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display current configuration",
		Long:  `Shows the config file location and the effective configuration after the environment is applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if create {
				path, err := config.EnsureConfigExists()
				if err != nil {
					return fmt.Errorf("failed to create config: %w", err)
				}
				fmt.Fprintf(out, "Config file: %s\n", path)
				return nil
			}

			path := g.configPath
			if path == "" {
				var err error
				if path, err = config.GetConfigPath(); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Config file: %s\n", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "Config file does not exist. Using default configuration.")
				fmt.Fprintln(out, "Run 'cachesweep config --init' to create one.")
			}

			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(out, "\n%s", data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "init", false, "write an example config file if none exists")
	return cmd
}
