package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/cachesweep/internal/cleaner"
	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/logger"
	"github.com/fenilsonani/cachesweep/internal/platform"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/reporter"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/ui"
)

type detectOptions struct {
	list        bool
	tree        bool
	yes         bool
	dryRun      bool
	categories  []string
	output      string
	file        string
	manifest    string
	userCache   bool
	sort        bool
	concurrency int
	interactive bool
}

func newDetectCmd(g *globalOptions) *cobra.Command {
	o := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "Scan a directory for cache files and optionally delete them",
		Long: `Scans path (default: the current directory), prints a summary per cache
category and asks before deleting anything. Use --dry-run to see what would
be deleted and --yes to skip the prompts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if err := o.apply(cmd, cfg); err != nil {
				return err
			}
			if err := initLogger(cfg); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}

			root, err := o.root(args)
			if err != nil {
				return err
			}

			if o.interactive {
				return ui.RunInteractive(cmd.Context(), cfg, root)
			}
			return runDetect(cmd, cfg, o, root)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&o.list, "list", "l", false, "print every matched file")
	f.BoolVar(&o.tree, "tree", false, "print the list grouped by category and directory")
	f.BoolVarP(&o.yes, "yes", "y", false, "delete without asking")
	f.BoolVar(&o.dryRun, "dry-run", false, "show what would be deleted without deleting")
	f.StringSliceVarP(&o.categories, "category", "c", nil, "only delete these categories (repeatable)")
	f.StringVarP(&o.output, "output", "o", "", "output format (summary, table, json, yaml)")
	f.StringVar(&o.file, "file", "", "save the report to file instead of printing it")
	f.StringVar(&o.manifest, "manifest", "", "write a manifest of deleted files")
	f.BoolVar(&o.userCache, "user-cache", false, "scan the user cache directory")
	f.BoolVar(&o.sort, "sort", false, "order listed files by path")
	f.IntVarP(&o.concurrency, "concurrency", "j", 0, "scan workers (0 = twice the logical CPUs)")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "choose categories in an interactive terminal UI")

	return cmd
}

// apply overlays the flags that were set on cfg
func (o *detectOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	return cfg.Validate()
}

// root resolves the directory to scan
func (o *detectOptions) root(args []string) (string, error) {
	if o.userCache {
		if len(args) > 0 {
			return "", fmt.Errorf("--user-cache cannot be combined with a path")
		}
		dir, err := platform.GetUserCacheDir()
		if err != nil {
			return "", fmt.Errorf("failed to find user cache directory: %w", err)
		}
		return dir, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return ".", nil
}

// selected parses --category
func (o *detectOptions) selected() ([]rules.Category, error) {
	var out []rules.Category
	for _, name := range o.categories {
		c, err := rules.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func runDetect(cmd *cobra.Command, cfg *config.Config, o *detectOptions, root string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Get()

	format, err := reporter.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	categories, err := o.selected()
	if err != nil {
		return err
	}

	counter := progress.NewCounter()
	scan, err := ui.NewScanFunc(cfg, root, counter)
	if err != nil {
		return err
	}

	live := ui.NewLiveProgress(os.Stderr, counter)
	if cfg.Verbose {
		// debug logs share stderr with the status line
		live.SetEnabled(false)
	}
	live.Start()
	result, err := scan(ctx)
	live.Finish()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	opts := []reporter.Option{reporter.WithSort(o.sort)}
	if usage, err := platform.DiskUsage(result.Root); err == nil {
		opts = append(opts, reporter.WithDiskUsage(usage))
	} else {
		log.Debug().Err(err).Str("root", result.Root).Msg("disk usage unavailable")
	}
	rptr := reporter.New(out, format, opts...)

	if o.file != "" {
		if err := reporter.SaveToFile(result, o.file, format, opts...); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(out, "Report saved to: %s\n", o.file)
	} else if err := rptr.Report(result); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Structured output on stdout is the whole result
	if o.file == "" && (format == reporter.FormatJSON || format == reporter.FormatYAML) {
		return nil
	}

	files := result.Filter(categories...)
	if len(files) == 0 {
		fmt.Fprintln(out, "\nNo cache files found.")
		return nil
	}

	prompt := ui.NewPrompter(cmd.InOrStdin(), out)

	showList := o.list || o.tree
	if !showList && !o.yes {
		if showList, err = prompt.Confirm("\nshow the full list?"); err != nil {
			return err
		}
	}
	if showList {
		fmt.Fprintln(out)
		if o.tree {
			ui.PrintTree(out, filtered(result, files))
		} else {
			rptr.List(filtered(result, files))
		}
	}

	if !cfg.DryRun && !o.yes {
		ok, err := prompt.Confirm(fmt.Sprintf("\ndelete these cache files? (%d files)", len(files)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}
	}

	c := cleaner.New(cfg)
	res := c.Clean(ctx, files)
	fmt.Fprintln(out)
	rptr.CleanResult(res)

	if o.manifest != "" && !res.DryRun {
		if err := c.SaveManifest(o.manifest); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}
		fmt.Fprintf(out, "Manifest saved to: %s\n", o.manifest)
	}

	return nil
}

// filtered returns a copy of r listing only files
func filtered(r *report.ScanReport, files []report.MatchedFile) *report.ScanReport {
	if len(files) == len(r.Files) {
		return r
	}
	cp := *r
	cp.Files = files
	return &cp
}
