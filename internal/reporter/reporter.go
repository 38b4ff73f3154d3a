package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/cachesweep/internal/cleaner"
	"github.com/fenilsonani/cachesweep/internal/platform"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat parses a format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

const ruleWidth = 100

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	sorted bool
	disk   *platform.Usage
}

// Option configures a Reporter
type Option func(*Reporter)

// WithSort lists files ordered by path instead of emission order
func WithSort(sorted bool) Option {
	return func(r *Reporter) {
		r.sorted = sorted
	}
}

// WithDiskUsage adds the usage of the scanned volume to the summary
func WithDiskUsage(u *platform.Usage) Option {
	return func(r *Reporter) {
		r.disk = u
	}
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat, opts ...Option) *Reporter {
	r := &Reporter{
		writer: writer,
		format: format,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report renders a scan report in the configured format
func (r *Reporter) Report(result *report.ScanReport) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) files(result *report.ScanReport) []report.MatchedFile {
	if !r.sorted {
		return result.Files
	}
	files := append([]report.MatchedFile(nil), result.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// reportSummary prints totals and the per-category breakdown
func (r *Reporter) reportSummary(result *report.ScanReport) error {
	fmt.Fprintf(r.writer, "=== Cache Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Root: %s\n", result.Root)
	fmt.Fprintf(r.writer, "Scanned: %d files in %s\n", result.TotalScanned, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(r.writer, "Cache Files: %d (%s)\n", result.TotalMatched, utils.FormatBytes(result.TotalBytes))
	fmt.Fprintf(r.writer, "\nBreakdown by Category:\n")

	for _, c := range rules.Categories() {
		s := result.Stats(c)
		fmt.Fprintf(r.writer, "  %-12s %8d files  %12s\n", c, s.Count, utils.FormatBytes(s.Bytes))
	}

	if n := result.Skipped(); n > 0 {
		fmt.Fprintf(r.writer, "\nSkipped: %d unreadable entries\n", n)
	}
	if result.Truncated {
		fmt.Fprintf(r.writer, "\nScan was cancelled before finishing; totals are partial\n")
	}
	if r.disk != nil {
		fmt.Fprintf(r.writer, "\nDisk: %s free of %s (%.1f%% used)\n",
			utils.FormatBytes(int64(r.disk.Free)), utils.FormatBytes(int64(r.disk.Total)), r.disk.UsedPercent)
	}

	return nil
}

// reportTable prints one row per cache file
func (r *Reporter) reportTable(result *report.ScanReport) error {
	fmt.Fprintf(r.writer, "%-60s | %-12s | %-11s | %s\n", "Path", "Size", "Category", "Modified")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", ruleWidth))

	for _, file := range r.files(result) {
		fmt.Fprintf(r.writer, "%-60s | %-12s | %-11s | %s\n",
			truncatePath(file.Path, 60),
			utils.FormatBytes(file.Size),
			file.Category,
			file.ModTime.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(r.writer, "Total: %d files, %s\n", result.TotalMatched, utils.FormatBytes(result.TotalBytes))

	return nil
}

// document is the JSON and YAML shape of a report
type document struct {
	Timestamp          string `json:"timestamp" yaml:"timestamp"`
	TotalSizeFormatted string `json:"total_size_formatted" yaml:"total_size_formatted"`
	report.ScanReport  `yaml:",inline"`
}

func (r *Reporter) document(result *report.ScanReport) document {
	doc := document{
		Timestamp:          time.Now().Format(time.RFC3339),
		TotalSizeFormatted: utils.FormatBytes(result.TotalBytes),
		ScanReport:         *result,
	}
	doc.Files = r.files(result)
	return doc
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(result *report.ScanReport) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.document(result))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(result *report.ScanReport) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(r.document(result))
}

// List prints every cache file with its category
func (r *Reporter) List(result *report.ScanReport) {
	for _, file := range r.files(result) {
		fmt.Fprintf(r.writer, "  [%s] %s (%s)\n", file.Category, file.Path, utils.FormatBytes(file.Size))
	}
}

// CleanResult prints one line per file followed by the totals
func (r *Reporter) CleanResult(result *cleaner.CleanResult) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case cleaner.StatusDeleted:
			fmt.Fprintf(r.writer, "[OK] Deleted %s\n", o.File.Path)
		case cleaner.StatusWouldDelete:
			fmt.Fprintf(r.writer, "[DRY RUN] Would delete %s\n", o.File.Path)
		case cleaner.StatusFailed:
			fmt.Fprintf(r.writer, "[Failed] %s\n", o.Err.UserMessage())
		}
	}

	verb := "Deleted"
	if result.DryRun {
		verb = "Would delete"
	}
	fmt.Fprintf(r.writer, "\n%s %d files (%s)", verb, len(result.Deleted), utils.FormatBytes(result.DeletedSize))
	if n := len(result.Errors); n > 0 {
		fmt.Fprintf(r.writer, ", %d failed", n)
	}
	fmt.Fprintln(r.writer)
	if summary := cleaner.FormatErrorSummary(result.Errors); summary != "" {
		fmt.Fprint(r.writer, summary)
	}
}

func truncatePath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-(width-3):]
}

// SaveToFile saves the report to a file
func SaveToFile(result *report.ScanReport, path string, format OutputFormat, opts ...Option) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format, opts...)
	if err := reporter.Report(result); err != nil {
		return err
	}
	return file.Close()
}
