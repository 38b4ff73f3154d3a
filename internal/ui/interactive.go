package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/scanner"
	"github.com/fenilsonani/cachesweep/internal/ui/models"
)

// NewScanFunc returns a function that scans root with the settings of cfg
// and aggregates the stream into a report
func NewScanFunc(cfg *config.Config, root string, counter *progress.Counter) (models.ScanFunc, error) {
	s, err := scanner.FromConfig(cfg, scanner.WithCounter(counter))
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) (*report.ScanReport, error) {
		st, err := s.Scan(ctx, root)
		if err != nil {
			return nil, err
		}
		return report.Aggregate(st), nil
	}, nil
}

// RunInteractive starts the interactive TUI mode
func RunInteractive(ctx context.Context, cfg *config.Config, root string) error {
	counter := progress.NewCounter()
	scan, err := NewScanFunc(cfg, root, counter)
	if err != nil {
		return err
	}

	m := models.NewAppModel(ctx, cfg, scan, counter)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	return nil
}
