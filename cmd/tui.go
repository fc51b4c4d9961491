package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tempodl/internal/shared"
	"github.com/desertthunder/tempodl/internal/tasks"
	"github.com/desertthunder/tempodl/internal/ui"
)

const tuiLogPath = "./tmp/tempodl-tui.log"

// useFileLogger redirects logs to a file to avoid interfering with TUI rendering.
func (r *Runner) useFileLogger() error {
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)
	return nil
}

// runTUI shows the interactive download view and prints the summary once it exits.
func (r *Runner) runTUI(ctx context.Context, engine tasks.DownloadEngine, playlistID string) error {
	model := ui.NewModel(ctx, engine, playlistID)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	summary, err := model.Summary()
	if summary != nil {
		r.writeSummary(summary, err)
	}
	return err
}
