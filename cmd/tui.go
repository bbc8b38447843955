package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive image grid.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	s, err := r.openWorkspace(false)
	if err != nil {
		return err
	}
	defer s.Close()

	model := ui.NewModel(ctx, s.ws, ui.Options{
		Path:          cmd.StringArg("path"),
		CellWidth:     r.config.UI.CellWidth,
		StatusTimeout: r.config.UI.StatusDuration(),
		Logger:        shared.WithLogger(fileLogger, "component", "ui"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
