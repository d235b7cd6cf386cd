package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/marvelx/internal/shared"
	"github.com/desertthunder/marvelx/internal/ui"
)

const defaultTUILog = "./tmp/marvelx-tui.log"

// TUI launches the interactive character browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := r.config.Log.File
	if logPath == "" {
		logPath = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	repo, err := r.repository()
	if err != nil {
		return err
	}
	if !repo.HasRemote() {
		r.logger.Warn("no Marvel API keys configured, browsing is limited to saved characters")
	}

	model := ui.NewModel(ctx, repo, r.logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
