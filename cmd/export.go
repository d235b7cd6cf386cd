package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/shared"
	"github.com/desertthunder/marvelx/internal/tasks"
)

// Export writes saved characters to stdout or a file. With --images the output is a markdown directory
// holding README.md and the downloaded thumbnails.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	output := cmd.String("output")

	if cmd.Bool("images") {
		if format != formatter.FormatMarkdown {
			return fmt.Errorf("%w: --images requires --format markdown", shared.ErrInvalidFlag)
		}
		saved := repo.GetSavedCharacters(ctx)
		if !saved.Succeeded() {
			return fmt.Errorf("failed to read saved characters: %w", saved.Err())
		}
		result, err := formatter.WriteMarkdownExport(saved.Value(), output, true)
		if err != nil {
			return err
		}
		r.logger.Info("markdown export written", "dir", result.Directory, "images", len(result.Images))
		return r.writePlain("✓ Exported %d characters to %s (%d images)\n", len(saved.Value()), result.Directory, len(result.Images))
	}

	toFile := output != "" && output != "-"
	render := cmd.Bool("render") && format == formatter.FormatMarkdown && !toFile

	var rendered bytes.Buffer
	var w io.Writer = r.output
	switch {
	case render:
		w = &rendered
	case toFile:
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	progressCh := make(chan tasks.ProgressUpdate, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	count, err := tasks.NewImporter(repo, r.logger).Export(ctx, progressCh, w, format)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	if render {
		out, err := formatter.RenderMarkdown(rendered.String(), 0)
		if err != nil {
			return err
		}
		return r.writePlain("%s", out)
	}
	if toFile {
		return r.writePlain("✓ Exported %d characters to %s\n", count, output)
	}
	return nil
}
