package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/marvelx/internal/tasks"
)

// FavoriteAdd fetches a character from the web and saves it.
func (r *Runner) FavoriteAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd.StringArg("id"), "id")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	fetched, saved := repo.GetCharacter(ctx, id)
	if !fetched.Succeeded() {
		return fmt.Errorf("failed to get character %s: %w", id, fetched.Err())
	}
	if saved {
		return r.writePlain("✓ %s is already saved\n", fetched.Value().Name)
	}

	res := repo.SaveCharacter(ctx, fetched.Value())
	if !res.Succeeded() {
		return fmt.Errorf("failed to save character %s: %w", id, res.Err())
	}
	return r.writePlain("★ Saved %s [%s]\n", res.Value().Name, res.Value().ID)
}

// FavoriteRemove removes a saved character. Removing an id that is not saved succeeds.
func (r *Runner) FavoriteRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd.StringArg("id"), "id")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	res := repo.DeleteCharacterByID(ctx, id)
	if !res.Succeeded() {
		return fmt.Errorf("failed to remove character %s: %w", id, res.Err())
	}
	return r.writePlain("☆ Removed %s\n", res.Value())
}

// FavoriteToggle flips the saved state of a character through the detail view model.
func (r *Runner) FavoriteToggle(ctx context.Context, cmd *cli.Command) error {
	return r.showDetail(ctx, cmd.StringArg("id"), true)
}

// FavoriteImport fetches and saves every id from the arguments and --file concurrently.
func (r *Runner) FavoriteImport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if path := cmd.String("file"); path != "" {
		fromFile, err := readIDs(path)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCharacters:
				r.writePlain("📥 %s\n", update.Message)
			default:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	importer := tasks.NewImporter(repo, r.logger)
	summary, err := importer.Import(ctx, progressCh, ids, tasks.ImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  float64(cmd.Int("rate")),
	})
	close(progressCh)
	<-done

	if summary == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Saved: %d/%d\n", summary.Successful, len(summary.Results))
	for _, res := range summary.Results {
		if res.Error != nil {
			r.writePlain("  ✗ %s: %v\n", res.ID, res.Error)
		}
	}

	if err != nil {
		return err
	}
	if summary.Successful == 0 {
		return fmt.Errorf("no characters imported: %w", summary.Results[0].Error)
	}
	return nil
}

// readIDs returns the non-empty, non-comment lines of the file at path.
func readIDs(path string) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open id file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var ids []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read id file: %w", err)
	}
	return ids, nil
}
