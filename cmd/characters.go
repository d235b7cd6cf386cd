package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/shared"
	"github.com/desertthunder/marvelx/internal/viewmodels"
)

// CharactersList prints the first page of characters from the Marvel API.
func (r *Runner) CharactersList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}

	res := repo.GetCharactersFromWeb(ctx)
	if !res.Succeeded() {
		return fmt.Errorf("failed to list characters: %w", res.Err())
	}

	characters := res.Value()
	if limit := cmd.Int("limit"); limit > 0 && limit < len(characters) {
		characters = characters[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(characters, cmd.Bool("pretty"))
	}
	return r.writeCharacters("Marvel Characters", characters)
}

// CharactersSearch prints characters whose name starts with the query.
func (r *Runner) CharactersSearch(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd.StringArg("query"), "query")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	res := repo.SearchCharactersFromWeb(ctx, query)
	if !res.Succeeded() {
		return fmt.Errorf("search failed: %w", res.Err())
	}

	if cmd.Bool("json") {
		return r.writeJSON(res.Value(), cmd.Bool("pretty"))
	}
	return r.writeCharacters(fmt.Sprintf("Results for %q", query), res.Value())
}

// CharactersGet prints one character, preferring the saved copy.
func (r *Runner) CharactersGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd.StringArg("id"), "id")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	res, saved := repo.GetCharacter(ctx, id)
	if !res.Succeeded() {
		return fmt.Errorf("failed to get character %s: %w", id, res.Err())
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"character": res.Value(), "saved": saved}, cmd.Bool("pretty"))
	}
	return r.writeCharacter(res.Value(), saved)
}

// CharactersSaved prints saved characters, optionally filtered by name prefix.
func (r *Runner) CharactersSaved(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}

	res := repo.FindSavedCharacters(ctx, cmd.String("name"), cmd.Int("limit"))
	if !res.Succeeded() {
		return fmt.Errorf("failed to read saved characters: %w", res.Err())
	}

	if cmd.Bool("json") {
		return r.writeJSON(res.Value(), cmd.Bool("pretty"))
	}
	return r.writeCharacters("Saved Characters", res.Value())
}

// CharactersShow renders the detail screen for one character and, with --toggle, presses favorite once.
func (r *Runner) CharactersShow(ctx context.Context, cmd *cli.Command) error {
	return r.showDetail(ctx, cmd.StringArg("id"), cmd.Bool("toggle"))
}

func (r *Runner) showDetail(ctx context.Context, id string, toggle bool) error {
	id, err := requireArg(id, "id")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	vm := viewmodels.NewCharacterDetail(ctx, repo, id, r.logger)
	defer vm.Close()

	state := vm.Load()
	if toggle {
		state = vm.OnFavoritePressed()
	}

	if state.Character == nil {
		return fmt.Errorf("failed to load character %s: %s", id, state.Error)
	}
	if err := r.writeCharacter(*state.Character, state.IsSaved); err != nil {
		return err
	}
	if state.Error != "" {
		return fmt.Errorf("%w: %s", shared.ErrStorage, state.Error)
	}
	return nil
}

// Open launches the character's thumbnail in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd.StringArg("id"), "id")
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}

	res, _ := repo.GetCharacter(ctx, id)
	if !res.Succeeded() {
		return fmt.Errorf("failed to get character %s: %w", id, res.Err())
	}

	c := res.Value()
	if !c.HasThumbnail() {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, formatter.ThumbnailAltText(c))
	}

	r.logger.Info("opening thumbnail", "id", c.ID, "url", c.ThumbnailURL)
	if err := r.openURL(c.ThumbnailURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return r.writePlain("Opened %s\n", c.ThumbnailURL)
}
