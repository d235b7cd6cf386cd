package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Watch prints the saved list, or a single saved character when an id is given, each time it changes.
// It returns when ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}

	if id := cmd.StringArg("id"); id != "" {
		for res := range repo.ObserveSavedCharacter(ctx, id) {
			r.writeWatched(res.Err(), func() error { return r.writeCharacter(res.Value(), true) })
		}
		return nil
	}

	for res := range repo.ObserveSavedCharacters(ctx) {
		r.writeWatched(res.Err(), func() error { return r.writeCharacters("Saved Characters", res.Value()) })
	}
	return nil
}

// writeWatched prints one emission of an observed stream. Errors are shown and the stream continues.
func (r *Runner) writeWatched(err error, write func() error) {
	if err != nil {
		r.writePlain("✗ %v\n", err)
		return
	}
	if werr := write(); werr != nil {
		r.logger.Warn("failed to write update", "err", werr)
	}
}
