package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/marvelx/internal/server"
)

// Serve runs the characters HTTP API until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	srv := server.NewServer(cfg, server.NewAPI(repo, r.logger), r.logger)
	r.writePlain("Serving on http://%s\n", srv.Addr())
	return srv.Run(ctx)
}
