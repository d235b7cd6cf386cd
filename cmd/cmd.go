package main

import "github.com/urfave/cli/v3"

// newApp builds the root command with every subcommand registered against r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "marvelx",
		Usage:    "Browse Marvel characters and keep a local list of favorites",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, charactersCommand, favoriteCommand, watchCommand, exportCommand, openCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand initializes the database or writes a starter config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database or configuration",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write an example config file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// charactersCommand reads characters from the Marvel API and the local store.
func charactersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "characters",
		Aliases: []string{"chars"},
		Usage:   "Look up Marvel characters",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List characters from the Marvel API",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of characters to print",
					},
				}, outputFlags()...),
				Action: r.CharactersList,
			},
			{
				Name:      "search",
				Usage:     "Search characters whose name starts with the query",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     outputFlags(),
				Action:    r.CharactersSearch,
			},
			{
				Name:      "get",
				Usage:     "Get a character, preferring the saved copy",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     outputFlags(),
				Action:    r.CharactersGet,
			},
			{
				Name:  "saved",
				Usage: "List saved characters",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Only characters whose name starts with this prefix",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of characters to return",
					},
				}, outputFlags()...),
				Action: r.CharactersSaved,
			},
			{
				Name:      "show",
				Usage:     "Show the detail view for a character",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "toggle",
						Usage: "Toggle the favorite state before printing",
					},
				},
				Action: r.CharactersShow,
			},
		},
	}
}

// favoriteCommand saves and removes favorites.
func favoriteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorite",
		Aliases: []string{"fav"},
		Usage:   "Manage saved characters",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Save a character by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoriteAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a saved character by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoriteRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Save the character if unsaved, otherwise remove it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.FavoriteToggle,
			},
			{
				Name:      "import",
				Usage:     "Fetch and save many characters at once",
				ArgsUsage: "[id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "File with one character id per line",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent fetches",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Maximum requests per second",
						Value: 5,
					},
				},
				Action: r.FavoriteImport,
			},
		},
	}
}

// watchCommand streams the saved list, or one saved character, until interrupted.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print saved characters every time they change",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Action:    r.Watch,
	}
}

// exportCommand writes saved characters in one of the supported formats.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export saved characters",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: json, yaml, csv, markdown or txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, - for stdout",
			},
			&cli.BoolFlag{
				Name:  "render",
				Usage: "Style a markdown export for the terminal when writing to stdout",
			},
			&cli.BoolFlag{
				Name:  "images",
				Usage: "Download thumbnails next to a markdown export (output is a directory)",
			},
		},
		Action: r.Export,
	}
}

// openCommand opens a character's thumbnail in the browser.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open a character's thumbnail in the browser",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Action:    r.Open,
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the characters HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind, overrides [server] host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on, overrides [server] port",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for browsing and saving characters.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive character browser",
		Action:  r.TUI,
	}
}
