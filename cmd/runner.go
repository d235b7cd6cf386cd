package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/catalog"
	"github.com/desertthunder/marvelx/internal/datasource"
	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/repositories"
	"github.com/desertthunder/marvelx/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and repository are opened on first use so that commands which never touch
// the store (setup config, help) work without one.
type Runner struct {
	config     *shared.Config
	configPath string
	remote     catalog.RemoteDataSource
	logger     *log.Logger
	output     io.Writer
	openURL    func(string) error

	db     *sql.DB
	ownsDB bool
	store  *repositories.CharacterRepository
	repo   *catalog.Repository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Remote     catalog.RemoteDataSource // nil when no API keys are configured
	DB         *sql.DB                  // migrated database; opened from Config when nil
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		remote:     opts.Remote,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    opts.OpenURL,
		db:         opts.DB,
	}
}

// SetLogger replaces the logger. Call before the repository is opened for it to take effect there.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// repository opens the database, runs pending migrations and builds the repository once.
func (r *Runner) repository() (*catalog.Repository, error) {
	if r.repo != nil {
		return r.repo, nil
	}

	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.db = db
		r.ownsDB = true
	}

	r.store = repositories.NewCharacterRepository(r.db)
	local := datasource.NewLocalDataSource(r.store, r.logger)
	r.repo = catalog.NewRepository(local, r.remote, r.logger)
	return r.repo, nil
}

// Close releases the store and, when the runner opened it, the database.
func (r *Runner) Close() error {
	if r.store != nil {
		r.store.Close()
	}
	if r.ownsDB && r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeCharacters prints one line per character, or a note when there are none.
func (r *Runner) writeCharacters(title string, cs []models.MarvelCharacter) error {
	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(cs)))
	if len(cs) == 0 {
		return r.writePlain("No characters found.\n")
	}
	for _, c := range cs {
		if err := r.writePlain("%-10s %s\n", c.ID, c.Name); err != nil {
			return err
		}
	}
	return nil
}

// writeCharacter prints the detail block for one character.
func (r *Runner) writeCharacter(c models.MarvelCharacter, saved bool) error {
	mark := "☆ not saved"
	if saved {
		mark = "★ saved"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s\n", c.Name, c.ID, mark)
	fmt.Fprintf(&b, "  %s\n", formatter.DescriptionText(c))
	if c.HasThumbnail() {
		fmt.Fprintf(&b, "  Thumbnail: %s\n", c.ThumbnailURL)
	} else {
		fmt.Fprintf(&b, "  %s\n", formatter.ThumbnailAltText(c))
	}
	return r.writePlain("%s", b.String())
}

// requireArg returns the trimmed value or ErrMissingArgument naming it.
func requireArg(value, name string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return value, nil
}
