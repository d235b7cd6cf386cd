package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// Catalog is the part of the character repository the importer needs.
type Catalog interface {
	GetCharacterByIDFromWeb(ctx context.Context, id string) models.Result[models.MarvelCharacter]
	SaveCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter]
	GetSavedCharacters(ctx context.Context) models.Result[[]models.MarvelCharacter]
}

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	NumWorkers int     // Concurrent fetches (default: 5, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// ImportResult records the outcome for one requested id.
type ImportResult struct {
	ID        string
	Character *models.MarvelCharacter
	Error     error
}

// ImportSummary contains the outcome of a bulk import, in request order.
type ImportSummary struct {
	Results    []ImportResult
	Successful int
	Failed     int
}

// Importer copies characters between the Marvel API and the local store.
type Importer struct {
	catalog Catalog
	logger  *log.Logger
}

// NewImporter creates an Importer over catalog. A nil logger discards output.
func NewImporter(catalog Catalog, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Importer{catalog: catalog, logger: shared.WithLogger(logger, "component", "tasks")}
}

// sendProgress sends a progress update through the channel without blocking.
func (im *Importer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import fetches every id from the web and saves it locally.
//
// Blank and duplicate ids are skipped. A failure for one id is recorded in its [ImportResult]
// and the rest continue. Cancelling ctx stops outstanding fetches and returns ctx.Err()
// alongside the partial summary.
func (im *Importer) Import(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts ImportOpts) (*ImportSummary, error) {
	if im.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no character ids given", shared.ErrMissingArgument)
	}

	total := len(ids)
	summary := &ImportSummary{Results: make([]ImportResult, total)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	im.sendProgress(progress, startImportUpdate(total))

	var (
		mu        sync.Mutex
		completed int
	)

	g := new(errgroup.Group)
	g.SetLimit(opts.NumWorkers)

	for i, id := range ids {
		if ctx.Err() != nil {
			summary.Results[i] = ImportResult{ID: id, Error: ctx.Err()}
			continue
		}

		g.Go(func() error {
			res := im.importOne(ctx, limiter, id)

			mu.Lock()
			defer mu.Unlock()

			summary.Results[i] = res
			completed++
			if res.Error != nil {
				im.sendProgress(progress, importFailedUpdate(completed, total, id, res.Error))
			} else {
				im.sendProgress(progress, importedUpdate(completed, total, *res.Character))
			}
			return nil
		})
	}
	g.Wait()

	for _, r := range summary.Results {
		if r.Error != nil {
			summary.Failed++
		} else {
			summary.Successful++
		}
	}

	im.logger.Info("import finished", "total", total, "saved", summary.Successful, "failed", summary.Failed)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (im *Importer) importOne(ctx context.Context, limiter *rate.Limiter, id string) ImportResult {
	if err := limiter.Wait(ctx); err != nil {
		return ImportResult{ID: id, Error: err}
	}

	fetched := im.catalog.GetCharacterByIDFromWeb(ctx, id)
	if !fetched.Succeeded() {
		im.logger.Debug("fetch failed", "id", id, "err", fetched.Err())
		return ImportResult{ID: id, Error: fetched.Err()}
	}

	saved := im.catalog.SaveCharacter(ctx, fetched.Value())
	if !saved.Succeeded() {
		im.logger.Warn("save failed", "id", id, "err", saved.Err())
		return ImportResult{ID: id, Error: saved.Err()}
	}

	c := saved.Value()
	return ImportResult{ID: id, Character: &c}
}

// Export writes all saved characters to w in format and returns how many were written.
func (im *Importer) Export(ctx context.Context, progress chan<- ProgressUpdate, w io.Writer, format formatter.Format) (int, error) {
	if im.catalog == nil {
		return 0, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	im.sendProgress(progress, readSavedUpdate())

	saved := im.catalog.GetSavedCharacters(ctx)
	if !saved.Succeeded() {
		return 0, fmt.Errorf("failed to read saved characters: %w", saved.Err())
	}
	characters := saved.Value()

	im.sendProgress(progress, writeExportUpdate(len(characters), string(format)))

	if err := formatter.Export(w, characters, format); err != nil {
		return 0, err
	}
	return len(characters), nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
