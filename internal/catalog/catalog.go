package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/datasource"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

// RemoteDataSource is the remote character provider.
type RemoteDataSource interface {
	FetchCharacterList(ctx context.Context) models.Result[[]models.MarvelCharacter]
	FetchCharacterByID(ctx context.Context, id string) models.Result[models.MarvelCharacter]
}

// Searcher is implemented by remote sources that support name search.
type Searcher interface {
	SearchCharacters(ctx context.Context, query string) models.Result[[]models.MarvelCharacter]
}

// Repository mediates between the remote source and the local data source.
//
// A nil remote is allowed; web operations then fail with [shared.ErrServiceUnavailable].
type Repository struct {
	local  *datasource.LocalDataSource
	remote RemoteDataSource
	logger *log.Logger
}

// NewRepository creates a Repository. A nil logger discards output.
func NewRepository(local *datasource.LocalDataSource, remote RemoteDataSource, logger *log.Logger) *Repository {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Repository{
		local:  local,
		remote: remote,
		logger: shared.WithLogger(logger, "component", "catalog"),
	}
}

// HasRemote reports whether web operations are available.
func (r *Repository) HasRemote() bool {
	return r.remote != nil
}

// GetSavedCharacter reads the local store only. Error([shared.ErrNotFound]) when the character is not saved.
func (r *Repository) GetSavedCharacter(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	return r.local.Character(ctx, models.CharacterID(id))
}

// GetCharacterByIDFromWeb bypasses the local store and never persists what it fetches.
func (r *Repository) GetCharacterByIDFromWeb(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	if r.remote == nil {
		return models.Error[models.MarvelCharacter](unavailable())
	}

	res := r.remote.FetchCharacterByID(ctx, id)
	if !res.Succeeded() {
		r.logger.Warn("web fetch failed", "id", id, "err", res.Err())
	}
	return res
}

// GetCharactersFromWeb fetches the first page of characters from the remote source.
func (r *Repository) GetCharactersFromWeb(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	if r.remote == nil {
		return models.Error[[]models.MarvelCharacter](unavailable())
	}

	res := r.remote.FetchCharacterList(ctx)
	if !res.Succeeded() {
		r.logger.Warn("web list failed", "err", res.Err())
	}
	return res
}

// SearchCharactersFromWeb searches the remote source by name prefix.
func (r *Repository) SearchCharactersFromWeb(ctx context.Context, query string) models.Result[[]models.MarvelCharacter] {
	if r.remote == nil {
		return models.Error[[]models.MarvelCharacter](unavailable())
	}

	s, ok := r.remote.(Searcher)
	if !ok {
		return models.Error[[]models.MarvelCharacter](fmt.Errorf("%w: remote search", shared.ErrNotImplemented))
	}
	return s.SearchCharacters(ctx, query)
}

// GetSavedCharacters lists saved characters in save order.
func (r *Repository) GetSavedCharacters(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	return r.local.SavedCharacters(ctx)
}

// FindSavedCharacters lists saved characters whose name starts with prefix.
func (r *Repository) FindSavedCharacters(ctx context.Context, prefix string, limit int) models.Result[[]models.MarvelCharacter] {
	return r.local.FindSaved(ctx, prefix, limit)
}

// IsSaved reports whether id is saved. Storage failures are returned as errors, not as false.
func (r *Repository) IsSaved(ctx context.Context, id string) (bool, error) {
	res := r.GetSavedCharacter(ctx, id)
	switch {
	case res.Succeeded():
		return true, nil
	case errors.Is(res.Err(), shared.ErrNotFound):
		return false, nil
	default:
		return false, res.Err()
	}
}

// SaveCharacter writes c through to the local store. Saving an already saved character overwrites it.
func (r *Repository) SaveCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter] {
	res := r.local.Save(ctx, c)
	if res.Succeeded() {
		r.logger.Debug("character saved", "id", res.Value().ID)
	}
	return res
}

// DeleteCharacter removes c from the local store. Deleting a character that is not saved is a no-op.
func (r *Repository) DeleteCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[string] {
	return r.DeleteCharacterByID(ctx, c.ID)
}

// DeleteCharacterByID is [Repository.DeleteCharacter] for callers holding only an id.
func (r *Repository) DeleteCharacterByID(ctx context.Context, id string) models.Result[string] {
	id = models.CharacterID(id)
	res := r.local.Delete(ctx, id)
	if res.Succeeded() {
		r.logger.Debug("character removed", "id", id)
	}
	return res
}

// UpdateCharacter rewrites a saved character, Error([shared.ErrNotFound]) when it is not saved.
func (r *Repository) UpdateCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter] {
	return r.local.Update(ctx, c)
}

// ObserveSavedCharacters streams the saved list. See [datasource.LocalDataSource.ObserveCharacters].
func (r *Repository) ObserveSavedCharacters(ctx context.Context) <-chan models.Result[[]models.MarvelCharacter] {
	return r.local.ObserveCharacters(ctx)
}

// ObserveSavedCharacter streams one saved character. See [datasource.LocalDataSource.ObserveCharacter].
func (r *Repository) ObserveSavedCharacter(ctx context.Context, id string) <-chan models.Result[models.MarvelCharacter] {
	return r.local.ObserveCharacter(ctx, models.CharacterID(id))
}

// GetCharacter reads the saved copy first and falls back to the web on a miss.
//
// saved reports whether the returned character came from the local store. The web copy is not persisted.
// Storage failures other than not-found are returned as-is without consulting the web.
func (r *Repository) GetCharacter(ctx context.Context, id string) (res models.Result[models.MarvelCharacter], saved bool) {
	local := r.GetSavedCharacter(ctx, id)
	if local.Succeeded() {
		return local, true
	}
	if !errors.Is(local.Err(), shared.ErrNotFound) {
		return local, false
	}

	return r.GetCharacterByIDFromWeb(ctx, id), false
}

func unavailable() error {
	return fmt.Errorf("%w: no remote source configured (set marvel public_key and private_key)", shared.ErrServiceUnavailable)
}
