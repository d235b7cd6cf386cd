package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/repositories"
	"github.com/desertthunder/marvelx/internal/shared"
)

// Store is the row-level persistence the data source reads and writes.
//
// Implemented by [repositories.CharacterRepository].
type Store interface {
	Get(ctx context.Context, id string) (*repositories.CharacterRecord, error)
	List(ctx context.Context, criteria map[string]any) ([]*repositories.CharacterRecord, error)
	Insert(ctx context.Context, rec *repositories.CharacterRecord) error
	Update(ctx context.Context, rec *repositories.CharacterRecord) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, id string) (<-chan struct{}, error)
}

// LocalDataSource wraps a [Store] and speaks [models.MarvelCharacter] and [models.Result].
type LocalDataSource struct {
	store  Store
	logger *log.Logger
}

// NewLocalDataSource creates a LocalDataSource over store. A nil logger discards output.
func NewLocalDataSource(store Store, logger *log.Logger) *LocalDataSource {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &LocalDataSource{
		store:  store,
		logger: shared.WithLogger(logger, "component", "datasource"),
	}
}

// ObserveCharacters streams the saved characters, re-emitting after every committed change to the table.
func (d *LocalDataSource) ObserveCharacters(ctx context.Context) <-chan models.Result[[]models.MarvelCharacter] {
	return observe(ctx, d, "", d.SavedCharacters)
}

// ObserveCharacter streams one saved character. While the id is absent the stream carries Error([shared.ErrNotFound]).
// Changes to other ids emit nothing.
func (d *LocalDataSource) ObserveCharacter(ctx context.Context, id string) <-chan models.Result[models.MarvelCharacter] {
	return observe(ctx, d, id, func(ctx context.Context) models.Result[models.MarvelCharacter] {
		return d.Character(ctx, id)
	})
}

// SavedCharacters returns every saved character in save order.
func (d *LocalDataSource) SavedCharacters(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	return d.FindSaved(ctx, "", 0)
}

// FindSaved returns saved characters whose name starts with prefix (case-insensitive), at most limit when limit > 0.
func (d *LocalDataSource) FindSaved(ctx context.Context, prefix string, limit int) models.Result[[]models.MarvelCharacter] {
	return run(ctx, d, "list", func() ([]models.MarvelCharacter, error) {
		records, err := d.store.List(ctx, map[string]any{"name": prefix, "limit": limit})
		if err != nil {
			return nil, err
		}
		characters := make([]models.MarvelCharacter, 0, len(records))
		for _, rec := range records {
			characters = append(characters, rec.Character())
		}
		return characters, nil
	})
}

// Character returns one saved character, Error([shared.ErrNotFound]) when it is not saved.
func (d *LocalDataSource) Character(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	return run(ctx, d, "get", func() (models.MarvelCharacter, error) {
		rec, err := d.store.Get(ctx, id)
		if err != nil {
			return models.MarvelCharacter{}, err
		}
		return rec.Character(), nil
	})
}

// Save writes c, overwriting an existing saved copy.
func (d *LocalDataSource) Save(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter] {
	return run(ctx, d, "save", func() (models.MarvelCharacter, error) {
		rec := repositories.NewCharacterRecord(c)
		if err := d.store.Insert(ctx, rec); err != nil {
			return models.MarvelCharacter{}, err
		}
		return rec.Character(), nil
	})
}

// Update rewrites an existing saved character, Error([shared.ErrNotFound]) when it is not saved.
func (d *LocalDataSource) Update(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter] {
	return run(ctx, d, "update", func() (models.MarvelCharacter, error) {
		rec := repositories.NewCharacterRecord(c)
		if err := d.store.Update(ctx, rec); err != nil {
			return models.MarvelCharacter{}, err
		}
		return rec.Character(), nil
	})
}

// Delete removes a saved character. Removing an id that is not saved succeeds.
func (d *LocalDataSource) Delete(ctx context.Context, id string) models.Result[string] {
	return run(ctx, d, "delete", func() (string, error) {
		return id, d.store.Delete(ctx, id)
	})
}

// run executes fn and converts its outcome, including a panic, into a Result.
func run[T any](ctx context.Context, d *LocalDataSource, op string, fn func() (T, error)) (res models.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("store panicked", "op", op, "panic", r)
			res = models.Error[T](fmt.Errorf("%w: %s: %v", shared.ErrStorage, op, r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return models.Error[T](err)
	}

	v, err := fn()
	if err != nil {
		err = classify(err)
		if errors.Is(err, shared.ErrNotFound) {
			d.logger.Debug("not found", "op", op)
		} else {
			d.logger.Warn("store operation failed", "op", op, "err", err)
		}
		return models.Error[T](err)
	}

	return models.Success(v)
}

// classify keeps recognised error kinds and files everything else under [shared.ErrStorage].
func classify(err error) error {
	for _, known := range []error{
		shared.ErrNotFound,
		shared.ErrStorage,
		shared.ErrStoreClosed,
		shared.ErrInvalidInput,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", shared.ErrStorage, err)
}

// observe subscribes to id before the first read so no commit between the two is missed.
//
// Sends block until the consumer receives; signals arriving meanwhile coalesce, so the next emission
// is always the latest committed state.
func observe[T any](ctx context.Context, d *LocalDataSource, id string, read func(context.Context) models.Result[T]) <-chan models.Result[T] {
	out := make(chan models.Result[T], 1)

	signals := run(ctx, d, "watch", func() (<-chan struct{}, error) {
		return d.store.Watch(ctx, id)
	})
	if !signals.Succeeded() {
		out <- models.Error[T](signals.Err())
		close(out)
		return out
	}

	go func() {
		defer close(out)
		changes := signals.Value()

		for {
			res := read(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- res:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
