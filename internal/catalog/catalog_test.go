package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/marvelx/internal/datasource"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/repositories"
	"github.com/desertthunder/marvelx/internal/shared"
	th "github.com/desertthunder/marvelx/internal/testing"
)

var (
	spiderMan = models.MarvelCharacter{ID: "1", Name: "Spider-Man"}
	storm     = models.MarvelCharacter{ID: "2", Name: "Storm", Description: "Weather witch", ThumbnailURL: "https://x/storm.jpg"}
)

func setupRepository(t *testing.T, remote RemoteDataSource) *Repository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	store := repositories.NewCharacterRepository(db)
	t.Cleanup(func() {
		store.Close()
		db.Close()
	})

	return NewRepository(datasource.NewLocalDataSource(store, nil), remote, nil)
}

// listOnly hides the search capability of a remote.
type listOnly struct{ RemoteDataSource }

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetSavedCharacter absent", func(t *testing.T) {
		remote := th.NewFakeRemote(spiderMan)
		repo := setupRepository(t, remote)

		for _, id := range []string{"1", "missing", ""} {
			res := repo.GetSavedCharacter(ctx, id)
			if !errors.Is(res.Err(), shared.ErrNotFound) {
				t.Errorf("id %q: expected ErrNotFound, got %v", id, res.Err())
			}
		}
		if remote.Calls() != 0 {
			t.Errorf("saved lookups must not touch the network, got %d calls", remote.Calls())
		}
	})

	t.Run("save round trip", func(t *testing.T) {
		repo := setupRepository(t, nil)

		for _, c := range []models.MarvelCharacter{spiderMan, storm} {
			if res := repo.SaveCharacter(ctx, c); !res.Succeeded() {
				t.Fatalf("failed to save %s: %v", c.Name, res.Err())
			}

			got := repo.GetSavedCharacter(ctx, c.ID)
			if !got.Succeeded() {
				t.Fatalf("failed to get %s: %v", c.Name, got.Err())
			}
			if diff := cmp.Diff(c, got.Value()); diff != "" {
				t.Errorf("saved character mismatch (-want +got):\n%s", diff)
			}
		}
	})

	t.Run("save then delete", func(t *testing.T) {
		repo := setupRepository(t, nil)

		repo.SaveCharacter(ctx, spiderMan)
		if res := repo.DeleteCharacter(ctx, spiderMan); !res.Succeeded() {
			t.Fatalf("failed to delete: %v", res.Err())
		}

		if res := repo.GetSavedCharacter(ctx, "1"); !errors.Is(res.Err(), shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", res.Err())
		}
		if res := repo.DeleteCharacter(ctx, spiderMan); !res.Succeeded() {
			t.Errorf("deleting again should be a no-op, got %v", res.Err())
		}
	})

	t.Run("resource url id round trip", func(t *testing.T) {
		repo := setupRepository(t, nil)
		c := models.MarvelCharacter{ID: "http://gateway.marvel.com/v1/public/characters/1009610", Name: "Spider-Man"}

		saved := repo.SaveCharacter(ctx, c)
		if !saved.Succeeded() {
			t.Fatalf("failed to save: %v", saved.Err())
		}
		if saved.Value().ID != "1009610" {
			t.Errorf("expected stored id 1009610, got %q", saved.Value().ID)
		}

		for _, id := range []string{c.ID, "1009610"} {
			got := repo.GetSavedCharacter(ctx, id)
			if !got.Succeeded() {
				t.Fatalf("id %q: failed to get: %v", id, got.Err())
			}
			if got.Value().Name != c.Name {
				t.Errorf("id %q: expected %s, got %+v", id, c.Name, got.Value())
			}
		}

		if ok, err := repo.IsSaved(ctx, c.ID); err != nil || !ok {
			t.Errorf("expected IsSaved true, got %v, %v", ok, err)
		}

		c.Description = "Friendly neighborhood"
		if res := repo.UpdateCharacter(ctx, c); !res.Succeeded() {
			t.Fatalf("failed to update: %v", res.Err())
		}

		if res := repo.DeleteCharacter(ctx, c); !res.Succeeded() {
			t.Fatalf("failed to delete: %v", res.Err())
		}
		all := repo.GetSavedCharacters(ctx)
		if !all.Succeeded() {
			t.Fatalf("failed to list: %v", all.Err())
		}
		if len(all.Value()) != 0 {
			t.Errorf("expected no saved characters after delete, got %+v", all.Value())
		}
	})

	t.Run("save twice keeps one record", func(t *testing.T) {
		repo := setupRepository(t, nil)

		repo.SaveCharacter(ctx, spiderMan)
		renamed := spiderMan
		renamed.Name = "Spider-Man (Peter Parker)"
		repo.SaveCharacter(ctx, renamed)

		all := repo.GetSavedCharacters(ctx)
		if !all.Succeeded() {
			t.Fatalf("failed to list: %v", all.Err())
		}
		if diff := cmp.Diff([]models.MarvelCharacter{renamed}, all.Value()); diff != "" {
			t.Errorf("saved list mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("UpdateCharacter", func(t *testing.T) {
		repo := setupRepository(t, nil)

		if res := repo.UpdateCharacter(ctx, spiderMan); !errors.Is(res.Err(), shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unsaved update, got %v", res.Err())
		}
	})

	t.Run("IsSaved", func(t *testing.T) {
		repo := setupRepository(t, nil)

		if saved, err := repo.IsSaved(ctx, "1"); err != nil || saved {
			t.Errorf("expected (false, nil), got (%v, %v)", saved, err)
		}
		repo.SaveCharacter(ctx, spiderMan)
		if saved, err := repo.IsSaved(ctx, "1"); err != nil || !saved {
			t.Errorf("expected (true, nil), got (%v, %v)", saved, err)
		}

		broken := NewRepository(datasource.NewLocalDataSource(&th.FailingStore{}, nil), nil, nil)
		if _, err := broken.IsSaved(ctx, "1"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})

	t.Run("GetCharacterByIDFromWeb does not persist", func(t *testing.T) {
		repo := setupRepository(t, th.NewFakeRemote(spiderMan))

		res := repo.GetCharacterByIDFromWeb(ctx, "1")
		if !res.Succeeded() {
			t.Fatalf("unexpected error: %v", res.Err())
		}
		if diff := cmp.Diff(spiderMan, res.Value()); diff != "" {
			t.Errorf("web character mismatch (-want +got):\n%s", diff)
		}

		if saved := repo.GetSavedCharacter(ctx, "1"); saved.Succeeded() {
			t.Error("web fetch must not be persisted")
		}
	})

	t.Run("GetCharacterByIDFromWeb failure", func(t *testing.T) {
		repo := setupRepository(t, th.NewFakeRemote())

		res := repo.GetCharacterByIDFromWeb(ctx, "missing-id")
		if !errors.Is(res.Err(), shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", res.Err())
		}
	})

	t.Run("no remote", func(t *testing.T) {
		repo := setupRepository(t, nil)

		if repo.HasRemote() {
			t.Error("expected no remote")
		}
		if res := repo.GetCharacterByIDFromWeb(ctx, "1"); !errors.Is(res.Err(), shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", res.Err())
		}
		if res := repo.GetCharactersFromWeb(ctx); !errors.Is(res.Err(), shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", res.Err())
		}
		if res := repo.SearchCharactersFromWeb(ctx, "spi"); !errors.Is(res.Err(), shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", res.Err())
		}
	})

	t.Run("web list and search", func(t *testing.T) {
		repo := setupRepository(t, th.NewFakeRemote(spiderMan, storm))

		list := repo.GetCharactersFromWeb(ctx)
		if !list.Succeeded() || len(list.Value()) != 2 {
			t.Fatalf("unexpected list %v", list)
		}

		found := repo.SearchCharactersFromWeb(ctx, "st")
		if !found.Succeeded() {
			t.Fatalf("unexpected error: %v", found.Err())
		}
		if diff := cmp.Diff([]models.MarvelCharacter{storm}, found.Value()); diff != "" {
			t.Errorf("search mismatch (-want +got):\n%s", diff)
		}

		plain := setupRepository(t, listOnly{th.NewFakeRemote(storm)})
		if res := plain.SearchCharactersFromWeb(ctx, "st"); !errors.Is(res.Err(), shared.ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", res.Err())
		}
	})

	t.Run("GetCharacter prefers the saved copy", func(t *testing.T) {
		remote := th.NewFakeRemote(models.MarvelCharacter{ID: "1", Name: "Web Spider-Man"})
		repo := setupRepository(t, remote)
		repo.SaveCharacter(ctx, spiderMan)

		res, saved := repo.GetCharacter(ctx, "1")
		if !saved || !res.Succeeded() || res.Value().Name != "Spider-Man" {
			t.Errorf("expected saved Spider-Man, got %v saved=%v", res, saved)
		}
		if remote.Calls() != 0 {
			t.Errorf("expected no web calls, got %d", remote.Calls())
		}
	})

	t.Run("GetCharacter falls back to web", func(t *testing.T) {
		remote := th.NewFakeRemote(spiderMan)
		repo := setupRepository(t, remote)

		res, saved := repo.GetCharacter(ctx, "1")
		if saved || !res.Succeeded() {
			t.Errorf("expected unsaved web copy, got %v saved=%v", res, saved)
		}
		if remote.Calls() != 1 {
			t.Errorf("expected one web call, got %d", remote.Calls())
		}
	})

	t.Run("GetCharacter storage failure skips web", func(t *testing.T) {
		remote := th.NewFakeRemote(spiderMan)
		repo := NewRepository(datasource.NewLocalDataSource(&th.FailingStore{}, nil), remote, nil)

		res, saved := repo.GetCharacter(ctx, "1")
		if saved || !errors.Is(res.Err(), shared.ErrStorage) {
			t.Errorf("expected storage error, got %v", res)
		}
		if remote.Calls() != 0 {
			t.Errorf("expected no web calls, got %d", remote.Calls())
		}
	})

	t.Run("ObserveSavedCharacter", func(t *testing.T) {
		repo := setupRepository(t, nil)
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stream := repo.ObserveSavedCharacter(cctx, "1")
		if first := <-stream; !errors.Is(first.Err(), shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound first, got %v", first)
		}

		repo.SaveCharacter(ctx, spiderMan)
		if second := <-stream; !second.Succeeded() || second.Value() != spiderMan {
			t.Errorf("expected Spider-Man, got %v", second)
		}
	})

	t.Run("ObserveSavedCharacters", func(t *testing.T) {
		repo := setupRepository(t, nil)
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stream := repo.ObserveSavedCharacters(cctx)
		<-stream

		repo.SaveCharacter(ctx, storm)
		got := <-stream
		if diff := cmp.Diff([]models.MarvelCharacter{storm}, got.Value()); diff != "" {
			t.Errorf("observed list mismatch (-want +got):\n%s", diff)
		}
	})
}
