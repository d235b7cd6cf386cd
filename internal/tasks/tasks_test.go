package tasks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/marvelx/internal/catalog"
	"github.com/desertthunder/marvelx/internal/datasource"
	"github.com/desertthunder/marvelx/internal/formatter"
	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/repositories"
	"github.com/desertthunder/marvelx/internal/shared"
	th "github.com/desertthunder/marvelx/internal/testing"
)

var _ Catalog = (*catalog.Repository)(nil)

type mockCatalog struct {
	mu      sync.Mutex
	web     map[string]models.MarvelCharacter
	saved   []models.MarvelCharacter
	saveErr error
	listErr error
}

func (m *mockCatalog) GetCharacterByIDFromWeb(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	if c, ok := m.web[id]; ok {
		return models.Success(c)
	}
	return models.Error[models.MarvelCharacter](shared.ErrNotFound)
}

func (m *mockCatalog) SaveCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[models.MarvelCharacter] {
	if m.saveErr != nil {
		return models.Error[models.MarvelCharacter](m.saveErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, c)
	return models.Success(c)
}

func (m *mockCatalog) GetSavedCharacters(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	if m.listErr != nil {
		return models.Error[[]models.MarvelCharacter](m.listErr)
	}
	return models.Success(m.saved)
}

func newMock(cs ...models.MarvelCharacter) *mockCatalog {
	m := &mockCatalog{web: map[string]models.MarvelCharacter{}}
	for _, c := range cs {
		m.web[c.ID] = c
	}
	return m
}

var (
	spiderMan = models.MarvelCharacter{ID: "1", Name: "Spider-Man"}
	storm     = models.MarvelCharacter{ID: "2", Name: "Storm", Description: "Weather witch"}
)

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		FetchCharacters: "fetch_characters",
		SaveCharacters:  "save_characters",
		ReadSaved:       "read_saved",
		WriteExport:     "write_export",
		Phase(99):       "",
	}
	for p, want := range tc {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports all ids", func(t *testing.T) {
		mock := newMock(spiderMan, storm)
		im := NewImporter(mock, nil)

		progress := make(chan ProgressUpdate, 16)
		summary, err := im.Import(ctx, progress, []string{"1", "2"}, ImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.Successful != 2 || summary.Failed != 0 {
			t.Errorf("expected 2 saved and 0 failed, got %+v", summary)
		}
		if summary.Results[0].ID != "1" || summary.Results[1].ID != "2" {
			t.Errorf("expected results in request order, got %+v", summary.Results)
		}
		if len(mock.saved) != 2 {
			t.Errorf("expected 2 saves, got %d", len(mock.saved))
		}

		close(progress)
		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 3 || phases[0] != FetchCharacters {
			t.Errorf("unexpected progress phases %v", phases)
		}
	})

	t.Run("partial failure", func(t *testing.T) {
		mock := newMock(spiderMan)
		im := NewImporter(mock, nil)

		summary, err := im.Import(ctx, nil, []string{"1", "missing"}, ImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Successful != 1 || summary.Failed != 1 {
			t.Errorf("expected 1 saved and 1 failed, got %+v", summary)
		}
		if !errors.Is(summary.Results[1].Error, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing id, got %v", summary.Results[1].Error)
		}
	})

	t.Run("save failure", func(t *testing.T) {
		mock := newMock(spiderMan)
		mock.saveErr = shared.ErrStorage
		im := NewImporter(mock, nil)

		summary, _ := im.Import(ctx, nil, []string{"1"}, ImportOpts{RateLimit: 1000})
		if !errors.Is(summary.Results[0].Error, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", summary.Results[0].Error)
		}
	})

	t.Run("dedupes and trims ids", func(t *testing.T) {
		im := NewImporter(newMock(spiderMan), nil)

		summary, err := im.Import(ctx, nil, []string{" 1", "1", ""}, ImportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(summary.Results) != 1 {
			t.Errorf("expected 1 result, got %d", len(summary.Results))
		}
	})

	t.Run("no ids", func(t *testing.T) {
		im := NewImporter(newMock(), nil)

		if _, err := im.Import(ctx, nil, []string{" "}, ImportOpts{}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		im := NewImporter(nil, nil)

		if _, err := im.Import(ctx, nil, []string{"1"}, ImportOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		im := NewImporter(newMock(spiderMan, storm), nil)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		summary, err := im.Import(cctx, nil, []string{"1", "2"}, ImportOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if summary == nil || summary.Failed != 2 {
			t.Errorf("expected both ids to fail, got %+v", summary)
		}
	})

	t.Run("through the repository", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		store := repositories.NewCharacterRepository(db)
		t.Cleanup(func() {
			store.Close()
			db.Close()
		})

		repo := catalog.NewRepository(datasource.NewLocalDataSource(store, nil), th.NewFakeRemote(spiderMan, storm), nil)
		im := NewImporter(repo, nil)

		if _, err := im.Import(ctx, nil, []string{"2", "1"}, ImportOpts{NumWorkers: 20, RateLimit: 1000}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, id := range []string{"1", "2"} {
			if saved, err := repo.IsSaved(ctx, id); err != nil || !saved {
				t.Errorf("expected %s saved, got (%v, %v)", id, saved, err)
			}
		}
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("writes saved characters", func(t *testing.T) {
		mock := newMock()
		mock.saved = []models.MarvelCharacter{spiderMan, storm}
		im := NewImporter(mock, nil)

		var buf bytes.Buffer
		n, err := im.Export(ctx, nil, &buf, formatter.FormatCSV)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 characters written, got %d", n)
		}
		if !strings.Contains(buf.String(), "2,Storm,Weather witch") {
			t.Errorf("unexpected CSV output:\n%s", buf.String())
		}
	})

	t.Run("read failure", func(t *testing.T) {
		mock := newMock()
		mock.listErr = shared.ErrStorage
		im := NewImporter(mock, nil)

		if _, err := im.Export(ctx, nil, &bytes.Buffer{}, formatter.FormatJSON); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		im := NewImporter(newMock(), nil)

		if _, err := im.Export(ctx, nil, &th.FWriter{}, formatter.FormatText); err == nil {
			t.Error("expected write error")
		}
	})
}
