// Package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/repositories"
	"github.com/desertthunder/marvelx/internal/shared"
)

// FakeRemote is an in-memory test double for the Marvel API client.
//
// Set Err to make every call fail. Unknown ids fail with a 404-shaped error.
type FakeRemote struct {
	mu         sync.Mutex
	characters map[string]models.MarvelCharacter
	calls      int
	Err        error
}

// NewFakeRemote creates a FakeRemote serving cs.
func NewFakeRemote(cs ...models.MarvelCharacter) *FakeRemote {
	f := &FakeRemote{characters: make(map[string]models.MarvelCharacter)}
	for _, c := range cs {
		f.characters[c.ID] = c
	}
	return f
}

func (f *FakeRemote) FetchCharacterList(ctx context.Context) models.Result[[]models.MarvelCharacter] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.Err != nil {
		return models.Error[[]models.MarvelCharacter](f.Err)
	}
	return models.Success(f.sorted(""))
}

func (f *FakeRemote) FetchCharacterByID(ctx context.Context, id string) models.Result[models.MarvelCharacter] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err := ctx.Err(); err != nil {
		return models.Error[models.MarvelCharacter](err)
	}
	if f.Err != nil {
		return models.Error[models.MarvelCharacter](f.Err)
	}
	c, ok := f.characters[models.CharacterID(id)]
	if !ok {
		return models.Error[models.MarvelCharacter](
			fmt.Errorf("%w: %w: status 404: character %s", shared.ErrNetwork, shared.ErrNotFound, id),
		)
	}
	return models.Success(c)
}

func (f *FakeRemote) SearchCharacters(ctx context.Context, query string) models.Result[[]models.MarvelCharacter] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.Err != nil {
		return models.Error[[]models.MarvelCharacter](f.Err)
	}
	return models.Success(f.sorted(query))
}

// Calls returns how many fetches were made.
func (f *FakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeRemote) sorted(prefix string) []models.MarvelCharacter {
	out := []models.MarvelCharacter{}
	for _, c := range f.characters {
		if strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(prefix)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ErrDisk is the default failure returned by [FailingStore].
var ErrDisk = errors.New("disk I/O error")

// FailingStore is a store whose every operation fails with Err, or panics when Panic is set.
type FailingStore struct {
	Err   error
	Panic bool
}

func (s *FailingStore) fail() error {
	if s.Panic {
		panic("database disk image is malformed")
	}
	if s.Err != nil {
		return s.Err
	}
	return ErrDisk
}

func (s *FailingStore) Get(ctx context.Context, id string) (*repositories.CharacterRecord, error) {
	return nil, s.fail()
}

func (s *FailingStore) List(ctx context.Context, criteria map[string]any) ([]*repositories.CharacterRecord, error) {
	return nil, s.fail()
}

func (s *FailingStore) Insert(ctx context.Context, rec *repositories.CharacterRecord) error {
	return s.fail()
}

func (s *FailingStore) Update(ctx context.Context, rec *repositories.CharacterRecord) error {
	return s.fail()
}

func (s *FailingStore) Delete(ctx context.Context, id string) error {
	return s.fail()
}

func (s *FailingStore) Watch(ctx context.Context, id string) (<-chan struct{}, error) {
	return nil, s.fail()
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
