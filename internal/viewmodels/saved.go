package viewmodels

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

// SavedRepository is the slice of [catalog.Repository] the favorites screen needs.
type SavedRepository interface {
	ObserveSavedCharacters(ctx context.Context) <-chan models.Result[[]models.MarvelCharacter]
	DeleteCharacter(ctx context.Context, c models.MarvelCharacter) models.Result[string]
}

// SavedListState is what the favorites screen renders.
type SavedListState struct {
	Characters []models.MarvelCharacter
	Loading    bool
	Error      string
}

// SavedList keeps the favorites screen in sync with the local store.
//
// It consumes the saved-characters stream until Close; the latest emission always wins.
type SavedList struct {
	repo   SavedRepository
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.RWMutex
	state SavedListState

	changed chan struct{}
}

// NewSavedList starts observing the saved characters, scoped to parent.
func NewSavedList(parent context.Context, repo SavedRepository, logger *log.Logger) *SavedList {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &SavedList{
		repo:    repo,
		logger:  shared.WithLogger(logger, "component", "saved"),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   SavedListState{Loading: true},
		changed: make(chan struct{}, 1),
	}

	go s.run(repo.ObserveSavedCharacters(ctx))
	return s
}

func (s *SavedList) run(stream <-chan models.Result[[]models.MarvelCharacter]) {
	defer close(s.done)

	for res := range stream {
		s.mu.Lock()
		s.state.Loading = false
		if res.Succeeded() {
			s.state.Characters = res.Value()
			s.state.Error = ""
		} else {
			s.logger.Warn("saved stream error", "err", res.Err())
			s.state.Error = res.Err().Error()
		}
		s.mu.Unlock()
		s.notify()
	}
}

// State returns a snapshot of the current list state.
func (s *SavedList) State() SavedListState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	state.Characters = append([]models.MarvelCharacter(nil), s.state.Characters...)
	return state
}

// Changed signals after every state change.
func (s *SavedList) Changed() <-chan struct{} {
	return s.changed
}

// Done is closed once the underlying stream has ended.
func (s *SavedList) Done() <-chan struct{} {
	return s.done
}

// Remove unfavorites c. The list itself refreshes from the stream.
func (s *SavedList) Remove(c models.MarvelCharacter) error {
	res := s.repo.DeleteCharacter(s.ctx, c)
	if !res.Succeeded() {
		s.mu.Lock()
		s.state.Error = res.Err().Error()
		s.mu.Unlock()
		s.notify()
		return res.Err()
	}
	return nil
}

// Close cancels the subscription and waits for the stream consumer to exit.
func (s *SavedList) Close() {
	s.cancel()
	<-s.done
}

func (s *SavedList) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
