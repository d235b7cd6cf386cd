package services

import (
	"context"

	"github.com/desertthunder/marvelx/internal/models"
)

// Service defines a remote provider of character data.
//
// Failures are returned as the Error variant of [models.Result], never as panics.
type Service interface {
	// FetchCharacterList retrieves the first page of characters.
	FetchCharacterList(ctx context.Context) models.Result[[]models.MarvelCharacter]

	// FetchCharacterByID retrieves one character by id or resource URL.
	FetchCharacterByID(ctx context.Context, id string) models.Result[models.MarvelCharacter]

	// SearchCharacters retrieves characters whose name starts with query.
	SearchCharacters(ctx context.Context, query string) models.Result[[]models.MarvelCharacter]

	// Name returns the name of the service (e.g., "Marvel")
	Name() string
}

var _ Service = (*MarvelService)(nil)
