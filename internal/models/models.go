package models

import (
	"fmt"
	"path"
	"strings"

	"github.com/desertthunder/marvelx/internal/shared"
)

// MarvelCharacter is a comic character as presented to the application.
//
// ID is stable and immutable once created. Description and ThumbnailURL may be empty.
type MarvelCharacter struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
}

// Equal reports whether c and other are the same character. Identity is the ID alone.
func (c MarvelCharacter) Equal(other MarvelCharacter) bool {
	return c.ID == other.ID
}

// HasDescription reports whether the character carries a non-blank description.
func (c MarvelCharacter) HasDescription() bool {
	return strings.TrimSpace(c.Description) != ""
}

// HasThumbnail reports whether a thumbnail URL is present.
func (c MarvelCharacter) HasThumbnail() bool {
	return strings.TrimSpace(c.ThumbnailURL) != ""
}

// Validate checks the fields required for persistence.
func (c MarvelCharacter) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: character id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: character name is required", shared.ErrInvalidInput)
	}
	return nil
}

// CharacterID normalizes a character reference to its id.
//
// Resource URLs such as "http://gateway.marvel.com/v1/public/characters/1009610" resolve to their last path segment.
func CharacterID(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "/") {
		return path.Base(strings.TrimRight(ref, "/"))
	}
	return ref
}
