package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/marvelx/internal/shared"
)

func TestMarvelCharacter(t *testing.T) {
	t.Run("Equal compares ids only", func(t *testing.T) {
		a := MarvelCharacter{ID: "1", Name: "Spider-Man"}
		b := MarvelCharacter{ID: "1", Name: "Peter Parker", Description: "changed"}
		c := MarvelCharacter{ID: "2", Name: "Spider-Man"}

		if !a.Equal(b) {
			t.Error("expected characters with the same id to be equal")
		}
		if a.Equal(c) {
			t.Error("expected characters with different ids to differ")
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		c := MarvelCharacter{ID: "1", Name: "Spider-Man", Description: "  "}
		if c.HasDescription() {
			t.Error("blank description should not count")
		}
		if c.HasThumbnail() {
			t.Error("empty thumbnail should not count")
		}

		c.ThumbnailURL = "https://example.com/a.jpg"
		if !c.HasThumbnail() {
			t.Error("expected thumbnail")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (MarvelCharacter{Name: "x"}).Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing id, got %v", err)
		}
		if err := (MarvelCharacter{ID: "1"}).Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing name, got %v", err)
		}
		if err := (MarvelCharacter{ID: "1", Name: "x"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCharacterID(t *testing.T) {
	tc := map[string]string{
		"1009610": "1009610",
		" 1009610 ": "1009610",
		"http://gateway.marvel.com/v1/public/characters/1009610":  "1009610",
		"http://gateway.marvel.com/v1/public/characters/1009610/": "1009610",
	}

	for in, want := range tc {
		if got := CharacterID(in); got != want {
			t.Errorf("CharacterID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResult(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := Success(MarvelCharacter{ID: "1", Name: "Spider-Man"})

		if !r.Succeeded() {
			t.Fatal("expected success")
		}
		if r.Err() != nil {
			t.Errorf("expected nil error, got %v", r.Err())
		}
		if r.Value().Name != "Spider-Man" {
			t.Errorf("expected Spider-Man, got %s", r.Value().Name)
		}
	})

	t.Run("Error", func(t *testing.T) {
		r := Error[MarvelCharacter](shared.ErrNotFound)

		if r.Succeeded() {
			t.Fatal("expected error")
		}
		if !errors.Is(r.Err(), shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", r.Err())
		}

		_, err := r.Unwrap()
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Unwrap should return the cause, got %v", err)
		}
	})

	t.Run("Value on Error panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Error[int](errors.New("boom")).Value()
	})

	t.Run("Error with nil cause panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Error[int](nil)
	})

	t.Run("FromPair", func(t *testing.T) {
		if r := FromPair(3, nil); !r.Succeeded() || r.Value() != 3 {
			t.Errorf("expected Success(3), got %v", r)
		}
		if r := FromPair(0, errors.New("boom")); r.Succeeded() {
			t.Error("expected Error")
		}
	})

	t.Run("String", func(t *testing.T) {
		if got := Success(1).String(); got != "Success(1)" {
			t.Errorf("unexpected %q", got)
		}
		if got := Error[int](errors.New("boom")).String(); got != "Error(boom)" {
			t.Errorf("unexpected %q", got)
		}
	})
}
