// Package models defines the domain entities shared by every layer of marvelx.
//
// The package contains two kinds of types:
//
// 1. Domain entities: what the rest of the application sees
//   - [MarvelCharacter] : a comic character identified by a stable id
//
// 2. Outcomes: the value every data-layer operation returns instead of panicking across a call boundary
//   - [Result] : a Success or an Error, never both
//
// Storage encodings live in the repositories package and never leave the datasource package.
package models
